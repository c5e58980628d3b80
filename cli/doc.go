// Package cli implements the command-line interface for ehri-explorer.
//
// The cli package provides:
// - Command-line argument parsing and validation
// - Markdown rendering of portal, blog and geodata results
// - An interactive archival search view
// - Browser integration for portal and map links
package cli
