// Package mcp implements the Model Context Protocol server for
// ehri-explorer.
//
// The mcp package provides:
// - MCP server implementation for external tool integration
// - Portal and blog search exposed as MCP tools
// - Tool argument decoding and validation
package mcp
