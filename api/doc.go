// Package api holds the session layer of the explorer: the country
// directory, the archival search session and the blog search session. It
// mediates between user intent and the remote EHRI services, keeping query
// state and the fetched result pages consistent.
package api

// ErrorCode defines error types for session operations
type ErrorCode string

const (
	// ErrUnknownCountry represents a country selection outside the directory
	ErrUnknownCountry ErrorCode = "UnknownCountry"
	// ErrDirectoryLoad represents a failure to load the country directory
	ErrDirectoryLoad ErrorCode = "DirectoryLoadError"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
