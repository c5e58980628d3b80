package portal

// ErrorCode defines error types for portal API operations
type ErrorCode string

const (
	// ErrRequestFailed represents transport-level failures against the portal
	ErrRequestFailed ErrorCode = "PortalRequestFailed"
	// ErrInvalidResponse represents an unexpected response shape
	ErrInvalidResponse ErrorCode = "PortalInvalidResponse"
	// ErrNotFound represents a 404 from the portal
	ErrNotFound ErrorCode = "PortalNotFound"
	// ErrNoCountryReport represents a country with no published report
	ErrNoCountryReport ErrorCode = "NoCountryReport"
	// ErrGraphQL represents a query rejected by the GraphQL endpoint
	ErrGraphQL ErrorCode = "PortalGraphQLError"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
