package cli

// ErrorCode defines error types for CLI operations
type ErrorCode string

const (
	UnknownLayer ErrorCode = "UnknownLayer"
	RenderFailed ErrorCode = "RenderFailed"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
