package domain

import "fmt"

// Error type URIs used in the problem-details body
const (
	ErrorTypeValidation   = "https://fieldserve.dev/errors/validation"
	ErrorTypeBadRequest   = "https://fieldserve.dev/errors/bad-request"
	ErrorTypeUnauthorized = "https://fieldserve.dev/errors/unauthorized"
	ErrorTypeForbidden    = "https://fieldserve.dev/errors/forbidden"
	ErrorTypeNotFound     = "https://fieldserve.dev/errors/not-found"
	ErrorTypeConflict     = "https://fieldserve.dev/errors/conflict"
	ErrorTypeGone         = "https://fieldserve.dev/errors/gone"
	ErrorTypeInternal     = "https://fieldserve.dev/errors/internal"
)

// APIError is the uniform problem-details error body returned by all
// handlers (RFC 7807).
type APIError struct {
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// NewAPIError creates a new APIError
func NewAPIError(status int, title, detail string) *APIError {
	return &APIError{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	}
}
