package utils

// ErrorResponse is the failure envelope every handler returns. Success is
// always false here; it exists so clients can branch on one field.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
