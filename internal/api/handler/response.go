package handler

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Error  string            `json:"error" example:"invalid token"`
	Fields map[string]string `json:"fields,omitempty"`
}
