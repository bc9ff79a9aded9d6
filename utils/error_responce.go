package utils

// ErrorResponse is the body returned for authentication failures, pairing a
// user-facing message with the underlying error string.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
