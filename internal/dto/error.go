package dto

// ErrorResponse is the body of every 4xx/5xx JSON reply.
type ErrorResponse struct {
	Message string `json:"message"`
}
