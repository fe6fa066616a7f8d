package errors

// ErrorResponse is the JSON body of every failed relay request, including a refused upgrade
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	// raw error text; replaced by a generic message when ENVIRONMENT=production
	Details string `json:"details,omitempty"`
}

// result of classifyError: a log category plus the text that may reach a client
type classified struct {
	category  string
	sanitized string
}
