package handlers

const (
	StatusOK    = "ok"
	StatusError = "error"

	ErrInvalidJSON         = "Invalid JSON body"
	ErrUnauthorized        = "Unauthorized"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
	ErrStreamUnsupported   = "Streaming unsupported"

	maxBodyBytes = 1 << 20
)
