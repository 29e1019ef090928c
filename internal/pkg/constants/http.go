package constants

// HTTP headers
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestID      = "X-Request-ID"
)

// Echo context keys
const (
	ContextKeyRequestID = "request_id"
)
