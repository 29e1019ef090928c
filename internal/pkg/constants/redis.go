package constants

// Redis key formats
const (
	// Idempotency
	KeyIdempotency = "payment:idempotency:%s:%s" // Format: payment:idempotency:{provider}:{key}
)

// Idempotency record states
const (
	IdempotencyInProgress = "in_progress"
	IdempotencyAbandoned  = "abandoned"
)
