package constants

// NATS Subjects
const (
	// Transaction lifecycle
	SubjectTransactionCreated       = "payment.transaction.created"
	SubjectTransactionStatusChanged = "payment.transaction.status_changed"
)
