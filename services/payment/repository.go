package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/piresc/paygate/internal/pkg/models"
)

// TransactionStore persists transactions and their audit trail
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/paygate/services/payment TransactionStore,IdempotencyStore
type TransactionStore interface {
	// RecordTransaction writes the transaction and its request log in one commit
	RecordTransaction(ctx context.Context, txn *models.Transaction, requestLog *models.RequestLog) error
	FindByExternalID(ctx context.Context, provider models.Provider, transactionID string) (*models.Transaction, error)
	// UpdateStatus moves a pending transaction to status and reports whether this call won
	UpdateStatus(ctx context.Context, txn *models.Transaction, status models.TransactionStatus) (bool, error)
	RecordWebhook(ctx context.Context, webhook *models.Webhook) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

// IdempotencyStore tracks Idempotency-Key headers of initiation requests.
// Claim returns (nil, nil) when the key is now owned by the caller, the stored
// result when the key already completed, ErrDuplicateRequest while in flight and
// ErrIdempotencyKeyAbandoned once the key was abandoned.
type IdempotencyStore interface {
	Claim(ctx context.Context, provider models.Provider, key string) (*models.OrchestrationResult, error)
	Complete(ctx context.Context, provider models.Provider, key string, result *models.OrchestrationResult) error
	// Release frees the key; only safe while the provider has not been charged
	Release(ctx context.Context, provider models.Provider, key string) error
	// Abandon blocks the key for the completed TTL when the provider accepted
	// the payment but its outcome could not be recorded
	Abandon(ctx context.Context, provider models.Provider, key string) error
}
