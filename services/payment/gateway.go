package payment

import (
	"context"

	"github.com/piresc/paygate/internal/pkg/models"
)

// ProviderAdapter translates a normalized payment request into one provider's HTTP contract
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/paygate/services/payment ProviderAdapter,EventPublisher
type ProviderAdapter interface {
	Provider() models.Provider
	Endpoint() string
	Initiate(ctx context.Context, req models.PaymentRequest) (*models.ProviderResult, error)
}

// EventPublisher announces transaction lifecycle changes to other services
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, txn *models.Transaction) error
	PublishTransactionStatusChanged(ctx context.Context, txn *models.Transaction, previous models.TransactionStatus) error
}
