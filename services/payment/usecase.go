package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/piresc/paygate/internal/pkg/models"
)

// PaymentUC defines payment initiation business logic
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/paygate/services/payment PaymentUC,WebhookUC
type PaymentUC interface {
	Pay(ctx context.Context, input models.PaymentInput, idempotencyKey string) (*models.OrchestrationResult, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

// WebhookUC defines provider callback reconciliation
type WebhookUC interface {
	HandleWebhook(ctx context.Context, provider models.Provider, raw []byte) (*models.WebhookOutcome, error)
}
