package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/piresc/paygate/internal/pkg/logger"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/piresc/paygate/internal/pkg/validation"
	"github.com/piresc/paygate/services/payment"
)

const (
	MessagePaymentProcessed = "Payment processed successfully"
	MessagePaymentInitiated = "Payment initiated successfully"
	DataSuccessfully        = "Successfully"
)

// paymentUC implements the payment.PaymentUC interface
type paymentUC struct {
	cfg         *models.Config
	store       payment.TransactionStore
	idempotency payment.IdempotencyStore
	events      payment.EventPublisher
	adapters    map[models.Provider]payment.ProviderAdapter
}

// NewPaymentUC creates a new payment use case. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewPaymentUC(
	cfg *models.Config,
	store payment.TransactionStore,
	idempotency payment.IdempotencyStore,
	events payment.EventPublisher,
	adapters ...payment.ProviderAdapter,
) (payment.PaymentUC, error) {
	registry := make(map[models.Provider]payment.ProviderAdapter, len(adapters))
	for _, adapter := range adapters {
		provider := adapter.Provider()
		if _, exists := registry[provider]; exists {
			return nil, fmt.Errorf("duplicate adapter for provider %s", provider)
		}
		registry[provider] = adapter
	}

	return &paymentUC{
		cfg:         cfg,
		store:       store,
		idempotency: idempotency,
		events:      events,
		adapters:    registry,
	}, nil
}

// Pay validates input, calls its provider and records the outcome
func (uc *paymentUC) Pay(ctx context.Context, input models.PaymentInput, idempotencyKey string) (*models.OrchestrationResult, error) {
	if err := validation.Struct(input); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return nil, &payment.ValidationError{Details: verr.Fields}
		}
		return nil, payment.NewInternalError(err)
	}

	provider := input.Provider()
	adapter, ok := uc.adapters[provider]
	if !ok {
		return nil, &payment.InternalError{
			Message: fmt.Sprintf("no adapter registered for provider %s", provider),
			Err:     payment.ErrUnknownProvider,
		}
	}

	req := input.PaymentRequest()
	if !uc.idempotencyEnabled(idempotencyKey) {
		providerResult, err := uc.callProvider(ctx, adapter, req)
		if err != nil {
			return nil, err
		}
		return uc.record(ctx, adapter, req, providerResult)
	}

	stored, err := uc.idempotency.Claim(ctx, provider, idempotencyKey)
	if err != nil {
		if errors.Is(err, payment.ErrDuplicateRequest) || errors.Is(err, payment.ErrIdempotencyKeyAbandoned) {
			return nil, err
		}
		return nil, payment.NewInternalError(err)
	}
	if stored != nil {
		logger.InfoCtx(ctx, "Replaying stored payment result",
			logger.String("provider", provider.String()),
			logger.String("idempotency_key", idempotencyKey))
		return stored, nil
	}

	providerResult, err := uc.callProvider(ctx, adapter, req)
	if err != nil {
		// the provider did not accept the payment, so the key may be reused
		if releaseErr := uc.idempotency.Release(ctx, provider, idempotencyKey); releaseErr != nil {
			logger.WarnCtx(ctx, "Failed to release idempotency key",
				logger.String("idempotency_key", idempotencyKey),
				logger.Err(releaseErr))
		}
		return nil, err
	}

	result, err := uc.record(ctx, adapter, req, providerResult)
	if err != nil {
		// the provider accepted the payment; a retry must not charge it again
		if abandonErr := uc.idempotency.Abandon(ctx, provider, idempotencyKey); abandonErr != nil {
			logger.ErrorCtx(ctx, "Failed to abandon idempotency key",
				logger.String("idempotency_key", idempotencyKey),
				logger.Err(abandonErr))
		}
		return nil, err
	}

	if err := uc.idempotency.Complete(ctx, provider, idempotencyKey, result); err != nil {
		logger.WarnCtx(ctx, "Failed to store idempotent payment result",
			logger.String("idempotency_key", idempotencyKey),
			logger.Err(err))
	}
	return result, nil
}

func (uc *paymentUC) idempotencyEnabled(key string) bool {
	return key != "" && uc.idempotency != nil && (uc.cfg == nil || uc.cfg.Idempotency.Enabled)
}

func (uc *paymentUC) callProvider(ctx context.Context, adapter payment.ProviderAdapter, req models.PaymentRequest) (*models.ProviderResult, error) {
	provider := adapter.Provider()

	providerResult, err := adapter.Initiate(ctx, req)
	if err != nil {
		var perr *payment.ProviderError
		if errors.As(err, &perr) {
			logger.WarnCtx(ctx, "Provider did not accept payment",
				logger.String("provider", provider.String()),
				logger.String("kind", string(perr.Kind)),
				logger.Int("status_code", perr.StatusCode),
				logger.Err(err))
			return nil, perr
		}
		logger.ErrorCtx(ctx, "Provider adapter failed",
			logger.String("provider", provider.String()),
			logger.Err(err))
		return nil, payment.NewInternalError(err)
	}
	return providerResult, nil
}

// record persists an accepted payment and builds the caller response
func (uc *paymentUC) record(ctx context.Context, adapter payment.ProviderAdapter, req models.PaymentRequest, providerResult *models.ProviderResult) (*models.OrchestrationResult, error) {
	provider := adapter.Provider()

	txn := &models.Transaction{
		ID:            uuid.New(),
		Amount:        req.Amount,
		Currency:      req.Currency,
		Provider:      provider,
		Status:        providerResult.Status,
		TransactionID: providerResult.TransactionID,
	}
	requestLog := &models.RequestLog{
		ID:       uuid.New(),
		Provider: provider,
		Endpoint: adapter.Endpoint(),
		Payload:  string(providerResult.Payload),
		Response: providerResult.Summary,
	}

	if err := uc.store.RecordTransaction(ctx, txn, requestLog); err != nil {
		logger.ErrorCtx(ctx, "Failed to record transaction",
			logger.String("provider", provider.String()),
			logger.String("transaction_id", txn.ExternalID()),
			logger.Err(err))
		return nil, payment.NewInternalError(err)
	}

	if err := uc.events.PublishTransactionCreated(ctx, txn); err != nil {
		logger.WarnCtx(ctx, "Failed to publish transaction created event",
			logger.Stringer("id", txn.ID),
			logger.Err(err))
	}

	logger.InfoCtx(ctx, "Payment recorded",
		logger.Stringer("id", txn.ID),
		logger.String("provider", provider.String()),
		logger.String("status", string(txn.Status)),
		logger.String("transaction_id", txn.ExternalID()))

	if txn.Status == models.TransactionStatusPending {
		return &models.OrchestrationResult{
			Message:       MessagePaymentInitiated,
			TransactionID: txn.TransactionID,
			Transaction:   txn.ID,
		}, nil
	}
	return &models.OrchestrationResult{
		Message:     MessagePaymentProcessed,
		Data:        DataSuccessfully,
		Transaction: txn.ID,
	}, nil
}

// GetTransaction returns a stored transaction by its gateway id
func (uc *paymentUC) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	txn, err := uc.store.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, payment.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, payment.NewInternalError(err)
	}
	return txn, nil
}
