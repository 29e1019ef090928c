package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/piresc/paygate/internal/pkg/logger"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/piresc/paygate/services/payment"
)

const (
	MessageWebhookReceived  = "Webhook received successfully"
	MessageWebhookMalformed = "Webhook payload is malformed"
	messageNotFoundFormat   = "Transaction not found for transaction_id: %s"
)

// webhookUC implements the payment.WebhookUC interface
type webhookUC struct {
	cfg    *models.Config
	store  payment.TransactionStore
	events payment.EventPublisher
}

// NewWebhookUC creates a new webhook use case
func NewWebhookUC(
	cfg *models.Config,
	store payment.TransactionStore,
	events payment.EventPublisher,
) (payment.WebhookUC, error) {
	return &webhookUC{
		cfg:    cfg,
		store:  store,
		events: events,
	}, nil
}

// HandleWebhook records the callback and applies its status to the matching
// transaction. Only store failures are returned as errors; every other case
// produces an outcome the provider can be acknowledged with.
func (uc *webhookUC) HandleWebhook(ctx context.Context, provider models.Provider, raw []byte) (*models.WebhookOutcome, error) {
	if err := uc.store.RecordWebhook(ctx, &models.Webhook{Provider: provider, Payload: string(raw)}); err != nil {
		logger.ErrorCtx(ctx, "Failed to record webhook",
			logger.String("provider", provider.String()),
			logger.Err(err))
		return nil, payment.NewInternalError(err)
	}

	status, transactionID, err := parseWebhook(raw)
	if err != nil {
		logger.WarnCtx(ctx, "Ignoring malformed webhook",
			logger.String("provider", provider.String()),
			logger.Err(err))
		return &models.WebhookOutcome{Kind: models.WebhookMalformed, Message: MessageWebhookMalformed}, nil
	}

	txn, err := uc.store.FindByExternalID(ctx, provider, transactionID)
	if err != nil {
		if errors.Is(err, payment.ErrTransactionNotFound) {
			message := fmt.Sprintf(messageNotFoundFormat, transactionID)
			logger.ErrorCtx(ctx, message, logger.String("provider", provider.String()))
			return &models.WebhookOutcome{Kind: models.WebhookNotFound, Message: message}, nil
		}
		logger.ErrorCtx(ctx, "Failed to look up transaction",
			logger.String("provider", provider.String()),
			logger.String("transaction_id", transactionID),
			logger.Err(err))
		return nil, payment.NewInternalError(err)
	}

	if txn.Status.IsTerminal() {
		return uc.settled(ctx, txn, status), nil
	}

	previous := txn.Status
	updated, err := uc.store.UpdateStatus(ctx, txn, status)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to update transaction status",
			logger.Stringer("id", txn.ID),
			logger.String("status", string(status)),
			logger.Err(err))
		return nil, payment.NewInternalError(err)
	}
	if !updated {
		// a concurrent delivery settled it first; classify against what it stored
		current, err := uc.store.GetTransaction(ctx, txn.ID)
		if err != nil {
			logger.ErrorCtx(ctx, "Failed to reload transaction after concurrent update",
				logger.Stringer("id", txn.ID),
				logger.Err(err))
			return nil, payment.NewInternalError(err)
		}
		logger.InfoCtx(ctx, "Transaction already settled by a concurrent webhook",
			logger.Stringer("id", current.ID),
			logger.String("transaction_id", transactionID),
			logger.String("current_status", string(current.Status)))
		return uc.settled(ctx, current, status), nil
	}

	if err := uc.events.PublishTransactionStatusChanged(ctx, txn, previous); err != nil {
		logger.WarnCtx(ctx, "Failed to publish status changed event",
			logger.Stringer("id", txn.ID),
			logger.Err(err))
	}

	logger.InfoCtx(ctx, "Transaction settled by webhook",
		logger.Stringer("id", txn.ID),
		logger.String("provider", provider.String()),
		logger.String("transaction_id", transactionID),
		logger.String("status", string(status)))

	return &models.WebhookOutcome{Kind: models.WebhookApplied, Message: MessageWebhookReceived, Status: status}, nil
}

func (uc *webhookUC) settled(ctx context.Context, txn *models.Transaction, status models.TransactionStatus) *models.WebhookOutcome {
	if txn.Status == status {
		logger.InfoCtx(ctx, "Duplicate webhook for settled transaction",
			logger.Stringer("id", txn.ID),
			logger.String("status", string(status)))
		return &models.WebhookOutcome{Kind: models.WebhookDuplicate, Message: MessageWebhookReceived, Status: txn.Status}
	}

	logger.WarnCtx(ctx, "Webhook conflicts with settled transaction",
		logger.Stringer("id", txn.ID),
		logger.String("current_status", string(txn.Status)),
		logger.String("webhook_status", string(status)))
	return &models.WebhookOutcome{Kind: models.WebhookIgnored, Message: MessageWebhookReceived, Status: txn.Status}
}

// parseWebhook extracts a terminal status and a transaction id from raw
func parseWebhook(raw []byte) (models.TransactionStatus, string, error) {
	var body struct {
		Status        string          `json:"status"`
		TransactionID json.RawMessage `json:"transaction_id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", "", fmt.Errorf("%w: %v", payment.ErrMalformedWebhook, err)
	}

	status, ok := models.ParseTransactionStatus(strings.ToLower(strings.TrimSpace(body.Status)))
	if !ok || !status.IsTerminal() {
		return "", "", fmt.Errorf("%w: unsupported status %q", payment.ErrMalformedWebhook, body.Status)
	}

	transactionID := decodeID(body.TransactionID)
	if transactionID == "" {
		return "", "", fmt.Errorf("%w: missing transaction_id", payment.ErrMalformedWebhook)
	}
	return status, transactionID, nil
}

func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return strings.TrimSpace(id)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
