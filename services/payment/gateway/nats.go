package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/piresc/paygate/internal/pkg/constants"
	"github.com/piresc/paygate/internal/pkg/models"
)

// NATSPublisher interface for publishing messages
type NATSPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSGateway publishes transaction events. With no publisher every call is a no-op.
type NATSGateway struct {
	publisher NATSPublisher
}

// NewNATSGateway creates a new NATS gateway
func NewNATSGateway(publisher NATSPublisher) *NATSGateway {
	return &NATSGateway{
		publisher: publisher,
	}
}

// PublishTransactionCreated publishes a transaction created event to NATS
func (g *NATSGateway) PublishTransactionCreated(ctx context.Context, txn *models.Transaction) error {
	return g.publish(constants.SubjectTransactionCreated, newTransactionEvent(txn, ""))
}

// PublishTransactionStatusChanged publishes a status change event to NATS
func (g *NATSGateway) PublishTransactionStatusChanged(ctx context.Context, txn *models.Transaction, previous models.TransactionStatus) error {
	return g.publish(constants.SubjectTransactionStatusChanged, newTransactionEvent(txn, previous))
}

func (g *NATSGateway) publish(subject string, event models.TransactionEvent) error {
	if g.publisher == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event: %w", err)
	}

	if err := g.publisher.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

func newTransactionEvent(txn *models.Transaction, previous models.TransactionStatus) models.TransactionEvent {
	return models.TransactionEvent{
		ID:             txn.ID,
		Provider:       txn.Provider,
		TransactionID:  txn.TransactionID,
		Amount:         txn.Amount,
		Currency:       txn.Currency,
		Status:         txn.Status,
		PreviousStatus: previous,
		Timestamp:      time.Now().UTC(),
	}
}
