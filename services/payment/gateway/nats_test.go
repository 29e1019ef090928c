package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/piresc/paygate/internal/pkg/constants"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type recordingPublisher struct {
	messages []published
	err      error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{subject: subject, data: data})
	return nil
}

func testTransaction(status models.TransactionStatus) *models.Transaction {
	id := "sw999"
	return &models.Transaction{
		ID:            uuid.New(),
		Amount:        decimal.NewFromInt(100),
		Currency:      "USD",
		Provider:      models.ProviderSuperWalletz,
		Status:        status,
		TransactionID: &id,
	}
}

func TestNATSGateway_PublishTransactionCreated(t *testing.T) {
	pub := &recordingPublisher{}
	gw := NewNATSGateway(pub)
	txn := testTransaction(models.TransactionStatusPending)

	require.NoError(t, gw.PublishTransactionCreated(context.Background(), txn))

	require.Len(t, pub.messages, 1)
	assert.Equal(t, constants.SubjectTransactionCreated, pub.messages[0].subject)

	var event models.TransactionEvent
	require.NoError(t, json.Unmarshal(pub.messages[0].data, &event))
	assert.Equal(t, txn.ID, event.ID)
	assert.Equal(t, models.TransactionStatusPending, event.Status)
	assert.Empty(t, event.PreviousStatus)
	assert.True(t, txn.Amount.Equal(event.Amount))
	assert.Equal(t, "sw999", *event.TransactionID)
}

func TestNATSGateway_PublishTransactionStatusChanged(t *testing.T) {
	pub := &recordingPublisher{}
	gw := NewNATSGateway(pub)
	txn := testTransaction(models.TransactionStatusFailed)

	require.NoError(t, gw.PublishTransactionStatusChanged(context.Background(), txn, models.TransactionStatusPending))

	require.Len(t, pub.messages, 1)
	assert.Equal(t, constants.SubjectTransactionStatusChanged, pub.messages[0].subject)

	var event models.TransactionEvent
	require.NoError(t, json.Unmarshal(pub.messages[0].data, &event))
	assert.Equal(t, models.TransactionStatusFailed, event.Status)
	assert.Equal(t, models.TransactionStatusPending, event.PreviousStatus)
}

func TestNATSGateway_PublishError(t *testing.T) {
	gw := NewNATSGateway(&recordingPublisher{err: errors.New("connection closed")})

	err := gw.PublishTransactionCreated(context.Background(), testTransaction(models.TransactionStatusSuccess))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), constants.SubjectTransactionCreated)
}

func TestNATSGateway_NoPublisher(t *testing.T) {
	gw := NewNATSGateway(nil)
	assert.NoError(t, gw.PublishTransactionCreated(context.Background(), testTransaction(models.TransactionStatusSuccess)))
}
