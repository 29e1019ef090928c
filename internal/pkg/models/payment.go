package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentInput is a provider-specific initiation request as received from the caller.
// Each implementation carries its own validation tags.
type PaymentInput interface {
	Provider() Provider
	PaymentRequest() PaymentRequest
}

// EasyMoneyRequest is the caller payload for POST /easy-money
type EasyMoneyRequest struct {
	Amount   *decimal.Decimal `json:"amount" validate:"required,decimal_digits=14,decimal_integer,decimal_gte=1"`
	Currency string           `json:"currency" validate:"required,min=3"`
}

func (r EasyMoneyRequest) Provider() Provider { return ProviderEasyMoney }

func (r EasyMoneyRequest) PaymentRequest() PaymentRequest {
	return PaymentRequest{Amount: amountOrZero(r.Amount), Currency: r.Currency}
}

// SuperWalletzRequest is the caller payload for POST /super-walletz
type SuperWalletzRequest struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required,decimal_digits=14,decimal_scale=4,decimal_gte=1"`
	Currency    string           `json:"currency" validate:"required,max=3"`
	CallbackURL string           `json:"callback_url" validate:"required,url"`
}

func (r SuperWalletzRequest) Provider() Provider { return ProviderSuperWalletz }

func (r SuperWalletzRequest) PaymentRequest() PaymentRequest {
	return PaymentRequest{Amount: amountOrZero(r.Amount), Currency: r.Currency, CallbackURL: r.CallbackURL}
}

func amountOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// PaymentRequest is the normalized, already validated request handed to a provider adapter
type PaymentRequest struct {
	Amount      decimal.Decimal
	Currency    string
	CallbackURL string
}

// ProviderResult is the normalized outcome of an accepted provider call
type ProviderResult struct {
	Success       bool
	Status        TransactionStatus
	TransactionID *string
	// Payload is the exact body sent to the provider.
	Payload json.RawMessage
	// RawResponse is the provider body as received.
	RawResponse json.RawMessage
	// Summary is what gets written to the request log response column.
	Summary string
}

// OrchestrationResult is returned to the caller after a payment has been persisted
type OrchestrationResult struct {
	Message       string    `json:"message"`
	Data          string    `json:"data,omitempty"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	Transaction   uuid.UUID `json:"-"`
}

// WebhookOutcomeKind classifies how an inbound webhook was handled
type WebhookOutcomeKind string

const (
	WebhookApplied   WebhookOutcomeKind = "applied"
	WebhookDuplicate WebhookOutcomeKind = "duplicate"
	WebhookIgnored   WebhookOutcomeKind = "ignored"
	WebhookNotFound  WebhookOutcomeKind = "not_found"
	WebhookMalformed WebhookOutcomeKind = "malformed"
)

// WebhookOutcome is the acknowledgment produced for every webhook
type WebhookOutcome struct {
	Kind    WebhookOutcomeKind
	Message string
	Status  TransactionStatus
}

// TransactionEvent is published whenever a transaction is created or changes status
type TransactionEvent struct {
	ID             uuid.UUID         `json:"id"`
	Provider       Provider          `json:"provider"`
	TransactionID  *string           `json:"transaction_id,omitempty"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	Status         TransactionStatus `json:"status"`
	PreviousStatus TransactionStatus `json:"previous_status,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
}
