package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Provider identifies the payment provider that created a transaction
type Provider string

const (
	ProviderEasyMoney    Provider = "EasyMoney"
	ProviderSuperWalletz Provider = "SuperWalletz"
)

// Providers lists every supported provider.
var Providers = []Provider{ProviderEasyMoney, ProviderSuperWalletz}

func (p Provider) String() string {
	return string(p)
}

// TransactionStatus represents the lifecycle state of a transaction
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// ParseTransactionStatus maps a raw status string onto the closed set of statuses.
func ParseTransactionStatus(raw string) (TransactionStatus, bool) {
	switch TransactionStatus(raw) {
	case TransactionStatusPending, TransactionStatusSuccess, TransactionStatusFailed:
		return TransactionStatus(raw), true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transition is defined from s.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}

// Transaction represents a payment initiated through one of the providers
type Transaction struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	Amount        decimal.Decimal   `json:"amount" db:"amount"`
	Currency      string            `json:"currency" db:"currency"`
	Provider      Provider          `json:"provider" db:"provider"`
	Status        TransactionStatus `json:"status" db:"status"`
	TransactionID *string           `json:"transaction_id" db:"transaction_id"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// ExternalID returns the provider-assigned id or "" when the provider sent none.
func (t *Transaction) ExternalID() string {
	if t.TransactionID == nil {
		return ""
	}
	return *t.TransactionID
}

// RequestLog is an append-only audit record of one outbound provider call
type RequestLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Provider  Provider  `json:"provider" db:"provider"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	Payload   string    `json:"payload" db:"payload"`
	Response  string    `json:"response" db:"response"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Webhook is an append-only audit record of one inbound provider callback
type Webhook struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Provider  Provider  `json:"provider" db:"provider"`
	Payload   string    `json:"payload" db:"payload"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
