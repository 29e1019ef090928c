package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/piresc/paygate/internal/pkg/models"
)

var (
	// ErrTransactionNotFound is returned by the store when no transaction matches a lookup
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrDuplicateExternalID is returned when a provider reuses a transaction_id
	ErrDuplicateExternalID = errors.New("transaction_id already recorded for provider")
	// ErrMalformedWebhook is returned when a webhook body lacks a usable status or transaction_id
	ErrMalformedWebhook = errors.New("malformed webhook payload")
	// ErrDuplicateRequest is returned while another request with the same Idempotency-Key is in flight
	ErrDuplicateRequest = errors.New("a request with this idempotency key is already being processed")
	// ErrIdempotencyKeyAbandoned is returned for a key whose request reached the provider but was never recorded
	ErrIdempotencyKeyAbandoned = errors.New("idempotency key belongs to a request that could not be recorded")
	// ErrUnknownProvider is returned when no adapter is registered for a provider
	ErrUnknownProvider = errors.New("unknown provider")
)

// ValidationError carries field-level messages for a rejected request
type ValidationError struct {
	Details map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Details))
}

// ProviderErrorKind distinguishes transport failures from explicit provider refusals
type ProviderErrorKind string

const (
	ProviderUnavailable ProviderErrorKind = "provider_unavailable"
	ProviderRejected    ProviderErrorKind = "provider_rejected"
)

// ProviderError is returned by an adapter when the provider call did not produce a usable result
type ProviderError struct {
	Kind       ProviderErrorKind
	Provider   models.Provider
	StatusCode int
	// Details is the raw provider body when one was received.
	Details json.RawMessage
	Err     error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Kind, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Provider, e.Kind, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s", e.Provider, e.Kind)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ResponseDetails is what the caller sees in the "details" field. Non-JSON provider
// bodies are returned as a string; an empty body becomes null.
func (e *ProviderError) ResponseDetails() interface{} {
	if len(e.Details) == 0 {
		if e.Err != nil {
			return e.Err.Error()
		}
		return nil
	}
	if json.Valid(e.Details) {
		return e.Details
	}
	return string(e.Details)
}

// InternalError wraps any unexpected failure. Only Message reaches the caller.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// NewInternalError builds an InternalError whose message is the diagnostic text of err
func NewInternalError(err error) *InternalError {
	return &InternalError{Message: err.Error(), Err: err}
}
