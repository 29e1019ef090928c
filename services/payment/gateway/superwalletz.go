package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/piresc/paygate/services/payment"
)

type superWalletzPayload struct {
	Amount      json.Number `json:"amount"`
	Currency    string      `json:"currency"`
	CallbackURL string      `json:"callback_url"`
}

// SuperWalletzAdapter talks to SuperWalletz, which accepts payments and settles them later by webhook
type SuperWalletzAdapter struct {
	client   HTTPPoster
	endpoint string
}

// NewSuperWalletzAdapter creates a new SuperWalletz adapter
func NewSuperWalletzAdapter(client HTTPPoster, endpoint string) *SuperWalletzAdapter {
	return &SuperWalletzAdapter{
		client:   client,
		endpoint: endpoint,
	}
}

func (a *SuperWalletzAdapter) Provider() models.Provider {
	return models.ProviderSuperWalletz
}

func (a *SuperWalletzAdapter) Endpoint() string {
	return a.endpoint
}

// Initiate submits the payment. The transaction stays pending until the webhook
// arrives, so the provider id is required to correlate it.
func (a *SuperWalletzAdapter) Initiate(ctx context.Context, req models.PaymentRequest) (*models.ProviderResult, error) {
	payload, err := json.Marshal(superWalletzPayload{
		Amount:      json.Number(req.Amount.String()),
		Currency:    req.Currency,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal superwalletz payload: %w", err)
	}

	resp, err := send(ctx, a.client, a.Provider(), a.endpoint, payload)
	if err != nil {
		return nil, err
	}

	id := externalID(resp.Body)
	if id == nil {
		return nil, &payment.ProviderError{
			Kind:       payment.ProviderRejected,
			Provider:   a.Provider(),
			StatusCode: resp.StatusCode,
			Details:    resp.Body,
			Err:        errors.New("response has no transaction_id"),
		}
	}

	return &models.ProviderResult{
		Success:       true,
		Status:        models.TransactionStatusPending,
		TransactionID: id,
		Payload:       payload,
		RawResponse:   resp.Body,
		Summary:       string(resp.Body),
	}, nil
}
