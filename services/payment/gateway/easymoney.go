package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/piresc/paygate/internal/pkg/models"
)

type easyMoneyPayload struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

// EasyMoneyAdapter talks to EasyMoney, which settles payments synchronously
type EasyMoneyAdapter struct {
	client   HTTPPoster
	endpoint string
}

// NewEasyMoneyAdapter creates a new EasyMoney adapter
func NewEasyMoneyAdapter(client HTTPPoster, endpoint string) *EasyMoneyAdapter {
	return &EasyMoneyAdapter{
		client:   client,
		endpoint: endpoint,
	}
}

func (a *EasyMoneyAdapter) Provider() models.Provider {
	return models.ProviderEasyMoney
}

func (a *EasyMoneyAdapter) Endpoint() string {
	return a.endpoint
}

// Initiate processes the payment. A 2xx reply settles it as success.
func (a *EasyMoneyAdapter) Initiate(ctx context.Context, req models.PaymentRequest) (*models.ProviderResult, error) {
	payload, err := json.Marshal(easyMoneyPayload{
		Amount:   json.Number(req.Amount.String()),
		Currency: req.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal easymoney payload: %w", err)
	}

	resp, err := send(ctx, a.client, a.Provider(), a.endpoint, payload)
	if err != nil {
		return nil, err
	}

	return &models.ProviderResult{
		Success:       true,
		Status:        models.TransactionStatusSuccess,
		TransactionID: externalID(resp.Body),
		Payload:       payload,
		RawResponse:   resp.Body,
		Summary:       "success",
	}, nil
}
