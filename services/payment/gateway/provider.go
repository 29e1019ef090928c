package gateway

import (
	"context"
	"encoding/json"
	"strings"

	httpclient "github.com/piresc/paygate/internal/pkg/http"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/piresc/paygate/services/payment"
)

// HTTPPoster is the subset of the enhanced HTTP client the adapters need
type HTTPPoster interface {
	PostJSON(ctx context.Context, rawURL string, body []byte) (*httpclient.Response, error)
}

// NewProviderAdapters builds one adapter per configured provider
func NewProviderAdapters(client HTTPPoster, cfg models.ProvidersConfig) []payment.ProviderAdapter {
	return []payment.ProviderAdapter{
		NewEasyMoneyAdapter(client, cfg.Endpoint(models.ProviderEasyMoney)),
		NewSuperWalletzAdapter(client, cfg.Endpoint(models.ProviderSuperWalletz)),
	}
}

// send posts payload and classifies the outcome. A nil error means the provider
// answered with a 2xx status.
func send(ctx context.Context, client HTTPPoster, provider models.Provider, endpoint string, payload []byte) (*httpclient.Response, error) {
	resp, err := client.PostJSON(ctx, endpoint, payload)
	if err != nil {
		return nil, &payment.ProviderError{Kind: payment.ProviderUnavailable, Provider: provider, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &payment.ProviderError{
			Kind:       payment.ProviderRejected,
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Details:    resp.Body,
		}
	}
	return resp, nil
}

// externalID pulls transaction_id out of a provider reply. Providers may send it
// as a string or a number; anything else counts as absent.
func externalID(body []byte) *string {
	var reply struct {
		TransactionID json.RawMessage `json:"transaction_id"`
	}
	if err := json.Unmarshal(body, &reply); err != nil || len(reply.TransactionID) == 0 {
		return nil
	}

	var id string
	if err := json.Unmarshal(reply.TransactionID, &id); err != nil {
		var n json.Number
		if err := json.Unmarshal(reply.TransactionID, &n); err != nil {
			return nil
		}
		id = n.String()
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}
