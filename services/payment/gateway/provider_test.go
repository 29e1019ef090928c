package gateway

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/piresc/paygate/internal/pkg/circuitbreaker"
	httpclient "github.com/piresc/paygate/internal/pkg/http"
	"github.com/piresc/paygate/internal/pkg/logger"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/piresc/paygate/services/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient() *httpclient.EnhancedClient {
	core, _ := observer.New(zapcore.DebugLevel)
	return httpclient.NewEnhancedClient(httpclient.Config{
		Timeout: time.Second,
		Breaker: circuitbreaker.DefaultConfig(),
	}, logger.NewZapLoggerFromCore("test", core))
}

// providerServer replies with status and body and captures the request body
func providerServer(t *testing.T, status int, body string, captured *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if captured != nil {
			*captured = string(raw)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func closedURL(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	return "http://" + addr + "/process"
}

func providerError(t *testing.T, err error) *payment.ProviderError {
	t.Helper()
	var perr *payment.ProviderError
	require.True(t, errors.As(err, &perr), "expected ProviderError, got %v", err)
	return perr
}

func TestEasyMoneyAdapter_Initiate(t *testing.T) {
	t.Run("success with transaction id", func(t *testing.T) {
		var sent string
		server := providerServer(t, http.StatusOK, `{"transaction_id":"em123"}`, &sent)
		adapter := NewEasyMoneyAdapter(newTestClient(), server.URL)

		result, err := adapter.Initiate(context.Background(), models.PaymentRequest{
			Amount:   decimal.NewFromInt(100),
			Currency: "USD",
		})

		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":100,"currency":"USD"}`, sent)
		assert.True(t, result.Success)
		assert.Equal(t, models.TransactionStatusSuccess, result.Status)
		require.NotNil(t, result.TransactionID)
		assert.Equal(t, "em123", *result.TransactionID)
		assert.Equal(t, "success", result.Summary)
		assert.JSONEq(t, sent, string(result.Payload))
	})

	t.Run("success without transaction id", func(t *testing.T) {
		server := providerServer(t, http.StatusOK, `{"status":"ok"}`, nil)
		adapter := NewEasyMoneyAdapter(newTestClient(), server.URL)

		result, err := adapter.Initiate(context.Background(), models.PaymentRequest{Amount: decimal.NewFromInt(5), Currency: "EUR"})

		require.NoError(t, err)
		assert.Nil(t, result.TransactionID)
		assert.Equal(t, models.TransactionStatusSuccess, result.Status)
	})

	t.Run("provider rejects", func(t *testing.T) {
		server := providerServer(t, http.StatusBadRequest, `{"error":"decimals not supported"}`, nil)
		adapter := NewEasyMoneyAdapter(newTestClient(), server.URL)

		result, err := adapter.Initiate(context.Background(), models.PaymentRequest{Amount: decimal.NewFromInt(5), Currency: "EUR"})

		assert.Nil(t, result)
		perr := providerError(t, err)
		assert.Equal(t, payment.ProviderRejected, perr.Kind)
		assert.Equal(t, models.ProviderEasyMoney, perr.Provider)
		assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
		assert.JSONEq(t, `{"error":"decimals not supported"}`, string(perr.Details))
	})

	t.Run("provider unreachable", func(t *testing.T) {
		adapter := NewEasyMoneyAdapter(newTestClient(), closedURL(t))

		_, err := adapter.Initiate(context.Background(), models.PaymentRequest{Amount: decimal.NewFromInt(5), Currency: "EUR"})

		perr := providerError(t, err)
		assert.Equal(t, payment.ProviderUnavailable, perr.Kind)
		assert.Error(t, perr.Err)
	})

	t.Run("metadata", func(t *testing.T) {
		adapter := NewEasyMoneyAdapter(newTestClient(), "http://easymoney.local/process")
		assert.Equal(t, models.ProviderEasyMoney, adapter.Provider())
		assert.Equal(t, "http://easymoney.local/process", adapter.Endpoint())
	})
}

func TestSuperWalletzAdapter_Initiate(t *testing.T) {
	req := models.PaymentRequest{
		Amount:      decimal.RequireFromString("10.50"),
		Currency:    "USD",
		CallbackURL: "https://merchant.example.com/cb",
	}

	t.Run("accepted", func(t *testing.T) {
		var sent string
		server := providerServer(t, http.StatusOK, `{"transaction_id":"sw999"}`, &sent)
		adapter := NewSuperWalletzAdapter(newTestClient(), server.URL)

		result, err := adapter.Initiate(context.Background(), req)

		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":10.5,"currency":"USD","callback_url":"https://merchant.example.com/cb"}`, sent)
		assert.Equal(t, models.TransactionStatusPending, result.Status)
		require.NotNil(t, result.TransactionID)
		assert.Equal(t, "sw999", *result.TransactionID)
		assert.JSONEq(t, `{"transaction_id":"sw999"}`, result.Summary)
	})

	t.Run("numeric transaction id", func(t *testing.T) {
		server := providerServer(t, http.StatusOK, `{"transaction_id":42}`, nil)
		adapter := NewSuperWalletzAdapter(newTestClient(), server.URL)

		result, err := adapter.Initiate(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "42", *result.TransactionID)
	})

	t.Run("accepted without transaction id", func(t *testing.T) {
		server := providerServer(t, http.StatusOK, `{}`, nil)
		adapter := NewSuperWalletzAdapter(newTestClient(), server.URL)

		_, err := adapter.Initiate(context.Background(), req)

		perr := providerError(t, err)
		assert.Equal(t, payment.ProviderRejected, perr.Kind)
		assert.Equal(t, models.ProviderSuperWalletz, perr.Provider)
	})

	t.Run("provider error status", func(t *testing.T) {
		server := providerServer(t, http.StatusServiceUnavailable, `{"error":"maintenance"}`, nil)
		adapter := NewSuperWalletzAdapter(newTestClient(), server.URL)

		_, err := adapter.Initiate(context.Background(), req)

		perr := providerError(t, err)
		assert.Equal(t, payment.ProviderRejected, perr.Kind)
		assert.Equal(t, http.StatusServiceUnavailable, perr.StatusCode)
	})
}

func TestNewProviderAdapters(t *testing.T) {
	cfg := models.ProvidersConfig{Endpoints: map[models.Provider]models.ProviderEndpoint{
		models.ProviderEasyMoney:    {URL: "http://em/process"},
		models.ProviderSuperWalletz: {URL: "http://sw/pay"},
	}}

	adapters := NewProviderAdapters(newTestClient(), cfg)

	require.Len(t, adapters, 2)
	assert.Equal(t, models.ProviderEasyMoney, adapters[0].Provider())
	assert.Equal(t, "http://em/process", adapters[0].Endpoint())
	assert.Equal(t, models.ProviderSuperWalletz, adapters[1].Provider())
	assert.Equal(t, "http://sw/pay", adapters[1].Endpoint())
}

func TestExternalID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *string
	}{
		{name: "string", body: `{"transaction_id":"abc"}`, want: strPtr("abc")},
		{name: "number", body: `{"transaction_id":7}`, want: strPtr("7")},
		{name: "blank", body: `{"transaction_id":"  "}`},
		{name: "null", body: `{"transaction_id":null}`},
		{name: "missing", body: `{}`},
		{name: "not json", body: `ok`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, externalID([]byte(tt.body)))
		})
	}
}

func strPtr(s string) *string { return &s }
