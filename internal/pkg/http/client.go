package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/piresc/paygate/internal/pkg/circuitbreaker"
	"github.com/piresc/paygate/internal/pkg/logger"
	nrpkg "github.com/piresc/paygate/internal/pkg/newrelic"
	"github.com/piresc/paygate/internal/pkg/retry"
)

// Config controls timeouts, retries and breaking for outbound calls
type Config struct {
	Timeout time.Duration
	// Retries only apply to connection failures where no request reached the remote side.
	MaxRetries int
	Breaker    circuitbreaker.Config
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPError carries a 5xx response through the breaker so it counts as a failure
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server error: status %d", e.StatusCode)
}

// EnhancedClient wraps http.Client with retry and circuit breaker functionality
type EnhancedClient struct {
	client         *http.Client
	retrier        *retry.Retrier
	circuitManager *circuitbreaker.Manager
	logger         *logger.ZapLogger
}

// NewEnhancedClient creates a new enhanced HTTP client
func NewEnhancedClient(cfg Config, log *logger.ZapLogger) *EnhancedClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.MaxRetries
	retryCfg.Retryable = retry.IsConnectionError

	return &EnhancedClient{
		client:         &http.Client{Timeout: cfg.Timeout},
		retrier:        retry.New(retryCfg, log),
		circuitManager: circuitbreaker.NewManager(cfg.Breaker, log),
		logger:         log,
	}
}

// PostJSON sends body to rawURL and reads the whole response. Any status is
// returned as a Response. An error means no usable response was obtained:
// transport failure, timeout or an open circuit.
func (c *EnhancedClient) PostJSON(ctx context.Context, rawURL string, body []byte) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	breaker := u.Host
	if breaker == "" {
		breaker = "unknown"
	}

	var out *Response
	err = c.circuitManager.Execute(ctx, breaker, func(ctx context.Context) error {
		return c.retrier.Execute(ctx, func(ctx context.Context) error {
			resp, err := c.post(ctx, rawURL, body)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 500 {
				return &HTTPError{StatusCode: resp.StatusCode, Body: resp.Body}
			}
			out = resp
			return nil
		})
	})

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return &Response{StatusCode: httpErr.StatusCode, Body: httpErr.Body}, nil
	}
	if err != nil {
		c.logger.Warn("Outbound request failed",
			logger.String("url", rawURL),
			logger.Err(err))
		return nil, err
	}
	return out, nil
}

func (c *EnhancedClient) post(ctx context.Context, rawURL string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := nrpkg.InstrumentHTTPRequest(ctx, req, func() (*http.Response, error) {
		return c.client.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// CircuitBreakerStats reports the state of every per-host breaker
func (c *EnhancedClient) CircuitBreakerStats() map[string]circuitbreaker.Stats {
	return c.circuitManager.GetStats()
}
