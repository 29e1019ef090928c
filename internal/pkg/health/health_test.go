package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/piresc/paygate/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type stubConn struct{ connected bool }

func (s stubConn) IsConnected() bool { return s.connected }

func newTestService() *HealthService {
	core, _ := observer.New(zapcore.DebugLevel)
	return NewHealthService(logger.NewZapLoggerFromCore("test", core))
}

func TestCheckers(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewPostgresHealthChecker(stubPinger{}).CheckHealth(ctx))
	assert.Error(t, NewRedisHealthChecker(stubPinger{err: errors.New("down")}).CheckHealth(ctx))
	assert.NoError(t, NewPostgresHealthChecker(nil).CheckHealth(ctx))

	assert.NoError(t, NewNATSHealthChecker(stubConn{connected: true}).CheckHealth(ctx))
	assert.Error(t, NewNATSHealthChecker(stubConn{connected: false}).CheckHealth(ctx))
	assert.NoError(t, NewNATSHealthChecker(nil).CheckHealth(ctx))
}

func TestCheckAllHealth(t *testing.T) {
	svc := newTestService()
	svc.AddChecker("postgres", NewPostgresHealthChecker(stubPinger{}))
	svc.AddChecker("redis", NewRedisHealthChecker(stubPinger{err: errors.New("connection refused")}))

	resp := svc.CheckAllHealth(context.Background())

	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, StatusHealthy, resp.Dependencies["postgres"].Status)
	assert.Equal(t, "connection refused", resp.Dependencies["redis"].Error)
}

func TestRegisterHealthEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		redisErr   error
		wantStatus int
		wantBody   string
	}{
		{"basic", "/health", nil, http.StatusOK, "ok"},
		{"live", "/health/live", errors.New("down"), http.StatusOK, "alive"},
		{"ready", "/health/ready", nil, http.StatusOK, "ready"},
		{"not ready", "/health/ready", errors.New("down"), http.StatusServiceUnavailable, StatusUnhealthy},
		{"detailed healthy", "/health/detailed", nil, http.StatusOK, StatusHealthy},
		{"detailed unhealthy", "/health/detailed", errors.New("down"), http.StatusServiceUnavailable, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			svc.AddChecker("redis", NewRedisHealthChecker(stubPinger{err: tt.redisErr}))

			e := echo.New()
			RegisterHealthEndpoints(e, "payment-gateway", "1.0.0", svc)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body["status"])
			assert.Equal(t, "payment-gateway", body["service"])
		})
	}
}

func TestDetailedHealth_IncludesStats(t *testing.T) {
	svc := newTestService()
	svc.AddChecker("postgres", NewPostgresHealthChecker(stubPinger{}))
	svc.AddStats("provider_circuit_breakers", func() interface{} {
		return map[string]string{"easymoney:3000": "open"}
	})

	e := echo.New()
	RegisterHealthEndpoints(e, "payment-gateway", "1.0.0", svc)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string                       `json:"status"`
		Stats  map[string]map[string]string `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusHealthy, body.Status)
	assert.Equal(t, "open", body.Stats["provider_circuit_breakers"]["easymoney:3000"])
}

func TestCollectStats_EmptyIsNil(t *testing.T) {
	assert.Nil(t, newTestService().CollectStats())
}
