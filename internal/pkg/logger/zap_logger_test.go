package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogHTTPRequest_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
		msg    string
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel, "Request processed"},
		{"client error", http.StatusBadRequest, zapcore.WarnLevel, "Client error"},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			zl := NewZapLoggerFromCore("gateway-test", core)

			zl.LogHTTPRequest(nil, http.MethodPost, "/easy-money", "127.0.0.1", "req-1", tt.status, 5*time.Millisecond, nil)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.msg, entry.Message)
			ctx := entry.ContextMap()
			assert.Equal(t, "gateway-test", ctx["service"])
			assert.Equal(t, "/easy-money", ctx["path"])
			assert.Equal(t, "req-1", ctx["request_id"])
		})
	}
}

func TestZapEchoMiddleware_LogsFinalStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	zl := NewZapLoggerFromCore("gateway-test", core)

	e := echo.New()
	e.Use(ZapEchoMiddleware(zl))
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, errors.New("down"))
	})

	req := httptest.NewRequest(http.MethodGet, "/boom?x=1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "/boom?x=1", entry.ContextMap()["path"])
}

func TestInitZapLoggerFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gateway.log")
	configs := &models.Config{
		App:    models.AppConfig{Name: "payment-gateway"},
		Logger: models.LoggerConfig{Level: "debug", FilePath: path, Type: "file"},
	}

	zl, err := InitZapLoggerFromConfig(configs, nil)
	require.NoError(t, err)
	defer zl.Close()

	assert.Equal(t, path, zl.GetFilePath())
	zl.Info("hello")
	assert.FileExists(t, path)
}

func TestGlobalLogger_FallbackWhenUnset(t *testing.T) {
	SetGlobalLogger(nil)
	assert.NotNil(t, GetGlobalLogger())

	core, logs := observer.New(zapcore.InfoLevel)
	SetGlobalLogger(NewZapLoggerFromCore("gateway-test", core))
	defer SetGlobalLogger(nil)

	Info("payment initiated", String("provider", "EasyMoney"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "EasyMoney", logs.All()[0].ContextMap()["provider"])
}
