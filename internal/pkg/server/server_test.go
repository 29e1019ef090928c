package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/paygate/internal/pkg/logger"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testLogger() *logger.ZapLogger {
	core, _ := observer.New(zapcore.DebugLevel)
	return logger.NewZapLoggerFromCore("test", core)
}

func freePort(t *testing.T) int {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestNewGracefulServer_AppliesTimeouts(t *testing.T) {
	e := echo.New()
	s := NewGracefulServer(e, testLogger(), models.ServerConfig{Port: 8080, ReadTimeout: 5, WriteTimeout: 7, ShutdownTimeout: 3})

	assert.Equal(t, ":8080", s.addr)
	assert.Equal(t, 5*time.Second, e.Server.ReadTimeout)
	assert.Equal(t, 7*time.Second, e.Server.WriteTimeout)
	assert.Equal(t, 3*time.Second, s.shutdownTimeout)
}

func TestGracefulServer_RunStopsOnCancel(t *testing.T) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	port := freePort(t)
	s := NewGracefulServer(e, testLogger(), models.ServerConfig{Host: "127.0.0.1", Port: port, ShutdownTimeout: 2})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return e.ListenerAddr() != nil
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + e.ListenerAddr().String() + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestShutdownManager_ReverseOrderAndJoinedErrors(t *testing.T) {
	sm := NewShutdownManager(testLogger())

	var order []string
	boom := errors.New("boom")
	sm.Register("postgres", func(ctx context.Context) error { order = append(order, "postgres"); return nil })
	sm.Register("redis", func(ctx context.Context) error { order = append(order, "redis"); return boom })
	sm.Register("nats", func(ctx context.Context) error { order = append(order, "nats"); return nil })

	err := sm.Shutdown(context.Background())

	assert.Equal(t, []string{"nats", "redis", "postgres"}, order)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "redis")
}

func TestShutdownManager_Empty(t *testing.T) {
	assert.NoError(t, NewShutdownManager(testLogger()).Shutdown(context.Background()))
}
