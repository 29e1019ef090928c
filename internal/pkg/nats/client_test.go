package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("invalid address", func(t *testing.T) {
		client, err := NewClient("invalid://address", "payment-gateway")
		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "failed to connect to NATS server")
	})

	t.Run("unreachable server", func(t *testing.T) {
		client, err := NewClient("nats://127.0.0.1:1", "payment-gateway")
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}

func TestClient_NilConnection(t *testing.T) {
	c := &Client{}
	assert.False(t, c.IsConnected())
	assert.NotPanics(t, c.Close)
}
