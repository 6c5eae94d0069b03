package rabbitmq_producer

import (
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONMessage(t *testing.T) {
	msg, err := NewJSONMessage(map[string]int{"pages": 2}, amqp.Table{"x-trace-id": "t1"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "t1", msg.Headers["x-trace-id"])
	assert.False(t, msg.Timestamp.IsZero())

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, 2, decoded["pages"])
}

func TestNewJSONMessage_Unmarshalable(t *testing.T) {
	_, err := NewJSONMessage(make(chan int), nil)
	assert.Error(t, err)
}

func TestNewPublisher_Validation(t *testing.T) {
	_, err := NewPublisher(PublisherConfig{}, nil)
	assert.Error(t, err)

	cfg := PublisherConfig{DeclareExchangeIfMissing: true, ExchangeName: "parser_exchange"}
	cfg.URL = "amqp://localhost:5672/"
	_, err = NewPublisher(cfg, nil)
	assert.Error(t, err)
}
