package rabbitmq

import (
	"context"
	"time"

	"zillow-parser-service/internal/contextkeys"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publishTimeout ограничивает публикацию, если контекст не задает свой дедлайн
const publishTimeout = 10 * time.Second

// MessagePublisher - то, что адаптерам нужно от rabbitmq_producer.Publisher
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// traceHeaders возвращает заголовки сообщения с x-trace-id из контекста
func traceHeaders(ctx context.Context) amqp.Table {
	headers := amqp.Table{}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		headers["x-trace-id"] = traceID
	}
	return headers
}
