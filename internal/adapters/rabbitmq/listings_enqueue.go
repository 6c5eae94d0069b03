package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"zillow-parser-service/internal/contextkeys"
	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/port"
	"zillow-parser-service/pkg/rabbitmq/rabbitmq_producer"
)

const listingsSource = "zillow"

// RabbitMQListingsQueueAdapter публикует записи каждой страницы одним сообщением
type RabbitMQListingsQueueAdapter struct {
	producer   MessagePublisher
	routingKey string
}

// NewRabbitMQListingsQueueAdapter создает новый экземпляр
func NewRabbitMQListingsQueueAdapter(producer MessagePublisher, routingKey string) (*RabbitMQListingsQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &RabbitMQListingsQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// Save реализует ListingSinkPort. Пустая страница не публикуется.
func (a *RabbitMQListingsQueueAdapter) Save(ctx context.Context, listings []domain.ListingRecord) error {
	if len(listings) == 0 {
		return nil
	}

	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "RabbitMQListingsQueueAdapter",
		"routing_key": a.routingKey,
	})

	msg, err := rabbitmq_producer.NewJSONMessage(ListingsBatchDTO{
		Source:   listingsSource,
		Count:    len(listings),
		Listings: listings,
		SentAt:   time.Now().UTC(),
	}, traceHeaders(ctx))
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to build listings message: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish listings", err, port.Fields{"count": len(listings)})
		return fmt.Errorf("rabbitmq adapter: failed to publish %d listings: %w", len(listings), err)
	}

	adapterLogger.Debug("Listings published", port.Fields{"count": len(listings)})
	return nil
}
