package rabbitmq

import (
	"context"
	"fmt"

	"zillow-parser-service/internal/contextkeys"
	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/port"
	"zillow-parser-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/google/uuid"
)

// CrawlReporterAdapter отправляет итог обхода в очередь уведомлений
type CrawlReporterAdapter struct {
	producer   MessagePublisher
	routingKey string
}

func NewCrawlReporterAdapter(producer MessagePublisher, routingKey string) (*CrawlReporterAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &CrawlReporterAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *CrawlReporterAdapter) ReportResult(ctx context.Context, runID uuid.UUID, result *domain.CrawlResult) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "CrawlReporterAdapter",
		"routing_key": a.routingKey,
		"run_id":      runID.String(),
	})

	if result == nil {
		return fmt.Errorf("rabbitmq adapter: crawl result cannot be nil")
	}

	msg, err := rabbitmq_producer.NewJSONMessage(toCrawlResultDTO(runID, result), traceHeaders(ctx))
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to build crawl report: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	adapterLogger.Info("Publishing crawl report", port.Fields{"state": string(result.State)})
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish crawl report", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish report for run %s: %w", runID, err)
	}

	adapterLogger.Info("Successfully published crawl report", nil)
	return nil
}
