package port

import (
	"context"
	"zillow-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

type CrawlReporterPort interface {
	ReportResult(ctx context.Context, runID uuid.UUID, result *domain.CrawlResult) error
}
