package usecases_port

import (
	"context"
	"zillow-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

type CrawlSearchPort interface {
	Execute(ctx context.Context, initialCriteria domain.SearchCriteria, runID uuid.UUID) (*domain.CrawlResult, error)
}
