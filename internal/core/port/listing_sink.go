package port

import (
	"context"
	"zillow-parser-service/internal/core/domain"
)

// ListingSinkPort определяет контракт для сохранения записей одной страницы
type ListingSinkPort interface {
	Save(ctx context.Context, listings []domain.ListingRecord) error
}
