package port

import (
	"context"
	"zillow-parser-service/internal/core/domain"
)

// ZillowFetcherPort - операции, которые можно выполнить с поисковым API Zillow.
type ZillowFetcherPort interface {
	// FetchPage запрашивает одну страницу поиска и возвращает разобранный результат.
	// Неуспешный HTTP статус возвращается как *domain.HTTPError.
	FetchPage(ctx context.Context, criteria domain.SearchCriteria) (*domain.PageResult, error)
}
