package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zillow-parser-service/internal/contextkeys"
	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/port"

	"github.com/google/uuid"
)

// CrawlSearchUseCase обходит все страницы поиска: запрос, разбор, сохранение, пауза, следующая страница
type CrawlSearchUseCase struct {
	fetcher  port.ZillowFetcherPort
	sink     port.ListingSinkPort
	reporter port.CrawlReporterPort
	interval time.Duration

	// wait ждет d или отмены контекста; подменяется в тестах
	wait func(ctx context.Context, d time.Duration) error
	now  func() time.Time
}

// NewCrawlSearchUseCase создает новый экземпляр CrawlSearchUseCase
func NewCrawlSearchUseCase(
	fetcher port.ZillowFetcherPort,
	sink port.ListingSinkPort,
	reporter port.CrawlReporterPort,
	interval time.Duration,
) *CrawlSearchUseCase {
	return &CrawlSearchUseCase{
		fetcher:  fetcher,
		sink:     sink,
		reporter: reporter,
		interval: interval,
		wait:     waitInterval,
		now:      time.Now,
	}
}

// Execute запускает обход с первой страницы и возвращает итог.
// Неуспешный HTTP статус завершает обход состоянием CrawlStateStalled без ошибки.
func (uc *CrawlSearchUseCase) Execute(ctx context.Context, initialCriteria domain.SearchCriteria, runID uuid.UUID) (*domain.CrawlResult, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CrawlSearch",
		"run_id":   runID.String(),
	})
	ucLogger.Info("Starting search crawl", port.Fields{"term": initialCriteria.Term, "interval": uc.interval.String()})

	result := &domain.CrawlResult{StartedAt: uc.now()}

	criteria := initialCriteria
	criteria.Page = 1

	for {
		if err := ctx.Err(); err != nil {
			ucLogger.Warn("Crawl interrupted", port.Fields{"page": criteria.Page})
			return nil, err
		}

		pageLogger := ucLogger.WithFields(port.Fields{"page": criteria.Page})
		pageCtx := contextkeys.ContextWithLogger(ctx, pageLogger)
		pageLogger.Debug("Fetching page", nil)

		page, err := uc.fetcher.FetchPage(pageCtx, criteria)
		if err != nil {
			var httpErr *domain.HTTPError
			if errors.As(err, &httpErr) {
				pageLogger.Error("Search API rejected the request, crawl stalled", err, port.Fields{
					"status":   httpErr.StatusCode,
					"endpoint": httpErr.Endpoint(),
					"body":     httpErr.Body,
				})
				result.State = domain.CrawlStateStalled
				result.StatusCode = httpErr.StatusCode
				result.LastPage = criteria.Page
				uc.finish(ctx, ucLogger, runID, result)
				return result, nil
			}
			pageLogger.Error("Error fetching page", err, nil)
			return nil, fmt.Errorf("use case: error fetching page %d: %w", criteria.Page, err)
		}

		if err := uc.sink.Save(pageCtx, page.Listings); err != nil {
			pageLogger.Error("Error saving listings", err, port.Fields{"count": len(page.Listings)})
			return nil, fmt.Errorf("use case: error saving page %d: %w", criteria.Page, err)
		}

		result.PagesProcessed++
		result.ListingsSaved += len(page.Listings)
		result.LastPage = criteria.Page
		result.TotalCount = page.TotalCount
		result.NextPage = page.NextPage
		if criteria.Page == 1 {
			result.PerPage = page.PerPage
		}

		pageLogger.Info("Page saved", port.Fields{
			"listings":      len(page.Listings),
			"saved_total":   result.ListingsSaved,
			"total_count":   page.TotalCount,
			"has_next_page": page.HasNextPage(),
		})

		if !page.HasNextPage() {
			break
		}

		pageLogger.Debug("Waiting before next page", port.Fields{"interval": uc.interval.String()})
		if err := uc.wait(ctx, uc.interval); err != nil {
			ucLogger.Warn("Crawl interrupted while waiting", port.Fields{"page": criteria.Page})
			return nil, err
		}
		criteria.Page++
	}

	result.State = domain.CrawlStateDone
	uc.finish(ctx, ucLogger, runID, result)
	return result, nil
}

// finish фиксирует время окончания и отправляет отчет. Ошибка отчета только логируется.
func (uc *CrawlSearchUseCase) finish(ctx context.Context, logger port.LoggerPort, runID uuid.UUID, result *domain.CrawlResult) {
	result.FinishedAt = uc.now()

	logger.Info("Crawl finished", port.Fields{
		"state":           string(result.State),
		"pages_processed": result.PagesProcessed,
		"listings_saved":  result.ListingsSaved,
		"total_count":     result.TotalCount,
		"per_page":        result.PerPage,
	})

	if uc.reporter == nil {
		return
	}
	if err := uc.reporter.ReportResult(ctx, runID, result); err != nil {
		logger.Error("Failed to report crawl result", err, nil)
	}
}

func waitInterval(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
