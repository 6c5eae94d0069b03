package sinks

import (
	"context"

	"zillow-parser-service/internal/contextkeys"
	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/port"

	"github.com/google/uuid"
)

// LogReporterAdapter пишет итог обхода в лог, когда брокер не настроен
type LogReporterAdapter struct{}

func NewLogReporterAdapter() *LogReporterAdapter {
	return &LogReporterAdapter{}
}

func (a *LogReporterAdapter) ReportResult(ctx context.Context, runID uuid.UUID, result *domain.CrawlResult) error {
	if result == nil {
		return nil
	}
	fields := port.Fields{
		"component":       "LogReporterAdapter",
		"run_id":          runID.String(),
		"state":           string(result.State),
		"total_count":     result.TotalCount,
		"per_page":        result.PerPage,
		"pages_processed": result.PagesProcessed,
		"listings_saved":  result.ListingsSaved,
		"last_page":       result.LastPage,
		"duration":        result.FinishedAt.Sub(result.StartedAt).String(),
	}

	logger := contextkeys.LoggerFromContext(ctx)
	if result.State == domain.CrawlStateStalled {
		fields["status_code"] = result.StatusCode
		logger.Warn("Crawl report", fields)
		return nil
	}
	logger.Info("Crawl report", fields)
	return nil
}
