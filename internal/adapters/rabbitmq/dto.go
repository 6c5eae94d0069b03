package rabbitmq

import (
	"time"

	"zillow-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

// ListingsBatchDTO - записи одной страницы поиска
type ListingsBatchDTO struct {
	Source   string                 `json:"source"`
	Count    int                    `json:"count"`
	Listings []domain.ListingRecord `json:"listings"`
	SentAt   time.Time              `json:"sent_at"`
}

// CrawlResultDTO - итог обхода для notify.crawl.result
type CrawlResultDTO struct {
	RunID          uuid.UUID `json:"run_id"`
	State          string    `json:"state"`
	TotalCount     int       `json:"total_count"`
	PerPage        int       `json:"per_page"`
	PagesProcessed int       `json:"pages_processed"`
	ListingsSaved  int       `json:"listings_saved"`
	LastPage       int       `json:"last_page"`
	StatusCode     int       `json:"status_code,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

func toCrawlResultDTO(runID uuid.UUID, result *domain.CrawlResult) CrawlResultDTO {
	return CrawlResultDTO{
		RunID:          runID,
		State:          string(result.State),
		TotalCount:     result.TotalCount,
		PerPage:        result.PerPage,
		PagesProcessed: result.PagesProcessed,
		ListingsSaved:  result.ListingsSaved,
		LastPage:       result.LastPage,
		StatusCode:     result.StatusCode,
		StartedAt:      result.StartedAt,
		FinishedAt:     result.FinishedAt,
	}
}
