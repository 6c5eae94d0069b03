package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"zillow-parser-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	pages    map[int]*domain.PageResult
	errs     map[int]error
	requests []int
}

func (f *fakeFetcher) FetchPage(_ context.Context, criteria domain.SearchCriteria) (*domain.PageResult, error) {
	f.requests = append(f.requests, criteria.Page)
	if err, ok := f.errs[criteria.Page]; ok {
		return nil, err
	}
	page, ok := f.pages[criteria.Page]
	if !ok {
		return nil, fmt.Errorf("unexpected page %d", criteria.Page)
	}
	return page, nil
}

type fakeSink struct {
	batches [][]domain.ListingRecord
	err     error
}

func (s *fakeSink) Save(_ context.Context, listings []domain.ListingRecord) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, listings)
	return nil
}

type fakeReporter struct {
	results []*domain.CrawlResult
	runIDs  []uuid.UUID
	err     error
}

func (r *fakeReporter) ReportResult(_ context.Context, runID uuid.UUID, result *domain.CrawlResult) error {
	r.runIDs = append(r.runIDs, runID)
	r.results = append(r.results, result)
	return r.err
}

func listings(n int, prefix string) []domain.ListingRecord {
	out := make([]domain.ListingRecord, n)
	for i := range out {
		out[i] = domain.ListingRecord{"zpid": fmt.Sprintf("%s-%d", prefix, i)}
	}
	return out
}

func newTestUseCase(fetcher *fakeFetcher, sink *fakeSink, reporter *fakeReporter) (*CrawlSearchUseCase, *[]time.Duration) {
	uc := NewCrawlSearchUseCase(fetcher, sink, reporter, 5*time.Second)
	var waits []time.Duration
	uc.wait = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return uc, &waits
}

func TestCrawlSearch_TwoPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*domain.PageResult{
		1: {Listings: listings(10, "p1"), PerPage: 10, TotalCount: 14, NextPage: "/2_p/"},
		2: {Listings: listings(5, "p2"), PerPage: 40, TotalCount: 15},
	}}
	sink := &fakeSink{}
	reporter := &fakeReporter{}
	uc, waits := newTestUseCase(fetcher, sink, reporter)
	runID := uuid.New()

	result, err := uc.Execute(context.Background(), domain.SearchCriteria{Term: "Cape Cod, MA", Page: 9}, runID)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, fetcher.requests)
	require.Len(t, sink.batches, 2)
	assert.Len(t, sink.batches[0], 10)
	assert.Len(t, sink.batches[1], 5)
	assert.Equal(t, []time.Duration{5 * time.Second}, *waits)

	assert.Equal(t, domain.CrawlStateDone, result.State)
	assert.Equal(t, 15, result.TotalCount)
	assert.Equal(t, 10, result.PerPage)
	assert.Equal(t, "", result.NextPage)
	assert.Equal(t, 2, result.PagesProcessed)
	assert.Equal(t, 15, result.ListingsSaved)
	assert.Equal(t, 2, result.LastPage)
	assert.False(t, result.FinishedAt.Before(result.StartedAt))

	require.Len(t, reporter.results, 1)
	assert.Same(t, result, reporter.results[0])
	assert.Equal(t, runID, reporter.runIDs[0])
}

func TestCrawlSearch_SinglePageNoWait(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*domain.PageResult{
		1: {Listings: nil, PerPage: 40, TotalCount: 0},
	}}
	sink := &fakeSink{}
	uc, waits := newTestUseCase(fetcher, sink, &fakeReporter{})

	result, err := uc.Execute(context.Background(), domain.SearchCriteria{}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.CrawlStateDone, result.State)
	assert.Empty(t, *waits)
	assert.Len(t, sink.batches, 1)
}

func TestCrawlSearch_HTTPErrorStalls(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int]*domain.PageResult{
			1: {Listings: listings(3, "p1"), PerPage: 3, TotalCount: 9, NextPage: "/2_p/"},
		},
		errs: map[int]error{
			2: fmt.Errorf("wrapped: %w", &domain.HTTPError{URL: "u", StatusCode: 403, Body: "captcha"}),
		},
	}
	sink := &fakeSink{}
	reporter := &fakeReporter{}
	uc, _ := newTestUseCase(fetcher, sink, reporter)

	result, err := uc.Execute(context.Background(), domain.SearchCriteria{}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, domain.CrawlStateStalled, result.State)
	assert.Equal(t, 403, result.StatusCode)
	assert.Equal(t, 2, result.LastPage)
	assert.Equal(t, 1, result.PagesProcessed)
	assert.Equal(t, 3, result.ListingsSaved)
	assert.Equal(t, []int{1, 2}, fetcher.requests)
	require.Len(t, reporter.results, 1)
	assert.Equal(t, domain.CrawlStateStalled, reporter.results[0].State)
}

func TestCrawlSearch_MalformedPageWritesNothing(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[int]error{
		1: fmt.Errorf("zillow adapter: %w", domain.ErrMalformedResponse),
	}}
	sink := &fakeSink{}
	reporter := &fakeReporter{}
	uc, _ := newTestUseCase(fetcher, sink, reporter)

	result, err := uc.Execute(context.Background(), domain.SearchCriteria{}, uuid.New())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Empty(t, sink.batches)
	assert.Empty(t, reporter.results)
}

func TestCrawlSearch_SinkErrorIsReturned(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*domain.PageResult{
		1: {Listings: listings(1, "p1"), NextPage: "/2_p/"},
	}}
	diskErr := errors.New("disk full")
	uc, _ := newTestUseCase(fetcher, &fakeSink{err: diskErr}, &fakeReporter{})

	_, err := uc.Execute(context.Background(), domain.SearchCriteria{}, uuid.New())
	assert.ErrorIs(t, err, diskErr)
	assert.Equal(t, []int{1}, fetcher.requests)
}

func TestCrawlSearch_ReporterErrorDoesNotFailRun(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*domain.PageResult{1: {PerPage: 1}}}
	uc, _ := newTestUseCase(fetcher, &fakeSink{}, &fakeReporter{err: errors.New("broker down")})

	result, err := uc.Execute(context.Background(), domain.SearchCriteria{}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.CrawlStateDone, result.State)
}

func TestCrawlSearch_CancelDuringWait(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*domain.PageResult{
		1: {Listings: listings(2, "p1"), NextPage: "/2_p/"},
	}}
	sink := &fakeSink{}
	reporter := &fakeReporter{}
	uc := NewCrawlSearchUseCase(fetcher, sink, reporter, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := uc.Execute(ctx, domain.SearchCriteria{}, uuid.New())
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("crawl did not stop after cancellation")
	}
	assert.Equal(t, []int{1}, fetcher.requests)
	assert.Empty(t, reporter.results)
}

func TestCrawlSearch_CancelledBeforeStart(t *testing.T) {
	fetcher := &fakeFetcher{}
	uc, _ := newTestUseCase(fetcher, &fakeSink{}, &fakeReporter{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, domain.SearchCriteria{}, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.requests)
}

func TestWaitInterval(t *testing.T) {
	start := time.Now()
	require.NoError(t, waitInterval(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	require.NoError(t, waitInterval(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, waitInterval(ctx, time.Hour), context.Canceled)
}
