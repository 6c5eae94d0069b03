package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"zillow-parser-service/internal/adapters/csvstorage"
	"zillow-parser-service/internal/adapters/zillowfetcher"
	"zillow-parser-service/internal/constants"
	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearchAPI отдает две страницы: 10 объектов и затем 5
type fakeSearchAPI struct {
	mu       sync.Mutex
	hits     []time.Time
	statuses map[int]int
}

func (f *fakeSearchAPI) handler(w http.ResponseWriter, r *http.Request) {
	var state struct {
		Pagination struct {
			CurrentPage int `json:"currentPage"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal([]byte(r.URL.Query().Get("searchQueryState")), &state); err != nil {
		http.Error(w, "bad state", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.hits = append(f.hits, time.Now())
	f.mu.Unlock()

	page := state.Pagination.CurrentPage
	if status, ok := f.statuses[page]; ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("blocked"))
		return
	}

	count, next := 10, `{"nextUrl":"/cape-cod-ma/2_p/"}`
	if page == 2 {
		count, next = 5, `{}`
	}
	items := make([]string, count)
	for i := range items {
		items[i] = fmt.Sprintf(`{"zpid":"%d%02d","statusType":"FOR_SALE","unformattedPrice":%d,"addressCity":"Dennis","beds":3,
			"hdpData":{"homeInfo":{"livingArea":1800,"lotAreaValue":0.25,"lotAreaUnit":"acres"}}}`, page, i, 1000000+i)
	}
	_, _ = fmt.Fprintf(w, `{"cat1":{"searchResults":{"listResults":[%s]},
		"searchList":{"resultsPerPage":%d,"totalResultCount":15,"pagination":%s}}}`,
		strings.Join(items, ","), 40+page, next)
}

func runCrawl(t *testing.T, api *fakeSearchAPI, interval time.Duration) (*domain.CrawlResult, *csvstorage.ListingCSVSink, error) {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/search/GetSearchPageState.htm", api.handler)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	fetcher, err := zillowfetcher.NewZillowFetcherAdapter(server.URL+"/search/GetSearchPageState.htm", 5*time.Second)
	require.NoError(t, err)
	sink, err := csvstorage.NewListingCSVSink(filepath.Join(t.TempDir(), "data.csv"), constants.ListingCSVFields)
	require.NoError(t, err)

	uc := usecase.NewCrawlSearchUseCase(fetcher, sink, nil, interval)
	result, err := uc.Execute(context.Background(), domain.SearchCriteria{
		Term:    constants.DefaultSearchTerm,
		Options: constants.DefaultSearchOptions(),
		Bounds:  constants.CapeCodBounds,
		Regions: []domain.RegionSelection{constants.CapeCodRegion},
	}, uuid.New())
	return result, sink, err
}

func TestCrawlSearch_EndToEndTwoPages(t *testing.T) {
	api := &fakeSearchAPI{}
	interval := 100 * time.Millisecond

	result, sink, err := runCrawl(t, api, interval)
	require.NoError(t, err)

	assert.Equal(t, domain.CrawlStateDone, result.State)
	assert.Equal(t, 15, result.TotalCount)
	assert.Equal(t, 41, result.PerPage)
	assert.Equal(t, "", result.NextPage)
	assert.Equal(t, 15, result.ListingsSaved)

	require.Len(t, api.hits, 2)
	assert.GreaterOrEqual(t, api.hits[1].Sub(api.hits[0]), interval)

	rows, err := sink.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 15)
	assert.Equal(t, "1000000", rows[0]["unformattedPrice"])
	assert.Equal(t, "1800", rows[0]["livingArea"])
	assert.Equal(t, "acres", rows[14]["lotAreaUnit"])
	_, hasZpid := rows[0]["zpid"]
	assert.False(t, hasZpid)
}

func TestCrawlSearch_EndToEndStalled(t *testing.T) {
	api := &fakeSearchAPI{statuses: map[int]int{2: http.StatusForbidden}}

	result, sink, err := runCrawl(t, api, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.CrawlStateStalled, result.State)
	assert.Equal(t, http.StatusForbidden, result.StatusCode)

	rows, err := sink.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 10)
}
