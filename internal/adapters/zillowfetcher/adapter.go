package zillowfetcher

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"zillow-parser-service/internal/constants"

	"github.com/gocolly/colly/v2"
)

// ZillowFetcherAdapter отвечает за все взаимодействия с поисковым API Zillow
type ZillowFetcherAdapter struct {
	// родительский коллектор, клоны наследуют его лимиты
	collector *colly.Collector
	baseURL   string

	nextRequestID func() int
}

// NewZillowFetcherAdapter - конструктор
func NewZillowFetcherAdapter(baseURL string, requestTimeout time.Duration) (*ZillowFetcherAdapter, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("ZillowFetcherAdapter: base url cannot be empty")
	}

	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(constants.UserAgent),
		colly.IgnoreRobotsTxt(),
		colly.MaxBodySize(0), // страница поиска бывает больше лимита по умолчанию
		// статус проверяем сами в OnResponse: успехом считается весь диапазон 2xx
		colly.ParseHTTPErrorResponse(),
	)

	// редиректы не обходим, 3xx возвращается как есть
	c.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	})

	// страницы запрашиваются строго по одной
	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("ZillowFetcherAdapter: failed to set limit rule: %w", err)
	}

	if requestTimeout > 0 {
		c.SetRequestTimeout(requestTimeout)
	}

	return &ZillowFetcherAdapter{
		collector: c,
		baseURL:   baseURL,
		nextRequestID: func() int {
			return rand.Intn(constants.MaxRequestID + 1)
		},
	}, nil
}
