package zillowfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"zillow-parser-service/internal/contextkeys"
	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// FetchPage запрашивает одну страницу поиска и разбирает ответ.
// Неуспешный статус возвращается как *domain.HTTPError.
func (a *ZillowFetcherAdapter) FetchPage(ctx context.Context, criteria domain.SearchCriteria) (*domain.PageResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ZillowFetcherAdapter",
		"page":      criteria.Page,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	targetURL, err := BuildSearchURL(a.baseURL, criteria, a.nextRequestID())
	if err != nil {
		return nil, fmt.Errorf("zillow adapter: failed to build URL from criteria: %w", err)
	}

	// наследует лимиты, но имеет свои собственные обработчики
	collector := a.collector.Clone()

	var result *domain.PageResult
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		logger.Debug("Making request", port.Fields{"host": r.URL.Host, "path": r.URL.Path})
	})

	collector.OnResponse(func(r *colly.Response) {
		if r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices {
			responseErr = newHTTPError(r)
			return
		}
		page, parseErr := ParseSearchPage(r.Body)
		if parseErr != nil {
			responseErr = fmt.Errorf("zillow adapter: failed to parse page %d: %w", criteria.Page, parseErr)
			return
		}
		result = page
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r.StatusCode == 0 {
			// ответа не было: таймаут, обрыв соединения и т.п.
			responseErr = fmt.Errorf("zillow adapter: request to %s failed: %w", r.Request.URL, err)
			return
		}
		responseErr = newHTTPError(r)
	})

	visitErr := collector.Visit(targetURL)
	collector.Wait()

	// при сетевой ошибке OnError и Visit сообщают одно и то же, приоритет у OnError
	if responseErr != nil {
		var httpErr *domain.HTTPError
		if errors.As(responseErr, &httpErr) {
			logger.Warn("Search API returned non-success status", port.Fields{"status": httpErr.StatusCode})
		}
		return nil, responseErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if visitErr != nil {
		return nil, fmt.Errorf("zillow adapter: failed to visit URL %s: %w", targetURL, visitErr)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty response for page %d", domain.ErrMalformedResponse, criteria.Page)
	}

	logger.Info("Page fetched", port.Fields{
		"listings": len(result.Listings),
		"has_next": result.HasNextPage(),
		"total":    result.TotalCount,
		"per_page": result.PerPage,
	})
	return result, nil
}

// maxErrorBodyLen - сколько байт тела неуспешного ответа сохраняется в ошибке
const maxErrorBodyLen = 512

func newHTTPError(r *colly.Response) *domain.HTTPError {
	return &domain.HTTPError{
		URL:        r.Request.URL.String(),
		StatusCode: r.StatusCode,
		Body:       truncateBody(r.Body, maxErrorBodyLen),
	}
}

// truncateBody обрезает тело до limit байт, не разрывая UTF-8 символ
func truncateBody(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	cut := body[:limit]
	for i := 0; i < utf8.UTFMax && len(cut) > 0 && !utf8.Valid(cut); i++ {
		cut = cut[:len(cut)-1]
	}
	return string(cut) + "..."
}
