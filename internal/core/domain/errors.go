package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Переменные-ошибки, которые возвращаются из адаптеров и use case'ов.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrMalformedResponse = errors.New("malformed search response")
	ErrHTTPStatus        = errors.New("non-success http status")
	ErrCrawlStalled      = errors.New("crawl stalled on non-success http status")
)

// HTTPError описывает ответ API с неуспешным статусом.
// Body хранит только начало тела ответа.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

// Error не включает query: searchQueryState занимает около килобайта
func (e *HTTPError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.Endpoint(), e.StatusCode)
}

// Endpoint возвращает URL запроса без query-параметров
func (e *HTTPError) Endpoint() string {
	endpoint, _, _ := strings.Cut(e.URL, "?")
	return endpoint
}

// Is позволяет сравнивать ошибку через errors.Is(err, ErrHTTPStatus)
func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTPStatus
}
