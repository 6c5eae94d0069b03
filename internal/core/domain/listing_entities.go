package domain

import "time"

// Поля объекта, которые достаются из вложенного hdpData.homeInfo
const (
	FieldLivingArea   = "livingArea"
	FieldLotAreaValue = "lotAreaValue"
	FieldLotAreaUnit  = "lotAreaUnit"
)

// ListingRecord - одна запись из результатов поиска: имя поля -> значение из JSON.
// Числа хранятся как json.Number, отсутствующие значения как nil.
type ListingRecord map[string]interface{}

// PageResult - разобранная страница поиска
type PageResult struct {
	Listings   []ListingRecord
	TotalCount int
	PerPage    int
	// NextPage - токен следующей страницы, пустая строка если страниц больше нет
	NextPage string
}

// HasNextPage сообщает, вернул ли API токен следующей страницы
func (p *PageResult) HasNextPage() bool {
	return p != nil && p.NextPage != ""
}

// CrawlState - терминальное состояние цикла пагинации
type CrawlState string

const (
	CrawlStateDone    CrawlState = "done"
	CrawlStateStalled CrawlState = "stalled"
)

// CrawlResult - итог обхода всех страниц
type CrawlResult struct {
	State          CrawlState
	TotalCount     int
	PerPage        int
	NextPage       string
	PagesProcessed int
	ListingsSaved  int
	LastPage       int

	// StatusCode заполняется только для CrawlStateStalled
	StatusCode int

	StartedAt  time.Time
	FinishedAt time.Time
}
