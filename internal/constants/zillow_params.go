package constants

import "zillow-parser-service/internal/core/domain"

const (
	SearchPageStateURL = "https://www.zillow.com/search/GetSearchPageState.htm"

	// Браузерный User-Agent, без него API отвечает 403
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/95.0.4638.69 Safari/537.360"

	DefaultSearchTerm = "Cape Cod, MA"
	SortByRelevance   = "globalrelevanceex"

	// requestId выбирается случайно из [0, MaxRequestID]
	MaxRequestID = 100000000

	DefaultIntervalSeconds = 5
)

// Фильтры по умолчанию
const (
	DefaultPriceMin          = 1000000
	DefaultPriceMax          = 1500000
	DefaultMonthlyPaymentMin = 2400
)

// Категории результатов, которые запрашиваются в "wants"
var WantedListCategories = []string{"listResults", "mapResults"}

// Cape Cod, MA
var (
	CapeCodBounds = domain.MapBounds{
		West:  -70.84688986914063,
		East:  -69.76748313085938,
		South: 41.487256594497296,
		North: 42.10991049792515,
	}
	CapeCodRegion = domain.RegionSelection{RegionID: 784023, RegionType: 31}
)

// ListingCSVFields - порядок и состав колонок выходного файла.
// Лишние поля записи отбрасываются, отсутствующие пишутся пустыми.
var ListingCSVFields = []string{
	"statusType",
	"unformattedPrice",
	"addressStreet",
	"addressCity",
	"addressState",
	"addressZipcode",
	"beds",
	"baths",
	domain.FieldLivingArea,
	domain.FieldLotAreaValue,
	domain.FieldLotAreaUnit,
}

// DefaultSearchOptions возвращает фильтры, с которыми работает поиск, если в конфиге ничего не задано
func DefaultSearchOptions() domain.SearchOptions {
	return domain.SearchOptions{
		Price:          domain.PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax},
		MonthlyPayment: domain.MonthlyPaymentRange{Min: DefaultMonthlyPaymentMin},
	}
}
