package domain

// PriceRange - диапазон цены объекта
type PriceRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// MonthlyPaymentRange - нижняя граница ежемесячного платежа
type MonthlyPaymentRange struct {
	Min int `yaml:"min" json:"min"`
}

// SearchOptions - фильтры поиска. Задаются один раз на запуск и не меняются.
type SearchOptions struct {
	Price          PriceRange
	MonthlyPayment MonthlyPaymentRange

	IsForSaleByAgent     bool
	IsForSaleByOwner     bool
	IsNewConstruction    bool
	IsForSaleForeclosure bool
	IsComingSoon         bool
	IsAuction            bool
	IsRecentlySold       bool
	IsAllHomes           bool
}

// MapBounds - прямоугольник карты, в котором ищутся объекты
type MapBounds struct {
	West  float64 `yaml:"west"`
	East  float64 `yaml:"east"`
	South float64 `yaml:"south"`
	North float64 `yaml:"north"`
}

// RegionSelection - идентификатор региона Zillow
type RegionSelection struct {
	RegionID   int `yaml:"regionId"`
	RegionType int `yaml:"regionType"`
}

// SearchCriteria определяет параметры запроса одной страницы поиска
type SearchCriteria struct {
	Term    string
	Options SearchOptions
	Bounds  MapBounds
	Regions []RegionSelection

	// Пагинация, начинается с 1
	Page int
}
