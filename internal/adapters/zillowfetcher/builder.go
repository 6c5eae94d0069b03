package zillowfetcher

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"zillow-parser-service/internal/constants"
	"zillow-parser-service/internal/core/domain"
)

// Структуры searchQueryState, которые API ожидает в query-параметре
type pagination struct {
	CurrentPage int `json:"currentPage"`
}

type mapBounds struct {
	West  float64 `json:"west"`
	East  float64 `json:"east"`
	South float64 `json:"south"`
	North float64 `json:"north"`
}

type regionSelection struct {
	RegionID   int `json:"regionId"`
	RegionType int `json:"regionType"`
}

type rangeFilter struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type minFilter struct {
	Min int `json:"min"`
}

type boolFilter struct {
	Value bool `json:"value"`
}

type stringFilter struct {
	Value string `json:"value"`
}

type filterState struct {
	Price                rangeFilter  `json:"price"`
	MonthlyPayment       minFilter    `json:"monthlyPayment"`
	SortSelection        stringFilter `json:"sortSelection"`
	IsForSaleByAgent     boolFilter   `json:"isForSaleByAgent"`
	IsForSaleByOwner     boolFilter   `json:"isForSaleByOwner"`
	IsNewConstruction    boolFilter   `json:"isNewConstruction"`
	IsForSaleForeclosure boolFilter   `json:"isForSaleForeclosure"`
	IsComingSoon         boolFilter   `json:"isComingSoon"`
	IsAuction            boolFilter   `json:"isAuction"`
	IsRecentlySold       boolFilter   `json:"isRecentlySold"`
	IsAllHomes           boolFilter   `json:"isAllHomes"`
}

type searchQueryState struct {
	Pagination      pagination        `json:"pagination"`
	UsersSearchTerm string            `json:"usersSearchTerm"`
	MapBounds       mapBounds         `json:"mapBounds"`
	RegionSelection []regionSelection `json:"regionSelection"`
	IsMapVisible    bool              `json:"isMapVisible"`
	FilterState     filterState       `json:"filterState"`
	IsListVisible   bool              `json:"isListVisible"`
}

type wants struct {
	Cat1 []string `json:"cat1"`
}

func buildQueryState(criteria domain.SearchCriteria) searchQueryState {
	opts := criteria.Options

	regions := make([]regionSelection, 0, len(criteria.Regions))
	for _, r := range criteria.Regions {
		regions = append(regions, regionSelection{RegionID: r.RegionID, RegionType: r.RegionType})
	}

	return searchQueryState{
		Pagination:      pagination{CurrentPage: criteria.Page},
		UsersSearchTerm: criteria.Term,
		MapBounds: mapBounds{
			West:  criteria.Bounds.West,
			East:  criteria.Bounds.East,
			South: criteria.Bounds.South,
			North: criteria.Bounds.North,
		},
		RegionSelection: regions,
		IsMapVisible:    false,
		FilterState: filterState{
			Price:                rangeFilter{Min: opts.Price.Min, Max: opts.Price.Max},
			MonthlyPayment:       minFilter{Min: opts.MonthlyPayment.Min},
			SortSelection:        stringFilter{Value: constants.SortByRelevance},
			IsForSaleByAgent:     boolFilter{opts.IsForSaleByAgent},
			IsForSaleByOwner:     boolFilter{opts.IsForSaleByOwner},
			IsNewConstruction:    boolFilter{opts.IsNewConstruction},
			IsForSaleForeclosure: boolFilter{opts.IsForSaleForeclosure},
			IsComingSoon:         boolFilter{opts.IsComingSoon},
			IsAuction:            boolFilter{opts.IsAuction},
			IsRecentlySold:       boolFilter{opts.IsRecentlySold},
			IsAllHomes:           boolFilter{opts.IsAllHomes},
		},
		IsListVisible: true,
	}
}

// BuildSearchURL собирает URL запроса одной страницы поиска.
// Номер страницы должен быть >= 1, иначе возвращается domain.ErrInvalidArgument.
func BuildSearchURL(baseURL string, criteria domain.SearchCriteria, requestID int) (string, error) {
	if criteria.Page < 1 {
		return "", fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidArgument, criteria.Page)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: bad search url %q: %v", domain.ErrInvalidArgument, baseURL, err)
	}

	state, err := json.Marshal(buildQueryState(criteria))
	if err != nil {
		return "", fmt.Errorf("failed to marshal searchQueryState: %w", err)
	}
	wanted, err := json.Marshal(wants{Cat1: constants.WantedListCategories})
	if err != nil {
		return "", fmt.Errorf("failed to marshal wants: %w", err)
	}

	q := u.Query()
	q.Set("searchQueryState", string(state))
	q.Set("wants", string(wanted))
	q.Set("requestId", strconv.Itoa(requestID))

	u.RawQuery = q.Encode()
	return u.String(), nil
}
