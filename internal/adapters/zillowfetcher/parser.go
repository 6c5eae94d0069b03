package zillowfetcher

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"zillow-parser-service/internal/core/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/search_page_state.json
var searchPageStateSchema string

const searchPageStateSchemaURL = "https://zillow-parser-service/schemas/search_page_state.json"

var compiledSearchPageSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(searchPageStateSchemaURL, strings.NewReader(searchPageStateSchema)); err != nil {
		panic(fmt.Sprintf("failed to add search page schema: %v", err))
	}
	return compiler.MustCompile(searchPageStateSchemaURL)
}

// ParseSearchPage разбирает тело ответа GetSearchPageState.
// Если нет обязательных ключей, возвращается domain.ErrMalformedResponse.
func ParseSearchPage(body []byte) (*domain.PageResult, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber() // сохраняем числа в том виде, в каком их прислал API

	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: body is not valid JSON: %v", domain.ErrMalformedResponse, err)
	}
	if err := compiledSearchPageSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	// после валидации по схеме приведения типов ниже безопасны
	cat1 := doc.(map[string]interface{})["cat1"].(map[string]interface{})
	searchResults := cat1["searchResults"].(map[string]interface{})
	searchList := cat1["searchList"].(map[string]interface{})

	perPage, err := toInt(searchList["resultsPerPage"])
	if err != nil {
		return nil, fmt.Errorf("%w: resultsPerPage: %v", domain.ErrMalformedResponse, err)
	}
	total, err := toInt(searchList["totalResultCount"])
	if err != nil {
		return nil, fmt.Errorf("%w: totalResultCount: %v", domain.ErrMalformedResponse, err)
	}

	rawResults := searchResults["listResults"].([]interface{})
	listings := make([]domain.ListingRecord, 0, len(rawResults))
	for _, raw := range rawResults {
		listings = append(listings, toListingRecord(raw.(map[string]interface{})))
	}

	return &domain.PageResult{
		Listings:   listings,
		TotalCount: total,
		PerPage:    perPage,
		NextPage:   nextPageToken(searchList),
	}, nil
}

// toListingRecord копирует запись и переносит на верхний уровень поля из hdpData.homeInfo
func toListingRecord(entry map[string]interface{}) domain.ListingRecord {
	record := make(domain.ListingRecord, len(entry)+3)
	for k, v := range entry {
		record[k] = v
	}

	homeInfo := nestedObject(entry, "hdpData", "homeInfo")
	for _, field := range []string{domain.FieldLivingArea, domain.FieldLotAreaValue, domain.FieldLotAreaUnit} {
		record[field] = homeInfo[field] // nil, если поля нет
	}
	return record
}

func nestedObject(obj map[string]interface{}, path ...string) map[string]interface{} {
	current := obj
	for _, key := range path {
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func nextPageToken(searchList map[string]interface{}) string {
	p, ok := searchList["pagination"].(map[string]interface{})
	if !ok {
		return ""
	}
	next, _ := p["nextUrl"].(string)
	return next
}

func toInt(v interface{}) (int, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", v)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, err
	}
	return int(i), nil
}
