package zillowfetcher

import (
	"encoding/json"
	"testing"

	"zillow-parser-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageWithTwoListings = `{
  "cat1": {
    "searchResults": {
      "listResults": [
        {
          "zpid": "123",
          "statusType": "FOR_SALE",
          "unformattedPrice": 1250000,
          "addressCity": "Chatham",
          "beds": 3,
          "baths": 2.5,
          "isZillowOwned": false,
          "hdpData": {"homeInfo": {"livingArea": 2100, "lotAreaValue": 0.46, "lotAreaUnit": "acres"}}
        },
        {"zpid": "456", "statusType": "FOR_SALE", "addressCity": "Orleans"}
      ]
    },
    "searchList": {
      "resultsPerPage": 40,
      "totalResultCount": 77,
      "pagination": {"nextUrl": "/cape-cod-ma/2_p/"}
    }
  }
}`

func TestParseSearchPage_ListingsAndPagination(t *testing.T) {
	page, err := ParseSearchPage([]byte(pageWithTwoListings))
	require.NoError(t, err)

	assert.Equal(t, 40, page.PerPage)
	assert.Equal(t, 77, page.TotalCount)
	assert.Equal(t, "/cape-cod-ma/2_p/", page.NextPage)
	assert.True(t, page.HasNextPage())
	require.Len(t, page.Listings, 2)

	first := page.Listings[0]
	assert.Equal(t, json.Number("1250000"), first["unformattedPrice"])
	assert.Equal(t, json.Number("2.5"), first["baths"])
	assert.Equal(t, false, first["isZillowOwned"])
	assert.Equal(t, json.Number("2100"), first[domain.FieldLivingArea])
	assert.Equal(t, json.Number("0.46"), first[domain.FieldLotAreaValue])
	assert.Equal(t, "acres", first[domain.FieldLotAreaUnit])

	second := page.Listings[1]
	assert.Equal(t, "Orleans", second["addressCity"])
	for _, field := range []string{domain.FieldLivingArea, domain.FieldLotAreaValue, domain.FieldLotAreaUnit} {
		value, ok := second[field]
		assert.True(t, ok, field)
		assert.Nil(t, value, field)
	}
}

func TestParseSearchPage_LastPage(t *testing.T) {
	for name, body := range map[string]string{
		"no pagination": `{"cat1":{"searchResults":{"listResults":[]},"searchList":{"resultsPerPage":40,"totalResultCount":0}}}`,
		"null nextUrl":  `{"cat1":{"searchResults":{"listResults":[]},"searchList":{"resultsPerPage":40,"totalResultCount":0,"pagination":{"nextUrl":null}}}}`,
		"empty object":  `{"cat1":{"searchResults":{"listResults":[]},"searchList":{"resultsPerPage":40,"totalResultCount":0,"pagination":{}}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			page, err := ParseSearchPage([]byte(body))
			require.NoError(t, err)
			assert.Empty(t, page.Listings)
			assert.False(t, page.HasNextPage())
		})
	}
}

func TestParseSearchPage_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"not json":            `<html>captcha</html>`,
		"missing cat1":        `{}`,
		"missing listResults": `{"cat1":{"searchResults":{},"searchList":{"resultsPerPage":1,"totalResultCount":1}}}`,
		"missing searchList":  `{"cat1":{"searchResults":{"listResults":[]}}}`,
		"missing total":       `{"cat1":{"searchResults":{"listResults":[]},"searchList":{"resultsPerPage":1}}}`,
		"string per page":     `{"cat1":{"searchResults":{"listResults":[]},"searchList":{"resultsPerPage":"40","totalResultCount":1}}}`,
		"listing not object":  `{"cat1":{"searchResults":{"listResults":[1]},"searchList":{"resultsPerPage":1,"totalResultCount":1}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSearchPage([]byte(body))
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}
