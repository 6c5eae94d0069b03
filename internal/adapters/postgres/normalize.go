package postgres

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const geohashPrecision = 7 // ячейка ~153x153 метра

// normalizeCity приводит название города к виду "Hyannis Port"
func normalizeCity(s string) string {
	cleaned := strings.Join(strings.Fields(s), " ")
	if cleaned == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(cleaned))
}

// normalizeCode - верхний регистр без пробелов (штат, статус)
func normalizeCode(s string) string {
	return cases.Upper(language.English).String(strings.TrimSpace(s))
}

func stringValue(v interface{}) *string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return &val
	case json.Number:
		s := val.String()
		return &s
	}
	return nil
}

func floatValue(v interface{}) *float64 {
	var f float64
	var err error
	switch val := v.(type) {
	case json.Number:
		f, err = val.Float64()
	case float64:
		f = val
	case int:
		f = float64(val)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(val), 64)
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return &f
}

func intValue(v interface{}) *int64 {
	f := floatValue(v)
	if f == nil {
		return nil
	}
	i := int64(*f)
	return &i
}

// coordinates достает latLong.{latitude,longitude} из записи
func coordinates(v interface{}) (lat, lon *float64) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	lat, lon = floatValue(obj["latitude"]), floatValue(obj["longitude"])
	if lat == nil || lon == nil {
		return nil, nil
	}
	return lat, lon
}

func geohashFor(lat, lon *float64) *string {
	if lat == nil || lon == nil {
		return nil
	}
	h := geohash.EncodeWithPrecision(*lat, *lon, geohashPrecision)
	return &h
}
