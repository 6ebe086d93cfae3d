package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// flexFieldMaps caches JSON tag -> struct field index mappings per type.
var flexFieldMaps sync.Map

func flexFieldMap(t reflect.Type) map[string]int {
	if cached, ok := flexFieldMaps.Load(t); ok {
		return cached.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		m[name] = i
	}
	flexFieldMaps.Store(t, m)
	return m
}

// flexUnmarshal implements flexible JSON unmarshaling that accepts both
// string-encoded and native JSON types. Some provider exports serialize
// numeric stats as quoted strings; this coerces them to the correct Go
// types transparently.
func flexUnmarshal(data []byte, target any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	v := reflect.ValueOf(target).Elem()
	fieldMap := flexFieldMap(v.Type())

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		// Try direct unmarshal first
		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		// Value is a JSON string but target is numeric/bool — coerce
		if len(rawVal) > 1 && rawVal[0] == '"' {
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil {
				continue
			}
			if s == "" {
				continue
			}
			coerceStringToField(fv, s)
		}
	}

	return nil
}

// coerceStringToField converts a string value to the field's native type.
func coerceStringToField(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetFloat(n)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// ParseFloat handles "28.5" → truncate to int
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetInt(int64(n))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, err := strconv.ParseFloat(s, 64); err == nil && n >= 0 {
			fv.SetUint(uint64(n))
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			fv.SetBool(b)
		}
	case reflect.String:
		fv.SetString(s)
	}
}

func (s *RawPlayerStats) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type alias RawPlayerStats
	a := (*alias)(s)
	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}
	return flexUnmarshal(data, a)
}

func (s *RawTeamStats) UnmarshalJSON(data []byte) error {
	type alias RawTeamStats
	a := (*alias)(s)
	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}
	return flexUnmarshal(data, a)
}

func (s *SeriesContext) UnmarshalJSON(data []byte) error {
	type alias SeriesContext
	a := (*alias)(s)
	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}
	return flexUnmarshal(data, a)
}
