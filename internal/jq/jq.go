// Package jq evaluates jq-style expressions over loaded records.
package jq

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/itchyny/gojq"
)

// Normalize converts an arbitrary Go value into the plain JSON shape
// (maps, slices, float64, string, bool, nil) that gojq accepts as input.
func Normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode query input: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode query input: %w", err)
	}
	return out, nil
}

// Run parses the expression and evaluates it against the input, returning
// every emitted value.
func Run(expr string, input any) ([]any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}

	var results []any
	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if evalErr, isErr := v.(error); isErr {
			return nil, fmt.Errorf("evaluate query: %w", evalErr)
		}
		results = append(results, v)
	}
	return results, nil
}
