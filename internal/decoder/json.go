package decoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
)

// ErrRecordsNotFound is returned when json payload has no records array under configured path.
var ErrRecordsNotFound = errors.New("records array not found")

// JSONDecoder decodes json payloads into raw records.
type JSONDecoder struct{}

// Decode decodes every object of records array into output channel.
// Records array is found under dot-separated path, empty path means payload root.
// Nested objects are flattened into dot-separated keys, arrays produce multiple values under the same key.
func (d JSONDecoder) Decode(ctx context.Context, jsonFile io.Reader, path string, output chan<- models.RawRecord) error {
	dec := json.NewDecoder(jsonFile)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return fmt.Errorf("can't decode json payload: %w", err)
	}

	records, err := findRecords(payload, path)
	if err != nil {
		return err
	}

	for _, item := range records {
		raw := models.RawRecord{}
		flatten("", item, raw)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case output <- raw:
		}
	}

	return nil
}

func findRecords(payload any, path string) ([]any, error) {
	node := payload
	if path != "" {
		for _, key := range strings.Split(path, ".") {
			object, ok := node.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrRecordsNotFound, path)
			}
			node = object[key]
		}
	}

	switch records := node.(type) {
	case []any:
		return records, nil
	case map[string]any:
		// single object payload, e.g. one product
		return []any{records}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrRecordsNotFound, path)
	}
}

func flatten(prefix string, node any, raw models.RawRecord) {
	switch value := node.(type) {
	case map[string]any:
		for key, child := range value {
			flatten(joinKey(prefix, key), child, raw)
		}
	case []any:
		for _, child := range value {
			flatten(prefix, child, raw)
		}
	case string:
		raw.Add(prefix, html.UnescapeString(value))
	case json.Number:
		raw.Add(prefix, value.String())
	case bool:
		raw.Add(prefix, fmt.Sprint(value))
	}
}
