package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// JSONReader reads an array of flat objects, or an object whose "entries"
// field holds that array. RowNumber is the 1-based position in the array.
type JSONReader struct{}

func (r *JSONReader) Read(path string) ([]Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open json file %s: %w", path, err)
	}

	items, err := decodeJSONItems(content)
	if err != nil {
		return nil, fmt.Errorf("decode json file %s: %w", path, err)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		values := make(map[string]string, len(item))
		for key, raw := range item {
			value, err := jsonScalar(raw)
			if err != nil {
				return nil, fmt.Errorf("json item %d field %q: %w", i+1, key, err)
			}
			values[normalizeHeader(key)] = value
		}
		records = append(records, Record{RowNumber: i + 1, Values: values})
	}
	return records, nil
}

func decodeJSONItems(content []byte) ([]map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if trimmed[0] == '{' {
		var wrapper struct {
			Entries []map[string]json.RawMessage `json:"entries"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, err
		}
		return wrapper.Entries, nil
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func jsonScalar(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return "", err
		}
		return value, nil
	case '{', '[':
		return "", fmt.Errorf("nested values are not supported")
	case 't', 'f':
		var value bool
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return "", err
		}
		return fmt.Sprint(value), nil
	default:
		var number json.Number
		if err := json.Unmarshal(trimmed, &number); err != nil {
			return "", err
		}
		return number.String(), nil
	}
}
