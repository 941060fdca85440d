package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLReader reads a sequence of flat mappings, or a mapping whose "entries"
// key holds that sequence. Scalars keep their source text, so "09:00" and
// 017 are read exactly as written.
type YAMLReader struct{}

func (r *YAMLReader) Read(path string) ([]Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml file %s: %w", path, err)
	}

	var document yaml.Node
	if err := yaml.Unmarshal(content, &document); err != nil {
		return nil, fmt.Errorf("decode yaml file %s: %w", path, err)
	}
	if len(document.Content) == 0 {
		return nil, fmt.Errorf("decode yaml file %s: empty document", path)
	}

	items, err := yamlItems(document.Content[0])
	if err != nil {
		return nil, fmt.Errorf("decode yaml file %s: %w", path, err)
	}

	records := make([]Record, 0, len(items.Content))
	for i, item := range items.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("yaml item %d (line %d): expected a mapping", i+1, item.Line)
		}
		values := make(map[string]string, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, value := item.Content[j], item.Content[j+1]
			if value.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("yaml item %d field %q (line %d): nested values are not supported", i+1, key.Value, value.Line)
			}
			if value.Tag == "!!null" {
				values[normalizeHeader(key.Value)] = ""
				continue
			}
			values[normalizeHeader(key.Value)] = value.Value
		}
		records = append(records, Record{RowNumber: i + 1, Values: values})
	}
	return records, nil
}

func yamlItems(root *yaml.Node) (*yaml.Node, error) {
	switch root.Kind {
	case yaml.SequenceNode:
		return root, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "entries" && root.Content[i+1].Kind == yaml.SequenceNode {
				return root.Content[i+1], nil
			}
		}
		return nil, fmt.Errorf("mapping has no entries list")
	default:
		return nil, fmt.Errorf("expected a list of entries")
	}
}
