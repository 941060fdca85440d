package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"daytiles/config"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Entries        []Mapped
}

// Source is a file on disk imported under Name. Rules, format inference and
// error messages use Name, so an upload stored under a temp path still matches
// the rule written for its original file name.
type Source struct {
	Path string
	Name string
}

// Run reads and maps every file. A nil mapper is resolved per file from the
// config rules, falling back to the generic mapper. An empty format is taken
// from the matching rule or the file extension.
func Run(paths []string, format string, mapper Mapper, cfg config.Config) (*Result, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		sources = append(sources, Source{Path: path, Name: path})
	}
	return RunSources(sources, format, mapper, cfg)
}

// RunSources is Run for files whose display name differs from their path.
func RunSources(sources []Source, format string, mapper Mapper, cfg config.Config) (*Result, error) {
	result := &Result{Entries: make([]Mapped, 0, 256)}
	for _, source := range sources {
		name := source.Name
		if strings.TrimSpace(name) == "" {
			name = source.Path
		}

		fileMapper, sourceFormat, err := resolveForFile(name, format, mapper, cfg)
		if err != nil {
			return nil, err
		}

		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(source.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(name), err)
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			mapped, ok, mapErr := fileMapper.Map(record, name)
			if mapErr != nil {
				return nil, fmt.Errorf("%s: %w", filepath.Base(name), mapErr)
			}
			if !ok || mapped == nil {
				result.RowsSkipped++
				continue
			}

			result.RowsMapped++
			result.Entries = append(result.Entries, *mapped)
		}
	}

	return result, nil
}

func resolveForFile(path, format string, mapper Mapper, cfg config.Config) (Mapper, string, error) {
	rule, matched := cfg.MatchRule(path)

	if mapper == nil {
		name := ""
		if matched {
			name = rule.Mapper
		}
		resolved, err := MapperByName(name)
		if err != nil {
			return nil, "", fmt.Errorf("rule %q for file %s: %w", rule.Name, path, err)
		}
		mapper = resolved
	}

	if strings.TrimSpace(format) == "" && matched {
		format = rule.Format
	}
	sourceFormat, err := inferFormat(path, format)
	if err != nil {
		return nil, "", err
	}
	return mapper, sourceFormat, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return strings.ToLower(strings.TrimSpace(format)), nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "tsv", "txt":
		return "tsv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
