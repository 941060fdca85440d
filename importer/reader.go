package importer

import "fmt"

type Reader interface {
	Read(path string) ([]Record, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "tsv":
		return &CSVReader{Comma: '\t'}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	case "json":
		return &JSONReader{}, nil
	case "yaml", "yml":
		return &YAMLReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}
