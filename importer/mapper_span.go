package importer

import "fmt"

// SpanMapper reads id, start and end columns; the duration is end - start.
type SpanMapper struct{}

func (m *SpanMapper) Name() string {
	return "span"
}

func (m *SpanMapper) Map(record Record, sourceFile string) (*Mapped, bool, error) {
	rawStart := record.Get("start", "starttime", "begin", "from", "von")
	if rawStart == "" {
		return nil, false, nil
	}

	day, start, err := parseStart(rawStart)
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse start: %w", record.RowNumber, err)
	}

	endDay, end, err := parseStart(record.Get("end", "endtime", "to", "bis"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse end: %w", record.RowNumber, err)
	}
	if day != "" && endDay != "" && day != endDay {
		return nil, false, fmt.Errorf("row %d: entry crosses midnight (%s to %s)", record.RowNumber, day, endDay)
	}
	if end <= start {
		return nil, false, fmt.Errorf("row %d: end must be after start", record.RowNumber)
	}
	if day == "" {
		day = endDay
	}

	return buildMapped(record, sourceFile, day, start, end-start)
}
