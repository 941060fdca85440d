package importer

import (
	"fmt"
	"strings"

	"daytiles/schedule"

	"github.com/google/uuid"
)

// GenericMapper reads id, start and duration columns. Duration is in minutes;
// a decimal "hours" column is used when no minutes are given.
type GenericMapper struct{}

func (m *GenericMapper) Name() string {
	return "generic"
}

func (m *GenericMapper) Map(record Record, sourceFile string) (*Mapped, bool, error) {
	rawStart := record.Get("start", "starttime", "begin", "from", "von")
	if rawStart == "" {
		return nil, false, nil
	}

	day, start, err := parseStart(rawStart)
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse start: %w", record.RowNumber, err)
	}

	duration, err := parseMinutes(record.Get("duration", "minutes", "dauer"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse duration: %w", record.RowNumber, err)
	}
	if duration == 0 {
		duration, err = parseGermanDecimalHoursToMinutes(record.Get("hours", "stunden"))
		if err != nil {
			return nil, false, fmt.Errorf("row %d: parse hours: %w", record.RowNumber, err)
		}
	}

	return buildMapped(record, sourceFile, day, start, duration)
}

func buildMapped(record Record, sourceFile, day string, start, duration int) (*Mapped, bool, error) {
	if value := record.Get("date", "day", "datum"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return nil, false, fmt.Errorf("row %d: parse date: %w", record.RowNumber, err)
		}
		day = parsed
	}

	id := record.Get("id", "entryid", "key")
	if id == "" {
		id = uuid.NewString()
	}

	entry := schedule.Entry{
		ID:       id,
		Start:    schedule.FormatTime(start),
		Duration: duration,
	}
	if err := entry.Validate(); err != nil {
		return nil, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}

	return &Mapped{
		Day:        day,
		Entry:      entry,
		SourceFile: strings.TrimSpace(sourceFile),
	}, true, nil
}
