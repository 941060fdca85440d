package importer

import (
	"fmt"
	"strings"
	"time"

	"daytiles/internal/timeutil"
	"daytiles/schedule"
)

// Mapped is one entry read from a source row.
type Mapped struct {
	// Day is YYYY-MM-DD when the row names a date, empty otherwise.
	Day        string
	Entry      schedule.Entry
	SourceFile string
}

type Mapper interface {
	Name() string
	Map(record Record, sourceFile string) (*Mapped, bool, error)
}

func SupportedMapperNames() []string {
	return []string{"generic", "span"}
}

func MapperByName(name string) (Mapper, error) {
	switch normalizeHeader(name) {
	case "", "generic":
		return &GenericMapper{}, nil
	case "span":
		return &SpanMapper{}, nil
	default:
		return nil, fmt.Errorf("unsupported mapper: %s", name)
	}
}

// ResolveDay returns the day of m, or fallback when the row named none.
func ResolveDay(m Mapped, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(m.Day) == "" {
		if fallback.IsZero() {
			return time.Time{}, fmt.Errorf("entry %q has no date and no default date was given", m.Entry.ID)
		}
		return timeutil.StartOfDay(fallback), nil
	}
	day, err := timeutil.ParseDay(m.Day)
	if err != nil {
		return time.Time{}, fmt.Errorf("entry %q: %w", m.Entry.ID, err)
	}
	return day, nil
}
