package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEntry matches every *InvalidEntryError via errors.Is.
var ErrInvalidEntry = errors.New("invalid entry")

// InvalidEntryError reports an entry that breaks the input contract
// (empty id, non-positive duration, duplicate id).
type InvalidEntryError struct {
	ID     string
	Reason string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid entry %q: %s", e.ID, e.Reason)
}

func (e *InvalidEntryError) Is(target error) bool {
	return target == ErrInvalidEntry
}

// Entry is one schedulable item of a day. It is treated as immutable; derived
// values such as the end minute are computed on demand.
type Entry struct {
	ID       string `json:"id" yaml:"id"`
	Start    string `json:"start" yaml:"start"`
	Duration int    `json:"duration" yaml:"duration"`
}

// StartMinutes returns the parsed start as minutes since midnight.
func (e Entry) StartMinutes() (int, error) {
	return ParseTime(e.Start)
}

// End returns start + duration in minutes since midnight.
func (e Entry) End() (int, error) {
	return ComputeEnd(e)
}

// ComputeEnd returns the end minute of entry.
func ComputeEnd(entry Entry) (int, error) {
	start, err := ParseTime(entry.Start)
	if err != nil {
		return 0, err
	}
	return start + entry.Duration, nil
}

// Validate checks the start time and the id/duration contract.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return &InvalidEntryError{ID: e.ID, Reason: "id is required"}
	}
	if _, err := ParseTime(e.Start); err != nil {
		return fmt.Errorf("entry %q: %w", e.ID, err)
	}
	if e.Duration <= 0 {
		return &InvalidEntryError{ID: e.ID, Reason: fmt.Sprintf("duration must be > 0, got %d", e.Duration)}
	}
	return nil
}

// UnmarshalJSON accepts the id either as a JSON string or as a JSON number.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Start    string          `json:"start"`
		Duration int             `json:"duration"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}

	*e = Entry{ID: id, Start: raw.Start, Duration: raw.Duration}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return "", fmt.Errorf("decode entry id: %w", err)
		}
		return value, nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return "", fmt.Errorf("decode entry id %s: %w", string(trimmed), err)
	}
	return number.String(), nil
}
