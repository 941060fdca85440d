package schedule

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedTime matches every *MalformedTimeError via errors.Is.
var ErrMalformedTime = errors.New("malformed time")

// MalformedTimeError reports a clock value that is not of the form HH:MM.
type MalformedTimeError struct {
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q (expected HH:MM)", e.Value)
}

func (e *MalformedTimeError) Is(target error) bool {
	return target == ErrMalformedTime
}

// ParseTime converts "HH:MM" into minutes since midnight. Both components must
// be two digits. Hours are not capped at 23 so values written by FormatTime
// past midnight parse back unchanged up to "99:59".
func ParseTime(text string) (int, error) {
	if len(text) != 5 || text[2] != ':' {
		return 0, &MalformedTimeError{Value: text}
	}
	hours, ok := parseTwoDigits(text[0:2])
	if !ok {
		return 0, &MalformedTimeError{Value: text}
	}
	minutes, ok := parseTwoDigits(text[3:5])
	if !ok || minutes > 59 {
		return 0, &MalformedTimeError{Value: text}
	}
	return hours*60 + minutes, nil
}

// FormatTime is the inverse of ParseTime for values below 100 hours (6000
// minutes). There is no day rollover: 1500 minutes formats as "25:00". From
// 6000 on the hour has three digits and ParseTime rejects the result.
func FormatTime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func parseTwoDigits(value string) (int, bool) {
	if value[0] < '0' || value[0] > '9' || value[1] < '0' || value[1] > '9' {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
