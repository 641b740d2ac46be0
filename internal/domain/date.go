package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DateLayout is the date-only form submitted by date pickers.
const DateLayout = "2006-01-02"

// DateInput holds an application date as supplied by a caller: either an
// already typed time value (in-process callers) or the raw string from a
// JSON payload, which is parsed after validation.
type DateInput struct {
	Time time.Time
	Raw  string
}

func DateOf(t time.Time) *DateInput {
	return &DateInput{Time: t}
}

func DateString(s string) *DateInput {
	return &DateInput{Raw: s}
}

func (d *DateInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDateInput
	}
	d.Raw = s
	d.Time = time.Time{}
	return nil
}

func (d DateInput) MarshalJSON() ([]byte, error) {
	if !d.Time.IsZero() {
		return json.Marshal(d.Time.UTC().Format(time.RFC3339Nano))
	}
	return json.Marshal(d.Raw)
}

// String returns the value the validator checks: the typed time rendered as
// RFC 3339, or the raw string.
func (d DateInput) String() string {
	if !d.Time.IsZero() {
		return d.Time.UTC().Format(time.RFC3339Nano)
	}
	return d.Raw
}

// Parse resolves the input into a UTC time. RFC 3339 datetimes (with optional
// fractional seconds) and date-only values are accepted.
func (d DateInput) Parse() (time.Time, error) {
	if !d.Time.IsZero() {
		return d.Time.UTC(), nil
	}
	return ParseISODate(d.Raw)
}

var (
	// ErrInvalidDateInput is returned when an application date is not a string.
	ErrInvalidDateInput = errors.New("application date must be an ISO-8601 string")
	errInvalidDate      = errors.New("invalid ISO-8601 date")
)

func ParseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errInvalidDate
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errInvalidDate
}
