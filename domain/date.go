package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used on every boundary.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. The zero value is not a valid date.
type Date struct {
	t time.Time
}

// NewDate builds a date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO calendar date. A full RFC3339 timestamp is accepted and truncated.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(DateLayout, value); err == nil {
		return DateOf(parsed), nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Date{}, Invalidf("invalid date %q", value)
	}
	return DateOf(parsed), nil
}

// DatePtr is a convenience for optional date fields.
func DatePtr(d Date) *Date {
	return &d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return d.t }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SameDay reports whether an optional date is set and equals d.
func SameDay(opt *Date, d Date) bool {
	return opt != nil && opt.Equal(d)
}
