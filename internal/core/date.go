package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Date is a transaction timestamp. It always encodes in UTC.
type Date struct {
	time.Time
}

var ErrInvalidDate = errors.New("invalid date")

// dateLayouts are tried in order when parsing user or imported input.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewDate creates a midnight UTC date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf wraps t.
func DateOf(t time.Time) Date {
	return Date{Time: t}
}

// ParseDate parses RFC 3339 timestamps as well as bare dates.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, ErrInvalidDate
}

// String returns the RFC 3339 UTC form used in every export format.
func (d Date) String() string {
	return d.UTC().Format(time.RFC3339Nano)
}

// Equal reports whether both dates denote the same instant.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
