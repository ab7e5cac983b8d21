package services

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDateTime = errors.New("invalid date time")

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	isoDateLayout,
}

// ParseDateTime accepts RFC 3339 timestamps and naive ISO forms. Naive values
// are read in the server's local zone. The result is always UTC.
func ParseDateTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ErrInvalidDateTime
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed.UTC(), nil
	}
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}
