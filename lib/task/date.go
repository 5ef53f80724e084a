// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the ISO-8601 calendar date layout used at rest and in
// filters.
const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component. The zero Date
// is "unset": it renders as the empty string and, in a [Filter], matches
// every due date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict "YYYY-MM-DD" calendar date. The empty
// string parses to the zero Date.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return DateOf(parsed), nil
}

// MustParseDate is ParseDate for literals in tests and sample data.
// Panics on invalid input.
func MustParseDate(value string) Date {
	date, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return date
}

// DateOf returns the UTC calendar date of an instant.
func DateOf(instant time.Time) Date {
	year, month, day := instant.UTC().Date()
	return Date{Year: year, Month: month, Day: day}
}

// IsZero reports whether the date is unset.
func (date Date) IsZero() bool {
	return date == Date{}
}

// String returns "YYYY-MM-DD", or "" for the zero Date.
func (date Date) String() string {
	if date.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", date.Year, int(date.Month), date.Day)
}

// Time returns midnight UTC on the date.
func (date Date) Time() time.Time {
	return time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether date falls strictly before other.
func (date Date) Before(other Date) bool {
	return date.Time().Before(other.Time())
}

// MarshalText encodes the date as "YYYY-MM-DD". Used by encoding/json
// and, through the codec package's TextMarshaler setting, by CBOR.
func (date Date) MarshalText() ([]byte, error) {
	return []byte(date.String()), nil
}

// UnmarshalText accepts "YYYY-MM-DD", the empty string, or an RFC 3339
// timestamp. Timestamps are what the browser tracker stored (a
// serialized JavaScript Date); they reduce to their UTC calendar date.
func (date *Date) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	if len(value) > len(dateLayout) {
		instant, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", value, err)
		}
		*date = DateOf(instant)
		return nil
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}
	*date = parsed
	return nil
}
