// Package fy provides the Australian financial-year value type used as the
// period key throughout the engine ("2024-25" runs 1 July 2024 to 30 June 2025).
package fy

import (
	"fmt"
	"regexp"
	"strconv"
)

var periodPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// Year identifies one financial year by its starting calendar year.
type Year struct {
	Start int
}

// Parse parses a period string in "2024-25" form. The two-digit suffix must be
// the starting year plus one.
func Parse(s string) (Year, error) {
	m := periodPattern.FindStringSubmatch(s)
	if m == nil {
		return Year{}, fmt.Errorf("invalid financial year %q: expected format YYYY-YY", s)
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return Year{}, fmt.Errorf("invalid financial year %q: %w", s, err)
	}
	suffix, err := strconv.Atoi(m[2])
	if err != nil {
		return Year{}, fmt.Errorf("invalid financial year %q: %w", s, err)
	}
	if (start+1)%100 != suffix {
		return Year{}, fmt.Errorf("invalid financial year %q: end year must follow start year", s)
	}
	return Year{Start: start}, nil
}

// MustParse parses a period string and panics on failure. For static tables.
func MustParse(s string) Year {
	y, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return y
}

// String renders the year in "2024-25" form.
func (y Year) String() string {
	return fmt.Sprintf("%04d-%02d", y.Start, (y.Start+1)%100)
}

// Prev returns the financial year n years earlier.
func (y Year) Prev(n int) Year {
	return Year{Start: y.Start - n}
}

// Before reports whether y starts before other.
func (y Year) Before(other Year) bool {
	return y.Start < other.Start
}

// IsZero reports whether y is the zero value (no year set).
func (y Year) IsZero() bool {
	return y.Start == 0
}
