package recon

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount normalizes a textual amount into whole euros. It accepts plain
// integers, grouping separators and a trailing two-digit decimal part which
// is truncated ("1.234,00" -> 1234). Anything without digits is a data error
// the caller reports and skips.
func ParseAmount(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := strings.HasPrefix(s, "-")

	// Strip a trailing decimal part of exactly two digits.
	if len(s) > 3 {
		sep := s[len(s)-3]
		if (sep == '.' || sep == ',') && isDigits(s[len(s)-2:]) {
			s = s[:len(s)-3]
		}
	}
	digits := onlyDigits(s)
	if digits == "" {
		return 0, fmt.Errorf("no digits in amount %q", raw)
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if neg {
		v = -v
	}
	return v, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
