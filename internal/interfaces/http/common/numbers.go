package common

import (
	"strconv"
	"strings"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// ParsePaging reads page/limit query values with 1/10 defaults.
func ParsePaging(page, limit string) (int, int) {
	p, _ := ParsePositiveInt(page, 1)
	l, _ := ParsePositiveInt(limit, 10)
	return p, l
}

// IntPtr returns pointer helper for ints.
func IntPtr(v int) *int {
	return &v
}
