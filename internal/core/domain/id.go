package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseID normalises an identifier received as a string.
// It accepts base-10 integers and integral decimal forms such as "42.0".
// The boolean is false when the value cannot name any record.
func ParseID(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// MatchesID reports whether raw names this employee's ID.
func (e Employee) MatchesID(raw string) bool {
	id, ok := ParseID(raw)
	return ok && id == e.ID
}

// FormatID renders an ID the way routes and CLI arguments expect it.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
