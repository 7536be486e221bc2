package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DisplayLayout is the human-readable form of record timestamps.
const DisplayLayout = "2006-01-02 15:04:05 GMT"

// FormatEpoch renders t as whole Unix seconds.
func FormatEpoch(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// ParseEpoch parses a decimal Unix timestamp. Fractional seconds are
// accepted so ledgers and gate files written with sub-second precision
// still load.
func ParseEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("parse timestamp %q: not finite", s)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))), nil
}

// FormatTimestamp renders a stored epoch timestamp as DisplayLayout in UTC.
// Unparsable values are returned unchanged.
func FormatTimestamp(ts string) string {
	t, err := ParseEpoch(ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format(DisplayLayout)
}
