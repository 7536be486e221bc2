package domain

import (
	"strings"
	"time"
)

const (
	// retrievalPrefix opens the metadata line the fetcher writes first.
	retrievalPrefix = "# Blacklist retrieved on "
	retrievalLayout = "2006-01-02 15:04:05"
)

// RetrievedAt parses the optional metadata line at the top of the domain
// list, "# Blacklist retrieved on YYYY-MM-DD HH:MM:SS", in local time.
// ok is false for any other line.
func RetrievedAt(line string) (t time.Time, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), retrievalPrefix)
	if !found {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(retrievalLayout, strings.TrimSpace(rest), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
