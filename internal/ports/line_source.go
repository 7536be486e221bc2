package ports

import "context"

// LineSource provides the raw domain list, one entry per line.
type LineSource interface {
	// ReadLines returns every line of the list without line terminators.
	// A missing or unreadable list is reported wrapping domain.ErrInputMissing.
	ReadLines(ctx context.Context) ([]string, error)
}
