package ports

import (
	"context"
	"time"
)

// RunGate keeps ingestion passes at least an interval apart.
// Implementations reload their persisted state on every call.
type RunGate interface {
	// MayRun returns true if no pass has been recorded, the recorded value is
	// unusable, or at least interval has elapsed since the recorded pass.
	MayRun(ctx context.Context, now time.Time, interval time.Duration) (bool, error)

	// RecordRun persists now as the time of the last completed pass,
	// replacing any prior value.
	RecordRun(ctx context.Context, now time.Time) error
}
