package fs

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/bft-labs/fqdnledger/internal/domain"
	"github.com/bft-labs/fqdnledger/internal/ports"
)

// RunGateFile implements ports.RunGate with a plain-text file holding the
// epoch seconds of the last completed pass. The file is re-read on every
// check; nothing is cached between calls.
type RunGateFile struct {
	path   string
	logger ports.Logger
}

// NewRunGateFile creates a RunGateFile for the given path.
func NewRunGateFile(path string, logger ports.Logger) *RunGateFile {
	return &RunGateFile{path: path, logger: logger}
}

// LastRun returns the recorded time of the last completed pass. ok is false
// when nothing usable is recorded: the file is missing, unreadable or does
// not hold a number. The latter two are logged as warnings.
func (g *RunGateFile) LastRun(ctx context.Context) (last time.Time, ok bool) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			g.logger.Warn("cannot read last run time, treating as never run",
				ports.String("path", g.path),
				ports.Err(err),
			)
		}
		return time.Time{}, false
	}

	last, err = domain.ParseEpoch(string(data))
	if err != nil {
		g.logger.Warn("invalid last run time, resetting",
			ports.String("path", g.path),
			ports.Err(err),
		)
		return time.Time{}, false
	}
	return last, true
}

// MayRun returns true if no usable last run is recorded or at least
// interval has elapsed since it.
func (g *RunGateFile) MayRun(ctx context.Context, now time.Time, interval time.Duration) (bool, error) {
	last, ok := g.LastRun(ctx)
	if !ok {
		return true, nil
	}
	return now.Sub(last) >= interval, nil
}

// RecordRun replaces the recorded last run with now.
func (g *RunGateFile) RecordRun(ctx context.Context, now time.Time) error {
	return writeFileAtomic(g.path, []byte(domain.FormatEpoch(now)), 0o644)
}

// Path returns the gate file path.
func (g *RunGateFile) Path() string {
	return g.path
}
