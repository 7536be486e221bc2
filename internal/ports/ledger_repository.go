package ports

import (
	"context"

	"github.com/bft-labs/fqdnledger/internal/domain"
)

// LedgerRepository persists the whole ledger. Every pass loads it, mutates
// it in memory and saves it back; there is no incremental format.
type LedgerRepository interface {
	// Load retrieves the persisted ledger.
	// Returns an empty ledger and nil error if nothing has been saved yet.
	// A ledger that exists but does not decode returns an error wrapping
	// domain.ErrLedgerCorrupt; callers that write may start over from empty.
	Load(ctx context.Context) (domain.Ledger, error)

	// Save replaces the persisted ledger atomically.
	// The implementation must use atomic writes (e.g., write to temp file, then rename)
	// so a crash never leaves a truncated ledger behind.
	Save(ctx context.Context, ledger domain.Ledger) error
}
