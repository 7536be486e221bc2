package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/bft-labs/fqdnledger/internal/domain"
	"github.com/bft-labs/fqdnledger/internal/ports"
)

// ledgerIndent matches the indentation of existing ledger files.
const ledgerIndent = "    "

// LedgerFile implements ports.LedgerRepository using a single JSON file
// holding the whole ledger as an indented array.
type LedgerFile struct {
	path   string
	logger ports.Logger
}

// NewLedgerFile creates a LedgerFile for the given path.
func NewLedgerFile(path string, logger ports.Logger) *LedgerFile {
	return &LedgerFile{path: path, logger: logger}
}

// Load reads the whole ledger into memory.
// Returns an empty ledger and nil error if no ledger file exists. A file
// that does not decode yields an empty ledger and an error wrapping
// domain.ErrLedgerCorrupt.
func (f *LedgerFile) Load(ctx context.Context) (domain.Ledger, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Ledger{}, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Ledger{}, nil
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return domain.Ledger{}, fmt.Errorf("%w: %s: %w", domain.ErrLedgerCorrupt, f.path, err)
	}
	if ledger == nil {
		ledger = domain.Ledger{}
	}
	f.logger.Debug("ledger loaded",
		ports.String("path", f.path),
		ports.Int("records", ledger.Len()),
	)
	return ledger, nil
}

// Save overwrites the ledger file with the full ledger.
// Uses atomic write (write to temp file, then rename) to prevent corruption.
func (f *LedgerFile) Save(ctx context.Context, ledger domain.Ledger) error {
	if ledger == nil {
		ledger = domain.Ledger{}
	}
	data, err := json.MarshalIndent(ledger, "", ledgerIndent)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return writeFileAtomic(f.path, data, 0o644)
}

// Path returns the ledger file path.
func (f *LedgerFile) Path() string {
	return f.path
}
