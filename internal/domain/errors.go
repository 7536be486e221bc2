package domain

import "errors"

// Domain errors represent error conditions in the fqdnledger domain.
// These errors can be checked with errors.Is.
var (
	// ErrInputMissing is returned when the domain list cannot be opened or read.
	// A pass that fails with it never records a completed run.
	ErrInputMissing = errors.New("fqdnledger: input list missing or unreadable")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("fqdnledger: invalid configuration")

	// ErrAlreadyRunning is returned when Start() is called on a running service.
	ErrAlreadyRunning = errors.New("fqdnledger: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped service.
	ErrNotRunning = errors.New("fqdnledger: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("fqdnledger: shutdown timeout")

	// ErrLedgerCorrupt is returned when the ledger file exists but does not
	// decode. A pass starts over from an empty ledger; read-only commands
	// report it.
	ErrLedgerCorrupt = errors.New("fqdnledger: ledger file is corrupt")

	// ErrRecordNotFound is returned when a ledger position is out of range.
	ErrRecordNotFound = errors.New("fqdnledger: record not found")
)
