package cliconfig

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/bft-labs/fqdnledger/internal/domain"
)

// Default locations, relative to the working directory.
const (
	DefaultInputPath  = "data/blacklist.txt"
	DefaultLedgerPath = "data/blockchain_data.json"
	DefaultGatePath   = "data/last_run_time.txt"
)

// Defaults for the pass parameters.
const (
	DefaultMaxTransactions = 1_000_000
	DefaultBatchSize       = 50_000
	DefaultInterval        = 2 * time.Hour
	DefaultWatchDebounce   = 500 * time.Millisecond
	DefaultLogLevel        = "info"
)

// Config holds CLI configuration for fqdnledger.
type Config struct {
	InputPath  string
	LedgerPath string
	GatePath   string

	MaxTransactions int
	BatchSize       int
	Workers         int
	Interval        time.Duration
	LinkRecords     bool

	WatchDebounce time.Duration
	LogLevel      string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		InputPath:       DefaultInputPath,
		LedgerPath:      DefaultLedgerPath,
		GatePath:        DefaultGatePath,
		MaxTransactions: DefaultMaxTransactions,
		BatchSize:       DefaultBatchSize,
		Workers:         runtime.NumCPU(),
		Interval:        DefaultInterval,
		WatchDebounce:   DefaultWatchDebounce,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate checks the configuration. Errors wrap domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.InputPath == "":
		return invalid("input path is required")
	case c.LedgerPath == "":
		return invalid("ledger path is required")
	case c.GatePath == "":
		return invalid("gate path is required")
	case c.MaxTransactions <= 0:
		return invalid("max-transactions must be positive")
	case c.BatchSize <= 0:
		return invalid("batch-size must be positive")
	case c.Workers <= 0:
		return invalid("workers must be positive")
	case c.Interval <= 0:
		return invalid("interval must be positive")
	case c.WatchDebounce <= 0:
		return invalid("watch-debounce must be positive")
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, msg)
}

// configSetter applies values from a lower-precedence source, skipping
// any whose flag was set explicitly on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a positive int for environment values.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a bool for environment values.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
