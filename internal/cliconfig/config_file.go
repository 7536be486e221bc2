package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig is the TOML form of Config. Durations are strings such as
// "2h" or "500ms".
type FileConfig struct {
	Input           string `toml:"input"`
	Ledger          string `toml:"ledger"`
	Gate            string `toml:"gate"`
	MaxTransactions int    `toml:"max_transactions"`
	BatchSize       int    `toml:"batch_size"`
	Workers         int    `toml:"workers"`
	Interval        string `toml:"interval"`
	LinkRecords     *bool  `toml:"link_records"`
	WatchDebounce   string `toml:"watch_debounce"`
	LogLevel        string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.fqdnledger/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".fqdnledger", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies file values into cfg, leaving explicitly set
// flags alone.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("input", fc.Input, &cfg.InputPath)
	s.setString("ledger", fc.Ledger, &cfg.LedgerPath)
	s.setString("gate", fc.Gate, &cfg.GatePath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("max-transactions", fc.MaxTransactions, &cfg.MaxTransactions)
	s.setInt("batch-size", fc.BatchSize, &cfg.BatchSize)
	s.setInt("workers", fc.Workers, &cfg.Workers)

	if err := s.setDuration("interval", fc.Interval, &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", fc.WatchDebounce, &cfg.WatchDebounce); err != nil {
		return err
	}

	s.setBool("link-records", fc.LinkRecords, &cfg.LinkRecords)
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
