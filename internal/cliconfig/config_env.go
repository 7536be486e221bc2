package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "FQDNLEDGER_"

// ApplyEnvConfig reads FQDNLEDGER_* variables into cfg. Explicitly set
// flags win over the environment.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	s.setString("input", env("INPUT"), &cfg.InputPath)
	s.setString("ledger", env("LEDGER"), &cfg.LedgerPath)
	s.setString("gate", env("GATE"), &cfg.GatePath)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("max-transactions", env("MAX_TRANSACTIONS"), &cfg.MaxTransactions); err != nil {
		return err
	}
	if err := s.setIntFromString("batch-size", env("BATCH_SIZE"), &cfg.BatchSize); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", env("WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setDuration("interval", env("INTERVAL"), &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", env("WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}
	return s.setBoolFromString("link-records", env("LINK_RECORDS"), &cfg.LinkRecords)
}
