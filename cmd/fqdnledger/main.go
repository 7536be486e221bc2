package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/fqdnledger/internal/adapters/log"
	"github.com/bft-labs/fqdnledger/internal/cliconfig"
	"github.com/bft-labs/fqdnledger/internal/ports"
)

const longHelp = `Keep a bounded, hash-stamped ledger of the domains listed in a blacklist file.

Each pass reads the list, keeps the well-formed FQDNs, stamps each with the
current time and a SHA-256 hash, appends them to the JSON ledger and trims it
to the newest max-transactions records. A gate file limits passes to one per
interval.

Configuration is read from the TOML file, then FQDNLEDGER_* environment
variables, then flags, each overriding the one before.`

var exampleUsage = strings.TrimSpace(`
  fqdnledger ingest --input data/blacklist.txt
  fqdnledger watch --interval 2h
  fqdnledger show --page 3
  fqdnledger verify --ledger data/blockchain_data.json
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the resolved configuration to the subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  ports.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: cliconfig.DefaultConfig()}

	root := &cobra.Command{
		Use:           "fqdnledger",
		Short:         "Append validated domains from a blacklist to a bounded hash ledger",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.fqdnledger/config.toml)")
	f.StringVar(&c.cfg.InputPath, "input", c.cfg.InputPath, "domain list to ingest")
	f.StringVar(&c.cfg.LedgerPath, "ledger", c.cfg.LedgerPath, "JSON ledger file")
	f.StringVar(&c.cfg.GatePath, "gate", c.cfg.GatePath, "file holding the last completed pass time")
	f.IntVar(&c.cfg.MaxTransactions, "max-transactions", c.cfg.MaxTransactions, "maximum records kept in the ledger")
	f.IntVar(&c.cfg.BatchSize, "batch-size", c.cfg.BatchSize, "lines per processing batch")
	f.IntVar(&c.cfg.Workers, "workers", c.cfg.Workers, "concurrent batch workers")
	f.DurationVar(&c.cfg.Interval, "interval", c.cfg.Interval, "minimum time between passes")
	f.BoolVar(&c.cfg.LinkRecords, "link-records", c.cfg.LinkRecords, "set previous_hash to the preceding record's hash")
	f.DurationVar(&c.cfg.WatchDebounce, "watch-debounce", c.cfg.WatchDebounce, "quiet period after a list change before a pass (watch)")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newIngestCmd(c),
		newWatchCmd(c),
		newShowCmd(c),
		newVerifyCmd(c),
	)
	return root
}

// load resolves configuration as defaults < file < env < changed flags and
// builds the logger.
func (c *cli) load(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("load config: %s does not exist", c.cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.logger = logAdapter.NewZerologAdapterWithLogger(logAdapter.NewConsoleLogger(c.cfg.LogLevel))
	c.logger.Debug("configuration",
		ports.String("input", c.cfg.InputPath),
		ports.String("ledger", c.cfg.LedgerPath),
		ports.String("gate", c.cfg.GatePath),
		ports.Int("max_transactions", c.cfg.MaxTransactions),
		ports.Int("batch_size", c.cfg.BatchSize),
		ports.Int("workers", c.cfg.Workers),
		ports.Duration("interval", c.cfg.Interval),
		ports.Bool("link_records", c.cfg.LinkRecords),
	)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log := logAdapter.NewConsoleLogger(cliconfig.DefaultLogLevel)
		log.Error().Err(err).Msg("fqdnledger")
		os.Exit(1)
	}
}
