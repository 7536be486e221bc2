package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/fqdnledger/internal/adapters/fs"
	"github.com/bft-labs/fqdnledger/internal/app"
	"github.com/bft-labs/fqdnledger/internal/domain"
	"github.com/bft-labs/fqdnledger/internal/ports"
)

func (c *cli) pipeline(force bool) *app.Pipeline {
	return app.NewPipeline(
		app.PipelineConfig{
			MaxTransactions: c.cfg.MaxTransactions,
			BatchSize:       c.cfg.BatchSize,
			Workers:         c.cfg.Workers,
			Interval:        c.cfg.Interval,
			LinkRecords:     c.cfg.LinkRecords,
			Force:           force,
		},
		fs.NewListFile(c.cfg.InputPath),
		fs.NewLedgerFile(c.cfg.LedgerPath, c.logger),
		fs.NewRunGateFile(c.cfg.GatePath, c.logger),
		c.logger,
	)
}

func (c *cli) loadLedger(ctx context.Context) (domain.Ledger, error) {
	return fs.NewLedgerFile(c.cfg.LedgerPath, c.logger).Load(ctx)
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func newIngestCmd(c *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one pass if the interval since the last pass has elapsed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			res, err := c.pipeline(force).Run(ctx)
			if err != nil {
				return err
			}
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "skipped: last pass is within the interval")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "accepted %d, rejected %d, pruned %d, ledger size %d\n",
				res.Accepted, res.Rejected, res.Pruned, res.LedgerSize)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "run even if the interval has not elapsed")
	return cmd
}

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run passes on every interval and whenever the input list changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			w := app.NewWatcher(app.WatcherConfig{
				InputPath: c.cfg.InputPath,
				Interval:  c.cfg.Interval,
				Debounce:  c.cfg.WatchDebounce,
			}, c.pipeline(false), c.logger)

			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			<-ctx.Done()
			c.logger.Info("received signal, stopping...")

			if err := w.Stop(); err != nil {
				return fmt.Errorf("stop watcher: %w", err)
			}
			return nil
		},
	}
}

func newShowCmd(c *cli) *cobra.Command {
	var page, perPage, index int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List ledger records, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := c.loadLedger(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("index") {
				r, err := ledger.At(index)
				if err != nil {
					return err
				}
				printRecord(out, index, r)
				return nil
			}

			p := ledger.Page(page, perPage)
			fmt.Fprintf(out, "%d records, page %d of %d\n", p.Total, p.Number, max(p.Pages(), 1))
			for i, r := range p.Records {
				printRecord(out, p.Start+i, r)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&perPage, "per-page", domain.DefaultPageSize, "records per page")
	cmd.Flags().IntVar(&index, "index", 0, "show the single record at this 0-based position")
	return cmd
}

func printRecord(out io.Writer, i int, r domain.Record) {
	fmt.Fprintf(out, "#%d %s  %s\n", i, r.FQDN, domain.FormatTimestamp(r.Timestamp))
	fmt.Fprintf(out, "    hash: %s\n", r.Hash)
	if r.PreviousHash != "" {
		fmt.Fprintf(out, "    previous: %s\n", r.PreviousHash)
	}
}

func newVerifyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Recompute every record hash and check previous_hash links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := c.loadLedger(cmd.Context())
			if err != nil {
				return err
			}
			issues := ledger.Verify()
			for _, is := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), is.String())
			}
			if len(issues) > 0 {
				c.logger.Warn("ledger verification failed",
					ports.Int("records", ledger.Len()),
					ports.Int("issues", len(issues)),
				)
				return fmt.Errorf("ledger has %d integrity issues", len(issues))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d records verified\n", ledger.Len())
			return nil
		},
	}
}
