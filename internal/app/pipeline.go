package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/bft-labs/fqdnledger/internal/batch"
	"github.com/bft-labs/fqdnledger/internal/domain"
	"github.com/bft-labs/fqdnledger/internal/ports"
)

// DefaultProgressInterval is the minimum time between progress log lines.
const DefaultProgressInterval = 2 * time.Second

// PipelineConfig contains configuration for an ingestion pass.
type PipelineConfig struct {
	MaxTransactions int
	BatchSize       int
	Workers         int
	Interval        time.Duration

	// LinkRecords sets each new record's previous_hash to the hash of the
	// record before it. Off by default: records are hashed independently.
	LinkRecords bool

	// Force runs the pass even when the gate would deny it.
	Force bool

	ProgressInterval time.Duration
}

// Result summarizes one pass.
type Result struct {
	// Skipped is true when the gate denied the pass. Nothing else is set.
	Skipped bool

	Lines         int
	Accepted      int
	Rejected      int
	FailedBatches int
	Pruned        int
	LedgerSize    int
	RetrievedAt   time.Time
	Duration      time.Duration
}

// Pipeline wires the gate, the list, the batch processor and the ledger.
// It holds no state between passes: every Run reloads the gate and the
// ledger from storage.
type Pipeline struct {
	config PipelineConfig
	source ports.LineSource
	ledger ports.LedgerRepository
	gate   ports.RunGate
	logger ports.Logger
	now    func() time.Time
}

// NewPipeline creates a pipeline with the given dependencies.
func NewPipeline(
	config PipelineConfig,
	source ports.LineSource,
	ledger ports.LedgerRepository,
	gate ports.RunGate,
	logger ports.Logger,
) *Pipeline {
	if config.ProgressInterval <= 0 {
		config.ProgressInterval = DefaultProgressInterval
	}
	return &Pipeline{
		config: config,
		source: source,
		ledger: ledger,
		gate:   gate,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes one ingestion pass: check the gate, read the list, build
// records, then load, append, prune and save the ledger and record the
// pass. Once started, a pass is not interrupted by ctx.
//
// Errors are returned only when the list is missing or unreadable
// (wrapping domain.ErrInputMissing) or storage fails; the gate is updated
// only after the ledger is saved.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	start := p.now()

	if !p.config.Force {
		ok, err := p.gate.MayRun(ctx, start, p.config.Interval)
		if err != nil {
			return Result{}, fmt.Errorf("run gate: %w", err)
		}
		if !ok {
			p.logger.Info("already ran within the interval, nothing to do",
				ports.Duration("interval", p.config.Interval),
			)
			return Result{Skipped: true}, nil
		}
	}

	lines, err := p.source.ReadLines(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read list: %w", err)
	}

	var res Result
	res.Lines = len(lines)
	if len(lines) > 0 {
		if t, ok := domain.RetrievedAt(lines[0]); ok {
			res.RetrievedAt = t
		}
	}
	fields := []ports.Field{ports.Int("lines", len(lines))}
	if !res.RetrievedAt.IsZero() {
		fields = append(fields, ports.Time("retrieved_at", res.RetrievedAt))
	}
	p.logger.Info("processing domain list", fields...)

	records, stats := p.newProcessor(len(lines)).Process(lines)
	res.Accepted = stats.Accepted
	res.Rejected = stats.Rejected
	res.FailedBatches = stats.FailedBatches
	p.logger.Info("progress",
		ports.Int("processed", len(lines)),
		ports.Int("total", len(lines)),
		ports.Float64("percent", 100),
	)

	current, err := p.ledger.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrLedgerCorrupt):
		p.logger.Warn("ledger is corrupt, starting from an empty ledger", ports.Err(err))
		current = domain.Ledger{}
	case err != nil:
		return Result{}, fmt.Errorf("load ledger: %w", err)
	}
	if p.config.LinkRecords {
		records = current.Link(records)
	}
	updated, pruned := current.Append(records...).Prune(p.config.MaxTransactions)
	if err := p.ledger.Save(ctx, updated); err != nil {
		return Result{}, fmt.Errorf("save ledger: %w", err)
	}
	res.Pruned = pruned
	res.LedgerSize = updated.Len()

	if err := p.gate.RecordRun(ctx, start); err != nil {
		return Result{}, fmt.Errorf("record run: %w", err)
	}

	res.Duration = p.now().Sub(start)
	p.logger.Info("processing completed",
		ports.Int("accepted", res.Accepted),
		ports.Int("rejected", res.Rejected),
		ports.Int("failed_batches", res.FailedBatches),
		ports.Int("pruned", res.Pruned),
		ports.Int("ledger_size", res.LedgerSize),
		ports.Duration("duration", res.Duration),
	)
	return res, nil
}

func (p *Pipeline) newProcessor(total int) *batch.Processor {
	progress := &rate.Sometimes{Interval: p.config.ProgressInterval}
	return batch.NewProcessor(batch.Options{
		BatchSize: p.config.BatchSize,
		Workers:   p.config.Workers,
		Now:       p.now,
		Logger:    p.logger,
		OnProgress: func(pr batch.Progress) {
			if pr.Processed >= total {
				return
			}
			progress.Do(func() {
				p.logger.Info("progress",
					ports.Int("processed", pr.Processed),
					ports.Int("total", pr.Total),
					ports.Float64("percent", pr.Percent()),
				)
			})
		},
	})
}
