package batch

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	logAdapter "github.com/bft-labs/fqdnledger/internal/adapters/log"
	"github.com/bft-labs/fqdnledger/internal/domain"
	"github.com/bft-labs/fqdnledger/internal/fqdn"
	"github.com/bft-labs/fqdnledger/internal/ports"
)

// DefaultBatchSize is the number of lines per batch when none is configured.
const DefaultBatchSize = 50_000

// Options configures a Processor. Zero values select defaults.
type Options struct {
	BatchSize int

	// Workers bounds the number of batches processed at once.
	// Default: runtime.NumCPU()
	Workers int

	// Now stamps new records. Default: time.Now
	Now func() time.Time

	// Validate decides whether a trimmed line becomes a record.
	// Default: fqdn.Valid
	Validate func(string) bool

	// OnProgress is called after each batch completes, from the worker that
	// processed it. It must be safe for concurrent use. A panic in it is
	// recovered and logged.
	OnProgress func(Progress)

	Logger ports.Logger
}

// Progress reports how much of the input has been processed.
type Progress struct {
	Processed int
	Total     int
}

// Percent returns Processed as a percentage of Total.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Processed) / float64(p.Total) * 100
}

// Stats summarizes a Process call.
type Stats struct {
	Lines         int
	Batches       int
	FailedBatches int
	Skipped       int
	Rejected      int
	Accepted      int
}

// Processor validates and hashes lines into records.
type Processor struct {
	opts Options
}

// NewProcessor creates a Processor, filling in defaults.
func NewProcessor(opts Options) *Processor {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Validate == nil {
		opts.Validate = fqdn.Valid
	}
	if opts.Logger == nil {
		opts.Logger = logAdapter.NewNoopLogger()
	}
	return &Processor{opts: opts}
}

// batchResult is what one worker hands back for its batch.
type batchResult struct {
	records  []domain.Record
	skipped  int
	rejected int
	err      error
}

// Process turns lines into records in input order. Records carry an empty
// previous_hash.
func (p *Processor) Process(lines []string) ([]domain.Record, Stats) {
	batches := Split(lines, p.opts.BatchSize)
	results := make([]batchResult, len(batches))
	total := len(lines)
	var processed atomic.Int64

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for _, b := range batches {
		g.Go(func() error {
			results[b.Index] = p.processBatch(b)
			done := processed.Add(int64(b.Size()))
			p.reportProgress(Progress{Processed: int(done), Total: total})
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{Lines: total, Batches: len(batches)}
	var records []domain.Record
	for i, res := range results {
		if res.err != nil {
			stats.FailedBatches++
			p.opts.Logger.Error("batch failed, skipping",
				ports.Int("batch", i),
				ports.Int("first_line", batches[i].Offset),
				ports.Int("lines", batches[i].Size()),
				ports.Err(res.err),
			)
			continue
		}
		stats.Skipped += res.skipped
		stats.Rejected += res.rejected
		records = append(records, res.records...)
	}
	stats.Accepted = len(records)
	return records, stats
}

// reportProgress calls OnProgress. A panic in the callback is logged and
// does not affect the batch that triggered it.
func (p *Processor) reportProgress(pr Progress) {
	if p.opts.OnProgress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.opts.Logger.Warn("progress callback panicked",
				ports.String("panic", fmt.Sprint(r)),
				ports.Int("processed", pr.Processed),
			)
		}
	}()
	p.opts.OnProgress(pr)
}

// processBatch validates and hashes one batch. A panic is turned into an
// error so only this batch is lost.
func (p *Processor) processBatch(b Batch) (res batchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = batchResult{err: fmt.Errorf("panic: %v", r)}
		}
	}()

	for i, raw := range b.Lines {
		if !utf8.ValidString(raw) {
			return batchResult{err: fmt.Errorf("line %d: invalid UTF-8", b.Offset+i)}
		}
	}

	for _, raw := range b.Lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, fqdn.CommentPrefix) {
			res.skipped++
			continue
		}
		if !p.opts.Validate(line) {
			res.rejected++
			continue
		}
		res.records = append(res.records, domain.NewRecord(line, p.opts.Now(), ""))
	}
	return res
}
