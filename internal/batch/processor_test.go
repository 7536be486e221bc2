package batch

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/fqdnledger/internal/domain"
)

var fixedNow = func() time.Time { return time.Unix(1700000000, 0) }

func fqdns(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.FQDN
	}
	return out
}

func TestProcess_Scenario(t *testing.T) {
	p := NewProcessor(Options{BatchSize: 10, Now: fixedNow})

	records, stats := p.Process([]string{"example.com", "# comment", "", "bad--domain", "foo.co"})

	require.Len(t, records, 2)
	assert.Equal(t, []string{"example.com", "foo.co"}, fqdns(records))
	for _, r := range records {
		assert.Equal(t, "1700000000", r.Timestamp)
		assert.Empty(t, r.PreviousHash)
		assert.True(t, r.VerifyHash())
	}
	assert.Equal(t, Stats{Lines: 5, Batches: 1, Skipped: 2, Rejected: 1, Accepted: 2}, stats)
}

func TestProcess_TrimsAcceptedLines(t *testing.T) {
	p := NewProcessor(Options{Now: fixedNow})

	records, _ := p.Process([]string{"  example.com \r"})

	require.Len(t, records, 1)
	assert.Equal(t, "example.com", records[0].FQDN)
}

func TestProcess_OrderIndependentOfBatchingAndWorkers(t *testing.T) {
	var lines, want []string
	for i := 0; i < 500; i++ {
		switch i % 5 {
		case 0:
			lines = append(lines, "# header")
		case 1:
			lines = append(lines, fmt.Sprintf("bad-%d.com", i))
		default:
			name := fmt.Sprintf("host%d.com", i)
			lines = append(lines, name)
			want = append(want, name)
		}
	}

	for _, size := range []int{1, 3, 7, 64, 500, 1000} {
		for _, workers := range []int{1, 2, 8, 32} {
			t.Run(fmt.Sprintf("size=%d/workers=%d", size, workers), func(t *testing.T) {
				p := NewProcessor(Options{BatchSize: size, Workers: workers, Now: fixedNow})
				records, stats := p.Process(lines)

				assert.Equal(t, want, fqdns(records))
				assert.Equal(t, len(want), stats.Accepted)
				assert.Zero(t, stats.FailedBatches)
			})
		}
	}
}

func TestProcess_InvalidUTF8DropsOnlyThatBatch(t *testing.T) {
	p := NewProcessor(Options{BatchSize: 2, Workers: 4, Now: fixedNow})
	lines := []string{
		"one.com", "two.com",
		"three.com", "bad\xffbytes.com",
		"four.com",
	}

	records, stats := p.Process(lines)

	assert.Equal(t, []string{"one.com", "two.com", "four.com"}, fqdns(records))
	assert.Equal(t, 3, stats.Batches)
	assert.Equal(t, 1, stats.FailedBatches)
}

func TestProcess_PanicDropsOnlyThatBatch(t *testing.T) {
	p := NewProcessor(Options{
		BatchSize: 1,
		Workers:   2,
		Now:       fixedNow,
		Validate: func(s string) bool {
			if s == "explode.com" {
				panic("validator bug")
			}
			return true
		},
	})

	records, stats := p.Process([]string{"a.com", "explode.com", "b.com"})

	assert.Equal(t, []string{"a.com", "b.com"}, fqdns(records))
	assert.Equal(t, 1, stats.FailedBatches)
}

func TestProcess_Progress(t *testing.T) {
	var (
		mu      sync.Mutex
		reports []Progress
	)
	p := NewProcessor(Options{
		BatchSize: 3,
		Workers:   3,
		Now:       fixedNow,
		OnProgress: func(pr Progress) {
			mu.Lock()
			defer mu.Unlock()
			reports = append(reports, pr)
		},
	})

	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("h%d.com", i)
	}
	p.Process(lines)

	require.Len(t, reports, 4)
	maxSeen := 0
	for _, r := range reports {
		assert.Equal(t, 10, r.Total)
		maxSeen = max(maxSeen, r.Processed)
	}
	assert.Equal(t, 10, maxSeen)
}

func TestProcess_ProgressCallbackPanics(t *testing.T) {
	p := NewProcessor(Options{
		BatchSize: 1,
		Workers:   2,
		Now:       fixedNow,
		OnProgress: func(Progress) {
			panic("progress sink broken")
		},
	})

	var (
		records []domain.Record
		stats   Stats
	)
	require.NotPanics(t, func() {
		records, stats = p.Process([]string{"a.com", "b.com", "c.com"})
	})
	assert.Equal(t, []string{"a.com", "b.com", "c.com"}, fqdns(records))
	assert.Zero(t, stats.FailedBatches)
}

func TestProcess_Empty(t *testing.T) {
	records, stats := NewProcessor(Options{}).Process(nil)
	assert.Empty(t, records)
	assert.Equal(t, Stats{}, stats)
}

func TestProgress_Percent(t *testing.T) {
	assert.InDelta(t, 50.0, Progress{Processed: 5, Total: 10}.Percent(), 1e-9)
	assert.InDelta(t, 100.0, Progress{}.Percent(), 1e-9)
}
