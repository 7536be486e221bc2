package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/fqdnledger/internal/domain"
	"github.com/bft-labs/fqdnledger/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

type stateChange struct {
	previous State
	current  State
}

// recorder collects state changes.
type recorder struct {
	mu      sync.Mutex
	changes []stateChange
}

func (r *recorder) observe(previous, current State, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, stateChange{previous, current})
}

func (r *recorder) Changes() []stateChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]stateChange{}, r.changes...)
}

func TestNewLifecycle(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)
	require.NotNil(t, l)
	assert.Equal(t, StateStopped, l.State())
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{StateCrashed, "Crashed"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestLifecycle_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr error
	}{
		{"stopped to starting", StateStopped, StateStarting, nil},
		{"starting to running", StateStarting, StateRunning, nil},
		{"starting to stopping", StateStarting, StateStopping, nil},
		{"starting to crashed", StateStarting, StateCrashed, nil},
		{"running to stopping", StateRunning, StateStopping, nil},
		{"running to crashed", StateRunning, StateCrashed, nil},
		{"stopping to stopped", StateStopping, StateStopped, nil},
		{"stopping to crashed", StateStopping, StateCrashed, nil},
		{"crashed to starting", StateCrashed, StateStarting, nil},

		{"stopped to running", StateStopped, StateRunning, domain.ErrNotRunning},
		{"stopped to stopping", StateStopped, StateStopping, domain.ErrNotRunning},
		{"starting to stopped", StateStarting, StateStopped, domain.ErrAlreadyRunning},
		{"running to starting", StateRunning, StateStarting, domain.ErrAlreadyRunning},
		{"running to stopped", StateRunning, StateStopped, domain.ErrAlreadyRunning},
		{"stopping to running", StateStopping, StateRunning, domain.ErrAlreadyRunning},
		{"stopping to starting", StateStopping, StateStarting, domain.ErrAlreadyRunning},
		{"crashed to running", StateCrashed, StateRunning, domain.ErrNotRunning},
		{"crashed to stopped", StateCrashed, StateStopped, domain.ErrNotRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, l.State(), "state must not change")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, l.State())
		})
	}
}

func TestLifecycle_TransitionTo_NotifiesObserver(t *testing.T) {
	rec := &recorder{}
	l := NewLifecycle(&mockLogger{}, rec.observe)

	require.NoError(t, l.TransitionTo(StateStarting, "start"))
	require.NoError(t, l.TransitionTo(StateRunning, "running"))
	require.Error(t, l.TransitionTo(StateStarting, "again"))

	assert.Equal(t, []stateChange{
		{StateStopped, StateStarting},
		{StateStarting, StateRunning},
	}, rec.Changes())
}

func TestLifecycle_CanStartCanStop(t *testing.T) {
	tests := []struct {
		state     State
		wantStart bool
		wantStop  bool
	}{
		{StateStopped, true, false},
		{StateStarting, false, true},
		{StateRunning, false, true},
		{StateStopping, false, false},
		{StateCrashed, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.state

			assert.Equal(t, tt.wantStart, l.CanStart())
			assert.Equal(t, tt.wantStop, l.CanStop())
		})
	}
}

func TestLifecycle_Cancel(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)
	l.Cancel() // nil cancel is a no-op

	ctx, cancel := context.WithCancel(context.Background())
	l.SetCancel(cancel)
	require.NoError(t, ctx.Err())

	l.Cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestLifecycle_WaitWithTimeout(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	l.Go(func() { time.Sleep(10 * time.Millisecond) })

	assert.NoError(t, l.WaitWithTimeout(time.Second))
}

func TestLifecycle_WaitWithTimeout_Expires(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)
	release := make(chan struct{})
	l.Go(func() { <-release })

	err := l.WaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, domain.ErrShutdownTimeout)

	close(release)
	assert.NoError(t, l.WaitWithTimeout(time.Second))
}

func TestLifecycle_Concurrency(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = l.State()
				_ = l.CanStart()
				_ = l.CanStop()
			}
		}()
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.TransitionTo(StateStarting, "test")
			_ = l.TransitionTo(StateRunning, "test")
		}()
	}
	wg.Wait()

	assert.Equal(t, StateRunning, l.State())
}

func TestBackoff(t *testing.T) {
	b := newBackoff(100*time.Millisecond, 350*time.Millisecond)

	for _, base := range []time.Duration{100, 200, 350, 350} {
		base *= time.Millisecond
		require.Equal(t, base, b.Current())
		d := b.Next()
		assert.GreaterOrEqual(t, d, base*8/10)
		assert.LessOrEqual(t, d, base*12/10)
	}

	b.Reset()
	assert.Equal(t, 100*time.Millisecond, b.Current())
}
