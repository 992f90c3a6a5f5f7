package stress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/tsmap-go/internal/bench/config"
	"github.com/yndnr/tsmap-go/internal/telemetry/logger"
	"github.com/yndnr/tsmap-go/pkg/tsmap"
)

func quietContext() context.Context {
	return logger.WithLogger(context.Background(), logger.Discard())
}

func newTable(t *testing.T, capacity int) *tsmap.Map {
	t.Helper()
	m, err := tsmap.New(capacity)
	require.NoError(t, err)
	return m
}

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
	hits   atomic.Int64
}

func (o *countingObserver) ObserveOp(op string, hit bool, _ time.Duration) {
	o.mu.Lock()
	if o.counts == nil {
		o.counts = make(map[string]int)
	}
	o.counts[op]++
	o.mu.Unlock()
	if hit {
		o.hits.Add(1)
	}
}

func TestRun_DefaultScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Stress.Seed = 42
	m := newTable(t, cfg.Table.Capacity)
	obs := &countingObserver{}

	report, err := Run(quietContext(), m, cfg.Stress, WithObserver(obs), WithRunID("run-1"))
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, uint64(42), report.Seed)
	assert.Equal(t, uint64(8000), report.Issued)
	assert.False(t, report.Interrupted)
	assert.Equal(t, uint64(8000), report.Table.NumOps)
	assert.Equal(t, m.Len(), report.Table.Size)
	assert.LessOrEqual(t, report.Table.Size, cfg.Stress.KeySpace)
	require.Len(t, report.Ops, 3)

	var hits uint64
	for _, c := range report.Ops {
		assert.Equal(t, obs.counts[c.Op], int(c.Total()), "observer saw every %s", c.Op)
		hits += c.Hits
	}
	assert.Equal(t, int64(hits), obs.hits.Load())

	// Every put that inserted a key either still has it or was undone by a
	// delete hit.
	puts, dels := report.Ops[1], report.Ops[2]
	assert.Equal(t, int(puts.Misses)-int(dels.Hits), report.Table.Size)
}

func TestRun_MultipleObservers(t *testing.T) {
	cfg := config.Default().Stress
	cfg.Workers = 2
	cfg.OpsPerWorker = 50
	a, b := &countingObserver{}, &countingObserver{}

	_, err := Run(quietContext(), newTable(t, 4), cfg, WithObserver(a), WithObserver(b))
	require.NoError(t, err)

	assert.Equal(t, a.counts, b.counts)
	assert.Equal(t, 100, a.counts[OpGet]+a.counts[OpPut]+a.counts[OpDelete])
}

func TestRun_Deterministic(t *testing.T) {
	cfg := config.Default().Stress
	cfg.Workers = 1
	cfg.Seed = 7

	r1, err := Run(quietContext(), newTable(t, 4), cfg)
	require.NoError(t, err)
	r2, err := Run(quietContext(), newTable(t, 4), cfg)
	require.NoError(t, err)

	assert.Equal(t, r1.Ops, r2.Ops)
	assert.Equal(t, r1.Table.Size, r2.Table.Size)
	assert.Equal(t, r1.Digest, r2.Digest)
	assert.NotEqual(t, r1.RunID, r2.RunID, "run IDs are generated per run")
}

func TestRun_DigestMatchesDump(t *testing.T) {
	cfg := config.Default().Stress
	cfg.Workers = 2
	cfg.OpsPerWorker = 200
	m := newTable(t, 4)

	report, err := Run(quietContext(), m, cfg)
	require.NoError(t, err)

	assert.Len(t, report.Digest, 16)
	assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64String(m.String())), report.Digest)
}

func TestRun_GetOnlyMix(t *testing.T) {
	cfg := config.Default().Stress
	cfg.Mix = config.MixSection{Get: 1}
	cfg.Seed = 1
	m := newTable(t, 4)

	report, err := Run(quietContext(), m, cfg)
	require.NoError(t, err)

	assert.Equal(t, uint64(8000), report.Ops[0].Misses)
	assert.Zero(t, report.Ops[1].Total())
	assert.Zero(t, report.Ops[2].Total())
	assert.Zero(t, m.Len())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(quietContext())
	cancel()

	report, err := Run(ctx, newTable(t, 4), config.Default().Stress)
	require.NoError(t, err)
	assert.True(t, report.Interrupted)
	assert.Zero(t, report.Issued)
}

func TestRun_RateLimitedTimeout(t *testing.T) {
	cfg := config.Default().Stress
	cfg.Workers = 2
	cfg.RateLimit = 100
	cfg.Timeout = 50 * time.Millisecond

	report, err := Run(quietContext(), newTable(t, 4), cfg)
	require.NoError(t, err)
	assert.True(t, report.Interrupted)
	assert.Less(t, report.Issued, uint64(cfg.Workers*cfg.OpsPerWorker))
	assert.Equal(t, report.Issued, report.Table.NumOps)
}

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.StressSection)
	}{
		{"empty mix", func(s *config.StressSection) { s.Mix = config.MixSection{} }},
		{"negative workers", func(s *config.StressSection) { s.Workers = -1 }},
		{"zero workers", func(s *config.StressSection) { s.Workers = 0 }},
		{"negative ops", func(s *config.StressSection) { s.OpsPerWorker = -5 }},
		{"empty key space", func(s *config.StressSection) { s.KeySpace = 0 }},
		{"empty value space", func(s *config.StressSection) { s.ValueSpace = 0 }},
		{"negative rate", func(s *config.StressSection) { s.RateLimit = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Stress
			tt.mutate(&cfg)
			m := newTable(t, 4)

			var report *Report
			var err error
			require.NotPanics(t, func() {
				report, err = Run(quietContext(), m, cfg)
			})
			require.ErrorIs(t, err, config.ErrInvalid)
			assert.Nil(t, report)
			assert.Equal(t, uint64(0), m.NumOps(), "no operations before validation passes")

			var runErr *RunError
			require.ErrorAs(t, err, &runErr)
			assert.Equal(t, PhaseRun, runErr.Phase)
		})
	}
}

// brokenTable fails verification with a fixed error.
type brokenTable struct {
	*tsmap.Map
	verifyErr error
}

func (b *brokenTable) Verify() error {
	return b.verifyErr
}

// lossyTable under-reports NumOps on every Stats call but the first, as if
// the table dropped some operations during the run.
type lossyTable struct {
	*tsmap.Map
	calls int
}

func (l *lossyTable) Stats() tsmap.Stats {
	l.calls++
	s := l.Map.Stats()
	if l.calls > 1 {
		s.NumOps -= 3
	}
	return s
}

func TestRun_VerifyFailure(t *testing.T) {
	corrupt := errors.New("bucket 2 is cyclic")
	tbl := &brokenTable{Map: newTable(t, 4), verifyErr: corrupt}

	report, err := Run(quietContext(), tbl, config.Default().Stress, WithRunID("bad"))
	require.Error(t, err)
	require.NotNil(t, report, "report is returned alongside the error")

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, PhaseVerify, runErr.Phase)
	assert.ErrorIs(t, err, corrupt)
	assert.Contains(t, err.Error(), "run bad")
}

func TestRun_OpCountMismatch(t *testing.T) {
	cfg := config.Default().Stress
	cfg.Workers = 2
	cfg.OpsPerWorker = 10

	report, err := Run(quietContext(), &lossyTable{Map: newTable(t, 4)}, cfg)
	require.ErrorIs(t, err, ErrOpCountMismatch)
	assert.Equal(t, uint64(20), report.Issued)
}

func TestRunError(t *testing.T) {
	inner := errors.New("boom")

	e := &RunError{Phase: PhaseVerify, Err: inner}
	assert.Equal(t, "stress verify failed: boom", e.Error())
	assert.ErrorIs(t, e, inner)

	e.RunID = "01J"
	assert.Equal(t, "stress verify failed (run 01J): boom", e.Error())
}
