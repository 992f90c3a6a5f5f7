package stress

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/tsmap-go/internal/bench/config"
	"github.com/yndnr/tsmap-go/internal/telemetry/logger"
	"github.com/yndnr/tsmap-go/pkg/tsmap"
)

// Operation names, also used as metric labels.
const (
	OpGet    = "get"
	OpPut    = "put"
	OpDelete = "delete"
)

var opNames = [...]string{OpGet, OpPut, OpDelete}

// Table is the surface of *tsmap.Map the driver needs.
type Table interface {
	Get(key int) int
	Put(key, value int) int
	Delete(key int) int
	Stats() tsmap.Stats
	Verify() error
	Dump(w io.Writer) error
}

// Observer receives every completed operation. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveOp(op string, hit bool, d time.Duration)
}

// OpCounts tallies one operation kind.
type OpCounts struct {
	Op     string `json:"op" yaml:"op"`
	Hits   uint64 `json:"hits" yaml:"hits"`
	Misses uint64 `json:"misses" yaml:"misses"`
}

// Total returns hits plus misses.
func (c OpCounts) Total() uint64 {
	return c.Hits + c.Misses
}

// Report summarises a run.
type Report struct {
	RunID        string        `json:"run_id" yaml:"run_id"`
	Seed         uint64        `json:"seed" yaml:"seed"`
	Workers      int           `json:"workers" yaml:"workers"`
	OpsPerWorker int           `json:"ops_per_worker" yaml:"ops_per_worker"`
	Issued       uint64        `json:"issued" yaml:"issued"`
	Ops          []OpCounts    `json:"ops" yaml:"ops"`
	Elapsed      time.Duration `json:"elapsed_ns" yaml:"elapsed"`
	Throughput   float64       `json:"ops_per_sec" yaml:"ops_per_sec"`
	Interrupted  bool          `json:"interrupted" yaml:"interrupted"`
	Table        tsmap.Stats   `json:"table" yaml:"table"`

	// Digest is the xxhash64 of the final dump, in hex. Single-worker runs
	// with the same seed produce the same digest.
	Digest string `json:"digest" yaml:"digest"`
}

// Option configures a run.
type Option func(*runner)

// WithObserver reports every operation to o. It may be given more than
// once; observers are called in the order they were added.
func WithObserver(o Observer) Option {
	return func(r *runner) {
		r.observers = append(r.observers, o)
	}
}

// WithRunID fixes the run ID instead of generating a ULID.
func WithRunID(id string) Option {
	return func(r *runner) {
		r.runID = id
	}
}

type runner struct {
	table     Table
	cfg       config.StressSection
	observers []Observer
	runID     string
}

// Run executes the workload described by cfg against t.
//
// Cancelling ctx stops the workers early; the partial report is returned
// with Interrupted set and no error. A *RunError is returned when the
// table fails verification afterwards, together with the report.
func Run(ctx context.Context, t Table, cfg config.StressSection, opts ...Option) (*Report, error) {
	r := &runner{table: t, cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = ulid.Make().String()
	}
	if err := config.VerifyStress(&cfg); err != nil {
		return nil, &RunError{Phase: PhaseRun, RunID: r.runID, Err: err}
	}
	return r.run(ctx)
}

func (r *runner) run(ctx context.Context) (*Report, error) {
	ctx = logger.WithRunID(ctx, r.runID)
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	log := logger.L(ctx)

	seed := r.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	log.Info("stress run starting",
		"workers", r.cfg.Workers,
		"ops_per_worker", r.cfg.OpsPerWorker,
		"key_space", r.cfg.KeySpace,
		"seed", seed)

	before := r.table.Stats().NumOps
	results := make([][len(opNames)]OpCounts, r.cfg.Workers)

	var stopped atomic.Bool
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < r.cfg.Workers; w++ {
		g.Go(func() error {
			wctx := logger.WithWorkerID(gctx, w)
			if !r.work(wctx, w, seed, &results[w]) {
				stopped.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	report := &Report{
		RunID:        r.runID,
		Seed:         seed,
		Workers:      r.cfg.Workers,
		OpsPerWorker: r.cfg.OpsPerWorker,
		Elapsed:      elapsed,
		Interrupted:  stopped.Load(),
	}
	for i, name := range opNames {
		total := OpCounts{Op: name}
		for _, res := range results {
			total.Hits += res[i].Hits
			total.Misses += res[i].Misses
		}
		report.Ops = append(report.Ops, total)
		report.Issued += total.Total()
	}
	if secs := elapsed.Seconds(); secs > 0 {
		report.Throughput = float64(report.Issued) / secs
	}
	report.Table = r.table.Stats()
	digest := xxhash.New()
	if err := r.table.Dump(digest); err == nil {
		report.Digest = fmt.Sprintf("%016x", digest.Sum64())
	}

	if report.Interrupted {
		log.Warn("stress run interrupted", "issued", report.Issued, "reason", context.Cause(ctx))
	}

	if err := r.table.Verify(); err != nil {
		log.Error("table verification failed", "error", err)
		return report, &RunError{Phase: PhaseVerify, RunID: r.runID, Err: err}
	}
	if counted := report.Table.NumOps - before; counted != report.Issued {
		err := fmt.Errorf("%w: issued %d, table counted %d", ErrOpCountMismatch, report.Issued, counted)
		log.Error("table verification failed", "error", err)
		return report, &RunError{Phase: PhaseVerify, RunID: r.runID, Err: err}
	}

	log.Info("stress run finished",
		"issued", report.Issued,
		"elapsed", elapsed,
		"ops_per_sec", report.Throughput,
		"size", report.Table.Size)
	return report, nil
}

// work issues one worker's share of operations and reports whether it
// completed all of them. It stops early when ctx is cancelled or the rate
// limiter can no longer be satisfied before the deadline.
func (r *runner) work(ctx context.Context, worker int, seed uint64, out *[len(opNames)]OpCounts) bool {
	rng := rand.New(rand.NewPCG(seed, uint64(worker)))

	var limiter *rate.Limiter
	if r.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.RateLimit), 1)
	}

	mix := r.cfg.Mix
	total := mix.Total()
	done := 0
	defer func() {
		logger.L(ctx).Debug("worker finished", "ops", done)
	}()

	for ; done < r.cfg.OpsPerWorker; done++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return false
			}
		} else if ctx.Err() != nil {
			return false
		}

		key := rng.IntN(r.cfg.KeySpace)
		pick := rng.IntN(total)

		var (
			op  int
			ret int
		)
		start := time.Now()
		switch {
		case pick < mix.Get:
			op = 0
			ret = r.table.Get(key)
		case pick < mix.Get+mix.Put:
			op = 1
			ret = r.table.Put(key, rng.IntN(r.cfg.ValueSpace))
		default:
			op = 2
			ret = r.table.Delete(key)
		}

		hit := ret != tsmap.NotFound
		if hit {
			out[op].Hits++
		} else {
			out[op].Misses++
		}
		if len(r.observers) > 0 {
			d := time.Since(start)
			for _, o := range r.observers {
				o.ObserveOp(opNames[op], hit, d)
			}
		}
	}
	return true
}
