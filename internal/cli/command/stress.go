package command

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tsmap-go/internal/bench/stress"
	"github.com/yndnr/tsmap-go/internal/cli/output"
	"github.com/yndnr/tsmap-go/internal/infra/shutdown"
	"github.com/yndnr/tsmap-go/internal/telemetry/logger"
	"github.com/yndnr/tsmap-go/internal/telemetry/metric"
	"github.com/yndnr/tsmap-go/pkg/tsmap"
)

const shutdownTimeout = 5 * time.Second

// StressCommand returns the stress command.
func StressCommand() *cli.Command {
	return &cli.Command{
		Name:  "stress",
		Usage: "Run a concurrent get/put/delete workload against a table",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "capacity", Usage: "Number of buckets"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent workers"},
			&cli.IntFlag{Name: "ops", Aliases: []string{"n"}, Usage: "Operations per worker"},
			&cli.IntFlag{Name: "keys", Usage: "Keys are drawn from [0, keys)"},
			&cli.IntFlag{Name: "values", Usage: "Put values are drawn from [0, values)"},
			&cli.Uint64Flag{Name: "seed", Usage: "Random seed (0 picks one)"},
			&cli.Float64Flag{Name: "rate", Usage: "Operations per second per worker (0 is unlimited)"},
			&cli.DurationFlag{Name: "timeout", Usage: "Stop the run after this long"},
			&cli.IntFlag{Name: "get", Usage: "Weight of get operations"},
			&cli.IntFlag{Name: "put", Usage: "Weight of put operations"},
			&cli.IntFlag{Name: "delete", Usage: "Weight of delete operations"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on this address during the run"},
			&cli.BoolFlag{Name: "dump", Usage: "Print the table buckets after the run"},
			&cli.BoolFlag{Name: "progress", Usage: "Show a progress bar on stderr"},
		},
		Action: runStress,
	}
}

// stressFlagKeys maps stress flags to configuration keys.
var stressFlagKeys = []struct {
	flag string
	key  string
}{
	{"capacity", "table.capacity"},
	{"workers", "stress.workers"},
	{"ops", "stress.ops_per_worker"},
	{"keys", "stress.key_space"},
	{"values", "stress.value_space"},
	{"seed", "stress.seed"},
	{"rate", "stress.rate_limit"},
	{"timeout", "stress.timeout"},
	{"get", "stress.mix.get"},
	{"put", "stress.mix.put"},
	{"delete", "stress.mix.delete"},
	{"metrics-addr", "metrics.addr"},
}

func stressOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for _, f := range stressFlagKeys {
		if c.IsSet(f.flag) {
			overrides[f.key] = c.Value(f.flag)
		}
	}
	return overrides
}

func runStress(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c, stressOverrides(c))
	if err != nil {
		return err
	}
	log, err := setupLogger(c, cfg.Log)
	if err != nil {
		return err
	}

	m, err := tsmap.New(cfg.Table.Capacity)
	if err != nil {
		return err
	}
	defer m.Close()

	reg := metric.NewRegistry()
	if err := reg.RegisterTable("main", m); err != nil {
		return err
	}

	h := shutdown.NewHandler(shutdownTimeout)
	ctx, stop := h.Watch(c.Context)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	if cfg.Metrics.Addr != "" {
		srv, addr, err := serveMetrics(cfg.Metrics.Addr, reg.Handler(), log)
		if err != nil {
			return err
		}
		log.Info("serving metrics", "addr", addr)
		h.OnShutdown(srv.Shutdown)
	}
	defer func() {
		if err := h.Shutdown(); err != nil {
			log.Warn("shutdown", "error", err)
		}
	}()

	opts := []stress.Option{stress.WithObserver(reg)}
	var bar *output.ProgressBar
	if c.Bool("progress") {
		total := uint64(cfg.Stress.Workers) * uint64(cfg.Stress.OpsPerWorker)
		bar = output.NewProgressBar(errWriter(c), "stress", total)
		opts = append(opts, stress.WithObserver(bar))
	}

	report, runErr := stress.Run(ctx, m, cfg.Stress, opts...)
	if bar != nil {
		bar.Finish()
	}
	if report == nil {
		return runErr
	}

	if err := printStress(writer(c), format, report, m, c.Bool("dump")); err != nil {
		return err
	}
	return runErr
}

// stressResult is the structured output of a run with --dump.
type stressResult struct {
	Report  *stress.Report `json:"report" yaml:"report"`
	Buckets [][]tsmap.Pair `json:"buckets" yaml:"buckets"`
}

func printStress(w io.Writer, format output.Format, r *stress.Report, m *tsmap.Map, dump bool) error {
	if format != output.FormatTable {
		var data any = r
		if dump {
			data = stressResult{Report: r, Buckets: m.Snapshot()}
		}
		return output.NewFormatter(format).Format(w, data)
	}

	if err := printReport(w, r); err != nil {
		return err
	}
	if !dump {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return m.Dump(w)
}

// serveMetrics starts an HTTP server for h on addr and returns it with
// the bound address.
func serveMetrics(addr string, h http.Handler, log logger.Logger) (*http.Server, string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("metrics listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", "error", err)
		}
	}()
	return srv, ln.Addr().String(), nil
}

func printReport(w io.Writer, r *stress.Report) error {
	summary := output.NewTable("FIELD", "VALUE")
	summary.AddField("run_id", r.RunID)
	summary.AddField("seed", r.Seed)
	summary.AddField("workers", r.Workers)
	summary.AddField("ops_per_worker", r.OpsPerWorker)
	summary.AddField("issued", r.Issued)
	summary.AddField("elapsed", r.Elapsed.Round(time.Microsecond))
	summary.AddField("ops_per_sec", strconv.FormatFloat(r.Throughput, 'f', 0, 64))
	summary.AddField("interrupted", r.Interrupted)
	summary.AddField("capacity", r.Table.Capacity)
	summary.AddField("size", r.Table.Size)
	summary.AddField("num_ops", r.Table.NumOps)
	summary.AddField("used_buckets", r.Table.UsedBuckets)
	summary.AddField("longest_chain", r.Table.LongestChain)
	summary.AddField("digest", r.Digest)
	if err := summary.Render(w); err != nil {
		return err
	}

	ops := output.NewTable("OP", "HITS", "MISSES", "TOTAL")
	for _, c := range r.Ops {
		ops.AddRow(c.Op,
			strconv.FormatUint(c.Hits, 10),
			strconv.FormatUint(c.Misses, 10),
			strconv.FormatUint(c.Total(), 10))
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return ops.Render(w)
}

var (
	_ stress.Observer = (*metric.Registry)(nil)
	_ stress.Observer = (*output.ProgressBar)(nil)
)
