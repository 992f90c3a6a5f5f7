package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/tsmap-go/internal/bench/config"
	"github.com/yndnr/tsmap-go/internal/bench/stress"
	"github.com/yndnr/tsmap-go/internal/telemetry/logger"
	"github.com/yndnr/tsmap-go/internal/telemetry/metric"
	"github.com/yndnr/tsmap-go/pkg/tsmap"
)

// run executes the app with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"tsmap"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestApp(t *testing.T) {
	app := App()
	require.NotNil(t, app)
	assert.Equal(t, "tsmap", app.Name)
	assert.NotEmpty(t, app.Usage)

	commands := make(map[string]bool)
	for _, cmd := range app.Commands {
		commands[cmd.Name] = true
	}
	for _, name := range []string{"stress", "demo", "shell", "config", "version"} {
		assert.True(t, commands[name], "missing command %s", name)
	}

	flags := make(map[string]bool)
	for _, f := range app.Flags {
		flags[f.Names()[0]] = true
	}
	for _, name := range []string{"config", "output", "log-level", "log-format"} {
		assert.True(t, flags[name], "missing flag %s", name)
	}
}

func TestDemo_Table(t *testing.T) {
	out, _, err := run(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "put(1,10)")
	assert.Contains(t, out, "delete(1)")
	assert.Contains(t, out, "NOT_FOUND")
	assert.True(t, strings.HasSuffix(out, "[0] -> \n[1] -> (5,20)\n[2] -> \n[3] -> \n"), "dump missing from %q", out)
}

func TestDemo_JSON(t *testing.T) {
	out, _, err := run(t, "-o", "json", "demo")
	require.NoError(t, err)

	var res demoResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 4, res.Capacity)

	results := make([]string, len(res.Steps))
	for i, s := range res.Steps {
		results[i] = s.Result
	}
	assert.Equal(t, []string{"NOT_FOUND", "NOT_FOUND", "10", "20", "10", "NOT_FOUND"}, results)

	require.Len(t, res.Buckets, 4)
	assert.Empty(t, res.Buckets[0])
	assert.Equal(t, []tsmap.Pair{{Key: 5, Value: 20}}, res.Buckets[1])
}

func TestStress_JSON(t *testing.T) {
	out, _, err := run(t, "-o", "json", "--log-level", "error",
		"stress", "--workers", "2", "--ops", "100", "--seed", "7")
	require.NoError(t, err)

	var report stress.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, uint64(7), report.Seed)
	assert.Equal(t, 2, report.Workers)
	assert.Equal(t, uint64(200), report.Issued)
	assert.Equal(t, uint64(200), report.Table.NumOps)
	assert.Equal(t, config.DefaultCapacity, report.Table.Capacity)
	assert.False(t, report.Interrupted)
}

func TestStress_Table(t *testing.T) {
	out, _, err := run(t, "--log-level", "error", "stress", "--workers", "1", "--ops", "10", "--dump")
	require.NoError(t, err)

	assert.Contains(t, out, "issued")
	assert.Contains(t, out, "OP")
	assert.Contains(t, out, "delete")
	assert.Contains(t, out, "[3] -> ")
}

func TestStress_YAMLDump(t *testing.T) {
	out, _, err := run(t, "-o", "yaml", "--log-level", "error",
		"stress", "--workers", "1", "--ops", "20", "--put", "1", "--get", "0", "--delete", "0", "--dump")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "report")
	buckets, ok := doc["buckets"].([]any)
	require.True(t, ok, "buckets missing from %q", out)
	assert.Len(t, buckets, config.DefaultCapacity)
}

func TestStress_ConfigFileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsmap.yaml")
	content := "table:\n  capacity: 8\nstress:\n  workers: 1\n  ops_per_worker: 10\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	decode := func(out string) stress.Report {
		var r stress.Report
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		return r
	}

	out, _, err := run(t, "-c", path, "-o", "json", "stress")
	require.NoError(t, err)
	r := decode(out)
	assert.Equal(t, 8, r.Table.Capacity)
	assert.Equal(t, uint64(10), r.Issued)

	t.Setenv("TSMAP_STRESS__WORKERS", "3")
	out, _, err = run(t, "-c", path, "-o", "json", "stress")
	require.NoError(t, err)
	assert.Equal(t, uint64(30), decode(out).Issued)

	out, _, err = run(t, "-c", path, "-o", "json", "stress", "--capacity", "16", "--workers", "2")
	require.NoError(t, err)
	r = decode(out)
	assert.Equal(t, 16, r.Table.Capacity)
	assert.Equal(t, uint64(20), r.Issued)
}

func TestStress_InvalidConfig(t *testing.T) {
	_, _, err := run(t, "stress", "--capacity", "0")
	assert.True(t, errors.Is(err, config.ErrInvalid), "got %v", err)

	_, _, err = run(t, "stress", "--get", "0", "--put", "0", "--delete", "0")
	assert.True(t, errors.Is(err, config.ErrInvalid), "got %v", err)
}

func TestStress_InvalidOutput(t *testing.T) {
	_, _, err := run(t, "-o", "xml", "stress")
	assert.Error(t, err)
}

func TestStress_Progress(t *testing.T) {
	_, stderr, err := run(t, "--log-level", "error", "stress", "--workers", "2", "--ops", "50", "--progress")
	require.NoError(t, err)
	assert.Contains(t, stderr, "100% (100/100)")
}

func TestStress_LogsRunID(t *testing.T) {
	_, stderr, err := run(t, "--log-format", "json", "stress", "--workers", "1", "--ops", "5")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"run_id"`)
	assert.Contains(t, stderr, "stress run starting")
}

func TestServeMetrics(t *testing.T) {
	m, err := tsmap.New(4)
	require.NoError(t, err)
	m.Put(1, 10)

	reg := metric.NewRegistry()
	require.NoError(t, reg.RegisterTable("main", m))

	srv, addr, err := serveMetrics("127.0.0.1:0", reg.Handler(), logger.Discard())
	require.NoError(t, err)
	defer srv.Close()

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `tsmap_table_size{table="main"} 1`)
	assert.Contains(t, string(body), `tsmap_table_capacity{table="main"} 4`)
}

func TestServeMetrics_BadAddr(t *testing.T) {
	_, _, err := serveMetrics("256.0.0.1:bad", http.NotFoundHandler(), logger.Discard())
	assert.Error(t, err)
}

func TestShell(t *testing.T) {
	var stdout bytes.Buffer
	app := App()
	app.Reader = strings.NewReader("put 3 30\nput 11 40\ndump\nexit\n")
	app.Writer = &stdout
	app.ErrWriter = io.Discard

	require.NoError(t, app.Run([]string{"tsmap", "shell", "--capacity", "8"}))
	assert.Contains(t, stdout.String(), "[3] -> (3,30) -> (11,40)\n")
	assert.Contains(t, stdout.String(), "[7] -> \n")
}

func TestConfigShow(t *testing.T) {
	out, _, err := run(t, "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, config.DefaultCapacity, cfg.Table.Capacity)
	assert.Equal(t, config.DefaultWorkers, cfg.Stress.Workers)
}

func TestConfigValidate(t *testing.T) {
	out, _, err := run(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration OK")

	_, _, err = run(t, "--log-level", "loud", "config", "validate")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tsmap "))

	out, _, err = run(t, "-o", "json", "version")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info["go_version"])
}
