package config

import "time"

// Config is the root configuration of a stress run.
type Config struct {
	Table   TableSection   `koanf:"table" json:"table" yaml:"table"`
	Stress  StressSection  `koanf:"stress" json:"stress" yaml:"stress"`
	Metrics MetricsSection `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Log     LogSection     `koanf:"log" json:"log" yaml:"log"`
}

// TableSection configures the hash table under test.
type TableSection struct {
	// Capacity is the fixed bucket count. Must be positive.
	Capacity int `koanf:"capacity" json:"capacity" yaml:"capacity"`
}

// StressSection configures the concurrent workload.
type StressSection struct {
	// Workers is the number of goroutines issuing operations.
	Workers int `koanf:"workers" json:"workers" yaml:"workers"`

	// OpsPerWorker is how many operations each worker issues.
	OpsPerWorker int `koanf:"ops_per_worker" json:"ops_per_worker" yaml:"ops_per_worker"`

	// KeySpace bounds keys to [0, KeySpace).
	KeySpace int `koanf:"key_space" json:"key_space" yaml:"key_space"`

	// ValueSpace bounds values to [0, ValueSpace).
	ValueSpace int `koanf:"value_space" json:"value_space" yaml:"value_space"`

	// Seed makes a run reproducible per worker. Zero picks a random seed.
	Seed uint64 `koanf:"seed" json:"seed" yaml:"seed"`

	// RateLimit caps operations per second for each worker. Zero means
	// unlimited.
	RateLimit float64 `koanf:"rate_limit" json:"rate_limit" yaml:"rate_limit"`

	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`

	// Mix weights the choice between operations.
	Mix MixSection `koanf:"mix" json:"mix" yaml:"mix"`
}

// MixSection holds relative operation weights.
type MixSection struct {
	Get    int `koanf:"get" json:"get" yaml:"get"`
	Put    int `koanf:"put" json:"put" yaml:"put"`
	Delete int `koanf:"delete" json:"delete" yaml:"delete"`
}

// Total returns the sum of all weights.
func (m MixSection) Total() int {
	return m.Get + m.Put + m.Delete
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	// Addr is the listen address for /metrics. Empty disables it.
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}
