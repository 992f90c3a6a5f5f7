package config

// Default configuration values. They reproduce the reference contention
// scenario: a tiny table hammered by eight workers over keys 0..50.
const (
	DefaultCapacity     = 4
	DefaultWorkers      = 8
	DefaultOpsPerWorker = 1000
	DefaultKeySpace     = 51
	DefaultValueSpace   = 1000

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default stress configuration.
func Default() *Config {
	return &Config{
		Table: TableSection{
			Capacity: DefaultCapacity,
		},
		Stress: StressSection{
			Workers:      DefaultWorkers,
			OpsPerWorker: DefaultOpsPerWorker,
			KeySpace:     DefaultKeySpace,
			ValueSpace:   DefaultValueSpace,
			Mix: MixSection{
				Get:    1,
				Put:    1,
				Delete: 1,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
