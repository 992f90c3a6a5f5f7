package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if cfg.Table.Capacity <= 0 {
		return fmt.Errorf("%w: table.capacity must be positive, got %d", ErrInvalid, cfg.Table.Capacity)
	}
	return VerifyStress(&cfg.Stress)
}

// VerifyStress validates the stress section on its own.
func VerifyStress(s *StressSection) error {
	switch {
	case s.Workers <= 0:
		return fmt.Errorf("%w: stress.workers must be positive, got %d", ErrInvalid, s.Workers)
	case s.OpsPerWorker < 0:
		return fmt.Errorf("%w: stress.ops_per_worker must not be negative, got %d", ErrInvalid, s.OpsPerWorker)
	case s.KeySpace <= 0:
		return fmt.Errorf("%w: stress.key_space must be positive, got %d", ErrInvalid, s.KeySpace)
	case s.ValueSpace <= 0:
		return fmt.Errorf("%w: stress.value_space must be positive, got %d", ErrInvalid, s.ValueSpace)
	case s.RateLimit < 0 || math.IsNaN(s.RateLimit):
		return fmt.Errorf("%w: stress.rate_limit must not be negative", ErrInvalid)
	case s.Timeout < 0:
		return fmt.Errorf("%w: stress.timeout must not be negative", ErrInvalid)
	}

	m := s.Mix
	if m.Get < 0 || m.Put < 0 || m.Delete < 0 {
		return fmt.Errorf("%w: stress.mix weights must not be negative", ErrInvalid)
	}
	if m.Total() == 0 {
		return fmt.Errorf("%w: stress.mix needs at least one positive weight", ErrInvalid)
	}
	return nil
}
