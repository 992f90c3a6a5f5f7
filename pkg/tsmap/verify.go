package tsmap

import (
	"errors"
	"fmt"
)

// ErrCorrupted is wrapped by every error Verify returns.
var ErrCorrupted = errors.New("tsmap: table corrupted")

// Stats describes the table at one point in time.
type Stats struct {
	Capacity     int    `json:"capacity" yaml:"capacity"`
	Size         int    `json:"size" yaml:"size"`
	NumOps       uint64 `json:"num_ops" yaml:"num_ops"`
	UsedBuckets  int    `json:"used_buckets" yaml:"used_buckets"`
	LongestChain int    `json:"longest_chain" yaml:"longest_chain"`
}

// Stats returns the current counters and chain-length summary.
func (m *Map) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Capacity: len(m.buckets),
		Size:     m.size,
		NumOps:   m.numOps,
	}
	for _, head := range m.buckets {
		n := 0
		for e := head; e != nil; e = e.next {
			n++
		}
		if n > 0 {
			s.UsedBuckets++
		}
		if n > s.LongestChain {
			s.LongestChain = n
		}
	}
	return s
}

// Verify walks every chain and reports the first structural violation:
// a cyclic chain, an entry in the wrong bucket, a duplicate key, or a size
// counter that disagrees with the reachable entry count.
//
// The result is only meaningful while no other goroutine is mutating the
// map.
func (m *Map) Verify() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[int]int, m.size)
	count := 0
	for i, head := range m.buckets {
		visited := make(map[*entry]struct{})
		for e := head; e != nil; e = e.next {
			if _, ok := visited[e]; ok {
				return fmt.Errorf("%w: cycle in bucket %d at key %d", ErrCorrupted, i, e.key)
			}
			visited[e] = struct{}{}

			if idx := m.index(e.key); idx != i {
				return fmt.Errorf("%w: key %d found in bucket %d, hashes to %d", ErrCorrupted, e.key, i, idx)
			}
			if prev, ok := seen[e.key]; ok {
				return fmt.Errorf("%w: key %d duplicated in buckets %d and %d", ErrCorrupted, e.key, prev, i)
			}
			seen[e.key] = i
			count++
		}
	}
	if count != m.size {
		return fmt.Errorf("%w: size is %d but %d entries are reachable", ErrCorrupted, m.size, count)
	}
	return nil
}
