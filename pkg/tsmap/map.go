package tsmap

import (
	"errors"
	"math"
	"sync"
)

// NotFound is returned by Get, Put and Delete when the key is absent.
// It collides with the largest storable int, which callers must not use
// as a value.
const NotFound = math.MaxInt

// ErrInvalidCapacity is returned by New when capacity is not positive.
var ErrInvalidCapacity = errors.New("tsmap: capacity must be positive")

// entry is a chain node. Each bucket owns its head entry and each entry
// owns the next one.
type entry struct {
	key   int
	value int
	next  *entry
}

// Map is a fixed-capacity hash map safe for concurrent use.
//
// A single mutex guards the bucket array and both counters, so operations
// on unrelated keys are serialized too.
type Map struct {
	mu      sync.Mutex
	buckets []*entry
	size    int
	numOps  uint64
}

// New creates a map with exactly capacity buckets.
func New(capacity int) (*Map, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Map{
		buckets: make([]*entry, capacity),
	}, nil
}

// index maps a key to its bucket. The unsigned conversion keeps negative
// keys in range. It uses the platform's uint width, so on 64-bit builds a
// negative key can land in a different bucket than a 32-bit
// (unsigned int) hash would put it, unless capacity is a power of two.
func (m *Map) index(key int) int {
	return int(uint(key) % uint(len(m.buckets)))
}

// Get returns the value stored for key, or NotFound.
func (m *Map) Get(key int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.numOps++

	for e := m.buckets[m.index(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.value
		}
	}
	return NotFound
}

// Put stores value under key if the key is absent and returns NotFound.
// If the key is already present its value is left unchanged and returned;
// the new value is discarded.
func (m *Map) Put(key, value int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.numOps++

	idx := m.index(key)
	link := &m.buckets[idx]
	for *link != nil {
		if (*link).key == key {
			return (*link).value
		}
		link = &(*link).next
	}

	*link = &entry{key: key, value: value}
	m.size++
	return NotFound
}

// Delete removes key and returns its value, or NotFound if it was absent.
func (m *Map) Delete(key int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.numOps++

	idx := m.index(key)
	var prev *entry
	for e := m.buckets[idx]; e != nil; e = e.next {
		if e.key != key {
			prev = e
			continue
		}
		if prev == nil {
			m.buckets[idx] = e.next
		} else {
			prev.next = e.next
		}
		e.next = nil
		m.size--
		return e.value
	}
	return NotFound
}

// Len returns the number of stored keys.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// NumOps returns how many Get, Put and Delete calls have completed.
func (m *Map) NumOps() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.numOps
}

// Capacity returns the fixed bucket count.
func (m *Map) Capacity() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

// Close releases every chain and the bucket array.
//
// The caller must ensure no other goroutine is using the map or will use
// it afterwards. The map must not be used after Close.
func (m *Map) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, head := range m.buckets {
		for e := head; e != nil; {
			next := e.next
			e.next = nil
			e = next
		}
		m.buckets[i] = nil
	}
	m.buckets = nil
	m.size = 0
	return nil
}
