// Package tsmap provides a fixed-capacity, thread-safe hash map from int
// keys to int values.
//
// The map is a bucket array of singly-linked chains guarded by a single
// table-wide mutex:
//
//   - Fixed Capacity: the bucket count is set by New and never changes
//   - Chaining: colliding keys are appended to the tail of their bucket chain
//   - Coarse Locking: every operation holds the one table lock for its
//     whole duration, so all operations are linearizable
//   - First Write Wins: Put never overwrites a value already stored
//
// Usage:
//
//	m, err := tsmap.New(4)
//	if err != nil {
//		return err
//	}
//	m.Put(1, 10)          // tsmap.NotFound, key was new
//	m.Put(1, 99)          // 10, existing value kept
//	v := m.Get(1)         // 10
//	old := m.Delete(1)    // 10
//
// Absence is signalled by the NotFound sentinel rather than an error.
// NotFound equals math.MaxInt, so that value cannot be stored as a payload.
//
// A key's bucket is uint(key) % capacity using the platform's uint width.
// Dumps of negative keys therefore differ between 32-bit and 64-bit
// hashing unless the capacity is a power of two.
package tsmap
