package tsmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	m := newMap(t, 4)
	m.Put(1, 1)
	m.Put(5, 5)
	m.Put(9, 9)
	m.Put(2, 2)
	m.Get(1)

	assert.Equal(t, Stats{
		Capacity:     4,
		Size:         4,
		NumOps:       5,
		UsedBuckets:  2,
		LongestChain: 3,
	}, m.Stats())
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(m *Map)
		want    string
	}{
		{
			name:    "consistent",
			corrupt: func(*Map) {},
		},
		{
			name: "wrong bucket",
			corrupt: func(m *Map) {
				m.buckets[0] = &entry{key: 1, value: 1}
				m.size++
			},
			want: "key 1 found in bucket 0",
		},
		{
			name: "size mismatch",
			corrupt: func(m *Map) {
				m.size = 7
			},
			want: "size is 7",
		},
		{
			name: "duplicate key",
			corrupt: func(m *Map) {
				m.buckets[1].next.next = &entry{key: 5, value: 0}
				m.size++
			},
			want: "key 5 duplicated",
		},
		{
			name: "cycle",
			corrupt: func(m *Map) {
				m.buckets[1].next.next = m.buckets[1]
			},
			want: "cycle in bucket 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(4)
			require.NoError(t, err)
			m.Put(1, 10)
			m.Put(5, 50)
			m.Put(2, 20)

			tt.corrupt(m)
			err = m.Verify()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrCorrupted)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
