package tsmap

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Pair is a key-value pair copied out of a bucket chain.
type Pair struct {
	Key   int `json:"key" yaml:"key"`
	Value int `json:"value" yaml:"value"`
}

// Snapshot returns a copy of every bucket chain, indexed by bucket, with
// pairs in chain order. It does not count as an operation.
func (m *Map) Snapshot() [][]Pair {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]Pair, len(m.buckets))
	for i, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			out[i] = append(out[i], Pair{Key: e.key, Value: e.value})
		}
	}
	return out
}

// Dump writes one line per bucket in index order:
//
//	[1] -> (1,10) -> (5,20)
//
// An empty bucket is written as "[i] -> ".
func (m *Map) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, chain := range m.Snapshot() {
		if _, err := bw.WriteString(formatBucket(i, chain)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// String returns the Dump output.
func (m *Map) String() string {
	var sb strings.Builder
	_ = m.Dump(&sb)
	return sb.String()
}

func formatBucket(idx int, chain []Pair) string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(idx))
	sb.WriteString("] -> ")
	for i, p := range chain {
		if i > 0 {
			sb.WriteString(" -> ")
		}
		sb.WriteByte('(')
		sb.WriteString(strconv.Itoa(p.Key))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(p.Value))
		sb.WriteByte(')')
	}
	sb.WriteByte('\n')
	return sb.String()
}
