package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/tsmap-go/pkg/tsmap"
)

// StatsSource is implemented by *tsmap.Map.
type StatsSource interface {
	Stats() tsmap.Stats
}

// Collector reads table statistics at scrape time.
type Collector struct {
	src StatsSource

	size         *prometheus.Desc
	capacity     *prometheus.Desc
	numOps       *prometheus.Desc
	usedBuckets  *prometheus.Desc
	longestChain *prometheus.Desc
}

// NewCollector creates a collector whose metrics carry table=name.
func NewCollector(name string, src StatsSource) *Collector {
	labels := prometheus.Labels{"table": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "table", metric), help, nil, labels)
	}
	return &Collector{
		src:          src,
		size:         desc("size", "Number of keys stored."),
		capacity:     desc("capacity", "Fixed bucket count."),
		numOps:       desc("ops", "Completed get, put and delete calls."),
		usedBuckets:  desc("used_buckets", "Buckets holding at least one entry."),
		longestChain: desc("longest_chain", "Length of the longest bucket chain."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.capacity
	ch <- c.numOps
	ch <- c.usedBuckets
	ch <- c.longestChain
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.numOps, prometheus.CounterValue, float64(s.NumOps))
	ch <- prometheus.MustNewConstMetric(c.usedBuckets, prometheus.GaugeValue, float64(s.UsedBuckets))
	ch <- prometheus.MustNewConstMetric(c.longestChain, prometheus.GaugeValue, float64(s.LongestChain))
}
