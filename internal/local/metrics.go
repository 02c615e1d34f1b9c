package local

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Sized is the observability capability the Collector requires of tracked
// storages: the number of contexts that currently hold data. Storage and
// Stack both implement it.
type Sized interface {
	Len() int
}

// Collector is a prometheus.Collector over context-bound storages and
// managers. It exports a bound-contexts gauge per tracked storage (a
// steadily growing value indicates contexts exiting without release) and a
// release counter per tracked manager.
type Collector struct {
	mu       sync.Mutex
	storages map[string]Sized
	managers map[string]*Manager

	bound    *prometheus.Desc
	releases *prometheus.Desc
}

// NewCollector creates an empty collector. Register it with a prometheus
// registry once, then track storages and managers as they are created.
func NewCollector() *Collector {
	return &Collector{
		storages: make(map[string]Sized),
		managers: make(map[string]*Manager),
		bound: prometheus.NewDesc(
			"locals_bound_contexts",
			"Number of execution contexts with data bound in a storage.",
			[]string{"storage"},
			nil,
		),
		releases: prometheus.NewDesc(
			"locals_releases_total",
			"Number of bulk releases performed by a manager.",
			[]string{"manager"},
			nil,
		),
	}
}

// Track starts exporting the bound-context count of a storage or stack
// under the given name. Re-tracking a name replaces the previous entry.
func (c *Collector) Track(name string, s Sized) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.storages[name] = s
}

// TrackManager starts exporting the release count of a manager under the
// given name.
func (c *Collector) TrackManager(name string, m *Manager) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.managers[name] = m
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bound
	ch <- c.releases
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, s := range c.storages {
		ch <- prometheus.MustNewConstMetric(c.bound, prometheus.GaugeValue, float64(s.Len()), name)
	}

	for name, m := range c.managers {
		ch <- prometheus.MustNewConstMetric(c.releases, prometheus.CounterValue, float64(m.Releases()), name)
	}
}
