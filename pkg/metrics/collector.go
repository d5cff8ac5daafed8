// Package metrics exposes live waterfalls registry totals as Prometheus
// metrics. It is pull-based and independent of the report files: a
// long-running instrumented service can serve /metrics while still
// writing its report at exit.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cascadelabs/waterfalls/pkg/waterfalls"
)

// RegistryCollector implements prometheus.Collector over a waterfalls
// registry. Every scrape walks the completed blocks and aggregates per
// timer name and thread id.
type RegistryCollector struct {
	registry *waterfalls.Registry

	blocksDesc *prometheus.Desc
	wallDesc   *prometheus.Desc
	cpuDesc    *prometheus.Desc
}

// NewRegistryCollector creates a collector over reg. A nil reg means the
// process-default registry.
func NewRegistryCollector(reg *waterfalls.Registry) *RegistryCollector {
	if reg == nil {
		reg = waterfalls.Default()
	}
	labels := []string{"name", "thread_id"}
	return &RegistryCollector{
		registry: reg,
		blocksDesc: prometheus.NewDesc(
			"waterfalls_blocks_total",
			"Completed timing blocks per timer name",
			labels, nil,
		),
		wallDesc: prometheus.NewDesc(
			"waterfalls_wall_seconds_total",
			"Wall-clock seconds spent in completed blocks per timer name",
			labels, nil,
		),
		cpuDesc: prometheus.NewDesc(
			"waterfalls_thread_cpu_seconds_total",
			"Thread CPU seconds spent in completed blocks per timer name",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *RegistryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.blocksDesc
	ch <- c.wallDesc
	ch <- c.cpuDesc
}

type key struct {
	name     string
	threadID int
}

type totals struct {
	blocks int64
	wallNS int64
	cpuNS  int64
}

// Collect implements prometheus.Collector.
func (c *RegistryCollector) Collect(ch chan<- prometheus.Metric) {
	agg := make(map[key]*totals)
	var order []key
	for _, rec := range c.registry.GenerateReport() {
		k := key{name: rec.Name, threadID: rec.ThreadID}
		t, ok := agg[k]
		if !ok {
			t = &totals{}
			agg[k] = t
			order = append(order, k)
		}
		t.blocks++
		t.wallNS += rec.StopTime - rec.StartTime
		t.cpuNS += rec.ThreadDuration
	}

	for _, k := range order {
		t := agg[k]
		tid := strconv.Itoa(k.threadID)
		ch <- prometheus.MustNewConstMetric(
			c.blocksDesc, prometheus.CounterValue, float64(t.blocks), k.name, tid)
		ch <- prometheus.MustNewConstMetric(
			c.wallDesc, prometheus.CounterValue, float64(t.wallNS)/1e9, k.name, tid)
		ch <- prometheus.MustNewConstMetric(
			c.cpuDesc, prometheus.CounterValue, float64(t.cpuNS)/1e9, k.name, tid)
	}
}
