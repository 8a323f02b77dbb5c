// Package metrics exposes TaskTimer statistics over HTTP: a Prometheus
// collector fed by explicit snapshots plus a small server with /metrics and
// /status endpoints.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"

	"github.com/psantana5/tasktimer/pkg/timing"
)

// Exporter exposes TaskTimer statistics as Prometheus metrics.
//
// A TaskTimer is single-threaded by design, so the exporter never reads one
// during a scrape. Instead the goroutine driving the timer publishes
// snapshots with Observe, and Collect serves the latest snapshot under its
// own lock.
type Exporter struct {
	mu       sync.RWMutex
	rows     []timing.SummaryRow
	totalRow timing.SummaryRow
	progress timing.Progress

	taskLaps  *prometheus.Desc
	taskTotal *prometheus.Desc
	taskMean  *prometheus.Desc
	taskStdev *prometheus.Desc

	stepsCompleted *prometheus.Desc
	stepsExpected  *prometheus.Desc
	etaSeconds     *prometheus.Desc
	projectedTotal *prometheus.Desc

	hostCPUPercent *prometheus.Desc
	hostMemUsed    *prometheus.Desc

	log *logrus.Entry
}

// NewExporter creates an Exporter with no snapshot; metrics appear after the
// first Observe.
func NewExporter(log *logrus.Logger) *Exporter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Exporter{
		taskLaps: prometheus.NewDesc(
			"tasktimer_task_laps_total",
			"Number of completed laps per task",
			[]string{"task"}, nil,
		),
		taskTotal: prometheus.NewDesc(
			"tasktimer_task_seconds_total",
			"Accumulated time spent per task in seconds",
			[]string{"task"}, nil,
		),
		taskMean: prometheus.NewDesc(
			"tasktimer_task_mean_seconds",
			"Running mean lap duration per task in seconds",
			[]string{"task"}, nil,
		),
		taskStdev: prometheus.NewDesc(
			"tasktimer_task_stdev_seconds",
			"Lap duration standard deviation per task in seconds (NaN with too few laps)",
			[]string{"task"}, nil,
		),
		stepsCompleted: prometheus.NewDesc(
			"tasktimer_steps_completed",
			"Iteration steps completed so far (display offset included)",
			nil, nil,
		),
		stepsExpected: prometheus.NewDesc(
			"tasktimer_steps_expected",
			"Expected iteration steps (display offset included)",
			nil, nil,
		),
		etaSeconds: prometheus.NewDesc(
			"tasktimer_eta_seconds",
			"Projected remaining iteration time in seconds (NaN before the first step)",
			nil, nil,
		),
		projectedTotal: prometheus.NewDesc(
			"tasktimer_projected_total_seconds",
			"Projected total iteration time in seconds (NaN before the first step)",
			nil, nil,
		),
		hostCPUPercent: prometheus.NewDesc(
			"tasktimer_host_cpu_percent",
			"Host CPU utilization percentage at scrape time",
			nil, nil,
		),
		hostMemUsed: prometheus.NewDesc(
			"tasktimer_host_memory_used_bytes",
			"Host memory in use at scrape time",
			nil, nil,
		),
		log: log.WithField("component", "metrics"),
	}
}

// Observe publishes the timer's current statistics for scraping. It must be
// called from the goroutine that drives the timer.
func (e *Exporter) Observe(tt *timing.TaskTimer) {
	summary := tt.Summary()
	progress := tt.Progress()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = summary.Rows
	e.totalRow = summary.TotalRow
	e.progress = progress
}

// Snapshot returns the most recently observed statistics.
func (e *Exporter) Snapshot() ([]timing.SummaryRow, timing.SummaryRow, timing.Progress) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rows := make([]timing.SummaryRow, len(e.rows))
	copy(rows, e.rows)
	return rows, e.totalRow, e.progress
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.taskLaps
	ch <- e.taskTotal
	ch <- e.taskMean
	ch <- e.taskStdev
	ch <- e.stepsCompleted
	ch <- e.stepsExpected
	ch <- e.etaSeconds
	ch <- e.projectedTotal
	ch <- e.hostCPUPercent
	ch <- e.hostMemUsed
}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	e.mu.RLock()
	rows := e.rows
	progress := e.progress
	e.mu.RUnlock()

	for _, r := range rows {
		ch <- prometheus.MustNewConstMetric(e.taskLaps, prometheus.CounterValue, float64(r.Laps), r.Tag)
		ch <- prometheus.MustNewConstMetric(e.taskTotal, prometheus.CounterValue, r.Total, r.Tag)
		ch <- prometheus.MustNewConstMetric(e.taskMean, prometheus.GaugeValue, r.Mean, r.Tag)
		ch <- prometheus.MustNewConstMetric(e.taskStdev, prometheus.GaugeValue, r.Stdev, r.Tag)
	}
	ch <- prometheus.MustNewConstMetric(e.stepsCompleted, prometheus.GaugeValue, float64(progress.Step))
	ch <- prometheus.MustNewConstMetric(e.stepsExpected, prometheus.GaugeValue, float64(progress.Total))
	ch <- prometheus.MustNewConstMetric(e.etaSeconds, prometheus.GaugeValue, progress.ETA)
	ch <- prometheus.MustNewConstMetric(e.projectedTotal, prometheus.GaugeValue, progress.Projected)

	e.collectHost(ch)
}

// collectHost samples host CPU and memory at scrape time. Failures are logged
// and the gauges omitted; a scrape must not fail because gopsutil cannot read
// the platform counters.
func (e *Exporter) collectHost(ch chan<- prometheus.Metric) {
	if percents, err := cpu.Percent(0, false); err != nil {
		e.log.WithError(err).Debug("cpu sample failed")
	} else if len(percents) > 0 {
		ch <- prometheus.MustNewConstMetric(e.hostCPUPercent, prometheus.GaugeValue, percents[0])
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		e.log.WithError(err).Debug("memory sample failed")
	} else {
		ch <- prometheus.MustNewConstMetric(e.hostMemUsed, prometheus.GaugeValue, float64(vm.Used))
	}
}
