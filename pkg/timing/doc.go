// Package timing measures elapsed time of recurring named tasks inside a
// single process and reports live progress and per-task statistics.
//
// A TaskTimer owns one lap timer per task tag plus a master timer covering
// whole iteration steps. Statistics (mean, variance, standard deviation) are
// accumulated online with Welford's algorithm, so memory stays constant no
// matter how many laps are recorded. Statistics requested before enough laps
// exist are NaN, never an error and never a garbage value.
//
// The package performs no I/O beyond writing progress lines and tables to a
// configurable writer, has no persistence, and aggregates nothing across
// processes.
package timing
