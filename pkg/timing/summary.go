package timing

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/psantana5/tasktimer/pkg/timefmt"
)

// Column identifies a summary column for sorting.
type Column int

const (
	ColumnTag Column = iota
	ColumnLaps
	ColumnMean
	ColumnStdev
	ColumnTotal
	ColumnPercent
)

// ParseColumn converts a column name into a Column.
func ParseColumn(s string) (Column, error) {
	switch s {
	case "tag", "task":
		return ColumnTag, nil
	case "laps":
		return ColumnLaps, nil
	case "mean":
		return ColumnMean, nil
	case "stdev":
		return ColumnStdev, nil
	case "total":
		return ColumnTotal, nil
	case "percent":
		return ColumnPercent, nil
	}
	return 0, fmt.Errorf("%w: sort column %q", ErrInvalidArgument, s)
}

// SummaryRow holds the statistics of one task. Durations are in seconds.
// Percent is the task's share of the summed task totals; it is NaN when the
// grand total is zero, since the share is undefined rather than infinite.
type SummaryRow struct {
	Tag     string
	Laps    uint64
	Mean    float64
	Stdev   float64
	Total   float64
	Percent float64
}

// Summary is a row-oriented view of all task statistics plus a synthetic
// Total row derived from the master timer. Reading a summary does not mutate
// the TaskTimer, so repeated calls without intervening measurements yield
// identical data.
type Summary struct {
	Rows     []SummaryRow
	TotalRow SummaryRow

	formatTime func(seconds float64) string
}

type summaryConfig struct {
	sorted     bool
	column     Column
	descending bool
}

// SummaryOption configures Summary output.
type SummaryOption func(*summaryConfig)

// SortBy orders the task rows by the given column, ascending. The sort is
// stable, so equal values keep insertion order. The Total row stays last.
func SortBy(c Column) SummaryOption {
	return func(cfg *summaryConfig) {
		cfg.sorted = true
		cfg.column = c
	}
}

// Descending reverses the sort direction selected with SortBy.
func Descending() SummaryOption {
	return func(cfg *summaryConfig) { cfg.descending = true }
}

// Summary computes per-task statistics in order of first reference, with the
// task's percentage of the grand total across all tasks.
func (tt *TaskTimer) Summary(opts ...SummaryOption) *Summary {
	var cfg summaryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	grand := 0.0
	for _, tag := range tt.order {
		grand += tt.timers[tag].Total()
	}

	s := &Summary{formatTime: tt.formatTime}
	for _, tag := range tt.order {
		t := tt.timers[tag]
		percent := math.NaN()
		if grand != 0 {
			percent = 100 * t.Total() / grand
		}
		s.Rows = append(s.Rows, SummaryRow{
			Tag:     tag,
			Laps:    t.Laps(),
			Mean:    t.Mean(),
			Stdev:   t.Stdev(),
			Total:   t.Total(),
			Percent: percent,
		})
	}

	totalPercent := math.NaN()
	if grand != 0 {
		totalPercent = 100
	}
	s.TotalRow = SummaryRow{
		Tag:     "Total",
		Laps:    tt.master.Laps(),
		Mean:    tt.master.Mean(),
		Stdev:   tt.master.Stdev(),
		Total:   tt.master.Total(),
		Percent: totalPercent,
	}

	if cfg.sorted {
		s.sortRows(cfg.column, cfg.descending)
	}
	return s
}

func (s *Summary) sortRows(column Column, descending bool) {
	less := func(a, b SummaryRow) bool {
		switch column {
		case ColumnTag:
			return a.Tag < b.Tag
		case ColumnLaps:
			return a.Laps < b.Laps
		case ColumnMean:
			return floatLess(a.Mean, b.Mean)
		case ColumnStdev:
			return floatLess(a.Stdev, b.Stdev)
		case ColumnPercent:
			return floatLess(a.Percent, b.Percent)
		default:
			return floatLess(a.Total, b.Total)
		}
	}
	sort.SliceStable(s.Rows, func(i, j int) bool {
		if descending {
			return less(s.Rows[j], s.Rows[i])
		}
		return less(s.Rows[i], s.Rows[j])
	})
}

// floatLess orders NaN (undefined statistics) before every number so that
// undefined rows group together instead of floating randomly.
func floatLess(a, b float64) bool {
	if math.IsNaN(a) {
		return !math.IsNaN(b)
	}
	if math.IsNaN(b) {
		return false
	}
	return a < b
}

// Render writes the summary as an aligned table.
func (s *Summary) Render(w io.Writer) {
	formatTime := s.formatTime
	if formatTime == nil {
		formatTime = timefmt.Format
	}

	table := tablewriter.NewWriter(w)
	table.Header("Task", "Laps", "Mean", "StDev", "Total", "%")
	for _, r := range s.Rows {
		table.Append(
			r.Tag,
			strconv.FormatUint(r.Laps, 10),
			formatTime(r.Mean),
			formatTime(r.Stdev),
			formatTime(r.Total),
			formatPercent(r.Percent),
		)
	}
	r := s.TotalRow
	table.Append(
		r.Tag,
		strconv.FormatUint(r.Laps, 10),
		formatTime(r.Mean),
		formatTime(r.Stdev),
		formatTime(r.Total),
		formatPercent(r.Percent),
	)
	table.Render()
}

func formatPercent(p float64) string {
	if math.IsNaN(p) {
		return "--"
	}
	return fmt.Sprintf("%.0f", p)
}
