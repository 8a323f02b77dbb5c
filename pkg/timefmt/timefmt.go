// Package timefmt renders durations given in seconds as short human-readable
// strings. Durations under a minute use three significant figures with an SI
// prefix ("12.6ms", "1.00s"); longer durations use colon-separated blocks up
// to dd:hh:mm:ss, omitting leading blocks that would be zero. The finest
// resolution is 1ns.
package timefmt

import (
	"fmt"
	"math"
	"time"
)

// Unknown is returned for NaN input, which callers use to mean "no data yet".
const Unknown = "???"

// Format renders a duration in seconds.
//
//	Format(24*60*60)  == "1:00:00:00"
//	Format(60*60)     == "1:00:00"
//	Format(60)        == "1:00"
//	Format(10)        == "10.0s"
//	Format(0.01255)   == "12.6ms"
func Format(seconds float64) string {
	if math.IsNaN(seconds) {
		return Unknown
	}
	if seconds < 0 {
		return "-" + Format(-seconds)
	}

	if seconds < 1 {
		ms := 1000 * seconds
		if ms < 1 {
			us := 1000 * ms
			switch {
			case us < 1:
				return fmt.Sprintf("%.0fns", 1000*us)
			case us < 10:
				return fmt.Sprintf("%.2fus", us)
			case us < 100:
				return fmt.Sprintf("%.1fus", us)
			default:
				return fmt.Sprintf("%.0fus", us)
			}
		}
		switch {
		case ms < 10:
			return fmt.Sprintf("%.2fms", ms)
		case ms < 100:
			return fmt.Sprintf("%.1fms", ms)
		default:
			return fmt.Sprintf("%.0fms", ms)
		}
	}
	if seconds < 10 {
		return fmt.Sprintf("%.2fs", seconds)
	}
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}

	secs := int64(seconds)
	mins := secs / 60
	secs %= 60
	if mins < 60 {
		return fmt.Sprintf("%d:%02d", mins, secs)
	}
	hours := mins / 60
	mins %= 60
	if hours < 24 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	days := hours / 24
	hours %= 24
	return fmt.Sprintf("%d:%02d:%02d:%02d", days, hours, mins, secs)
}

// FormatDuration renders a time.Duration using the same rules as Format.
func FormatDuration(d time.Duration) string {
	return Format(d.Seconds())
}
