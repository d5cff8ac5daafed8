package viewer

import "fmt"

// TimeUnit is a display unit for the chart axis. Divisor converts
// nanosecond timestamps into the unit.
type TimeUnit struct {
	Name    string
	Suffix  string
	Divisor int64
}

var (
	Nanoseconds  = TimeUnit{Name: "nanoseconds", Suffix: "ns", Divisor: 1}
	Microseconds = TimeUnit{Name: "microseconds", Suffix: "µs", Divisor: 1_000}
	Milliseconds = TimeUnit{Name: "milliseconds", Suffix: "ms", Divisor: 1_000_000}
	Seconds      = TimeUnit{Name: "seconds", Suffix: "s", Divisor: 1_000_000_000}
	Minutes      = TimeUnit{Name: "minutes", Suffix: "min", Divisor: 60_000_000_000}
	Hours        = TimeUnit{Name: "hours", Suffix: "h", Divisor: 3_600_000_000_000}
)

// ParseUnit maps a user-supplied unit code to a TimeUnit. Each unit
// accepts its short code, the common abbreviation and the full name.
func ParseUnit(code string) (TimeUnit, error) {
	switch code {
	case "ns", "nsec", "nanoseconds":
		return Nanoseconds, nil
	case "us", "usec", "microseconds":
		return Microseconds, nil
	case "ms", "msec", "milliseconds":
		return Milliseconds, nil
	case "s", "sec", "seconds":
		return Seconds, nil
	case "m", "min", "minutes":
		return Minutes, nil
	case "h", "hour", "hours":
		return Hours, nil
	}
	return TimeUnit{}, fmt.Errorf("unknown time unit %q", code)
}

// ResolveUnit picks the display unit: a user override always wins,
// otherwise the unit is scaled to the total time span. Non-positive
// totals fall back to nanoseconds.
func ResolveUnit(override string, timeTotal int64) (TimeUnit, error) {
	if override != "" {
		return ParseUnit(override)
	}
	switch {
	case timeTotal < Microseconds.Divisor:
		return Nanoseconds, nil
	case timeTotal < Milliseconds.Divisor:
		return Microseconds, nil
	case timeTotal < Seconds.Divisor:
		return Milliseconds, nil
	case timeTotal < Minutes.Divisor:
		return Seconds, nil
	case timeTotal < Hours.Divisor:
		return Minutes, nil
	default:
		return Hours, nil
	}
}
