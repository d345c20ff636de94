package diagnostics

import (
	"fmt"
	"strings"
	"time"
)

// Stopwatch records named lap durations across a pipeline run and
// renders them as a colorized plain-text report.
type Stopwatch struct {
	start time.Time
	last  time.Time
	laps  []lap
}

type lap struct {
	label    string
	duration time.Duration
}

// Start begins timing.
func (sw *Stopwatch) Start(now time.Time) {
	sw.start = now
	sw.last = now
}

// Lap records the duration since the previous Lap (or Start) under
// label, and logs it to the debug channel.
func (sw *Stopwatch) Lap(now time.Time, label string) {
	d := now.Sub(sw.last)
	sw.laps = append(sw.laps, lap{label: label, duration: d})
	sw.last = now
	Debug().Str("stage", label).Dur("elapsed", d).Msg("stage complete")
}

// Report renders a colorized summary of every recorded lap plus the
// total wall-clock time.
func (sw *Stopwatch) Report(now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%sTransform report%s\n", boldColor, noteColor, resetColor)
	for _, l := range sw.laps {
		fmt.Fprintf(&b, "  %s%-20s%s %v\n", debugColor, l.label, resetColor, l.duration)
	}
	fmt.Fprintf(&b, "  %s%-20s%s %v\n", boldColor, "total", resetColor, now.Sub(sw.start))
	return b.String()
}
