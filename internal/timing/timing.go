// Package timing measures the phases of a completion request.
package timing

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one measured step
type Phase struct {
	Label    string
	Duration time.Duration
}

// Timer splits elapsed time into consecutive phases. Each Mark closes the
// phase that started at the previous Mark (or at NewTimer).
type Timer struct {
	start  time.Time
	last   time.Time
	phases []Phase
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	now := time.Now()
	return &Timer{start: now, last: now}
}

// Mark ends the current phase under label and returns its duration
func (t *Timer) Mark(label string) time.Duration {
	now := time.Now()
	d := now.Sub(t.last)
	t.last = now
	t.phases = append(t.phases, Phase{Label: label, Duration: d})
	return d
}

// Elapsed returns total elapsed time since timer creation
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Get returns the duration of the phase with label
func (t *Timer) Get(label string) (time.Duration, bool) {
	for _, p := range t.phases {
		if p.Label == label {
			return p.Duration, true
		}
	}
	return 0, false
}

// Phases returns the recorded phases in order
func (t *Timer) Phases() []Phase {
	return append([]Phase(nil), t.phases...)
}

// Summary formats the total and every phase in milliseconds
func (t *Timer) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "total %s", ms(t.Elapsed()))

	if len(t.phases) > 0 {
		b.WriteString(" (")
		for i, p := range t.phases {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s %s", p.Label, ms(p.Duration))
		}
		b.WriteString(")")
	}

	return b.String()
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000.0)
}
