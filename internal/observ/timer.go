// Package observ measures the phases of a command for --timings.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Timer records consecutive phases of one command (load, parse, cache).
// It is not safe for concurrent use.
type Timer struct {
	names  []string
	starts []time.Time
	durs   []time.Duration
	notes  []string
}

func NewTimer() *Timer { return &Timer{} }

// Begin opens a phase and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	t.names = append(t.names, name)
	t.starts = append(t.starts, time.Now())
	t.durs = append(t.durs, 0)
	t.notes = append(t.notes, "")
	return len(t.names) - 1
}

// End closes phase idx; an unknown handle is ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.names) {
		return
	}
	t.durs[idx] = time.Since(t.starts[idx])
	t.notes[idx] = note
}

// PhaseReport is one finished phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the serialisable form of a Timer. TotalMS is the sum of the
// phases, not the wall time of the command.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func millis(d time.Duration) float64 { return d.Seconds() * 1e3 }

func (t *Timer) Report() Report {
	var r Report
	var total time.Duration
	for i, name := range t.names {
		total += t.durs[i]
		r.Phases = append(r.Phases, PhaseReport{Name: name, DurationMS: millis(t.durs[i]), Note: t.notes[i]})
	}
	r.TotalMS = millis(total)
	return r
}

func (t *Timer) Summary() string { return t.Report().Summary() }

// Summary renders the report as an aligned table, one phase per line.
func (r Report) Summary() string {
	var sb strings.Builder
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			sb.WriteString("  // " + note)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return sb.String()
}

// Merge returns r followed by the phases of other, named "prefix.<name>".
// Neither report is modified.
func (r Report) Merge(prefix string, other Report) Report {
	out := Report{TotalMS: r.TotalMS + other.TotalMS}
	out.Phases = append(out.Phases, r.Phases...)
	for _, p := range other.Phases {
		if prefix != "" {
			p.Name = prefix + "." + p.Name
		}
		out.Phases = append(out.Phases, p)
	}
	return out
}
