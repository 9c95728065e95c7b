// Package observ collects wall-clock timings of script phases.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one measured step (lex, parse, run) of a script.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer accumulates phases of one script. It is not safe for concurrent use;
// batch runs keep one Timer per script.
type Timer struct {
	script string
	phases []Phase
}

func NewTimer(script string) *Timer {
	return &Timer{script: script, phases: make([]Phase, 0, 4)}
}

// Begin starts a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Measure times fn as phase name; a failed phase is noted with its error.
func (t *Timer) Measure(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	note := ""
	if err != nil {
		note = "failed"
	}
	t.End(idx, note)
	return err
}

func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
	}
	return total
}

// Summary renders a fixed-width table.
func (t *Timer) Summary() string {
	var b strings.Builder
	if t.script != "" {
		fmt.Fprintf(&b, "timings (%s):\n", t.script)
	} else {
		b.WriteString("timings:\n")
	}
	for _, p := range t.phases {
		fmt.Fprintf(&b, "  %-10s %9.3f ms", p.Name, millis(p.Dur))
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-10s %9.3f ms\n", "total", millis(t.Total()))
	return b.String()
}

// PhaseReport - сериализуемое описание фазы.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report - агрегированные данные таймера для --timings=json.
type Report struct {
	Script  string        `json:"script,omitempty"`
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	r := Report{Script: t.script, Phases: make([]PhaseReport, len(t.phases))}
	for i, p := range t.phases {
		r.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note}
	}
	r.TotalMS = millis(t.Total())
	return r
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
