package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer("demo.nf")
	if err := tm.Measure("lex", func() error { return nil }); err != nil {
		t.Fatalf("lex: %v", err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("run", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("run: got %v, want %v", err, boom)
	}

	r := tm.Report()
	if r.Script != "demo.nf" || len(r.Phases) != 2 {
		t.Fatalf("report: got %+v", r)
	}
	if r.Phases[1].Note != "failed" {
		t.Fatalf("failed phase note: got %q", r.Phases[1].Note)
	}
	s := tm.Summary()
	if !strings.Contains(s, "timings (demo.nf):") || !strings.Contains(s, "total") {
		t.Fatalf("summary: %q", s)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer("")
	tm.End(3, "ignored")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("End with bad index must not add phases")
	}
}
