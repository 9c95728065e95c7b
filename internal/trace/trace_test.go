package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeCall, false},
		{LevelDetail, ScopeCall, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Fatalf("%v.ShouldEmit(%v): got %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("debug"); err != nil || l != LevelDebug {
		t.Fatalf("ParseLevel(debug): got %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel(loud): expected error")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode(both): got %v, %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat(ndjson): got %v, %v", f, err)
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePhase, "parse", 0)
	Begin(tr, ScopeCall, "call:f", span.ID()).End("")
	span.WithExtra("nodes", "3").End("ok")

	out := buf.String()
	if strings.Contains(out, "call:f") {
		t.Fatalf("call scope must be filtered at phase level:\n%s", out)
	}
	if !strings.Contains(out, "→ parse") || !strings.Contains(out, "← parse (ok) {nodes=3}") {
		t.Fatalf("unexpected text output:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "node:For", "line 3", 7)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("ndjson: %v (%q)", err, buf.String())
	}
	if got["kind"] != "point" || got["scope"] != "node" || got["name"] != "node:For" {
		t.Fatalf("ndjson fields: got %v", got)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeNode, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len: got %d, want 3", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Fatalf("snapshot[%d]: got %q, want %q", i, snap[i].Name, want)
		}
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump lines: %q", buf.String())
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	a := NewRingTracer(8, LevelDebug)
	b := NewRingTracer(8, LevelDebug)
	m := NewMultiTracer(LevelDebug, a, b)
	Point(m, ScopePhase, "run", "", 0)
	if len(a.Snapshot()) != 1 || len(b.Snapshot()) != 1 {
		t.Fatalf("fan-out: got %d and %d events", len(a.Snapshot()), len(b.Snapshot()))
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	// no-op spans must be safe
	Begin(tr, ScopePhase, "x", 0).End("")
}

func TestContextPropagation(t *testing.T) {
	r := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("FromContext: tracer not propagated")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("FromContext without tracer must be Nop")
	}
	if ParentFrom(ctx) != 0 || ScriptFrom(ctx) != "" {
		t.Fatalf("fresh context must carry no parent or script")
	}
	ctx = WithScript(WithParent(ctx, 5), "scripts/fib.nf")
	if got := ParentFrom(ctx); got != 5 {
		t.Fatalf("ParentFrom: got %d, want 5", got)
	}
	if got := ScriptFrom(ctx); got != "scripts/fib.nf" {
		t.Fatalf("ScriptFrom: got %q, want %q", got, "scripts/fib.nf")
	}
	if WithParent(ctx, 0) != ctx || WithScript(ctx, "") != ctx {
		t.Fatalf("zero parent and empty script must not wrap the context")
	}
}

func TestHeartbeatStops(t *testing.T) {
	r := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	h.Stop()
	n := len(r.Snapshot())
	if n == 0 {
		t.Fatalf("expected heartbeat events")
	}
	time.Sleep(5 * time.Millisecond)
	if len(r.Snapshot()) != n {
		t.Fatalf("heartbeat kept emitting after Stop")
	}
	// nil heartbeat
	var nh *Heartbeat
	nh.Stop()
}

func TestHeartbeatNamesLastSpan(t *testing.T) {
	r := NewRingTracer(64, LevelDetail)
	span := Begin(r, ScopeCall, "call:spin", 0)
	h := StartHeartbeat(r, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	h.Stop()
	h.Stop()
	span.End("")

	var beat *Event
	for _, ev := range r.Snapshot() {
		if ev.Kind == KindHeartbeat {
			beat = &ev
			break
		}
	}
	if beat == nil {
		t.Fatalf("no heartbeat recorded")
	}
	if !strings.HasPrefix(beat.Detail, "#1 open=") || !strings.Contains(beat.Detail, "last=call:spin") {
		t.Fatalf("heartbeat detail: got %q", beat.Detail)
	}
}

func TestSpanEndTwice(t *testing.T) {
	r := NewRingTracer(8, LevelPhase)
	before, _ := Activity()
	span := Begin(r, ScopePhase, "run", 0)
	span.End("ok")
	span.End("ok")
	if got := len(r.Snapshot()); got != 2 {
		t.Fatalf("events: got %d, want 2", got)
	}
	if after, _ := Activity(); after != before {
		t.Fatalf("open spans: got %d, want %d", after, before)
	}
}

func TestRingScriptFilter(t *testing.T) {
	r := NewRingTracer(64, LevelDebug)
	for _, path := range []string{"a.nf", "b.nf"} {
		run := Begin(r, ScopePhase, "run", 0).WithExtra("script", path)
		call := Begin(r, ScopeCall, "call:f", run.ID())
		Point(r, ScopeNode, "node:Echo", path, call.ID())
		call.End("")
		run.End("ok")
	}

	got := r.Script("b.nf")
	var names []string
	for _, ev := range got {
		names = append(names, ev.Name)
		if ev.Kind == KindPoint && ev.Detail != "b.nf" {
			t.Fatalf("foreign event in b.nf trace: %+v", ev)
		}
	}
	want := "run call:f node:Echo call:f run"
	if strings.Join(names, " ") != want {
		t.Fatalf("script events: got %q, want %q", strings.Join(names, " "), want)
	}
	if len(r.Script("missing.nf")) != 0 {
		t.Fatalf("unknown script must give no events")
	}
}

func TestRingModeDumpsOnClose(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeRing, Output: &buf, RingSize: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{"parse", "run", "report"} {
		Point(tr, ScopePhase, name, "", 0)
	}
	if buf.Len() != 0 {
		t.Fatalf("ring mode wrote before Close: %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "parse") || !strings.Contains(out, "run") || !strings.Contains(out, "report") {
		t.Fatalf("dump must hold the last two events:\n%s", out)
	}
	n := buf.Len()
	if err := tr.Close(); err != nil || buf.Len() != n {
		t.Fatalf("second Close must not dump again")
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"", FormatText},
		{"-", FormatText},
		{"run.log", FormatText},
		{"run.ndjson", FormatNDJSON},
		{"out/run.JSONL", FormatNDJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := formatFor(tt.path); got != tt.want {
				t.Fatalf("formatFor(%q): got %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
