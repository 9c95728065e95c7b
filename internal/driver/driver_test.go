package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"nfscript/internal/diag"
	"nfscript/internal/pipeline"
)

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunSingleScript(t *testing.T) {
	path := writeScript(t, t.TempDir(), "sum.nf", "sum = 0\nfor i in 1..3 {\n sum = sum + i\n}\necho \"sum=\", sum\n")
	var out bytes.Buffer
	res, err := Run(context.Background(), path, Options{Stdout: &out})
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() {
		t.Fatalf("run failed: %v %v", res.Err, res.Bag.Items())
	}
	if got := out.String(); got != "sum=6\n" {
		t.Fatalf("output: got %q, want %q", got, "sum=6\n")
	}
	if n := len(res.Timer.Report().Phases); n != 3 {
		t.Fatalf("phases: got %d, want 3 (lex, parse, run)", n)
	}
}

func TestParseErrorsLandInBag(t *testing.T) {
	path := writeScript(t, t.TempDir(), "bad.nf", "echo 1\nfor i 1..3 {\n}\n")
	res, err := Parse(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Program != nil {
		t.Fatal("expected no program")
	}
	d, ok := res.Bag.FirstError()
	if !ok || d.Code != diag.SynForMissingIn || d.Line != 2 {
		t.Fatalf("first error: got %+v", d)
	}
}

func TestRunReportsRuntimeError(t *testing.T) {
	path := writeScript(t, t.TempDir(), "err.nf", "echo 1\nnope()\n")
	res, err := Run(context.Background(), path, Options{Stdout: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(res.Err, diag.ErrUndefined) {
		t.Fatalf("err: got %v, want undefined", res.Err)
	}
	d, ok := res.Bag.FirstError()
	if !ok || d.Code != diag.RunUndefinedFunction || d.Line != 2 {
		t.Fatalf("diagnostic: got %+v", d)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Run(context.Background(), filepath.Join(t.TempDir(), "none.nf"), Options{}); err == nil {
		t.Fatal("expected load error")
	}
}

type recordSink struct {
	mu     sync.Mutex
	events []pipeline.Event
}

func (s *recordSink) OnEvent(ev pipeline.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func TestRunScriptsParallel(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeScript(t, dir, "a.nf", "echo \"a\"\n"),
		writeScript(t, dir, "b.nf", "for i in 1..2 {\n echo i\n}\n"),
		writeScript(t, dir, "c.nf", "echo 1\nbad(\n"),
		writeScript(t, dir, "d.nf", "x = 1\nx()\n"),
	}
	sink := &recordSink{}
	batch, err := RunScripts(context.Background(), files, 2, Options{}, sink)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch.Results) != len(files) {
		t.Fatalf("results: got %d, want %d", len(batch.Results), len(files))
	}
	wantOut := []string{"a\n", "1\n2\n"}
	for i, r := range batch.Results[:2] {
		if r.Path != filepath.ToSlash(files[i]) {
			t.Fatalf("result %d: got path %q, want %q", i, r.Path, files[i])
		}
		if string(r.Output) != wantOut[i] {
			t.Fatalf("result %d output: got %q, want %q", i, r.Output, wantOut[i])
		}
	}
	if !IsParseFailure(batch.Results[2].Err) {
		t.Fatalf("c.nf: got %v, want parse failure", batch.Results[2].Err)
	}
	if batch.Results[3].Err == nil {
		t.Fatal("d.nf: expected runtime error")
	}
	if got := batch.Failed(); got != 2 {
		t.Fatalf("failed: got %d, want 2", got)
	}
	if !batch.Timings.Has(pipeline.StageRun) {
		t.Fatal("batch timings miss the run stage")
	}

	done := 0
	for _, ev := range sink.events {
		if ev.Stage == pipeline.StageRun && ev.Status == pipeline.StatusDone {
			done++
		}
	}
	if done != 2 {
		t.Fatalf("done events: got %d, want 2", done)
	}
}

func TestRunScriptsCanceled(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeScript(t, dir, "a.nf", "echo 1\n"), writeScript(t, dir, "b.nf", "echo 2\n")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	batch, err := RunScripts(ctx, files, 1, Options{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	for i, r := range batch.Results {
		if r == nil || !r.Failed() {
			t.Fatalf("result %d: got %+v, want a failed result", i, r)
		}
	}
}
