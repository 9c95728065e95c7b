package pipeline

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StageRun) {
		t.Fatal("empty timings report a stage")
	}
	tm.Set(StageLex, time.Millisecond)
	tm.Add(StageRun, 2*time.Millisecond)
	tm.Add(StageRun, 3*time.Millisecond)
	if got := tm.Duration(StageRun); got != 5*time.Millisecond {
		t.Fatalf("run: got %v, want 5ms", got)
	}
	if got := tm.Sum(Stages...); got != 6*time.Millisecond {
		t.Fatalf("sum: got %v, want 6ms", got)
	}
}

func TestSinks(t *testing.T) {
	ch := make(chan Event, 4)
	sink := NewSyncSink(ChannelSink{Ch: ch})
	EmitQueued(sink, []string{"a.nf", "b.nf"})
	EmitStage(sink, "a.nf", StageRun, StatusDone, nil, time.Second)
	close(ch)

	var got []Event
	for ev := range ch {
		got = append(got, ev)
	}
	if len(got) != 3 {
		t.Fatalf("events: got %d, want 3", len(got))
	}
	if got[0].Status != StatusQueued || got[2].Stage != StageRun || got[2].Elapsed != time.Second {
		t.Fatalf("events: got %+v", got)
	}

	var n int
	FuncSink(func(Event) { n++ }).OnEvent(Event{})
	if n != 1 {
		t.Fatalf("func sink: got %d calls, want 1", n)
	}
}

func TestCollectScripts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.nf", "a.nf", "notes.txt", "sub/c.nf", ".hidden/d.nf"} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("echo 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(dir, "a.nf")
	files, err := CollectScripts([]string{dir, single})
	if err != nil {
		t.Fatal(err)
	}
	want := NormalizeFiles([]string{
		filepath.Join(dir, "a.nf"),
		filepath.Join(dir, "b.nf"),
		filepath.Join(dir, "sub", "c.nf"),
	}, "")
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("got %v, want %v", files, want)
	}

	if _, err := CollectScripts([]string{filepath.Join(dir, "missing.nf")}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestNormalizeFilesRelativeToBase(t *testing.T) {
	base := t.TempDir()
	got := NormalizeFiles([]string{filepath.Join(base, "x", "y.nf"), filepath.Join(base, "x", "y.nf"), ""}, base)
	if want := []string{"x/y.nf"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
