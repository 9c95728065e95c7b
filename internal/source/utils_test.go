package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")
	for _, dir := range []string{baseDir, otherDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	target := filepath.Join(otherDir, "main.nf")
	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRelativePathInsideBaseStaysRelative(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "scripts", "loop.nf")

	got, err := RelativePath(target, tmp)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := "scripts/loop.nf"; got != want {
		t.Fatalf("expected relative path %q, got %q", want, got)
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.nf")
	raw := []byte("\xEF\xBB\xBFvar a = 1\r\necho a\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if got, want := string(f.Content), "var a = 1\necho a\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
}

func TestGetLineAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("virt.nf", []byte("a = 1\nif a == 1 {\n}\n"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{1, "a = 1"},
		{2, "if a == 1 {"},
		{3, "}"},
		{4, ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}

	// "if" starts at byte 6 -> line 2, col 1
	start, end := fs.Resolve(Span{File: id, Start: 6, End: 8})
	if start.Line != 2 || start.Col != 1 || end.Col != 3 {
		t.Fatalf("Resolve = %+v..%+v, want 2:1..2:3", start, end)
	}
	// the newline byte of line 1 still belongs to line 1
	if lc, _ := fs.Resolve(Span{File: id, Start: 5, End: 5}); lc.Line != 1 || lc.Col != 6 {
		t.Fatalf("newline resolves to %+v, want 1:6", lc)
	}
}

func TestGetUnknownFileReturnsNil(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(3) != nil {
		t.Fatalf("expected nil for unknown file id")
	}
}
