package driver

import (
	"path/filepath"
	"testing"
)

func TestTokenCacheRoundTrip(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	path := writeScript(t, t.TempDir(), "c.nf", "var x = 1\nif x > 0 {\n echo \"yes\"\n}\n")
	opts := Options{Cache: cache}

	first, err := Tokenize(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first tokenize hit the cache")
	}
	second, err := Tokenize(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second tokenize missed the cache")
	}
	if len(first.Tokens) != len(second.Tokens) {
		t.Fatalf("tokens: got %d, want %d", len(second.Tokens), len(first.Tokens))
	}
	for i := range first.Tokens {
		if first.Tokens[i] != second.Tokens[i] {
			t.Fatalf("token %d: got %+v, want %+v", i, second.Tokens[i], first.Tokens[i])
		}
	}

	// the normalization flag is part of the key
	if raw, _ := Tokenize(path, Options{Cache: cache, NoNormalize: true}); raw.Cached {
		t.Fatal("NoNormalize shared a cache entry")
	}
	if n := cache.Len(); n != 2 {
		t.Fatalf("entries: got %d, want 2", n)
	}
	if err := cache.Clear(); err != nil {
		t.Fatal(err)
	}
	if n := cache.Len(); n != 0 {
		t.Fatalf("entries after clear: got %d, want 0", n)
	}
}

func TestTokenCacheSkipsLexErrors(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	path := writeScript(t, t.TempDir(), "bad.nf", "echo \"unterminated\n")
	res, err := Tokenize(path, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected a lexical error")
	}
	if n := cache.Len(); n != 0 {
		t.Fatalf("entries: got %d, want 0", n)
	}
}

func TestNilTokenCache(t *testing.T) {
	var c *TokenCache
	if _, ok := c.Get(nil, false); ok {
		t.Fatal("nil cache hit")
	}
	if err := c.Put(nil, false, nil); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 || c.Clear() != nil || c.Close() != nil || c.Path() != "" {
		t.Fatal("nil cache is not a no-op")
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultCacheDir("nf")
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "nf") {
		t.Fatalf("got %q", dir)
	}
}
