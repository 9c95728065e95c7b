package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"nfscript/internal/source"
	"nfscript/internal/token"
)

// Current schema version - increment when the cached token layout changes
const tokenCacheSchema uint16 = 2

var tokenBucket = []byte("tokens")

// TokenCache keeps lexer output keyed by content hash in a bbolt database,
// so unchanged scripts skip lexing. Safe for concurrent use; a nil cache is
// a valid no-op.
type TokenCache struct {
	db   *bolt.DB
	path string
}

type tokenPayload struct {
	Schema uint16        `msgpack:"s"`
	Tokens []cachedToken `msgpack:"t"`
}

// cachedToken is token.Token without the file id, which differs per run.
type cachedToken struct {
	Kind  token.Kind `msgpack:"k"`
	Text  string     `msgpack:"x"`
	Line  int        `msgpack:"l"`
	Start uint32     `msgpack:"b"`
	End   uint32     `msgpack:"e"`
}

// DefaultCacheDir returns $XDG_CACHE_HOME/app or ~/.cache/app.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenTokenCache opens (or creates) the cache database in dir.
func OpenTokenCache(dir string) (*TokenCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "tokens.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open token cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tokenBucket)
		return err
	})
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return &TokenCache{db: db, path: path}, nil
}

// Path is the database file.
func (c *TokenCache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

func cacheKey(file *source.File, noNormalize bool) []byte {
	h := sha256.New()
	var hdr [3]byte
	binary.BigEndian.PutUint16(hdr[:2], tokenCacheSchema)
	if noNormalize {
		hdr[2] = 1
	}
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(file.Hash[:])
	return h.Sum(nil)
}

// Get returns the cached tokens of file with spans bound to file.
func (c *TokenCache) Get(file *source.File, noNormalize bool) ([]token.Token, bool) {
	if c == nil || file == nil {
		return nil, false
	}
	var payload tokenPayload
	found := false
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(tokenBucket)
		if b == nil {
			return nil
		}
		data := b.Get(cacheKey(file, noNormalize))
		if data == nil {
			return nil
		}
		// data живёт только внутри транзакции; Unmarshal копирует строки
		if err := msgpack.Unmarshal(data, &payload); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil || !found || payload.Schema != tokenCacheSchema {
		return nil, false
	}
	toks := make([]token.Token, len(payload.Tokens))
	for i, ct := range payload.Tokens {
		toks[i] = token.Token{
			Kind: ct.Kind,
			Text: ct.Text,
			Line: ct.Line,
			Span: source.Span{File: file.ID, Start: ct.Start, End: ct.End},
		}
	}
	return toks, true
}

// Put stores toks as the lexer output of file.
func (c *TokenCache) Put(file *source.File, noNormalize bool, toks []token.Token) error {
	if c == nil || file == nil {
		return nil
	}
	payload := tokenPayload{Schema: tokenCacheSchema, Tokens: make([]cachedToken, len(toks))}
	for i, t := range toks {
		payload.Tokens[i] = cachedToken{Kind: t.Kind, Text: t.Text, Line: t.Line, Start: t.Span.Start, End: t.Span.End}
	}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(tokenBucket)
		if err != nil {
			return err
		}
		return b.Put(cacheKey(file, noNormalize), data)
	})
}

// Len reports the number of cached scripts.
func (c *TokenCache) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	_ = c.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(tokenBucket); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n
}

// Clear drops every cached entry.
func (c *TokenCache) Clear() error {
	if c == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(tokenBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(tokenBucket)
		return err
	})
}

func (c *TokenCache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}
