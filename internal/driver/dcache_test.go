package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/parser"
)

func newTestCache(t *testing.T) *DiskCache {
	t.Helper()
	c, err := NewDiskCache(filepath.Join(t.TempDir(), "bfgex"))
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	return c
}

func TestDiskCachePutGet(t *testing.T) {
	c := newTestCache(t)
	tree, err := parser.Parse(`a[b-d]{2,3}|\w`)
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey(`a[b-d]{2,3}|\w`, parser.Options{})

	if _, ok, err := c.Get(key, `a[b-d]{2,3}|\w`); ok || err != nil {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	if err := c.Put(key, `a[b-d]{2,3}|\w`, tree); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key, `a[b-d]{2,3}|\w`)
	if err != nil || !ok {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	if ast.Render(got) != ast.Render(tree) {
		t.Fatalf("got %s, want %s", ast.Render(got), ast.Render(tree))
	}

	// временные файлы не остаются рядом с записью
	entries, err := os.ReadDir(filepath.Dir(c.pathFor(key)))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected a single entry, got %d", len(entries))
	}
}

func TestDiskCacheEmptyTree(t *testing.T) {
	c := newTestCache(t)
	key := CacheKey("", parser.Options{})
	if err := c.Put(key, "", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key, "")
	if err != nil || !ok || got != nil {
		t.Fatalf("Get = %v, %v, %v", got, ok, err)
	}
}

func TestDiskCachePatternMismatchIsMiss(t *testing.T) {
	c := newTestCache(t)
	key := CacheKey("a", parser.Options{})
	if err := c.Put(key, "a", ast.Literal{Char: 'a'}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(key, "b"); ok || err != nil {
		t.Fatalf("mismatched pattern must miss: ok=%v err=%v", ok, err)
	}
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	c := newTestCache(t)
	key := CacheKey("a", parser.Options{})
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte{0xc1, 0x00}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(key, "a"); ok || err == nil {
		t.Fatalf("corrupt entry: ok=%v err=%v", ok, err)
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	c := newTestCache(t)
	key := CacheKey("x", parser.Options{})
	if err := c.Put(key, "x", ast.Literal{Char: 'x'}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key, "x"); ok {
		t.Fatal("entry survived DropAll")
	}
	// кэш остаётся рабочим
	if err := c.Put(key, "x", ast.Literal{Char: 'x'}); err != nil {
		t.Fatalf("Put after DropAll: %v", err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Digest{}, "a", nil); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(Digest{}, "a"); ok || err != nil {
		t.Fatalf("nil cache Get: %v %v", ok, err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
}

func TestCacheKey(t *testing.T) {
	spaces := ast.DefaultClasses()
	if err := spaces.Register('s', "SPACE"); err != nil {
		t.Fatal(err)
	}

	base := CacheKey("a?", parser.Options{})
	tests := []struct {
		name string
		key  Digest
		same bool
	}{
		{"same input", CacheKey("a?", parser.Options{}), true},
		{"explicit default classes", CacheKey("a?", parser.Options{Classes: ast.DefaultClasses()}), true},
		{"other pattern", CacheKey("a+", parser.Options{}), false},
		{"extended", CacheKey("a?", parser.Options{Flags: parser.FlagExtended}), false},
		{"custom classes", CacheKey("a?", parser.Options{Classes: spaces}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.key == base) != tt.same {
				t.Fatalf("key %s vs base %s: same=%v", tt.key, base, tt.key == base)
			}
		})
	}
}
