package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/parser"
)

// Current schema version - increment when CachedTree format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is the SHA-256 key of a cache entry.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DiskCache хранит разобранные деревья паттернов на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedTree is the on-disk record of one successfully parsed pattern.
// Failed parses are never cached: their diagnostics carry spans that
// belong to the FileSet of the run that produced them.
type CachedTree struct {
	Schema  uint16 `msgpack:"s"`
	Pattern string `msgpack:"p"`
	Tree    []byte `msgpack:"t"` // ast.MarshalMsgpack
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it when missing.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey derives the key of pattern under opts: the same pattern parses
// differently with other flags or another class table.
func CacheKey(pattern string, opts parser.Options) Digest {
	h := sha256.New()
	var hdr [3]byte
	binary.BigEndian.PutUint16(hdr[:2], diskCacheSchemaVersion)
	hdr[2] = byte(opts.Flags)
	_, _ = h.Write(hdr[:])

	classes := opts.Classes
	if classes == nil {
		classes = ast.DefaultClasses()
	}
	for _, letter := range classes.Letters() {
		class, _ := classes.Lookup(letter)
		_, _ = fmt.Fprintf(h, "%c=%s;", letter, class)
	}
	_, _ = h.Write([]byte{0})
	_, _ = io.WriteString(h, pattern)

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// двухсимвольный префикс, чтобы не складывать всё в один каталог
	return filepath.Join(c.dir, "trees", hexKey[:2], hexKey+".mp")
}

// Put serializes tree and writes it under key. A nil tree (empty pattern) is stored too.
func (c *DiskCache) Put(key Digest, pattern string, tree ast.Node) error {
	if c == nil {
		return nil
	}
	data, err := ast.MarshalMsgpack(tree)
	if err != nil {
		return err
	}
	payload := &CachedTree{
		Schema:  diskCacheSchemaVersion,
		Pattern: pattern,
		Tree:    data,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads the tree stored under key. ok is false on a miss, on a schema
// mismatch and when the stored pattern differs from pattern.
func (c *DiskCache) Get(key Digest, pattern string) (tree ast.Node, ok bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var payload CachedTree
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Pattern != pattern {
		return nil, false, nil
	}
	tree, err = ast.UnmarshalMsgpack(payload.Tree)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	return tree, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
