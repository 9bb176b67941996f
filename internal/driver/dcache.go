package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"wstok/internal/source"
	"wstok/internal/token"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// CacheKey derives the key for content with the given hash. The schema
// version is part of the key, so a format bump never reads stale entries.
func CacheKey(contentHash [32]byte, norm source.Normalization) Digest {
	h := sha256.New()
	fmt.Fprintf(h, "wstok/v%d/%s/", diskCacheSchemaVersion, norm)
	h.Write(contentHash[:])
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// DiskCache хранит списки токенов по ключу содержимого на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the on-disk form of a token list.
type DiskPayload struct {
	Schema  uint16   `msgpack:"schema"`
	Texts   []string `msgpack:"texts"`
	Offsets []int    `msgpack:"offsets"`
}

// NewDiskPayload packs list for storage.
func NewDiskPayload(list token.List) *DiskPayload {
	return &DiskPayload{
		Schema:  diskCacheSchemaVersion,
		Texts:   list.Texts(),
		Offsets: list.Offsets(),
	}
}

// List unpacks the payload.
func (p *DiskPayload) List() token.List {
	if p == nil || len(p.Texts) == 0 {
		return nil
	}
	out := make(token.List, len(p.Texts))
	for i := range p.Texts {
		out[i] = token.Token{Text: p.Texts[i], Offset: p.Offsets[i]}
	}
	return out
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
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	// Записи лежат в подкаталоге "tokens".
	return filepath.Join(c.dir, "tokens", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
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
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
// Entries of another schema count as a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- path is derived from the cache key
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	if out.Schema != diskCacheSchemaVersion || len(out.Texts) != len(out.Offsets) {
		return false, nil
	}
	return true, nil
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
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
