// Package cachedir manages the directory extension modules are built in.
package cachedir

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxAttempts bounds the number of random names tried before giving up.
const maxAttempts = 64

// Cache owns the current cache directory below a cache root.
type Cache struct {
	mu     sync.Mutex
	root   string
	dir    string
	record func(dir string)
	token  func() uint32
}

// Option configures a Cache.
type Option func(*Cache)

// WithRecorder registers a callback invoked with every newly created directory.
func WithRecorder(fn func(dir string)) Option {
	return func(c *Cache) {
		c.record = fn
	}
}

// WithTokenSource replaces the random directory name source.
func WithTokenSource(fn func() uint32) Option {
	return func(c *Cache) {
		c.token = fn
	}
}

// Open returns a Cache under root. The hint directory is reused when it is an
// existing directory; otherwise a new directory is created.
func Open(root, hint string, opts ...Option) (*Cache, error) {
	c := &Cache{
		root:   root,
		record: func(string) {},
		token:  rand.Uint32,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if hint != "" && isDir(hint) {
		c.dir = hint
		return c, nil
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the current cache directory.
func (c *Cache) Dir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dir
}

// Root returns the cache root.
func (c *Cache) Root() string {
	return c.root
}

// EnsureLive recreates the current directory if it was removed, for example
// by a parallel session cleaning the cache. If it cannot be recreated a new
// directory is created instead.
func (c *Cache) EnsureLive() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if isDir(c.dir) {
		return c.dir
	}
	if err := os.MkdirAll(c.dir, domain.DirPerm); err != nil {
		_ = c.init()
	}
	return c.dir
}

// Reset removes the whole cache root and creates a fresh directory.
func (c *Cache) Reset() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = os.RemoveAll(c.root)
	_ = c.init()
	return c.dir
}

// init creates a new random directory under the root and records it.
// The caller must hold c.mu.
func (c *Cache) init() error {
	if err := os.MkdirAll(c.root, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheInitFailed, err.Error()), "root", c.root)
	}

	for range maxAttempts {
		dir := filepath.Join(c.root, fmt.Sprintf("%08x", c.token()))
		err := os.Mkdir(dir, domain.DirPerm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrCacheInitFailed, err.Error()), "dir", dir)
		}
		c.dir = dir
		c.record(dir)
		return nil
	}
	return zerr.With(zerr.Wrap(domain.ErrCacheInitFailed, "no free directory name"), "root", c.root)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
