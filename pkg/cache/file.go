package cache

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FileCache keeps entries as files under a directory. It is the CLI default,
// so repeated renders of unchanged specs skip serialization and page building.
//
// Each entry file starts with one header line, "<expiry unix nanos> <key>",
// followed by the cached bytes unchanged. An expiry of 0 never expires.
type FileCache struct {
	dir string
}

var _ Cache = (*FileCache)(nil)

// DefaultDir returns the per-user cache directory for chartwire
// ($XDG_CACHE_HOME/chartwire or the platform equivalent).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "chartwire"), nil
}

// NewFileCache opens (and creates) a cache in dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the entry for key. Expired, foreign and unreadable entries are
// removed and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, ok := decodeEntry(raw, key, time.Now())
	if !ok {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the entry through a temporary file, so readers never see a
// partial entry.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	fmt.Fprintf(w, "%d %s\n", expires, key)
	w.Write(data)
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the entry for key, if any.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the directory backing the cache.
func (c *FileCache) Dir() string {
	return c.dir
}

// Clear removes every entry and recreates the empty cache directory.
func (c *FileCache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func (c *FileCache) Close() error { return nil }

// path spreads entries over 256 subdirectories by key hash.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:])
}

// decodeEntry splits an entry file into header and data. It reports false
// when the header is malformed, names a different key, or has expired.
func decodeEntry(raw []byte, key string, now time.Time) ([]byte, bool) {
	header, data, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return nil, false
	}
	expStr, storedKey, found := bytes.Cut(header, []byte{' '})
	if !found || string(storedKey) != key {
		return nil, false
	}
	expires, err := strconv.ParseInt(string(expStr), 10, 64)
	if err != nil {
		return nil, false
	}
	if expires != 0 && now.UnixNano() > expires {
		return nil, false
	}
	return data, true
}
