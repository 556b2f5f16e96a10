package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dshills/reviewtour/internal/slicing"
)

// SchemaVersion identifies the Entry layout. Entries of any other version
// are misses and are removed by Prune.
const SchemaVersion = 2

// Key addresses the parsed diff of one commit. Options fingerprints the diff
// options (context, filters, byte limit) and Filter the redaction mode, since
// both change what the diff contains.
type Key struct {
	SHA     string
	Options string
	Filter  string
}

func (k Key) digest() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d\x00%s\x00%s\x00%s", SchemaVersion, k.SHA, k.Options, k.Filter)))
	return hex.EncodeToString(h[:])
}

// shard is the directory an entry lives in. Commit SHAs are hex, so entries
// of one commit share the directory named after its first two digits.
func (k Key) shard() string {
	sha := strings.ToLower(k.SHA)
	if len(sha) >= 2 && strings.Trim(sha, "0123456789abcdef") == "" {
		return sha[:2]
	}
	h := sha256.Sum256([]byte(k.SHA))
	return hex.EncodeToString(h[:1])
}

// Entry is the cached, parsed diff of one commit.
type Entry struct {
	Schema    int                `json:"schema"`
	SHA       string             `json:"sha"`
	Options   string             `json:"options"`
	Filter    string             `json:"filter"`
	Files     []slicing.FileDiff `json:"files"`
	CreatedAt time.Time          `json:"createdAt"`
}

func (e Entry) matches(k Key) bool {
	return e.Schema == SchemaVersion && e.SHA == k.SHA && e.Options == k.Options && e.Filter == k.Filter
}

// Cache stores parsed commit diffs on disk. Commits are immutable, so an
// entry only goes stale through its TTL or a schema change.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// New creates a Cache. An empty dir selects the default cache directory and
// a non-positive ttlSeconds keeps entries forever.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{now: time.Now}, nil
	}
	if dir == "" {
		d, err := defaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlSeconds) * time.Second,
		enabled: true,
		now:     time.Now,
	}, nil
}

// Get returns the parsed diff stored under k. Expired entries are removed
// and reported as misses.
func (c *Cache) Get(k Key) ([]slicing.FileDiff, bool) {
	if !c.enabled {
		return nil, false
	}
	path := c.entryPath(k)
	e, err := readEntry(path)
	if err != nil || !e.matches(k) {
		return nil, false
	}
	if c.expired(e) {
		os.Remove(path)
		return nil, false
	}
	return e.Files, true
}

// Put stores the parsed diff of a commit. The entry is written to a
// temporary file and renamed so concurrent readers never see partial JSON.
func (c *Cache) Put(k Key, files []slicing.FileDiff) error {
	if !c.enabled {
		return nil
	}
	data, err := json.Marshal(Entry{
		Schema:    SchemaVersion,
		SHA:       k.SHA,
		Options:   k.Options,
		Filter:    k.Filter,
		Files:     files,
		CreatedAt: c.now(),
	})
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	path := c.entryPath(k)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache shard: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}

// Clear removes every cache entry and the shard directories holding them.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return c.walk(true, func(path string, _ fs.FileInfo) error {
		return removeEntry(path)
	})
}

// Prune removes expired entries, entries of another schema version and
// entries that no longer decode. It returns how many were removed.
func (c *Cache) Prune() (int, error) {
	if !c.enabled {
		return 0, nil
	}
	removed := 0
	err := c.walk(true, func(path string, _ fs.FileInfo) error {
		e, err := readEntry(path)
		if err == nil && e.Schema == SchemaVersion && !c.expired(e) {
			return nil
		}
		if err := removeEntry(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// Stats describes the cache contents.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	Commits    int    `json:"commits"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
	Stale      int    `json:"stale"`
}

// GetStats returns information about the cache. Stale counts entries that
// are unreadable or belong to another schema version.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	if !c.enabled {
		return stats, nil
	}
	commits := make(map[string]bool)
	err := c.walk(false, func(path string, info fs.FileInfo) error {
		stats.Entries++
		stats.TotalBytes += info.Size()
		e, err := readEntry(path)
		switch {
		case err != nil || e.Schema != SchemaVersion:
			stats.Stale++
		case c.expired(e):
			stats.Expired++
		default:
			commits[e.SHA] = true
		}
		return nil
	})
	stats.Commits = len(commits)
	return stats, err
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled returns whether caching is enabled.
func (c *Cache) Enabled() bool {
	return c.enabled
}

func (c *Cache) expired(e Entry) bool {
	return c.ttl > 0 && c.now().Sub(e.CreatedAt) > c.ttl
}

func (c *Cache) entryPath(k Key) string {
	return filepath.Join(c.dir, k.shard(), k.digest()+".json")
}

// walk calls fn for every entry file. With tidy set, shard directories left
// empty afterwards are removed.
func (c *Cache) walk(tidy bool, fn func(path string, info fs.FileInfo) error) error {
	var shards []string
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("reading cache directory: %w", err)
		}
		if d.IsDir() {
			if path != c.dir {
				shards = append(shards, path)
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		return fn(path, info)
	})
	if tidy {
		for _, dir := range shards {
			// Only succeeds for empty directories.
			os.Remove(dir)
		}
	}
	return err
}

func readEntry(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("decoding cache entry: %w", err)
	}
	return e, nil
}

func removeEntry(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing cache entry: %w", err)
	}
	return nil
}

func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "reviewtour"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "reviewtour"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "reviewtour", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "reviewtour", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "reviewtour"), nil
	}
}
