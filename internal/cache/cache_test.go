package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/reviewtour/internal/slicing"
	"github.com/dshills/reviewtour/internal/tour"
)

const testSHA = "3f2a9c0d4e5b6a7980817263544536271809abcd"

func sampleFiles() []slicing.FileDiff {
	return []slicing.FileDiff{
		{
			OldPath: "main.go",
			NewPath: "main.go",
			Hunks: []slicing.Hunk{{
				Old:     tour.LineRange{Start: 10, End: 12},
				New:     tour.LineRange{Start: 10, End: 13},
				Changes: []string{"+ctx := context.Background()"},
			}},
		},
		{NewPath: "logo.png", Binary: true},
	}
}

func newTestCache(t *testing.T, ttlSeconds int) *Cache {
	t.Helper()
	c, err := New(true, t.TempDir(), ttlSeconds)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return c
}

// at pins the cache clock.
func at(c *Cache, ts time.Time) {
	c.now = func() time.Time { return ts }
}

func TestCache_PutGet(t *testing.T) {
	c := newTestCache(t, 86400)
	key := Key{SHA: testSHA, Options: "U3", Filter: "raw"}

	if _, ok := c.Get(key); ok {
		t.Error("expected miss before put")
	}
	if err := c.Put(key, sampleFiles()); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if len(got) != 2 {
		t.Fatalf("got %d files, want 2", len(got))
	}
	if got[0].Path() != "main.go" || len(got[0].Hunks) != 1 {
		t.Errorf("files[0] = %+v", got[0])
	}
	if h := got[0].Hunks[0]; h.New != (tour.LineRange{Start: 10, End: 13}) || len(h.Changes) != 1 {
		t.Errorf("hunk = %+v, want new 10-13 with one change", h)
	}
	if !got[1].Binary || got[1].Path() != "logo.png" {
		t.Errorf("files[1] = %+v, want binary logo.png", got[1])
	}
}

func TestCache_KeyParts(t *testing.T) {
	c := newTestCache(t, 0)
	base := Key{SHA: testSHA, Options: "U3", Filter: "raw"}
	if err := c.Put(base, sampleFiles()); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	tests := []struct {
		name string
		key  Key
	}{
		{"other commit", Key{SHA: "a" + testSHA[1:], Options: "U3", Filter: "raw"}},
		{"other options", Key{SHA: testSHA, Options: "U5", Filter: "raw"}},
		{"other filter", Key{SHA: testSHA, Options: "U3", Filter: "redact=**/.env"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := c.Get(tt.key); ok {
				t.Errorf("Get(%+v) hit an entry stored under %+v", tt.key, base)
			}
		})
	}
}

func TestCache_ShardsByCommit(t *testing.T) {
	c := newTestCache(t, 0)
	for _, k := range []Key{
		{SHA: testSHA, Options: "U3"},
		{SHA: testSHA, Options: "U5"},
	} {
		if err := c.Put(k, nil); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}
	entries, err := os.ReadDir(filepath.Join(c.Dir(), testSHA[:2]))
	if err != nil {
		t.Fatalf("reading shard: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("shard holds %d entries, want 2", len(entries))
	}
}

func TestKeyShard(t *testing.T) {
	tests := []struct {
		sha  string
		want int
	}{
		{testSHA, 2},
		{"ABCDEF", 2},
		{"HEAD~1", 2},
		{"a", 2},
	}
	for _, tt := range tests {
		got := Key{SHA: tt.sha}.shard()
		if len(got) != tt.want || filepath.Base(got) != got {
			t.Errorf("shard(%q) = %q, want a %d-character directory name", tt.sha, got, tt.want)
		}
	}
	if got := (Key{SHA: "ABCDEF"}).shard(); got != "ab" {
		t.Errorf("shard(ABCDEF) = %q, want ab", got)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	c := newTestCache(t, 60)
	key := Key{SHA: testSHA}
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	at(c, start)
	if err := c.Put(key, sampleFiles()); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	at(c, start.Add(59*time.Second))
	if _, ok := c.Get(key); !ok {
		t.Error("expected hit before expiration")
	}
	at(c, start.Add(61*time.Second))
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after expiration")
	}
	if _, err := os.Stat(c.entryPath(key)); !os.IsNotExist(err) {
		t.Errorf("expired entry should be removed, stat err = %v", err)
	}
}

func TestCache_NoTTLKeepsEntries(t *testing.T) {
	c := newTestCache(t, 0)
	key := Key{SHA: testSHA}
	at(c, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := c.Put(key, sampleFiles()); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	at(c, time.Now())
	if _, ok := c.Get(key); !ok {
		t.Error("entries should never expire without a TTL")
	}
}

func TestCache_OtherSchemaIsMiss(t *testing.T) {
	c := newTestCache(t, 0)
	key := Key{SHA: testSHA}
	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	old := `{"schema":1,"sha":"` + testSHA + `","files":[],"createdAt":"2026-01-01T00:00:00Z"}`
	if err := os.WriteFile(path, []byte(old), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("entry of another schema version should be a miss")
	}
}

func TestCache_Disabled(t *testing.T) {
	c, err := New(false, "", 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.Enabled() {
		t.Error("cache should be disabled")
	}
	if err := c.Put(Key{SHA: testSHA}, sampleFiles()); err != nil {
		t.Errorf("Put on disabled cache should not error: %v", err)
	}
	if _, ok := c.Get(Key{SHA: testSHA}); ok {
		t.Error("Get on disabled cache should always miss")
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear on disabled cache should not error: %v", err)
	}
	if n, err := c.Prune(); n != 0 || err != nil {
		t.Errorf("Prune on disabled cache = %d, %v", n, err)
	}
}

func TestCache_Clear(t *testing.T) {
	c := newTestCache(t, 0)
	for i, sha := range []string{testSHA, "b" + testSHA[1:], "c" + testSHA[1:]} {
		if err := c.Put(Key{SHA: sha, Options: string(rune('a' + i))}, sampleFiles()); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}
	notes := filepath.Join(c.Dir(), "README")
	if err := os.WriteFile(notes, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatalf("reading cache dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "README" {
		t.Errorf("after Clear dir holds %v, want only README", entries)
	}
	if _, ok := c.Get(Key{SHA: testSHA, Options: "a"}); ok {
		t.Error("expected miss after Clear")
	}
}

func TestCache_ClearMissingDir(t *testing.T) {
	c := newTestCache(t, 0)
	if err := os.RemoveAll(c.Dir()); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear on a removed dir = %v, want nil", err)
	}
}

func TestCache_Prune(t *testing.T) {
	c := newTestCache(t, 60)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	at(c, start.Add(-time.Hour))
	if err := c.Put(Key{SHA: testSHA, Options: "old"}, sampleFiles()); err != nil {
		t.Fatal(err)
	}
	at(c, start)
	fresh := Key{SHA: testSHA, Options: "fresh"}
	if err := c.Put(fresh, sampleFiles()); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(c.Dir(), "ff", "broken.json")
	if err := os.MkdirAll(filepath.Dir(broken), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(broken, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if n != 2 {
		t.Errorf("Prune removed %d entries, want 2", n)
	}
	if _, ok := c.Get(fresh); !ok {
		t.Error("Prune removed a fresh entry")
	}
	if _, err := os.Stat(filepath.Dir(broken)); !os.IsNotExist(err) {
		t.Errorf("emptied shard should be removed, stat err = %v", err)
	}
}

func TestCache_GetStats(t *testing.T) {
	c := newTestCache(t, 60)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	other := "d" + testSHA[1:]

	at(c, start.Add(-time.Hour))
	if err := c.Put(Key{SHA: other}, nil); err != nil {
		t.Fatal(err)
	}
	at(c, start)
	for _, k := range []Key{{SHA: testSHA, Options: "U3"}, {SHA: testSHA, Options: "U5"}} {
		if err := c.Put(k, sampleFiles()); err != nil {
			t.Fatal(err)
		}
	}
	stale := filepath.Join(c.Dir(), "ee", "v1.json")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte(`{"key":"k","diff":"d"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.Dir != c.Dir() {
		t.Errorf("Dir = %q, want %q", stats.Dir, c.Dir())
	}
	if stats.Entries != 4 {
		t.Errorf("Entries = %d, want 4", stats.Entries)
	}
	if stats.Commits != 1 {
		t.Errorf("Commits = %d, want 1", stats.Commits)
	}
	if stats.Expired != 1 {
		t.Errorf("Expired = %d, want 1", stats.Expired)
	}
	if stats.Stale != 1 {
		t.Errorf("Stale = %d, want 1", stats.Stale)
	}
	if stats.TotalBytes <= 0 {
		t.Error("TotalBytes should be positive")
	}
}

func TestDefaultCacheDir_XDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c, err := New(true, "", 60)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if want := filepath.Join(xdg, "reviewtour"); c.Dir() != want {
		t.Errorf("Dir = %q, want %q", c.Dir(), want)
	}
}
