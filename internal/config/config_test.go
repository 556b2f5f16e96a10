package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Format != "text" {
		t.Errorf("Default format = %q, want %q", cfg.Format, "text")
	}
	if cfg.Separator != " + " {
		t.Errorf("Default separator = %q, want %q", cfg.Separator, " + ")
	}
	if len(cfg.Relations) != 3 || cfg.Relations[0] != "same-file" {
		t.Errorf("Default relations = %v", cfg.Relations)
	}
	if cfg.ContextLines != 3 {
		t.Errorf("Default contextLines = %d, want 3", cfg.ContextLines)
	}
	if cfg.MaxDiffBytes != 500000 {
		t.Errorf("Default maxDiffBytes = %d, want 500000", cfg.MaxDiffBytes)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Default concurrency = %d, want 4", cfg.Concurrency)
	}
	if !cfg.Cache.Enabled {
		t.Error("Default cache should be enabled")
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("Default redactSecrets should be true")
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("REVIEWTOUR_FORMAT", "json")
	t.Setenv("REVIEWTOUR_SEPARATOR", " & ")
	t.Setenv("REVIEWTOUR_RELATIONS", "global-order,same-file")
	t.Setenv("REVIEWTOUR_CONTEXT_LINES", "5")
	t.Setenv("REVIEWTOUR_MAX_DIFF_BYTES", "1024")

	cfg := Default()
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}

	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.Separator != " & " {
		t.Errorf("Separator = %q, want %q", cfg.Separator, " & ")
	}
	if len(cfg.Relations) != 2 || cfg.Relations[0] != "global-order" {
		t.Errorf("Relations = %v, want [global-order same-file]", cfg.Relations)
	}
	if cfg.ContextLines != 5 {
		t.Errorf("ContextLines = %d, want 5", cfg.ContextLines)
	}
	if cfg.MaxDiffBytes != 1024 {
		t.Errorf("MaxDiffBytes = %d, want 1024", cfg.MaxDiffBytes)
	}
}

func TestMergeEnv_InvalidInt(t *testing.T) {
	for _, key := range []string{"REVIEWTOUR_CONTEXT_LINES", "REVIEWTOUR_MAX_DIFF_BYTES"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "abc")
			cfg := Default()
			if err := mergeEnv(&cfg); err == nil {
				t.Errorf("Expected error for invalid %s", key)
			}
		})
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	overrides := map[string]string{
		"format":       "markdown",
		"separator":    " / ",
		"relations":    "textual-similarity",
		"contextLines": "10",
		"maxDiffBytes": "2000000",
		"exclude":      "",
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}

	if cfg.Format != "markdown" {
		t.Errorf("Format = %q, want %q", cfg.Format, "markdown")
	}
	if cfg.Separator != " / " {
		t.Errorf("Separator = %q, want %q", cfg.Separator, " / ")
	}
	if len(cfg.Relations) != 1 || cfg.Relations[0] != "textual-similarity" {
		t.Errorf("Relations = %v", cfg.Relations)
	}
	if cfg.ContextLines != 10 {
		t.Errorf("ContextLines = %d, want 10", cfg.ContextLines)
	}
	if cfg.MaxDiffBytes != 2000000 {
		t.Errorf("MaxDiffBytes = %d, want 2000000", cfg.MaxDiffBytes)
	}
	if len(cfg.Exclude) != 3 {
		t.Errorf("empty override should keep Exclude, got %v", cfg.Exclude)
	}
}

func TestMergeOverrides_Nil(t *testing.T) {
	cfg := Default()
	if err := mergeOverrides(&cfg, nil); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Format != "text" {
		t.Errorf("Format changed with nil overrides")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
	}{
		{"format", "json"},
		{"separator", " | "},
		{"relations", "same-file, global-order"},
		{"include", "*.go,*.md"},
		{"exclude", "vendor/**"},
		{"hiddenPrefixes", "wip: ,tmp: "},
		{"contextLines", "10"},
		{"maxDiffBytes", "1000000"},
		{"concurrency", "8"},
		{"cache.enabled", "false"},
		{"cache.dir", "/tmp/tours"},
		{"cache.ttlSeconds", "60"},
		{"privacy.redactSecrets", "false"},
		{"privacy.redactPaths", "**/.env,**/*.pem"},
	}

	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.Separator != " | " {
		t.Errorf("Separator = %q, want %q", cfg.Separator, " | ")
	}
	if len(cfg.Relations) != 2 || cfg.Relations[1] != "global-order" {
		t.Errorf("Relations = %v", cfg.Relations)
	}
	if len(cfg.HiddenPrefixes) != 2 || cfg.HiddenPrefixes[0] != "wip: " || cfg.HiddenPrefixes[1] != "tmp: " {
		t.Errorf("HiddenPrefixes = %q", cfg.HiddenPrefixes)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	if cfg.Cache.TTLSeconds != 60 {
		t.Errorf("Cache.TTLSeconds = %d, want 60", cfg.Cache.TTLSeconds)
	}
	if cfg.Privacy.RedactSecrets {
		t.Error("Privacy.RedactSecrets should be false")
	}
	if len(cfg.Privacy.RedactPaths) != 2 {
		t.Errorf("Privacy.RedactPaths = %v", cfg.Privacy.RedactPaths)
	}
}

func TestSetField_UnknownKey(t *testing.T) {
	cfg := Default()
	err := SetField(&cfg, "nonexistent", "value")
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("SetField error = %v, want ErrUnknownKey", err)
	}
}

func TestSetField_InvalidValue(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "concurrency", "notanumber"); err == nil {
		t.Error("Expected error for non-integer value")
	}
	if err := SetField(&cfg, "cache.enabled", "maybe"); err == nil {
		t.Error("Expected error for non-boolean value")
	}
}

func TestConfigPrecedence(t *testing.T) {
	t.Setenv("REVIEWTOUR_FORMAT", "json")

	cfg := Default()
	mergeFile(&cfg, Config{Format: "yaml"})
	if cfg.Format != "yaml" {
		t.Errorf("After file merge, Format = %q, want %q", cfg.Format, "yaml")
	}
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("After env merge, Format = %q, want %q", cfg.Format, "json")
	}
	if err := mergeOverrides(&cfg, map[string]string{"format": "markdown"}); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Format != "markdown" {
		t.Errorf("After override, Format = %q, want %q", cfg.Format, "markdown")
	}
}

func TestMergeFile_BoolFields(t *testing.T) {
	dst := Default()
	src := Config{
		Format: "json",
		Cache:  CacheConfig{Enabled: false},
	}
	mergeFile(&dst, src)

	if dst.Cache.Enabled {
		t.Error("Cache.Enabled should be false when file explicitly sets it")
	}
	if dst.Privacy.RedactSecrets {
		t.Error("RedactSecrets should be false when file explicitly sets it")
	}
}

func TestMergeFile_BoolFields_EmptyFile(t *testing.T) {
	dst := Default()
	mergeFile(&dst, Config{})

	if !dst.Cache.Enabled {
		t.Error("Cache.Enabled should remain true when file is empty")
	}
	if !dst.Privacy.RedactSecrets {
		t.Error("RedactSecrets should remain true when file is empty")
	}
}

func TestMergeFile_EmptyHiddenPrefixes(t *testing.T) {
	dst := Default()
	mergeFile(&dst, Config{HiddenPrefixes: []string{}})
	if len(dst.HiddenPrefixes) != 0 {
		t.Errorf("explicit empty list should clear HiddenPrefixes, got %v", dst.HiddenPrefixes)
	}
}

func TestMergeFile_AllFields(t *testing.T) {
	dst := Default()
	src := Config{
		Format:         "json",
		Separator:      " :: ",
		Relations:      []string{"global-order"},
		ContextLines:   10,
		Include:        []string{"*.go"},
		Exclude:        []string{"test/**"},
		MaxDiffBytes:   1000000,
		HiddenPrefixes: []string{"WIP"},
		Concurrency:    2,
		Cache: CacheConfig{
			Enabled:    true,
			Dir:        "/tmp/cache",
			TTLSeconds: 3600,
		},
	}
	mergeFile(&dst, src)

	if dst.Format != "json" {
		t.Errorf("Format = %q, want %q", dst.Format, "json")
	}
	if dst.Separator != " :: " {
		t.Errorf("Separator = %q, want %q", dst.Separator, " :: ")
	}
	if len(dst.Relations) != 1 {
		t.Errorf("Relations len = %d, want 1", len(dst.Relations))
	}
	if dst.ContextLines != 10 {
		t.Errorf("ContextLines = %d, want 10", dst.ContextLines)
	}
	if dst.MaxDiffBytes != 1000000 {
		t.Errorf("MaxDiffBytes = %d, want 1000000", dst.MaxDiffBytes)
	}
	if dst.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", dst.Concurrency)
	}
	if dst.Cache.Dir != "/tmp/cache" {
		t.Errorf("Cache.Dir = %q, want %q", dst.Cache.Dir, "/tmp/cache")
	}
	if dst.Cache.TTLSeconds != 3600 {
		t.Errorf("Cache.TTLSeconds = %d, want 3600", dst.Cache.TTLSeconds)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-test", "reviewtour"); dir != want {
		t.Errorf("ConfigDir = %q, want %q", dir, want)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-test", "reviewtour", "config.json"); path != want {
		t.Errorf("ConfigPath = %q, want %q", path, want)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Format = "yaml"
	cfg.Separator = " & "
	cfg.Concurrency = 12

	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Format != "yaml" {
		t.Errorf("Format = %q, want %q", loaded.Format, "yaml")
	}
	if loaded.Separator != " & " {
		t.Errorf("Separator = %q, want %q", loaded.Separator, " & ")
	}
	if loaded.Concurrency != 12 {
		t.Errorf("Concurrency = %d, want 12", loaded.Concurrency)
	}
}

func TestLoadFile_NoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	// Should return zero config, not defaults
	if cfg.Format != "" {
		t.Errorf("Format should be empty for missing file, got %q", cfg.Format)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	os.MkdirAll(filepath.Join(dir, "reviewtour"), 0o755)
	os.WriteFile(filepath.Join(dir, "reviewtour", "config.json"), []byte("{not json"), 0o644)

	if _, err := LoadFile(); err == nil {
		t.Error("Expected error for malformed config file")
	}
}

func TestLoad_Integration(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("REVIEWTOUR_FORMAT", "")

	// No config file: defaults + overrides
	cfg, err := Load(map[string]string{"separator": " ~ "})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Separator != " ~ " {
		t.Errorf("Separator = %q, want %q", cfg.Separator, " ~ ")
	}
	// Defaults should be preserved for unset fields
	if cfg.MaxDiffBytes != 500000 {
		t.Errorf("MaxDiffBytes = %d, want 500000 (default)", cfg.MaxDiffBytes)
	}
}

func TestLoad_UnknownOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := Load(map[string]string{"provider": "x"}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Load error = %v, want ErrUnknownKey", err)
	}
}
