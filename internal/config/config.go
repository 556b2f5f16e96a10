package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned by SetField for keys the config does not have.
var ErrUnknownKey = errors.New("unknown config key")

// Config represents the reviewtour configuration.
type Config struct {
	Format         string        `json:"format"`
	Separator      string        `json:"separator"`
	Relations      []string      `json:"relations"`
	ContextLines   int           `json:"contextLines"`
	Include        []string      `json:"include"`
	Exclude        []string      `json:"exclude"`
	MaxDiffBytes   int           `json:"maxDiffBytes"`
	HiddenPrefixes []string      `json:"hiddenPrefixes"`
	Concurrency    int           `json:"concurrency"`
	Cache          CacheConfig   `json:"cache"`
	Privacy        PrivacyConfig `json:"privacy"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls redaction of diffs before they are cached or saved.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format:         "text",
		Separator:      " + ",
		Relations:      []string{"same-file", "textual-similarity", "global-order"},
		ContextLines:   3,
		Include:        []string{"**/*"},
		Exclude:        []string{"vendor/**", "**/*.gen.go", "**/dist/**"},
		MaxDiffBytes:   500000,
		HiddenPrefixes: []string{"fixup! ", "squash! "},
		Concurrency:    4,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 7 * 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for reviewtour.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "reviewtour"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "reviewtour"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "reviewtour"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "reviewtour"), nil
	default:
		return filepath.Join(home, ".config", "reviewtour"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Separator != "" {
		dst.Separator = src.Separator
	}
	if len(src.Relations) > 0 {
		dst.Relations = src.Relations
	}
	if src.ContextLines > 0 {
		dst.ContextLines = src.ContextLines
	}
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if src.MaxDiffBytes > 0 {
		dst.MaxDiffBytes = src.MaxDiffBytes
	}
	if src.HiddenPrefixes != nil {
		dst.HiddenPrefixes = src.HiddenPrefixes
	}
	if src.Concurrency > 0 {
		dst.Concurrency = src.Concurrency
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// A JSON false is indistinguishable from an absent key, so the file's
	// bool only wins when the file carried any settings at all.
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
	if fileLoaded(src) {
		dst.Cache.Enabled = src.Cache.Enabled
		dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets
	}
}

func fileLoaded(c Config) bool {
	return c.Format != "" || c.Separator != "" || len(c.Relations) > 0 ||
		c.ContextLines > 0 || len(c.Include) > 0 || len(c.Exclude) > 0 ||
		c.MaxDiffBytes > 0 || c.HiddenPrefixes != nil || c.Concurrency > 0 ||
		c.Cache != (CacheConfig{}) || c.Privacy.RedactSecrets || len(c.Privacy.RedactPaths) > 0
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("REVIEWTOUR_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("REVIEWTOUR_SEPARATOR"); v != "" {
		cfg.Separator = v
	}
	if v := os.Getenv("REVIEWTOUR_RELATIONS"); v != "" {
		cfg.Relations = splitList(v)
	}
	if v := os.Getenv("REVIEWTOUR_CONTEXT_LINES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REVIEWTOUR_CONTEXT_LINES must be an integer: %w", err)
		}
		cfg.ContextLines = n
	}
	if v := os.Getenv("REVIEWTOUR_MAX_DIFF_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REVIEWTOUR_MAX_DIFF_BYTES must be an integer: %w", err)
		}
		cfg.MaxDiffBytes = n
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. List values are
// comma-separated. Unknown keys wrap ErrUnknownKey.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "format":
		cfg.Format = value
	case "separator":
		cfg.Separator = value
	case "relations":
		cfg.Relations = splitList(value)
	case "include":
		cfg.Include = splitList(value)
	case "exclude":
		cfg.Exclude = splitList(value)
	case "hiddenPrefixes":
		cfg.HiddenPrefixes = splitList(value)
	case "contextLines", "maxDiffBytes", "concurrency", "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		switch key {
		case "contextLines":
			cfg.ContextLines = n
		case "maxDiffBytes":
			cfg.MaxDiffBytes = n
		case "concurrency":
			cfg.Concurrency = n
		default:
			cfg.Cache.TTLSeconds = n
		}
	case "cache.enabled", "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		if key == "cache.enabled" {
			cfg.Cache.Enabled = b
		} else {
			cfg.Privacy.RedactSecrets = b
		}
	case "privacy.redactPaths":
		cfg.Privacy.RedactPaths = splitList(value)
	case "cache.dir":
		cfg.Cache.Dir = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// splitList splits a comma-separated value, dropping blanks. Entries are
// not trimmed beyond that so prefixes like "fixup! " keep their space.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		out = append(out, strings.TrimLeft(part, " "))
	}
	return out
}
