package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alexballas/xsorter/sequence"
)

const (
	DefaultThumbnailSize = 128
	DefaultMaxCacheBytes = 500 * 1024 * 1024 // 500MB
	DefaultMaxCacheFiles = 10000
)

// ApplyDefaults fills zero values with defaults and normalises what was given.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyThumbnailDefaults(&cfg.Thumbnail)

	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), sequence.DefaultExtensions...)
	}
	cfg.Extensions = sequence.NormalizeExtensions(cfg.Extensions)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	cfg.Level = strings.ToLower(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
}

func applyThumbnailDefaults(cfg *ThumbnailConfig) {
	if cfg.Size == 0 {
		cfg.Size = DefaultThumbnailSize
	}
	if cfg.MaxCacheBytes == 0 {
		cfg.MaxCacheBytes = DefaultMaxCacheBytes
	}
	if cfg.MaxCacheFiles == 0 {
		cfg.MaxCacheFiles = DefaultMaxCacheFiles
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "xsorter", "thumbnails")
}
