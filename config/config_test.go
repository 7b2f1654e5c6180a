package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Expected info/text logging, got %+v", cfg.Logging)
	}
	if !slices.Equal(cfg.Extensions, []string{"jpg", "jpeg", "png", "gif"}) {
		t.Errorf("Expected default extensions, got %v", cfg.Extensions)
	}
	if cfg.Thumbnail.Size != DefaultThumbnailSize {
		t.Errorf("Expected thumbnail size %d, got %d", DefaultThumbnailSize, cfg.Thumbnail.Size)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: DEBUG
  format: json
extensions: [".JPG", "webp"]
thumbnail:
  size: 200
  disk_cache: true
  cache_dir: /tmp/xs
commit:
  overwrite: true
s3:
  region: eu-west-1
  endpoint: http://localhost:9000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging config %+v", cfg.Logging)
	}
	if !slices.Equal(cfg.Extensions, []string{"jpg", "webp"}) {
		t.Errorf("Expected [jpg webp], got %v", cfg.Extensions)
	}
	if cfg.Thumbnail.Size != 200 || !cfg.Thumbnail.DiskCache || cfg.Thumbnail.CacheDir != "/tmp/xs" {
		t.Errorf("Unexpected thumbnail config %+v", cfg.Thumbnail)
	}
	if !cfg.Commit.Overwrite || cfg.S3.Endpoint != "http://localhost:9000" {
		t.Errorf("Unexpected commit/s3 config %+v %+v", cfg.Commit, cfg.S3)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XSORTER_LOGGING_LEVEL", "warn")
	t.Setenv("XSORTER_S3_REGION", "us-east-2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected warn, got %s", cfg.Logging.Level)
	}
	if cfg.S3.Region != "us-east-2" {
		t.Errorf("Expected us-east-2, got %s", cfg.S3.Region)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad level", "logging:\n  level: loud\n", "Level"},
		{"tiny thumbnails", "thumbnail:\n  size: 4\n", "Size"},
		{"half credentials", "s3:\n  access_key_id: abc\n", "secret_access_key"},
		{"bad endpoint", "s3:\n  endpoint: not a url\n", "Endpoint"},
		{"path as extension", "extensions: [\"a/b\"]\n", "extensions[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for a missing explicit config file")
	}
}
