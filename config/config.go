// Package config loads xsorter settings from an optional YAML file and XSORTER_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`

	// Extensions is the image allow-list, without leading dots.
	Extensions []string `mapstructure:"extensions" validate:"required,min=1,dive,required"`

	Thumbnail ThumbnailConfig `mapstructure:"thumbnail"`

	Commit CommitConfig `mapstructure:"commit"`

	S3 S3Config `mapstructure:"s3"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

type ThumbnailConfig struct {
	// Size is the edge length of the square thumbnails, in pixels.
	Size int `mapstructure:"size" validate:"gte=16,lte=1024"`

	DiskCache bool `mapstructure:"disk_cache"`

	CacheDir string `mapstructure:"cache_dir"`

	MaxCacheBytes int64 `mapstructure:"max_cache_bytes" validate:"gt=0"`

	MaxCacheFiles int `mapstructure:"max_cache_files" validate:"gt=0"`
}

type CommitConfig struct {
	// Overwrite replaces existing files in the target instead of skipping them.
	Overwrite bool `mapstructure:"overwrite"`
}

type S3Config struct {
	Region string `mapstructure:"region"`

	// Endpoint selects an S3-compatible service; path-style addressing is used when set.
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`

	AccessKeyID string `mapstructure:"access_key_id"`

	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// Load reads configPath, or config.yaml from the default config directory when configPath is
// empty. A missing default file is not an error.
func Load(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("XSORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{
		"logging.level", "logging.format", "extensions",
		"thumbnail.size", "thumbnail.disk_cache", "thumbnail.cache_dir",
		"thumbnail.max_cache_bytes", "thumbnail.max_cache_files",
		"commit.overwrite",
		"s3.region", "s3.endpoint", "s3.access_key_id", "s3.secret_access_key",
	} {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "xsorter")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "xsorter")
}

// GetDefaultConfigPath returns where Load looks when no path is given.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
