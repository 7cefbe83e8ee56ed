package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.mixtaperc, $XDG_CONFIG_HOME/mixtape/config.toml,
// ~/.config/mixtape/config.toml. A .env file in the working directory is
// loaded into the environment first.
func Load() (*Config, error) {
	path := FindConfigFile()
	if path == "" {
		cfg := Default()
		cfg.ApplyDefaults()
		applyEnv(cfg)
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnv(cfg)
	return cfg, nil
}

// FindConfigFile returns the first existing config file path, or "".
func FindConfigFile() string {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where `config init` writes a new file.
func DefaultPath() string {
	paths := searchPaths()
	if len(paths) == 0 {
		return ""
	}
	return paths[len(paths)-1]
}

func searchPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	paths := []string{
		filepath.Join(home, ".mixtaperc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	return append(paths, filepath.Join(xdgConfig, "mixtape", "config.toml"))
}

// Write encodes cfg as TOML to path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func applyEnv(cfg *Config) {
	// Existing variables win over .env entries.
	_ = godotenv.Load()
	applyEnvOverrides(cfg)
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Catalog
	setString(&cfg.Catalog.Driver, "MIXTAPE_CATALOG_DRIVER")
	setString(&cfg.Catalog.URL, "MIXTAPE_CATALOG_URL")
	setString(&cfg.Catalog.APIKey, "MIXTAPE_CATALOG_API_KEY")
	setString(&cfg.Catalog.DSN, "MIXTAPE_CATALOG_DSN")
	setString(&cfg.Catalog.User, "MIXTAPE_CATALOG_USER")
	setInt(&cfg.Catalog.Timeout, "MIXTAPE_CATALOG_TIMEOUT")

	// Cache
	setString(&cfg.Cache.Addr, "MIXTAPE_CACHE_ADDR")
	setString(&cfg.Cache.Password, "MIXTAPE_CACHE_PASSWORD")
	setInt(&cfg.Cache.DB, "MIXTAPE_CACHE_DB")
	setInt(&cfg.Cache.TTL, "MIXTAPE_CACHE_TTL")

	// Storage
	setString(&cfg.Storage.Endpoint, "MIXTAPE_STORAGE_ENDPOINT")
	setString(&cfg.Storage.Bucket, "MIXTAPE_STORAGE_BUCKET")
	setString(&cfg.Storage.AccessKey, "MIXTAPE_STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "MIXTAPE_STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Region, "MIXTAPE_STORAGE_REGION")
	setBool(&cfg.Storage.UseSSL, "MIXTAPE_STORAGE_USE_SSL")

	// Player
	setBool(&cfg.Player.Shuffle, "MIXTAPE_PLAYER_SHUFFLE")
	setInt(&cfg.Player.SeekStep, "MIXTAPE_PLAYER_SEEK_STEP")

	// Media
	setBool(&cfg.Media.Enabled, "MIXTAPE_MEDIA_ENABLED")
	setBool(&cfg.Media.Notify, "MIXTAPE_MEDIA_NOTIFY")

	// TUI
	setString(&cfg.TUI.Theme, "MIXTAPE_TUI_THEME")
	setInt(&cfg.TUI.RefreshInterval, "MIXTAPE_TUI_REFRESH_INTERVAL")
	setString(&cfg.TUI.SiteURL, "MIXTAPE_TUI_SITE_URL")

	// Log
	setString(&cfg.Log.Level, "MIXTAPE_LOG_LEVEL")
	setString(&cfg.Log.File, "MIXTAPE_LOG_FILE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
