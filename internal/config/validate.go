package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Catalog.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("catalog: %w", err))
	}
	if err := c.Cache.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks CatalogConfig for errors.
func (c *CatalogConfig) Validate() error {
	switch c.Driver {
	case "", "rest":
		if c.URL == "" {
			return errors.New("url is required for the rest driver")
		}
		u, err := url.Parse(c.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid url: %s (must be http or https)", c.URL)
		}
	case "mysql":
		if c.DSN == "" {
			return errors.New("dsn is required for the mysql driver")
		}
	default:
		return fmt.Errorf("invalid driver: %s (must be rest or mysql)", c.Driver)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return nil
}

// Validate checks CacheConfig for errors.
func (c *CacheConfig) Validate() error {
	if c.DB < 0 {
		return errors.New("db must be non-negative")
	}
	if c.TTL < 0 {
		return errors.New("ttl must be non-negative")
	}
	return nil
}

// Validate checks StorageConfig for errors.
func (c *StorageConfig) Validate() error {
	if c.Endpoint == "" {
		return nil
	}
	if c.Bucket == "" {
		return errors.New("bucket is required when endpoint is set")
	}
	if c.PresignExpiry < 1 || c.PresignExpiry > 7*24*3600 {
		return errors.New("presign_expiry must be between 1 second and 7 days")
	}
	return nil
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	if c.SeekStep < 0 {
		return errors.New("seek_step must be non-negative")
	}
	if c.TickInterval < 0 {
		return errors.New("tick_interval must be non-negative")
	}
	if c.WaveformBars < 0 || c.WaveformBars > 2000 {
		return errors.New("waveform_bars must be between 0 and 2000")
	}
	if c.FeedLimit < 0 {
		return errors.New("feed_limit must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	if c.SiteURL != "" {
		u, err := url.Parse(c.SiteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid site_url: %s (must be an http or https URL)", c.SiteURL)
		}
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	if c.MaxSize < 0 || c.MaxBackups < 0 || c.MaxAge < 0 {
		return errors.New("rotation limits must be non-negative")
	}
	return nil
}
