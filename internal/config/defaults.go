package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Driver:  "rest",
			Timeout: 30,
		},
		Cache: CacheConfig{
			TTL: 300,
		},
		Storage: StorageConfig{
			UseSSL:        true,
			PresignExpiry: 3600,
		},
		Player: PlayerConfig{
			SeekStep:     10,
			TickInterval: 250,
			WaveformBars: 200,
			FeedLimit:    50,
		},
		Media: MediaConfig{
			Enabled: true,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 50,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults. Booleans are
// left alone; Load seeds them from Default before decoding.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Catalog
	if c.Catalog.Driver == "" {
		c.Catalog.Driver = d.Catalog.Driver
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = d.Catalog.Timeout
	}

	// Cache
	if c.Cache.TTL == 0 {
		c.Cache.TTL = d.Cache.TTL
	}

	// Storage
	if c.Storage.PresignExpiry == 0 {
		c.Storage.PresignExpiry = d.Storage.PresignExpiry
	}

	// Player
	if c.Player.SeekStep == 0 {
		c.Player.SeekStep = d.Player.SeekStep
	}
	if c.Player.TickInterval == 0 {
		c.Player.TickInterval = d.Player.TickInterval
	}
	if c.Player.WaveformBars == 0 {
		c.Player.WaveformBars = d.Player.WaveformBars
	}
	if c.Player.FeedLimit == 0 {
		c.Player.FeedLimit = d.Player.FeedLimit
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = d.Log.MaxSize
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = d.Log.MaxAge
	}
}
