package config

// Config is the root configuration structure.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Cache   CacheConfig   `toml:"cache"`
	Storage StorageConfig `toml:"storage"`
	Player  PlayerConfig  `toml:"player"`
	Media   MediaConfig   `toml:"media"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// CatalogConfig selects and configures where mixes are read from.
type CatalogConfig struct {
	Driver  string `toml:"driver"` // "rest" or "mysql"
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"`
	DSN     string `toml:"dsn"`
	User    string `toml:"user"`
	Timeout int    `toml:"timeout"` // seconds
}

// CacheConfig holds Redis settings. An empty Addr disables caching.
type CacheConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // seconds
}

// StorageConfig holds S3-compatible blob storage settings used to presign
// audio and cover locators. An empty Endpoint disables presigning.
type StorageConfig struct {
	Endpoint      string `toml:"endpoint"`
	Bucket        string `toml:"bucket"`
	AccessKey     string `toml:"access_key"`
	SecretKey     string `toml:"secret_key"`
	Region        string `toml:"region"`
	UseSSL        bool   `toml:"use_ssl"`
	PresignExpiry int    `toml:"presign_expiry"` // seconds
}

// PlayerConfig holds playback settings.
type PlayerConfig struct {
	Shuffle      bool `toml:"shuffle"`
	SeekStep     int  `toml:"seek_step"`     // seconds
	TickInterval int  `toml:"tick_interval"` // milliseconds
	WaveformBars int  `toml:"waveform_bars"`
	FeedLimit    int  `toml:"feed_limit"`
}

// MediaConfig controls the OS now-playing integration.
type MediaConfig struct {
	Enabled bool `toml:"enabled"`
	Notify  bool `toml:"notify"` // desktop notification on track change
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"` // milliseconds between redraws
	SiteURL         string `toml:"site_url"` // base of mix page links
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"` // megabytes
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"` // days
}
