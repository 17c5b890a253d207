package config

import "time"

// ServerConfig is the root configuration for samus-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Store  StoreSection  `koanf:"store"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Text  TextConfig  `koanf:"text"`
	HTTP  HTTPConfig  `koanf:"http"`
	Local LocalConfig `koanf:"local"`
}

// TextConfig configures the line-protocol TCP server.
type TextConfig struct {
	Addr string `koanf:"addr"`

	// MaxConnections bounds concurrently served clients.
	// 1 serves clients one at a time.
	MaxConnections int `koanf:"max_connections"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is requests per second per client IP. 0 disables it.
	RateLimit int `koanf:"rate_limit"`

	// StrictDelete makes DELETE of a missing key an error.
	StrictDelete bool `koanf:"strict_delete"`
}

// HTTPConfig configures the observability HTTP server.
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LocalConfig configures the local management socket.
type LocalConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// StoreSection configures the in-memory store.
type StoreSection struct {
	// ShardCount must be a power of two.
	ShardCount int         `koanf:"shard_count"`
	Seed       []SeedEntry `koanf:"seed"`
}

// SeedEntry is an entry present from startup.
type SeedEntry struct {
	Key   string `koanf:"key"`
	Value string `koanf:"value"`
	TTL   int64  `koanf:"ttl"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// LogValues disables masking of stored values in debug logs.
	LogValues bool `koanf:"log_values"`
}
