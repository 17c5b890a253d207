package config

// Default configuration values.
const (
	DefaultTextAddr       = "0.0.0.0:6666"
	DefaultMaxConnections = 1024
	DefaultHTTPAddr       = "127.0.0.1:6667"
	DefaultLocalSocket    = "/var/run/samus-server/samus-server.sock"

	DefaultShardCount = 16

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultSeed is the store content at startup when none is configured.
func DefaultSeed() []SeedEntry {
	return []SeedEntry{{Key: "test_key", Value: "test_value", TTL: 0}}
}

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Text: TextConfig{
				Addr:           DefaultTextAddr,
				MaxConnections: DefaultMaxConnections,
			},
			HTTP: HTTPConfig{
				Enabled: false,
				Addr:    DefaultHTTPAddr,
			},
			Local: LocalConfig{
				Enabled: false,
				Path:    DefaultLocalSocket,
			},
		},
		Store: StoreSection{
			ShardCount: DefaultShardCount,
			Seed:       DefaultSeed(),
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
