package config

// CLIConfig is the configuration for samus-cli. Empty fields leave the
// built-in flag default in place.
type CLIConfig struct {
	Server      string `yaml:"server,omitempty"`
	Output      string `yaml:"output,omitempty"` // raw, table, json, yaml
	Timeout     string `yaml:"timeout,omitempty"`
	Socket      string `yaml:"socket,omitempty"`
	HistoryFile string `yaml:"history_file,omitempty"`
}

// Default returns an empty configuration.
func Default() *CLIConfig {
	return &CLIConfig{}
}

// Values maps flag names to the configured values that are set.
func (c *CLIConfig) Values() map[string]string {
	m := make(map[string]string)
	for name, v := range map[string]string{
		"server":       c.Server,
		"output":       c.Output,
		"timeout":      c.Timeout,
		"socket":       c.Socket,
		"history-file": c.HistoryFile,
	} {
		if v != "" {
			m[name] = v
		}
	}
	return m
}
