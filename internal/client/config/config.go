package config

import "time"

// Config holds runtime settings for the chat client.
//
// Fields:
//   - ServerEndpointURL: base URL of the chat server API.
//   - SessionDBPath: SQLite file holding the cached session.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerEndpointURL string
	SessionDBPath     string
	RequestTimeout    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointURL = "http://127.0.0.1:5000"
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
