package config

import "time"

// Config holds runtime settings for the Questlog terminal client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the Identity & Data Service.
//   - DatabasePath: SQLite file for device-local settings.
//   - LogLevel: debug, info, warn or error.
//   - RequestTimeout: upper bound for a single service call.
type Config struct {
	ServerEndpointAddr string
	DatabasePath       string
	LogLevel           string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "questlog.db"
	c.LogLevel = "warn"
	c.RequestTimeout = 12 * time.Second
}

// LoadConfig applies defaults, then the JSON file (if any), then flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
