package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/questlog/internal/flagx"
	"github.com/dmitrijs2005/questlog/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept strings like "15m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	MetricsAddr                  *string        `json:"metrics_addr"`
	RedisAddr                    *string        `json:"redis_addr"`
	RequireEmailVerification     *bool          `json:"require_email_verification"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson overlays config with the fields present in the file named by -c
// or -config. Absent fields keep their current values; the pointer fields
// may be set to empty or false explicitly. Read and decode errors panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.MetricsAddr != nil {
		config.MetricsAddr = *c.MetricsAddr
	}
	if c.RedisAddr != nil {
		config.RedisAddr = *c.RedisAddr
	}
	if c.RequireEmailVerification != nil {
		config.RequireEmailVerification = *c.RequireEmailVerification
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
