// Package config loads runtime configuration for the Questlog terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the Identity & Data Service
//	-d string   path of the local SQLite database
//	-l string   log level (debug, info, warn, error)
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Durations accept strings like "12s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "database_path": "questlog.db",
//	  "log_level": "warn",
//	  "request_timeout": "12s"
//	}
//
// Environment variables are not read.
package config
