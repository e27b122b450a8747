// Package config provides configuration management for the leapdb CLI.
//
// This package extends the shared connection types from internal/config
// with CLI-specific settings. ConnectionConfig is re-exported here via a
// type alias for convenience.
package config

import (
	sharedcfg "github.com/leapstack-labs/leapdb/internal/config"
)

// ConnectionConfig is an alias for the shared connection configuration.
// This allows CLI code to use config.ConnectionConfig without importing
// internal/config.
type ConnectionConfig = sharedcfg.ConnectionConfig

// QueryConfig holds settings for statement execution.
type QueryConfig struct {
	MaxRows int64 `koanf:"max_rows"`
}

// Config holds all CLI configuration options.
type Config struct {
	LogLevel          string                      `koanf:"log_level"`
	OutputFormat      string                      `koanf:"output"`
	HistoryPath       string                      `koanf:"history_path"`
	MetricsPath       string                      `koanf:"metrics_path"`
	DefaultConnection string                      `koanf:"default_connection"`
	Locale            string                      `koanf:"locale"`
	Query             QueryConfig                 `koanf:"query"`
	Connections       map[string]ConnectionConfig `koanf:"connections"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Output formats understood by the renderers.
const (
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputCSV      = "csv"
	OutputMarkdown = "md"
	OutputYAML     = "yaml"
)

// OutputFormats lists the valid values of the output setting.
var OutputFormats = []string{OutputTable, OutputJSON, OutputCSV, OutputMarkdown, OutputYAML}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultLogLevel    = sharedcfg.DefaultLogLevel
	DefaultOutput      = sharedcfg.DefaultOutput
	DefaultHistoryPath = sharedcfg.DefaultHistoryPath
	DefaultLocale      = sharedcfg.DefaultLocale
	DefaultMaxRows     = sharedcfg.DefaultMaxRows
)

// AdHocConnection names the connection built from --type/--database.
const AdHocConnection = "cli"
