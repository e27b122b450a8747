package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/leapstack-labs/leapdb/internal/config"
)

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"connection": "default_connection",
	"history":    "history_path",
	"metrics":    "metrics_path",
	"max_rows":   "query.max_rows",
}

// flagsHandledSeparately are flags that never map onto a config key.
var flagsHandledSeparately = map[string]bool{
	"config":   true,
	"type":     true,
	"database": true,
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for leapdb.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(cfgFile)
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := intconfig.FindProjectRoot(cwd, maxUpwardSearchLevels); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, in-memory, or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")
	configFileUsed = ""

	projectRoot := inferProjectRoot(cfgFile)

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"log_level":      DefaultLogLevel,
		"output":         DefaultOutput,
		"history_path":   DefaultHistoryPath,
		"metrics_path":   "",
		"locale":         DefaultLocale,
		"query.max_rows": DefaultMaxRows,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = intconfig.FindConfigFile(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (LEAPDB_ prefix)
	// Transform: LEAPDB_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider("LEAPDB_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LEAPDB_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || flagsHandledSeparately[f.Name] {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	// 6. Ad-hoc connection from --type/--database. The database path is
	// relative to CWD, not to the project root.
	if flags != nil && flags.Changed("database") {
		database, _ := flags.GetString("database")
		dbType, _ := flags.GetString("type")
		if dbType == "" {
			dbType = "sqlite"
		}
		if database != ":memory:" {
			if abs, err := filepath.Abs(database); err == nil {
				database = abs
			}
		}
		if cfg.Connections == nil {
			cfg.Connections = make(map[string]ConnectionConfig)
		}
		cfg.Connections[AdHocConnection] = ConnectionConfig{Type: dbType, Database: database}
		cfg.DefaultConnection = AdHocConnection
	}

	// 7. Resolve relative paths against the project root
	cfg.HistoryPath = resolvePathRelativeTo(cfg.HistoryPath, projectRoot)
	cfg.MetricsPath = resolvePathRelativeTo(cfg.MetricsPath, projectRoot)
	for name, conn := range cfg.Connections {
		conn.Type = strings.ToLower(conn.Type)
		if isFileDatabase(conn.Type) {
			conn.Database = resolvePathRelativeTo(expandEnvVars(conn.Database), projectRoot)
		}
		cfg.Connections[name] = conn
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// isFileDatabase reports whether the connection type keeps its data in a
// local file.
func isFileDatabase(dbType string) bool {
	return dbType == "sqlite" || dbType == "duckdb"
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// ConnectionNames returns the configured connection names, sorted.
func (c *Config) ConnectionNames() []string {
	names := make([]string, 0, len(c.Connections))
	for name := range c.Connections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Connection resolves a named connection. An empty name selects the
// default connection, or the only one when exactly one is configured.
// The result has credentials expanded and type defaults applied.
func (c *Config) Connection(name string) (string, *ConnectionConfig, error) {
	if name == "" {
		name = c.DefaultConnection
	}
	if name == "" {
		switch len(c.Connections) {
		case 0:
			return "", nil, fmt.Errorf("no connections configured\nHint: add a connection to leapdb.yaml or pass --database")
		case 1:
			name = c.ConnectionNames()[0]
		default:
			return "", nil, fmt.Errorf("several connections configured (%s); choose one with --connection",
				strings.Join(c.ConnectionNames(), ", "))
		}
	}

	conn, ok := c.Connections[name]
	if !ok {
		return "", nil, fmt.Errorf("connection %q not found (available: %s)",
			name, strings.Join(c.ConnectionNames(), ", "))
	}
	conn.Options = cloneMap(conn.Options)
	expandConnectionEnvVars(&conn)
	conn.ApplyDefaults()
	return name, &conn, nil
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandConnectionEnvVars expands environment variables in sensitive connection fields.
func expandConnectionEnvVars(c *ConnectionConfig) {
	if c == nil {
		return
	}
	c.Password = expandEnvVars(c.Password)
	c.User = expandEnvVars(c.User)
	c.Host = expandEnvVars(c.Host)
	c.Database = expandEnvVars(c.Database)
}
