package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/internal/cli/output"
	"github.com/leapstack-labs/leapdb/internal/history"
	"github.com/leapstack-labs/leapdb/internal/metrics"
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/dataformat"
	"github.com/leapstack-labs/leapdb/pkg/exec"
	"github.com/leapstack-labs/leapdb/pkg/exec/sqlexec"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	values := output.NewValueFormatter(timestampFormatter(cfg, logger))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.OutputFormat, values),
	}
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		LogLevel:     config.DefaultLogLevel,
		OutputFormat: config.DefaultOutput,
		HistoryPath:  config.DefaultHistoryPath,
		Locale:       config.DefaultLocale,
		Query:        config.QueryConfig{MaxRows: config.DefaultMaxRows},
	}
}

// locale parses the configured locale, falling back to English.
func (c *CommandContext) locale() language.Tag {
	return parseLocale(c.Cfg.Locale, c.Logger)
}

func parseLocale(locale string, logger *slog.Logger) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		logger.Warn("invalid locale, using en-US", slog.String("locale", locale))
		return language.AmericanEnglish
	}
	return tag
}

func timestampFormatter(cfg *config.Config, logger *slog.Logger) dataformat.Formatter {
	f, err := dataformat.NewFormatter(dataformat.TypeTimestamp, parseLocale(cfg.Locale, logger), nil)
	if err != nil {
		return nil
	}
	return f
}

// Connection is an open data source plus the listeners that observe its
// statements.
type Connection struct {
	Name    string
	Config  *config.ConnectionConfig
	Adapter adapter.Adapter

	logger      *slog.Logger
	history     *history.Store
	metrics     *metrics.Recorder
	metricsPath string
}

// Connect opens the selected connection. The returned cleanup closes the
// data source, closes the history store and flushes metrics.
func (c *CommandContext) Connect(ctx context.Context) (*Connection, func(), error) {
	name, connCfg, err := c.Cfg.Connection("")
	if err != nil {
		return nil, nil, err
	}

	logger := c.Logger.With(slog.String("connection", name))
	a, err := adapter.Open(ctx, connCfg.AdapterConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", name, err)
	}

	conn := &Connection{
		Name:        name,
		Config:      connCfg,
		Adapter:     a,
		logger:      logger,
		metricsPath: c.Cfg.MetricsPath,
	}
	if c.Cfg.HistoryPath != "" {
		store, err := history.Open(c.Cfg.HistoryPath, c.Logger)
		if err != nil {
			logger.Warn("history disabled", slog.String("error", err.Error()))
		} else {
			conn.history = store
		}
	}
	if conn.metricsPath != "" {
		conn.metrics = metrics.NewRecorder(nil)
	}

	return conn, conn.close, nil
}

// OpenSession opens an execution session whose statements are recorded in
// history and metrics.
func (c *Connection) OpenSession(ctx context.Context) (exec.Session, error) {
	var listeners []exec.Listener
	if c.history != nil {
		listeners = append(listeners, c.history.Listener(c.Name))
	}
	if c.metrics != nil {
		listeners = append(listeners, c.metrics)
	}
	return c.Adapter.OpenSession(ctx, sqlexec.WithListeners(listeners...))
}

// Handle returns the connection pool of SQL adapters, or nil.
func (c *Connection) Handle() *sql.DB {
	if h, ok := c.Adapter.(interface{ Handle() *sql.DB }); ok {
		return h.Handle()
	}
	return nil
}

func (c *Connection) close() {
	if err := c.Adapter.Close(); err != nil {
		c.logger.Warn("failed to close connection", slog.String("error", err.Error()))
	}
	if c.history != nil {
		if err := c.history.Close(); err != nil {
			c.logger.Warn("failed to close history", slog.String("error", err.Error()))
		}
	}
	if c.metrics != nil {
		if err := c.metrics.WriteTextfile(c.metricsPath); err != nil {
			c.logger.Warn("failed to write metrics", slog.String("error", err.Error()))
		}
	}
}
