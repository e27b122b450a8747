package commands

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/leapdb/internal/cli/output"
	"github.com/leapstack-labs/leapdb/pkg/exec"
)

// ExecOptions holds options for the exec command.
type ExecOptions struct {
	Input  string
	Batch  string
	Params []string
	Limit  int64
	Offset int64
	Keys   bool
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &ExecOptions{}

	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Execute SQL against a connection",
		Long: `Execute SQL statements against the selected connection.

Scripts may contain several statements separated by semicolons; every
result set and update count is rendered in order. Press Ctrl-C to cancel
a running statement.

When invoked without arguments and stdin is a terminal, enters interactive
REPL mode.`,
		Example: `  # Execute SQL directly
  leapdb exec "SELECT * FROM users"

  # Run a script from a file
  leapdb exec -i migrate.sql

  # Bind parameters
  leapdb exec "SELECT * FROM users WHERE id = ?" -p 42

  # Insert every row of a CSV file as one batch
  leapdb exec "INSERT INTO users (id, name) VALUES (?, ?)" --batch users.csv

  # Page through a result
  leapdb exec "SELECT * FROM events" --offset 100 --limit 50

  # Interactive mode
  leapdb exec`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().StringVar(&opts.Batch, "batch", "", "CSV file whose rows are bound and executed as one batch")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "Statement parameter (repeatable)")
	cmd.Flags().Int64Var(&opts.Limit, "limit", 0, "Maximum rows per result set (default: query.max_rows, 0 with --limit for all)")
	cmd.Flags().Int64Var(&opts.Offset, "offset", 0, "Rows to skip in each result set")
	cmd.Flags().BoolVar(&opts.Keys, "keys", false, "Show generated keys of updates")

	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *ExecOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if !cmd.Flags().Changed("limit") {
		opts.Limit = cmdCtx.Cfg.Query.MaxRows
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return fmt.Errorf("--limit and --offset must not be negative")
	}

	// Determine SQL source
	var query string
	interactive := false
	switch {
	case len(args) > 0:
		query = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		query = string(content)
	case !isTerminal(cmd.InOrStdin()):
		// Read from stdin (piped input)
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		query = string(content)
	default:
		interactive = true
	}
	if !interactive && strings.TrimSpace(query) == "" {
		return fmt.Errorf("no SQL to execute")
	}

	conn, cleanup, err := cmdCtx.Connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	sess, err := conn.OpenSession(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	if interactive {
		return runREPL(cmd, cmdCtx, conn, sess, opts)
	}

	runner := &statementRunner{
		sess:     sess,
		renderer: cmdCtx.Renderer,
		logger:   cmdCtx.Logger,
		opts:     opts,
	}
	if opts.Batch != "" {
		return runner.runBatch(cmd.Context(), query)
	}
	return runner.run(cmd.Context(), query)
}

// statementRunner executes statements on one session and renders results.
type statementRunner struct {
	sess     exec.Session
	renderer *output.Renderer
	logger   *slog.Logger
	opts     *ExecOptions
}

func (s *statementRunner) run(ctx context.Context, query string) error {
	stmt, err := s.sess.Prepare(query, exec.WithDescription("leapdb exec"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	if s.opts.Limit > 0 || s.opts.Offset > 0 {
		if err := stmt.SetLimit(s.opts.Offset, s.opts.Limit); err != nil {
			return err
		}
	}
	if len(s.opts.Params) > 0 {
		stmt.Bind(paramValues(s.opts.Params)...)
	}

	stop := cancelOnInterrupt(stmt, s.renderer, s.logger)
	defer stop()

	if _, err := stmt.Execute(ctx); err != nil {
		return err
	}
	for {
		if err := s.renderCurrent(stmt); err != nil {
			return err
		}
		more, err := stmt.NextResults(ctx)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// renderCurrent renders the statement's current result set or update count.
func (s *statementRunner) renderCurrent(stmt exec.Statement) error {
	if stmt.HasResultSet() {
		rs, err := stmt.OpenResultSet()
		if err != nil || rs == nil {
			return err
		}
		defer func() { _ = rs.Close() }()

		t, err := collect(rs)
		if err != nil {
			return err
		}
		if err := s.renderer.RenderTable(t); err != nil {
			return err
		}
		if s.opts.Limit > 0 && int64(len(t.Rows)) == s.opts.Limit {
			s.renderer.Notice("(output limited to %d rows; use --limit to change)", s.opts.Limit)
		}
		return nil
	}

	n, err := stmt.UpdateRowCount()
	if err != nil {
		return err
	}
	if n < 0 {
		s.renderer.Success("OK")
	} else {
		s.renderer.Success("%d %s affected", n, plural(n, "row", "rows"))
	}

	if s.opts.Keys {
		keys, err := stmt.OpenGeneratedKeys()
		if err != nil || keys == nil {
			return err
		}
		defer func() { _ = keys.Close() }()
		t, err := collect(keys)
		if err != nil {
			return err
		}
		t.Title = "Generated keys"
		return s.renderer.RenderTable(t)
	}
	return nil
}

// runBatch binds every CSV record of the batch file to query and executes
// them as one batch.
func (s *statementRunner) runBatch(ctx context.Context, query string) error {
	records, err := readBatchFile(s.opts.Batch)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("batch file %s is empty", s.opts.Batch)
	}

	stmt, err := s.sess.Prepare(query, exec.WithDescription("leapdb exec --batch"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if err := stmt.AddToBatch(paramValues(rec)...); err != nil {
			return err
		}
	}

	stop := cancelOnInterrupt(stmt, s.renderer, s.logger)
	defer stop()

	counts, err := stmt.ExecuteBatch(ctx)
	var batchErr *exec.BatchError
	if errors.As(err, &batchErr) {
		counts = batchErr.Counts
	} else if err != nil {
		return err
	}

	t := &output.Table{Columns: []string{"entry", "count"}}
	var total int64
	for i, n := range counts {
		t.Append(i+1, batchCount(n))
		if n > 0 {
			total += n
		}
	}
	if renderErr := s.renderer.RenderTable(t); renderErr != nil {
		return renderErr
	}
	if batchErr != nil {
		return fmt.Errorf("batch entry %d failed: %w", batchErr.Index+1, batchErr.Err)
	}
	s.renderer.Success("%d %s, %d %s affected",
		len(counts), plural(int64(len(counts)), "entry", "entries"), total, plural(total, "row", "rows"))
	return nil
}

func batchCount(n int64) any {
	switch n {
	case exec.CountUnknown:
		return "unknown"
	case exec.CountFailed:
		return "failed"
	default:
		return n
	}
}

func readBatchFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file %s: %w", path, err)
	}
	return records, nil
}

// paramValues converts textual parameters to driver values. The literal
// NULL binds a null.
func paramValues(params []string) []any {
	out := make([]any, len(params))
	for i, p := range params {
		if p == output.NullText {
			continue
		}
		out[i] = p
	}
	return out
}

// collect drains a result set into a table.
func collect(rs exec.ResultSet) (*output.Table, error) {
	cols := rs.Columns()
	t := &output.Table{Columns: make([]string, len(cols))}
	for i, c := range cols {
		t.Columns[i] = c.Name
	}
	for rs.Next() {
		t.Rows = append(t.Rows, rs.Values())
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// cancelOnInterrupt cancels stmt when the process receives an interrupt
// while the statement blocks. The returned function stops listening.
func cancelOnInterrupt(stmt exec.Blocking, r *output.Renderer, logger *slog.Logger) func() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-sig:
				if !stmt.IsBlocking() {
					continue
				}
				r.Warn("cancelling statement...")
				if err := stmt.Cancel(); err != nil {
					logger.Warn("failed to cancel statement", slog.String("error", err.Error()))
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sig)
		close(done)
	}
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
