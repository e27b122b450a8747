package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/internal/cli/output"
	"github.com/leapstack-labs/leapdb/internal/history"
)

// maxQueryWidth truncates queries in the table view.
const maxQueryWidth = 60

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit      int
	Connection string
	Failed     bool
	Clear      bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed statements",
		Long: `Show the statements recorded in the local history database, newest
first.`,
		Example: `  leapdb history
  leapdb history --for warehouse --limit 50
  leapdb history --failed
  leapdb history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().StringVar(&opts.Connection, "for", "", "Only show statements of this connection")
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "Only show failed statements")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete every entry")
	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	path := cmdCtx.Cfg.HistoryPath
	if path == "" {
		return fmt.Errorf("history is disabled (history_path is empty)")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !opts.Clear {
		cmdCtx.Renderer.Notice("no history yet at %s", path)
		return nil
	}

	store, err := history.Open(path, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if opts.Clear {
		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		cmdCtx.Renderer.Success("%d %s deleted", n, plural(n, "entry", "entries"))
		return nil
	}

	// Failed entries are filtered after loading, so fetch everything then.
	limit := opts.Limit
	if opts.Failed {
		limit = 0
	}
	var entries []history.Entry
	if opts.Connection != "" {
		entries, err = store.ListConnection(cmd.Context(), opts.Connection, limit)
	} else {
		entries, err = store.List(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	t := &output.Table{Columns: []string{"started", "connection", "kind", "duration", "result", "query"}}
	table := cmdCtx.Renderer.Format() == output.FormatTable
	for _, e := range entries {
		if opts.Failed && !e.Failed() {
			continue
		}
		if opts.Limit > 0 && len(t.Rows) == opts.Limit {
			break
		}
		query := e.Query
		if table {
			query = truncate(oneLine(query), maxQueryWidth)
		}
		t.Append(e.StartedAt.Local(), e.Connection, string(e.Kind), e.Duration.Round(time.Microsecond).String(), entryResult(&e), query)
	}
	return cmdCtx.Renderer.RenderTable(t)
}

func entryResult(e *history.Entry) string {
	switch {
	case e.Cancelled:
		return "cancelled"
	case e.Failed():
		return "error: " + oneLine(e.Error)
	case e.HasResultSet:
		return "rows"
	case e.UpdateCount >= 0:
		return fmt.Sprintf("%d affected", e.UpdateCount)
	default:
		return "ok"
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
