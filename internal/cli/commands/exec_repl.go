package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/pkg/exec"
)

const (
	replPrompt         = "leapdb> "
	replContinuePrompt = "   ...> "
)

func runREPL(cmd *cobra.Command, cmdCtx *CommandContext, conn *Connection, sess exec.Session, opts *ExecOptions) error {
	ctx := cmd.Context()

	// History file lives next to the statement history
	historyFile := ""
	if cmdCtx.Cfg.HistoryPath != "" {
		historyFile = filepath.Join(filepath.Dir(cmdCtx.Cfg.HistoryPath), "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newCompleter(sess),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	info := conn.Adapter.DriverInfo()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leapdb %s (%s %s)\n", conn.Name, info.Dialect, info.ServerVersion)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	runner := &statementRunner{
		sess:     sess,
		renderer: cmdCtx.Renderer,
		logger:   cmdCtx.Logger,
		opts:     opts,
	}
	repl := &replState{cmd: cmd, cmdCtx: cmdCtx, conn: conn, runner: runner}

	// REPL loop
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := repl.dotCommand(ctx, line); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString("\n")
			rl.SetPrompt(replContinuePrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		query := buf.String()
		buf.Reset()
		if err := runner.run(ctx, query); err != nil {
			cmdCtx.Renderer.Error(err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

type replState struct {
	cmd    *cobra.Command
	cmdCtx *CommandContext
	conn   *Connection
	runner *statementRunner
}

// dotCommand runs one dot-command and reports whether the REPL should exit.
func (s *replState) dotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	r := s.cmdCtx.Renderer

	var err error
	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.cmd.OutOrStdout())

	case ".describe", ".ddl":
		if len(parts) < 2 {
			r.Warn("Usage: %s <table>", command)
			return false
		}
		err = describeTable(ctx, s.cmdCtx, s.conn, parts[1], command == ".ddl")

	case ".routines":
		schema := ""
		if len(parts) > 1 {
			schema = parts[1]
		}
		err = listRoutines(ctx, s.cmdCtx, s.conn, schema)

	case ".info":
		err = showDriverInfo(s.cmdCtx, s.conn)

	case ".format":
		if len(parts) < 2 || !slices.Contains(config.OutputFormats, parts[1]) {
			r.Warn("Usage: .format <%s>", strings.Join(config.OutputFormats, "|"))
			return false
		}
		r.SetFormat(parts[1])

	case ".limit":
		if len(parts) < 2 {
			r.Notice("limit: %d", s.runner.opts.Limit)
			return false
		}
		n, perr := strconv.ParseInt(parts[1], 10, 64)
		if perr != nil || n < 0 {
			r.Warn("Usage: .limit <rows> (0 for all)")
			return false
		}
		s.runner.opts.Limit = n

	case ".clear":
		_, _ = fmt.Fprint(s.cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		r.Warn("Unknown command: %s (type .help for commands)", command)
	}

	if err != nil {
		r.Error(err)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .describe <table>  Show the columns of a table
  .ddl <table>       Show CREATE TABLE for a table
  .routines [schema] List stored routines
  .info              Show driver settings
  .format <format>   Switch output format (table, json, csv, md, yaml)
  .limit <rows>      Set the row limit (0 for all)
  .clear             Clear the screen
  .quit / .exit      Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Ctrl-C cancels a running statement
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newCompleter creates a readline completer for dot-commands and the
// dialect's statement keywords.
func newCompleter(sess exec.Session) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".describe"),
		readline.PcItem(".ddl"),
		readline.PcItem(".routines"),
		readline.PcItem(".info"),
		readline.PcItem(".format",
			readline.PcItem("table"),
			readline.PcItem("json"),
			readline.PcItem("csv"),
			readline.PcItem("md"),
			readline.PcItem("yaml"),
		),
		readline.PcItem(".limit"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	if d := sess.Dialect(); d != nil {
		for _, kw := range d.Keywords() {
			items = append(items, readline.PcItem(kw))
		}
	}
	return readline.NewPrefixCompleter(items...)
}
