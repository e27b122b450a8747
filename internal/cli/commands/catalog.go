package commands

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/internal/cli/output"
)

// NewRoutinesCommand creates the routines command.
func NewRoutinesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routines [schema]",
		Short: "List stored functions and procedures",
		Long: `List the stored routines of a schema. Without a schema, the
connection's default schema is used. Data sources without stored routines
list nothing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			conn, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			schema := ""
			if len(args) > 0 {
				schema = args[0]
			}
			return listRoutines(cmd.Context(), cmdCtx, conn, schema)
		},
	}
}

func listRoutines(ctx context.Context, cmdCtx *CommandContext, conn *Connection, schema string) error {
	routines, err := conn.Adapter.Routines(ctx, schema)
	if err != nil {
		return err
	}

	t := &output.Table{Columns: []string{"schema", "name", "type", "kind", "language", "comment"}}
	for _, r := range routines {
		t.Append(r.Schema, r.Name, r.Type.String(), r.ProcedureType().String(), r.Language, r.Comment)
	}
	return cmdCtx.Renderer.RenderTable(t)
}

// NewCollationsCommand creates the collations command.
func NewCollationsCommand() *cobra.Command {
	var charset string

	cmd := &cobra.Command{
		Use:   "collations",
		Short: "List character sets and collations",
		Long: `List the character sets and collations known to the data source,
as loaded into its catalog.`,
		Example: `  leapdb collations
  leapdb collations --charset utf8mb4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			conn, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cat, err := conn.Adapter.Catalog(cmd.Context())
			if err != nil {
				return err
			}

			t := &output.Table{Columns: []string{"charset", "collation", "id", "default", "compiled", "sort_length"}}
			for _, cs := range cat.Charsets() {
				if charset != "" && !strings.EqualFold(cs.Name, charset) {
					continue
				}
				for _, col := range cs.Collations() {
					t.Append(cs.Name, col.Name, col.ID, col.IsDefault, col.IsCompiled, col.SortLength)
				}
			}
			return cmdCtx.Renderer.RenderTable(t)
		},
	}

	cmd.Flags().StringVar(&charset, "charset", "", "Only list collations of this character set")
	return cmd
}

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the driver settings of a connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			conn, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			return showDriverInfo(cmdCtx, conn)
		},
	}
}

func showDriverInfo(cmdCtx *CommandContext, conn *Connection) error {
	info := conn.Adapter.DriverInfo()
	t := &output.Table{Columns: []string{"setting", "value"}}
	t.Append("connection", conn.Name)
	t.Append("dialect", info.Dialect)
	t.Append("server_version", info.ServerVersion)

	names := make([]string, 0, len(info.Settings))
	for name := range info.Settings {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		t.Append(name, info.Settings[name])
	}
	return cmdCtx.Renderer.RenderTable(t)
}
