package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/internal/cli/output"
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/sqlgen"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	var ddl bool

	cmd := &cobra.Command{
		Use:   "describe <table>",
		Short: "Show the columns of a table",
		Long: `Read the columns of a table from the data source catalog.

The table may be qualified with a schema and quoted with the dialect's
identifier quotes. With --ddl, prints a CREATE TABLE statement rendered
for the connection's dialect instead.`,
		Example: `  leapdb describe users
  leapdb describe 'public."Order Items"'
  leapdb describe users --ddl`,
		Aliases: []string{"desc"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			conn, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			return describeTable(cmd.Context(), cmdCtx, conn, args[0], ddl)
		},
	}

	cmd.Flags().BoolVar(&ddl, "ddl", false, "Print CREATE TABLE instead of the column list")
	return cmd
}

func describeTable(ctx context.Context, cmdCtx *CommandContext, conn *Connection, name string, ddl bool) error {
	d := conn.Adapter.Dialect()
	ref := adapter.ParseQualifiedName(name, d)

	cols, err := conn.Adapter.TableColumns(ctx, ref)
	if err != nil {
		return err
	}

	if ddl {
		return cmdCtx.Renderer.RenderText("ddl", sqlgen.CreateTable(d, ref, cols)+";")
	}

	t := &output.Table{
		Title:   ref.String(),
		Columns: []string{"#", "column", "type", "key", "required", "auto", "default", "collation", "comment"},
	}
	for _, c := range cols {
		typ := sqlgen.ColumnType(c)
		if values, ok := c.EnumValues(); ok {
			typ = fmt.Sprintf("%s(%s)", c.TypeName(), strings.Join(values, ", "))
		}
		collation := ""
		if col := c.Collation(); col != nil {
			collation = col.Name
		}
		t.Append(
			c.Ordinal(),
			c.Name(),
			typ,
			c.KeyType().String(),
			c.Required(),
			c.AutoGenerated(),
			c.DefaultValue(),
			collation,
			c.Comment(),
		)
	}
	return cmdCtx.Renderer.RenderTable(t)
}
