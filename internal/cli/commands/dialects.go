package commands

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/internal/cli/output"
	"github.com/leapstack-labs/leapdb/pkg/debug"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List SQL dialects and their capabilities",
		Long: `List every registered SQL dialect with the capabilities generic
SQL rendering relies on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			debuggers := debug.Dialects()

			t := &output.Table{Columns: []string{
				"dialect", "alias_in_select", "alter_constraint", "batch", "returning", "limit", "quotes", "debugger",
			}}
			for _, name := range dialect.List() {
				d, ok := dialect.Get(name)
				if !ok {
					continue
				}
				t.Append(
					d.Name,
					d.SupportsAliasInSelect(),
					d.SupportsAlterTableConstraint(),
					d.SupportsBatch(),
					d.SupportsReturning(),
					d.LimitStyle().String(),
					quotePairs(d.IdentifierQuoteStrings()),
					slices.Contains(debuggers, strings.ToLower(d.Name)),
				)
			}
			return cmdCtx.Renderer.RenderTable(t)
		},
	}
}

func quotePairs(pairs [][2]string) string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p[0] + p[1]
	}
	return strings.Join(out, " ")
}
