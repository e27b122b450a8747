package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/internal/cli/output"
	"github.com/leapstack-labs/leapdb/pkg/dataformat"
)

// NewFormatsCommand creates the formats command.
func NewFormatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "Show value formatter defaults and samples",
		Long: `Show the default properties of each value formatter for a locale,
with a sample value rendered through them.`,
		Example: `  leapdb formats
  leapdb formats --locale de-DE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			tag := cmdCtx.locale()

			t := &output.Table{Columns: []string{"type", "properties", "sample"}}
			for _, name := range dataformat.Types() {
				s, _ := dataformat.Lookup(name)
				props := s.DefaultProperties(tag)
				f, err := dataformat.NewFormatter(name, tag, props)
				if err != nil {
					return err
				}
				t.Append(dataformat.Title(name), formatProperties(props), f.Format(s.SampleValue()))
			}
			return cmdCtx.Renderer.RenderTable(t)
		},
	}
	return cmd
}

func formatProperties(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, props[k])
	}
	return strings.Join(parts, " ")
}
