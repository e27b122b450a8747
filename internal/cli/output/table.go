package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// Result formats.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatYAML     = "yaml"
)

// Table is a rectangular result: a header and rows of driver values.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]any
}

// Append adds a row.
func (t *Table) Append(values ...any) {
	t.Rows = append(t.Rows, values)
}

// records returns the rows as ordered key/value pairs for structured formats.
func (t *Table) records(f *ValueFormatter) []yaml.Node {
	out := make([]yaml.Node, 0, len(t.Rows))
	for _, row := range t.Rows {
		node := yaml.Node{Kind: yaml.MappingNode}
		for i, col := range t.Columns {
			var v any
			if i < len(row) {
				v = f.Plain(row[i])
			}
			var key, value yaml.Node
			_ = key.Encode(col)
			if err := value.Encode(v); err != nil {
				_ = value.Encode(fmt.Sprintf("%v", v))
			}
			node.Content = append(node.Content, &key, &value)
		}
		out = append(out, node)
	}
	return out
}

// RenderTable writes t in the renderer's format.
func (r *Renderer) RenderTable(t *Table) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(t)
	case FormatYAML:
		return r.renderYAML(t)
	case FormatCSV:
		r.prettyWriter(t).RenderCSV()
		return nil
	case FormatMarkdown:
		if len(t.Rows) == 0 {
			r.Println("(0 rows)")
			return nil
		}
		r.prettyWriter(t).RenderMarkdown()
		return nil
	default:
		return r.renderPretty(t)
	}
}

func (r *Renderer) prettyWriter(t *Table) table.Writer {
	w := table.NewWriter()
	w.SetOutputMirror(r.out)
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	w.SetStyle(style)

	header := make(table.Row, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	w.AppendHeader(header)

	for _, row := range t.Rows {
		tr := make(table.Row, len(t.Columns))
		for i := range t.Columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			tr[i] = r.values.Text(v)
		}
		w.AppendRow(tr)
	}
	return w
}

func (r *Renderer) renderPretty(t *Table) error {
	if t.Title != "" {
		r.Println(r.styles.Header2.Render(t.Title))
	}
	if len(t.Rows) == 0 {
		r.Println("(0 rows)")
		return nil
	}
	r.prettyWriter(t).Render()
	noun := "rows"
	if len(t.Rows) == 1 {
		noun = "row"
	}
	r.Printf("(%d %s)\n", len(t.Rows), noun)
	return nil
}

func (r *Renderer) renderJSON(t *Table) error {
	rows := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				m[col] = r.values.Plain(row[i])
			}
		}
		rows = append(rows, m)
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func (r *Renderer) renderYAML(t *Table) error {
	doc := yaml.Node{Kind: yaml.SequenceNode}
	records := t.records(r.values)
	for i := range records {
		doc.Content = append(doc.Content, &records[i])
	}
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// RenderText writes preformatted text such as DDL. Structured formats wrap
// it in a single-field document.
func (r *Renderer) RenderText(field, text string) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{field: text})
	case FormatYAML:
		return yaml.NewEncoder(r.out).Encode(map[string]string{field: text})
	default:
		r.Println(strings.TrimRight(text, "\n"))
		return nil
	}
}
