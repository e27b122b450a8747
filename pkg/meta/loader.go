// Package meta loads vendor catalog rows into typed metadata objects.
//
// A Flavor describes one vendor's catalog: the queries to run, the column
// names they return, and the codes they use for key types, value types,
// and routine types. The Loader turns rows of those queries into
// TableColumn and Routine values. Anomalies in a row (an unknown key code,
// a type missing from the catalog) are logged at debug level and leave
// the affected field at its zero value; they never fail the load.
package meta

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/exec"
)

// Loader builds metadata objects from catalog rows of one data source.
type Loader struct {
	flavor  *Flavor
	catalog Catalog
	logger  *slog.Logger
	workers int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithWorkers bounds the goroutines used by LoadColumns.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// NewLoader creates a loader. A nil catalog is replaced by one holding only
// the flavor's data types, and a nil logger discards output.
func NewLoader(f *Flavor, catalog Catalog, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if catalog == nil {
		mem := NewMemoryCatalog()
		for _, dt := range f.DataTypes {
			mem.AddDataType(dt)
		}
		catalog = mem
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Loader{
		flavor:  f.normalized(),
		catalog: catalog,
		logger:  logger,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Flavor returns the loader's flavor with defaults applied.
func (l *Loader) Flavor() *Flavor {
	return l.flavor
}

// Catalog returns the catalog columns are resolved against.
func (l *Loader) Catalog() Catalog {
	return l.catalog
}

// LoadColumn reads one catalog row into a column of table.
func (l *Loader) LoadColumn(table TableRef, row Row) *TableColumn {
	f := l.flavor
	names := f.Columns

	c := &TableColumn{
		table:    table,
		catalog:  l.catalog,
		name:     row.String(names.Name),
		ordinal:  row.Int(names.Ordinal),
		typeName: row.String(names.DataType),
	}
	log := l.logger.With(slog.String("table", table.String()), slog.String("column", c.name))

	if code := strings.TrimSpace(row.String(names.Key)); code != "" {
		if kt, ok := f.KeyType(code); ok {
			c.keyType = kt
		} else {
			log.Debug("unrecognized key type", slog.String("code", code))
		}
	}

	c.valueType = f.ValueType(c.typeName)
	c.dataType = l.catalog.DataType(c.typeName)
	if c.dataType == nil && c.typeName != "" {
		log.Debug("data type not in catalog", slog.String("type", c.typeName))
	}

	c.charLength = row.Int64(names.CharLength)
	switch {
	case c.charLength > 0:
		c.maxLength, c.hasMaxLength = c.charLength, true
	case c.dataType != nil:
		c.maxLength, c.hasMaxLength = c.dataType.Precision, true
	}

	c.comment = row.String(names.Comment)
	c.required = row.String(names.Nullable) != f.NullableMarker
	c.scale = row.Int(names.Scale)
	c.precision = row.Int(names.Precision)
	c.defaultValue = row.String(names.Default)

	if name := row.String(names.Collation); name != "" {
		c.collation = l.catalog.Collation(name)
		if c.collation == nil {
			log.Debug("collation not in catalog", slog.String("collation", name))
		}
	}

	if token := f.AutoIncrementToken; token != "" {
		extra := strings.ToLower(row.String(names.Extra))
		c.autoGenerated = strings.Contains(extra, strings.ToLower(token))
	}

	if f.IsEnumerable(c.typeName) {
		if desc := row.String(names.FullType); desc != "" {
			c.enumValues = f.EnumParser(desc)
			if c.enumValues == nil {
				c.enumValues = []string{}
			}
		}
	}
	return c
}

// LoadColumns loads rows concurrently and returns the columns ordered by
// ordinal position.
func (l *Loader) LoadColumns(ctx context.Context, table TableRef, rows []Row) ([]*TableColumn, error) {
	cols := make([]*TableColumn, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, row := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cols[i] = l.LoadColumn(table, row)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].ordinal < cols[j].ordinal
	})
	return cols, nil
}

// ReadTableColumns runs the flavor's column query for table on sess.
func (l *Loader) ReadTableColumns(ctx context.Context, sess exec.Session, table TableRef) ([]*TableColumn, error) {
	if l.flavor.ColumnsQuery == "" {
		return nil, fmt.Errorf("%s metadata has no column query", l.flavor.Name)
	}
	rows, err := QueryRows(ctx, sess, l.flavor.ColumnsQuery, l.flavor.ColumnArgs(table)...)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return l.LoadColumns(ctx, table, rows)
}

// Routine is a stored function or procedure.
type Routine struct {
	Schema       string
	Name         string
	SpecificName string
	Type         core.RoutineType
	Language     string
	Comment      string
}

// ProcedureType returns the coarse classification used by generic tools.
func (r *Routine) ProcedureType() core.ProcedureType {
	return r.Type.ProcedureType()
}

// LoadRoutine reads one routine row. Unknown routine codes are logged and
// leave the type unset.
func (l *Loader) LoadRoutine(row Row) *Routine {
	names := l.flavor.Routines
	r := &Routine{
		Schema:       row.String(names.Schema),
		Name:         row.String(names.Name),
		SpecificName: row.String(names.SpecificName),
		Language:     row.String(names.Language),
		Comment:      row.String(names.Comment),
	}
	if code := row.String(names.Type); code != "" {
		if rt, ok := l.flavor.RoutineType(code); ok {
			r.Type = rt
		} else {
			l.logger.Debug("unrecognized routine type",
				slog.String("routine", r.Name),
				slog.String("code", code))
		}
	}
	return r
}

// ReadRoutines lists the routines of schema. Flavors without a routine
// query return no routines.
func (l *Loader) ReadRoutines(ctx context.Context, sess exec.Session, schema string) ([]*Routine, error) {
	if l.flavor.RoutinesQuery == "" {
		return nil, nil
	}
	if schema == "" {
		schema = l.flavor.DefaultSchema
	}
	rows, err := QueryRows(ctx, sess, l.flavor.RoutinesQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read routines of %s: %w", schema, err)
	}
	out := make([]*Routine, 0, len(rows))
	for _, row := range rows {
		out = append(out, l.LoadRoutine(row))
	}
	return out, nil
}
