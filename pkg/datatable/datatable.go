// Package datatable describes tabular data the way the console renders it:
// an ordered list of columns, each reading one property of a row and
// optionally transforming it through a cell template or a pipe.
package datatable

import (
	"cmp"
	"fmt"
	"slices"
)

// CellTemplate selects how a column renders its cells.
type CellTemplate string

const (
	// CellTemplateText renders the (piped) value as text.
	CellTemplateText CellTemplate = ""

	// CellTemplateMap looks the value up in CellTemplateConfig.
	CellTemplateMap CellTemplate = "map"

	// CellTemplateActionMenu marks the per-row action menu. It has no text.
	CellTemplateActionMenu CellTemplate = "actionMenu"
)

// Row is anything that can expose named properties.
type Row interface {
	Value(prop string) any
}

// Column configures one column of a table.
type Column struct {
	Name     string
	Prop     string
	Sortable bool

	CellTemplate       CellTemplate
	CellTemplateConfig map[string]string

	// Pipe transforms the raw value before display. Ignored for map and
	// action menu cells.
	Pipe Pipe
}

// Cell renders the column's cell for row.
func (c Column) Cell(row Row) string {
	switch c.CellTemplate {
	case CellTemplateActionMenu:
		return ""
	case CellTemplateMap:
		raw := fmt.Sprint(row.Value(c.Prop))
		if label, ok := c.CellTemplateConfig[raw]; ok {
			return label
		}
		return raw
	case CellTemplateText:
		value := row.Value(c.Prop)
		if c.Pipe != nil {
			return c.Pipe.Transform(value)
		}
		if value == nil {
			return ""
		}
		return fmt.Sprint(value)
	default:
		panic(fmt.Sprintf("datatable: unhandled cell template %q", c.CellTemplate))
	}
}

// Table is an ordered set of columns.
type Table struct {
	Columns []Column
}

// New creates a table with the given columns.
func New(columns ...Column) *Table {
	return &Table{Columns: columns}
}

// Headers returns the names of the text columns, in order.
func (t *Table) Headers() []string {
	headers := make([]string, 0, len(t.Columns))
	for _, col := range t.textColumns() {
		headers = append(headers, col.Name)
	}
	return headers
}

// Render returns one line of cells per row, aligned with Headers.
func Render[R Row](t *Table, rows []R) [][]string {
	cols := t.textColumns()
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(cols))
		for _, col := range cols {
			cells = append(cells, col.Cell(row))
		}
		out = append(out, cells)
	}
	return out
}

// Column returns the column bound to prop.
func (t *Table) Column(prop string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Prop == prop && col.CellTemplate != CellTemplateActionMenu {
			return col, true
		}
	}
	return Column{}, false
}

// Sort orders rows in place by prop. Only sortable columns can be sorted
// on. The sort is stable.
func Sort[R Row](t *Table, rows []R, prop string, ascending bool) error {
	col, ok := t.Column(prop)
	if !ok {
		return fmt.Errorf("no column for property %q", prop)
	}
	if !col.Sortable {
		return fmt.Errorf("column %q is not sortable", col.Name)
	}

	slices.SortStableFunc(rows, func(a, b R) int {
		c := compareValues(a.Value(prop), b.Value(prop))
		if !ascending {
			return -c
		}
		return c
	})
	return nil
}

func (t *Table) textColumns() []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, col := range t.Columns {
		if col.CellTemplate != CellTemplateActionMenu {
			cols = append(cols, col)
		}
	}
	return cols
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmp.Compare(av, bv)
		}
	case uint64:
		if bv, ok := b.(uint64); ok {
			return cmp.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
