package table

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"procview/internal/collector"

	"github.com/charmbracelet/lipgloss"
)

// ErrInvalidColumn reports an unknown or repeated column name.
var ErrInvalidColumn = errors.New("invalid column")

// Options selects how a snapshot is turned into a View.
type Options struct {
	SortBy     Column
	Descending bool
	// Columns is the projection; empty means DefaultColumns. The pid key is
	// always present and never repeated as a cell.
	Columns []Column
	// Name keeps only rows whose name equals it exactly.
	Name string
	// Limit < 0 shows no rows, 0 shows all, n > 0 the first n after sorting.
	Limit int
}

// Row is one display line keyed by pid.
type Row struct {
	PID   int32
	Cells []string
}

// View is the sorted, filtered and formatted projection of a Snapshot.
type View struct {
	Columns []Column
	Rows    []Row
}

// Len returns the number of rows.
func (v View) Len() int {
	return len(v.Rows)
}

// Validate checks the sort key and projection without building a view.
func Validate(opts Options) error {
	if _, err := sortSpec(opts.SortBy); err != nil {
		return err
	}
	_, err := projection(opts.Columns)
	return err
}

// Build sorts, filters, limits and formats snap. It never returns a partial
// view: any invalid column fails the whole call.
func Build(snap collector.Snapshot, opts Options) (View, error) {
	key, err := sortSpec(opts.SortBy)
	if err != nil {
		return View{}, err
	}
	cols, err := projection(opts.Columns)
	if err != nil {
		return View{}, err
	}

	if opts.Limit < 0 {
		return View{Columns: cols, Rows: []Row{}}, nil
	}

	records := make([]collector.Record, 0, len(snap.Records))
	for _, r := range snap.Records {
		if opts.Name != "" && r.Name != opts.Name {
			continue
		}
		records = append(records, r)
	}

	slices.SortStableFunc(records, func(a, b collector.Record) int {
		c := key.compare(&a, &b)
		if opts.Descending {
			return -c
		}
		return c
	})

	if opts.Limit > 0 && opts.Limit < len(records) {
		records = records[:opts.Limit]
	}

	view := View{Columns: cols, Rows: make([]Row, 0, len(records))}
	for i := range records {
		r := &records[i]
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = fields[col].format(r)
		}
		view.Rows = append(view.Rows, Row{PID: r.PID, Cells: cells})
	}
	return view, nil
}

func sortSpec(col Column) (fieldSpec, error) {
	if col == "" {
		col = DefaultSortBy
	}
	f, ok := fields[col]
	if !ok {
		return fieldSpec{}, fmt.Errorf("%w: cannot sort by %q", ErrInvalidColumn, col)
	}
	return f, nil
}

func projection(requested []Column) ([]Column, error) {
	if len(requested) == 0 {
		return slices.Clone(DefaultColumns), nil
	}
	cols := make([]Column, 0, len(requested))
	seen := make(map[Column]bool, len(requested))
	for _, col := range requested {
		if !Known(col) {
			return nil, fmt.Errorf("%w: unknown column %q", ErrInvalidColumn, col)
		}
		if seen[col] {
			return nil, fmt.Errorf("%w: column %q requested twice", ErrInvalidColumn, col)
		}
		seen[col] = true
		if col == ColumnPID {
			continue
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// Render writes v as an aligned plain text table with a header line.
func (v View) Render(w io.Writer) error {
	header := make([]string, 0, len(v.Columns)+1)
	header = append(header, string(ColumnPID))
	for _, col := range v.Columns {
		header = append(header, string(col))
	}

	lines := make([][]string, 0, len(v.Rows)+1)
	lines = append(lines, header)
	for _, row := range v.Rows {
		line := make([]string, 0, len(row.Cells)+1)
		line = append(line, fields[ColumnPID].format(&collector.Record{PID: row.PID}))
		line = append(line, row.Cells...)
		lines = append(lines, line)
	}

	widths := make([]int, len(header))
	for _, line := range lines {
		for i, cell := range line {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	styles := make([]lipgloss.Style, len(header))
	styles[0] = lipgloss.NewStyle().Width(widths[0]).Align(lipgloss.Right)
	for i, col := range v.Columns {
		align := lipgloss.Left
		if fields[col].numeric {
			align = lipgloss.Right
		}
		styles[i+1] = lipgloss.NewStyle().Width(widths[i+1]).Align(align)
	}

	var b strings.Builder
	for _, line := range lines {
		for i, cell := range line {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(styles[i].Render(cell))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
