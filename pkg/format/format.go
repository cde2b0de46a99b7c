// prtgcli/pkg/format/format.go

package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/object"
)

// Mode selects the output rendering.
type Mode string

const (
	// ModeTable renders a bordered, aligned grid.
	ModeTable Mode = "pretty"
	// ModeDelimited renders a header line and sorted delimited rows.
	ModeDelimited Mode = "csv"
)

const (
	DefaultSortColumn = "objid"
	DefaultDelimiter  = ","
)

type Options struct {
	Mode Mode
	// SortColumn orders table rows. Ignored in delimited mode.
	SortColumn string
	// Denylist names columns to drop. Matching is case-insensitive.
	Denylist  []string
	Delimiter string
}

// ResponseTable is a render-time projection of a set of objects.
type ResponseTable struct {
	Columns []string
	Rows    [][]string
}

// Format renders objects according to opts.
func Format(objects []object.MonitoredObject, opts Options) (string, error) {
	if opts.Mode == "" {
		opts.Mode = ModeTable
	}
	rt := Build(objects, opts.Denylist)

	switch opts.Mode {
	case ModeDelimited:
		delim := opts.Delimiter
		if delim == "" {
			delim = DefaultDelimiter
		}
		return rt.Delimited(delim), nil
	case ModeTable:
		sortColumn := opts.SortColumn
		if sortColumn == "" {
			sortColumn = DefaultSortColumn
		}
		return rt.Table(sortColumn), nil
	default:
		return "", logging.NewError(logging.ErrorTypeConfig,
			fmt.Sprintf("unknown output format '%s'", opts.Mode), nil,
			map[string]interface{}{"supported": []string{string(ModeTable), string(ModeDelimited)}})
	}
}

// Build computes the column set (union of attribute names minus denylist,
// sorted) and one row per object that has every column. Objects missing a
// column are skipped.
func Build(objects []object.MonitoredObject, denylist []string) ResponseTable {
	seen := make(map[string]struct{})
	for _, obj := range objects {
		for name := range obj.Attributes {
			seen[name] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	columns = filterUnwantedColumns(columns, denylist)
	sort.Strings(columns)

	rt := ResponseTable{Columns: columns, Rows: make([][]string, 0, len(objects))}
	for _, obj := range objects {
		row, err := project(obj, columns)
		if err != nil {
			logging.Logger.Debug().Err(err).Int("objid", obj.ID).Msg("Skipping row with missing column")
			continue
		}
		rt.Rows = append(rt.Rows, row)
	}
	return rt
}

// project normalizes obj into display strings, one per column. A missing
// column yields a LOOKUP error naming it.
func project(obj object.MonitoredObject, columns []string) ([]string, error) {
	row := make([]string, len(columns))
	for i, col := range columns {
		v, ok := obj.Get(col)
		if !ok {
			return nil, logging.LookupError(obj.ID, col)
		}
		row[i] = v.String()
	}
	return row, nil
}

// filterUnwantedColumns removes denylisted columns, comparing case-insensitively.
func filterUnwantedColumns(columns []string, unwanted []string) []string {
	if len(unwanted) == 0 {
		return columns
	}
	filtered := make([]string, 0, len(columns))
	for _, col := range columns {
		isUnwanted := false
		for _, u := range unwanted {
			if strings.EqualFold(col, u) {
				isUnwanted = true
				break
			}
		}
		if !isUnwanted {
			filtered = append(filtered, col)
		}
	}
	return filtered
}

// Delimited renders the header line followed by the body lines sorted as
// whole strings. Every line ends in a newline.
func (rt ResponseTable) Delimited(delim string) string {
	lines := make([]string, 0, len(rt.Rows))
	for _, row := range rt.Rows {
		lines = append(lines, strings.Join(row, delim))
	}
	sort.Strings(lines)

	var sb strings.Builder
	sb.WriteString(strings.Join(rt.Columns, delim))
	sb.WriteByte('\n')
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Table renders a bordered grid ordered by sortColumn. An unknown sort column
// orders rows by their full contents.
func (rt ResponseTable) Table(sortColumn string) string {
	if len(rt.Columns) == 0 {
		return ""
	}

	sortIdx := -1
	for i, col := range rt.Columns {
		if col == sortColumn {
			sortIdx = i
			break
		}
	}
	rows := make([][]string, len(rt.Rows))
	copy(rows, rt.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if sortIdx >= 0 {
			if c := compareCells(rows[i][sortIdx], rows[j][sortIdx]); c != 0 {
				return c < 0
			}
		}
		return compareRows(rows[i], rows[j]) < 0
	})

	t := table.NewWriter()
	t.SetStyle(table.StyleDefault)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(toRow(rt.Columns))
	for _, row := range rows {
		t.AppendRow(toRow(row))
	}
	return t.Render() + "\n"
}

// compareCells orders integers numerically and everything else as strings.
func compareCells(a, b string) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	if aErr == nil && bErr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func compareRows(a, b []string) int {
	for i := range a {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
