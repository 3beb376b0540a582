// Package stats derives cross-sample summary tables from per-sample stat
// records. It is the aggregation collaborator behind an assembly's root
// statsfiles: each pipeline step category (s1..s5) gets one table with a row
// per sample.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/radpipe/radpipe/internal/ordmap"
)

// Row is one sample's line in a summary table. Values align with the parent
// table's Columns; a missing stat is nil.
type Row struct {
	Name   string
	Values []any
}

// Table is a small ordered tabular summary for one stat category.
type Table struct {
	Category string
	Columns  []string
	Rows     []Row
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// String renders the table as aligned text for terminal display.
func (t Table) String() string {
	if t.Empty() {
		return ""
	}
	widths := make([]int, len(t.Columns)+1)
	for _, r := range t.Rows {
		if len(r.Name) > widths[0] {
			widths[0] = len(r.Name)
		}
	}
	cells := make([][]string, len(t.Rows))
	for i, c := range t.Columns {
		if len(c) > widths[i+1] {
			widths[i+1] = len(c)
		}
	}
	for ri, r := range t.Rows {
		cells[ri] = make([]string, len(t.Columns))
		for ci := range t.Columns {
			s := ""
			if ci < len(r.Values) && r.Values[ci] != nil {
				s = fmt.Sprint(r.Values[ci])
			}
			cells[ri][ci] = s
			if len(s) > widths[ci+1] {
				widths[ci+1] = len(s)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", widths[0], "")
	for i, c := range t.Columns {
		fmt.Fprintf(&b, "  %*s", widths[i+1], c)
	}
	b.WriteByte('\n')
	for ri, r := range t.Rows {
		fmt.Fprintf(&b, "%-*s", widths[0], r.Name)
		for ci := range t.Columns {
			fmt.Fprintf(&b, "  %*s", widths[ci+1], cells[ri][ci])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Aggregate builds the summary table for one stat category. records maps
// sample name to that sample's scalar record for the category; samples
// lacking the category are simply absent from records. An empty records map
// yields an empty table.
//
// Columns are the union of record keys, ordered by first appearance walking
// samples in name order. Rows are sorted by sample name.
func Aggregate(category string, records map[string]*ordmap.Map) Table {
	t := Table{Category: category}
	if len(records) == 0 {
		return t
	}

	names := make([]string, 0, len(records))
	for n := range records {
		names = append(names, n)
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	for _, n := range names {
		for _, k := range records[n].Keys() {
			if !seen[k] {
				seen[k] = true
				t.Columns = append(t.Columns, k)
			}
		}
	}

	for _, n := range names {
		row := Row{Name: n, Values: make([]any, len(t.Columns))}
		for i, c := range t.Columns {
			if v, ok := records[n].Get(c); ok {
				row.Values[i] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
