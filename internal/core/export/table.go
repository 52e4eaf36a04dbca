package export

import (
	"fmt"
	"sort"
	"time"
)

// Format represents the export file format
type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// Table is a materialized answer table ready for export.
type Table struct {
	Title     string
	Generated time.Time
	Columns   []string
	Rows      [][]interface{}
}

// columnRank orders answer columns the way analysts expect to read them:
// the month first, then the grouping dimensions, then the measures.
var columnRank = map[string]int{
	"month_key":    0,
	"product_id":   1,
	"product_name": 2,
	"category":     3,
	"subcategory":  4,
	"region":       5,
	"state":        6,
	"segment":      7,
	"ship_mode":    8,
}

// FromAnswer flattens query result rows into a Table with a stable column
// order. Columns unknown to the ranking sort alphabetically after the
// known ones.
func FromAnswer(title string, rows []map[string]interface{}) *Table {
	colSet := map[string]struct{}{}
	for _, row := range rows {
		for col := range row {
			colSet[col] = struct{}{}
		}
	}

	columns := make([]string, 0, len(colSet))
	for col := range colSet {
		columns = append(columns, col)
	}
	sort.Slice(columns, func(i, j int) bool {
		ri, iKnown := columnRank[columns[i]]
		rj, jKnown := columnRank[columns[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return columns[i] < columns[j]
		}
	})

	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(columns))
		for j, col := range columns {
			cells[j] = row[col]
		}
		out[i] = cells
	}

	return &Table{
		Title:     title,
		Generated: time.Now(),
		Columns:   columns,
		Rows:      out,
	}
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", n)
	case float32:
		return fmt.Sprintf("%.2f", n)
	default:
		return fmt.Sprintf("%v", v)
	}
}
