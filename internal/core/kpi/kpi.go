package kpi

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Row is one period-bucketed aggregate record, column name -> value.
// Derived columns hold float64 or nil (nil = undefined delta).
type Row map[string]interface{}

// DerivedSuffixes lists the columns AddMoMYoY appends per value column.
var DerivedSuffixes = []string{"_mom", "_mom_pct", "_yoy", "_yoy_pct"}

const (
	momLag = 1  // previous month
	yoyLag = 12 // same month previous year
)

// MonthOrdinal converts a "YYYY-MM" month key to a monotonic month index.
func MonthOrdinal(monthKey string) (int, error) {
	parts := strings.SplitN(monthKey, "-", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid month key: %q", monthKey)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid month key year: %q", monthKey)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, fmt.Errorf("invalid month key month: %q", monthKey)
	}
	return year*12 + (month - 1), nil
}

// MonthKeyFromOrdinal is the inverse of MonthOrdinal.
func MonthKeyFromOrdinal(ordinal int) string {
	return fmt.Sprintf("%04d-%02d", ordinal/12, ordinal%12+1)
}

// AddMoMYoY annotates period aggregate rows with month-over-month and
// year-over-year deltas for each value column: <col>_mom, <col>_mom_pct,
// <col>_yoy, <col>_yoy_pct. Rows are partitioned by keyCols (empty = one
// global partition) and the lag is resolved by calendar month, so a gap in
// the series yields nil deltas instead of a wrong-lag value. Percentage
// deltas are nil when the prior value is zero, missing, or not a number.
//
// Output ordering is ascending by partition key then month; input order is
// not preserved. The pass is deterministic: the same input always produces
// the same annotated rows.
func AddMoMYoY(rows []Row, keyCols []string, valueCols []string, dateCol string) ([]Row, error) {
	if dateCol == "" {
		dateCol = "month_key"
	}

	type member struct {
		row     Row
		ordinal int
	}
	partitions := map[string][]member{}
	var partKeys []string

	for _, row := range rows {
		monthKey, _ := row[dateCol].(string)
		ordinal, err := MonthOrdinal(monthKey)
		if err != nil {
			return nil, fmt.Errorf("row has unusable %s: %w", dateCol, err)
		}
		key := partitionKey(row, keyCols)
		if _, seen := partitions[key]; !seen {
			partKeys = append(partKeys, key)
		}
		partitions[key] = append(partitions[key], member{row: row, ordinal: ordinal})
	}
	sort.Strings(partKeys)

	out := make([]Row, 0, len(rows))
	for _, key := range partKeys {
		members := partitions[key]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].ordinal < members[j].ordinal
		})

		// Calendar-based lag lookup: month ordinal -> row.
		byOrdinal := make(map[int]Row, len(members))
		for _, m := range members {
			byOrdinal[m.ordinal] = m.row
		}

		for _, m := range members {
			annotated := cloneRow(m.row)
			for _, col := range valueCols {
				cur, curOK := toFloat64(m.row[col])
				momPrev, momOK := laggedValue(byOrdinal, m.ordinal, momLag, col)
				yoyPrev, yoyOK := laggedValue(byOrdinal, m.ordinal, yoyLag, col)

				annotated[col+"_mom"] = delta(cur, curOK, momPrev, momOK)
				annotated[col+"_mom_pct"] = pctChange(cur, curOK, momPrev, momOK)
				annotated[col+"_yoy"] = delta(cur, curOK, yoyPrev, yoyOK)
				annotated[col+"_yoy_pct"] = pctChange(cur, curOK, yoyPrev, yoyOK)
			}
			out = append(out, annotated)
		}
	}

	return out, nil
}

func laggedValue(byOrdinal map[int]Row, ordinal, lag int, col string) (float64, bool) {
	prev, ok := byOrdinal[ordinal-lag]
	if !ok {
		return 0, false
	}
	return toFloat64(prev[col])
}

func delta(cur float64, curOK bool, prev float64, prevOK bool) interface{} {
	if !curOK || !prevOK {
		return nil
	}
	return cur - prev
}

// pctChange mirrors delta but guards the denominator: zero, missing or NaN
// prior values resolve to nil, never infinity.
func pctChange(cur float64, curOK bool, prev float64, prevOK bool) interface{} {
	if !curOK || !prevOK || prev == 0 {
		return nil
	}
	return (cur - prev) / prev
}

func partitionKey(row Row, keyCols []string) string {
	if len(keyCols) == 0 {
		return ""
	}
	parts := make([]string, len(keyCols))
	for i, col := range keyCols {
		parts[i] = fmt.Sprintf("%v", row[col])
	}
	return strings.Join(parts, "\x1f")
}

func cloneRow(row Row) Row {
	out := make(Row, len(row)+4)
	for k, v := range row {
		out[k] = v
	}
	return out
}

func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return toFloat64(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
