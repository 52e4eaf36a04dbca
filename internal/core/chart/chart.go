package chart

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const defaultLimit = 24

// Spec is the upstream-declared description of how to render a result set.
// It is only meaningful relative to actual rows and must be validated
// before use.
type Spec struct {
	ChartType string `json:"chart_type"` // "line" or "bar"
	X         string `json:"x"`
	Y         string `json:"y"`
	Title     string `json:"title"`
	Sort      string `json:"sort"` // "x", "y" or "none"
	Limit     int    `json:"limit"`
}

// Validate checks the spec against the rows it would render. X and Y must
// be present (case-insensitively) in every row; upstream naming is not
// case-consistent, so matching happens on lowercased column names.
func (s *Spec) Validate(rows []map[string]interface{}) error {
	if s == nil {
		return fmt.Errorf("no chart spec")
	}
	switch strings.ToLower(s.ChartType) {
	case "", "line", "bar":
	default:
		return fmt.Errorf("unsupported chart type %q", s.ChartType)
	}
	switch strings.ToLower(s.Sort) {
	case "", "none", "x", "y":
	default:
		return fmt.Errorf("unsupported sort %q", s.Sort)
	}
	if s.X == "" || s.Y == "" {
		return fmt.Errorf("chart spec is missing axis fields")
	}
	if len(rows) == 0 {
		return fmt.Errorf("chart spec has no rows to render")
	}
	xKey, yKey := strings.ToLower(s.X), strings.ToLower(s.Y)
	for i, row := range rows {
		fields := fieldSet(row)
		if !fields[xKey] {
			return fmt.Errorf("row %d has no column %q", i, s.X)
		}
		if !fields[yKey] {
			return fmt.Errorf("row %d has no column %q", i, s.Y)
		}
	}
	return nil
}

// ChartData is the renderer-facing payload: labels plus one or more series.
type ChartData struct {
	Type   string   `json:"type"`
	Title  string   `json:"title,omitempty"`
	Labels []string `json:"labels"`
	Data   []Series `json:"data"`
}

// Series is a single named value series.
type Series struct {
	Name   string        `json:"name"`
	Values []interface{} `json:"values"`
}

// Build assembles ChartData from rows and a validated spec, applying the
// spec's sort and limit. Column lookup is case-insensitive.
func Build(rows []map[string]interface{}, spec Spec) ChartData {
	canonical := CanonicalizeRows(rows)
	xKey, yKey := strings.ToLower(spec.X), strings.ToLower(spec.Y)

	data := make([]map[string]interface{}, len(canonical))
	copy(data, canonical)

	switch strings.ToLower(spec.Sort) {
	case "x":
		sort.SliceStable(data, func(i, j int) bool {
			return formatLabel(data[i][xKey]) < formatLabel(data[j][xKey])
		})
	case "y":
		sort.SliceStable(data, func(i, j int) bool {
			return numeric(data[i][yKey]) > numeric(data[j][yKey])
		})
	}

	limit := spec.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(data) > limit {
		data = data[:limit]
	}

	labels := make([]string, len(data))
	values := make([]interface{}, len(data))
	for i, row := range data {
		labels[i] = formatLabel(row[xKey])
		values[i] = numeric(row[yKey])
	}

	chartType := strings.ToLower(spec.ChartType)
	if chartType != "bar" {
		chartType = "line"
	}

	return ChartData{
		Type:   chartType,
		Title:  spec.Title,
		Labels: labels,
		Data:   []Series{{Name: spec.Y, Values: values}},
	}
}

// CanonicalizeRows lowercases every column name so spec fields can be
// matched regardless of upstream casing.
func CanonicalizeRows(rows []map[string]interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		lowered := make(map[string]interface{}, len(row))
		for k, v := range row {
			lowered[strings.ToLower(k)] = v
		}
		out[i] = lowered
	}
	return out
}

func fieldSet(row map[string]interface{}) map[string]bool {
	fields := make(map[string]bool, len(row))
	for k := range row {
		fields[strings.ToLower(k)] = true
	}
	return fields
}

func formatLabel(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02")
	case int, int32, int64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func numeric(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
