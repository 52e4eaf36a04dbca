package decision

import "strings"

// Mode is the final response shape.
type Mode string

const (
	ModeChart   Mode = "chart"
	ModeInsight Mode = "insight"
)

// DisplayPreference is the caller-supplied rendering policy.
type DisplayPreference string

const (
	PrefAuto           DisplayPreference = "auto"
	PrefTextOnly       DisplayPreference = "text_only"
	PrefChartPreferred DisplayPreference = "chart_preferred"
)

// NormalizePreference maps unrecognized preferences to auto.
func NormalizePreference(pref string) DisplayPreference {
	switch DisplayPreference(strings.ToLower(strings.TrimSpace(pref))) {
	case PrefTextOnly:
		return PrefTextOnly
	case PrefChartPreferred:
		return PrefChartPreferred
	default:
		return PrefAuto
	}
}

// Column names that mark a result set as time-series shaped.
var temporalColumns = map[string]bool{
	"month_key":  true,
	"month":      true,
	"period":     true,
	"period_key": true,
	"date":       true,
	"order_date": true,
	"year":       true,
}

// Decide selects the response shape. Rules are evaluated in order, first
// match wins:
//
//  1. text_only always yields insight.
//  2. fewer than two rows always yields insight.
//  3. an upstream chart suggestion is honored.
//  4. under auto, an insight suggestion is promoted to chart when the rows
//     look like a time series; otherwise insight stands.
//
// The function is pure; identical inputs always produce the same mode.
func Decide(llmIntent string, pref DisplayPreference, rows []map[string]interface{}) Mode {
	if pref == PrefTextOnly {
		return ModeInsight
	}
	if len(rows) < 2 {
		return ModeInsight
	}
	if strings.ToLower(strings.TrimSpace(llmIntent)) == "chart" {
		return ModeChart
	}
	if pref == PrefAuto && IsTimeSeries(rows) {
		return ModeChart
	}
	return ModeInsight
}

// IsTimeSeries reports whether rows carry a recognizable temporal column
// and at least two points.
func IsTimeSeries(rows []map[string]interface{}) bool {
	if len(rows) < 2 {
		return false
	}
	for col := range rows[0] {
		if temporalColumns[strings.ToLower(col)] {
			return true
		}
	}
	return false
}
