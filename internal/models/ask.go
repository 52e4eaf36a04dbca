package models

import (
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/chart"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/coverage"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/intent"
)

// AskRequest is the analyst-facing question payload.
type AskRequest struct {
	Question          string `json:"question"`
	DisplayPreference string `json:"display_preference"` // auto | text_only | chart_preferred
}

// QueryMetadata describes what was actually queried and why the result may
// be empty, so callers can tell "no loss-making group" from "period not
// covered".
type QueryMetadata struct {
	KPIs        intent.Metadata `json:"kpis"`
	RangeStatus string          `json:"range_status"` // IN_RANGE | OUT_OF_RANGE | UNKNOWN
	EmptyReason string          `json:"empty_reason,omitempty"`
}

// Reasons an answer table can be empty.
const (
	EmptyPeriodNotCovered = "period_not_covered"
	EmptyNoNegativeGroups = "no_negative_groups"
	EmptyNoRows           = "no_rows"
)

// AskResponse is the final, always-well-formed answer.
type AskResponse struct {
	Question    string                   `json:"question"`
	Mode        string                   `json:"mode"` // chart | insight
	InsightText string                   `json:"insight_text"`
	Params      intent.Params            `json:"params"`
	Rows        []map[string]interface{} `json:"answer_table"`
	Meta        QueryMetadata            `json:"meta"`
	Chart       *chart.ChartData         `json:"chart,omitempty"`
	ChartURL    string                   `json:"chart_url,omitempty"`
	Coverage    coverage.Window          `json:"coverage"`
}
