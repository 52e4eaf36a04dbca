package coverage

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Range statuses attached to query metadata for response phrasing.
const (
	StatusInRange    = "IN_RANGE"
	StatusOutOfRange = "OUT_OF_RANGE"
	StatusUnknown    = "UNKNOWN"
)

// Window is the [Min, Max] month_key span actually present in the store.
type Window struct {
	Min string `json:"min_month_key"`
	Max string `json:"max_month_key"`
}

// Known reports whether the store coverage could be determined.
func (w Window) Known() bool { return w.Min != "" && w.Max != "" }

// Text renders the window for prompts and messages.
func (w Window) Text() string {
	if !w.Known() {
		return "unknown"
	}
	return w.Min + " .. " + w.Max
}

// Contains reports whether monthKey falls inside the window. Month keys
// order lexicographically with calendar order, so plain string comparison
// is enough.
func (w Window) Contains(monthKey string) bool {
	return w.Known() && monthKey >= w.Min && monthKey <= w.Max
}

type rowQuerier interface {
	ExecuteRead(ctx context.Context, sql string, args ...interface{}) ([]map[string]interface{}, error)
}

// Guard determines the period coverage of the analytical store. The store
// is rebuilt wholesale by the offline job, so there is nothing to
// invalidate: every call re-queries.
type Guard struct {
	engine rowQuerier
}

func NewGuard(engine rowQuerier) *Guard {
	return &Guard{engine: engine}
}

// Candidate tables scanned in order; the first non-empty answer wins.
var coverageQueries = []string{
	"SELECT MIN(month_key) AS min_month_key, MAX(month_key) AS max_month_key FROM kpi_monthly",
	"SELECT MIN(month_key) AS min_month_key, MAX(month_key) AS max_month_key FROM fact_sales",
}

// Window scans the candidate tables for the covered month span. An empty
// Window (Known() == false) means coverage is unknown; that is not an
// error condition.
func (g *Guard) Window(ctx context.Context) Window {
	for _, sql := range coverageQueries {
		rows, err := g.engine.ExecuteRead(ctx, sql)
		if err != nil {
			log.Debug().Err(err).Msg("coverage candidate query failed")
			continue
		}
		if len(rows) == 0 {
			continue
		}
		w := Window{
			Min: stringValue(rows[0]["min_month_key"]),
			Max: stringValue(rows[0]["max_month_key"]),
		}
		if w.Known() {
			return w
		}
	}
	return Window{}
}

// Status classifies the months a request referenced against the window.
// With no referenced months the request is not period-scoped and counts as
// in range; one month inside the window is enough for IN_RANGE.
func Status(w Window, monthKeys ...string) string {
	if !w.Known() {
		return StatusUnknown
	}
	referenced := 0
	for _, key := range monthKeys {
		if key == "" {
			continue
		}
		referenced++
		if w.Contains(key) {
			return StatusInRange
		}
	}
	if referenced == 0 {
		return StatusInRange
	}
	return StatusOutOfRange
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
