package intent

// Canonical analytic question shapes the resolver can answer.
const (
	IntentTopNByMetricInMonth = "top_n_by_metric_in_month"
	IntentCompareMoMGroup     = "compare_mom_group"
	IntentMostNegativeProfit  = "most_negative_profit"
	IntentTrendRange          = "trend_range"
	IntentLatestMonthOverview = "latest_month_overview"
)

const (
	defaultMetric = "sales"
	defaultTopN   = 5
)

var allowedIntents = map[string]bool{
	IntentTopNByMetricInMonth: true,
	IntentCompareMoMGroup:     true,
	IntentMostNegativeProfit:  true,
	IntentTrendRange:          true,
	IntentLatestMonthOverview: true,
}

var allowedMetrics = map[string]bool{
	"sales":  true,
	"profit": true,
	"qty":    true,
	"orders": true,
}

// Per-intent fallback when groupby is missing or not a known dimension.
var defaultGroupBy = map[string]string{
	IntentTopNByMetricInMonth: "product",
	IntentCompareMoMGroup:     "category",
	IntentMostNegativeProfit:  "subcategory",
}

// Params is the structured request produced by the NL resolver. It is
// best-effort: any field may be missing or junk until Normalize has run.
type Params struct {
	Intent    string `json:"intent"`
	Metric    string `json:"metric"`
	GroupBy   string `json:"groupby"`
	TopN      int    `json:"topn"`
	MonthKey  string `json:"month_key"`
	MonthFrom string `json:"month_from"`
	MonthTo   string `json:"month_to"`
}

// Normalize returns a fully populated copy of p. Unknown intents fall back
// to the latest-month overview, unknown metrics to sales, non-positive topn
// to 5, and month-scoped intents receive latestMonth when no month was
// asked for. latestMonth may be empty when the store coverage is unknown.
func Normalize(p Params, latestMonth string) Params {
	if !allowedIntents[p.Intent] {
		p.Intent = IntentLatestMonthOverview
	}
	if !allowedMetrics[p.Metric] {
		p.Metric = defaultMetric
	}
	if p.TopN < 1 {
		p.TopN = defaultTopN
	}
	if fallback, needsGroup := defaultGroupBy[p.Intent]; needsGroup {
		if _, known := groupBindings[p.GroupBy]; !known {
			p.GroupBy = fallback
		}
	} else {
		p.GroupBy = ""
	}
	if p.Intent == IntentMostNegativeProfit {
		// Loss ranking is defined on profit no matter what the caller sent.
		p.Metric = "profit"
	}
	switch p.Intent {
	case IntentTopNByMetricInMonth, IntentCompareMoMGroup, IntentMostNegativeProfit, IntentLatestMonthOverview:
		if p.MonthKey == "" {
			p.MonthKey = latestMonth
		}
		p.MonthFrom, p.MonthTo = "", ""
	case IntentTrendRange:
		p.MonthKey = ""
	}
	return p
}
