package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BuildResolverPrompt returns the system prompt for turning a free-form
// sales question into the structured resolution JSON. The model proposes a
// preliminary display intent only; the decision engine makes the final call.
func BuildResolverPrompt(windowTxt string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("You are the intent resolver of a sales BI system over a monthly sales mart.\n")
	sb.WriteString("Return EXACTLY ONE JSON object and nothing else.\n\n")

	sb.WriteString("Available intents:\n")
	sb.WriteString("- top_n_by_metric_in_month: ranking of groups in one month\n")
	sb.WriteString("- compare_mom_group: month-over-month change per group in one month\n")
	sb.WriteString("- most_negative_profit: loss-making groups, worst first\n")
	sb.WriteString("- trend_range: a global metric across a span of months\n")
	sb.WriteString("- latest_month_overview: one month at a glance\n\n")

	sb.WriteString("Metrics: sales, profit, qty, orders.\n")
	sb.WriteString("Group-by dimensions: product, category, subcategory, region, state, segment, ship_mode.\n")
	sb.WriteString("Months use the YYYY-MM form.\n\n")

	sb.WriteString("Display suggestion rules:\n")
	sb.WriteString("- \"chart\" only when the question asks for a trend, a comparison across several\n")
	sb.WriteString("  time marks, or explicitly for a chart/plot/graph.\n")
	sb.WriteString("- \"insight\" otherwise. The BI system decides the final shape; do not encode\n")
	sb.WriteString("  any client display policy yourself.\n")
	sb.WriteString("- When suggesting \"chart\", include a minimal viz spec:\n")
	sb.WriteString("  {\"chart_type\":\"line\"|\"bar\",\"x\":column,\"y\":column,\"title\":short,\"sort\":\"x\"|\"y\"|\"none\",\"limit\":N}.\n")
	sb.WriteString("  Only add \"limit\" for rankings, never for time series. Otherwise viz is null.\n\n")

	fmt.Fprintf(&sb, "Today is %s.\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Data coverage (month_key): %s.\n", windowTxt)
	sb.WriteString("If every time mark the user asks about is outside that coverage, still emit the\n")
	sb.WriteString("closest matching intent with the months the user named; the system phrases the\n")
	sb.WriteString("out-of-range answer itself.\n\n")

	sb.WriteString("Output (one JSON object):\n")
	sb.WriteString(`{"intent":"...","metric":"...","groupby":"..."|null,"topn":5,` + "\n")
	sb.WriteString(`"month_key":"YYYY-MM"|null,"month_from":"YYYY-MM"|null,"month_to":"YYYY-MM"|null,` + "\n")
	sb.WriteString(`"display":"chart"|"insight","viz":{...}|null,"notes":"<=25 words"}` + "\n")

	return sb.String()
}

// InsightInput is the context for the insight-generation call.
type InsightInput struct {
	Question    string
	Intent      string
	WindowText  string
	RangeStatus string
	Rows        []map[string]interface{}
}

const maxInsightRows = 30

// BuildInsightPrompt returns the prompt for the short textual answer.
func BuildInsightPrompt(in InsightInput) string {
	rows := in.Rows
	if len(rows) > maxInsightRows {
		rows = rows[:maxInsightRows]
	}
	encoded, _ := json.Marshal(rows)

	var sb strings.Builder
	sb.WriteString("You are a business intelligence analyst. Write a short insight about sales\n")
	sb.WriteString("data: at most 2 sentences, each under 45 words, citing numbers or percentages.\n\n")

	fmt.Fprintf(&sb, "Question: %s\n", in.Question)
	fmt.Fprintf(&sb, "Intent: %s\n", in.Intent)
	fmt.Fprintf(&sb, "Data coverage (month_key): %s\n", in.WindowText)
	fmt.Fprintf(&sb, "Range status: %s\n\n", in.RangeStatus)

	sb.WriteString("The rows below were already queried, filtered and ordered to match the\n")
	sb.WriteString("question. State the main result directly (which group, how high or low,\n")
	sb.WriteString("profit or loss); a single row is a final answer, not missing data. Do not\n")
	sb.WriteString("describe the data structure or the query.\n\n")

	fmt.Fprintf(&sb, "data_rows = %s\n\n", string(encoded))
	sb.WriteString("Reply with plain text only: no JSON, no markdown.")

	return sb.String()
}
