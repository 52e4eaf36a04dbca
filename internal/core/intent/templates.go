package intent

import (
	"fmt"
)

// groupBinding maps a group-by dimension to the aggregate table and label
// column that hold it. This table is the identifier whitelist: nothing a
// caller supplies is ever interpolated into SQL unless it resolves here.
type groupBinding struct {
	Table  string
	Column string
}

var groupBindings = map[string]groupBinding{
	"product":     {Table: "kpi_prod_m", Column: "product_name"},
	"category":    {Table: "kpi_cat_m", Column: "category"},
	"subcategory": {Table: "kpi_cat_m", Column: "subcategory"},
	"region":      {Table: "kpi_geo_m", Column: "region"},
	"state":       {Table: "kpi_geo_m", Column: "state"},
	"segment":     {Table: "kpi_segment_m", Column: "segment"},
	"ship_mode":   {Table: "kpi_shipmode_m", Column: "ship_mode"},
}

// metricColumns maps a metric name to its aggregate column.
var metricColumns = map[string]string{
	"sales":  "sales_m",
	"profit": "profit_m",
	"qty":    "qty_m",
	"orders": "orders_m",
}

const globalTable = "kpi_monthly"

// Query is a fully bound, read-only projection ready for execution.
type Query struct {
	SQL  string
	Args []interface{}
}

// Metadata echoes what was actually queried, for insight generation and for
// callers that need to phrase an answer.
type Metadata map[string]interface{}

// ErrNotWhitelisted marks a template request referencing an identifier
// outside the fixed table/column whitelist. Normalize prevents this for
// upstream input; hitting it means the caller bypassed normalization.
type ErrNotWhitelisted struct {
	Kind  string // "metric" or "groupby"
	Value string
}

func (e *ErrNotWhitelisted) Error() string {
	return fmt.Sprintf("%s %q is not in the query whitelist", e.Kind, e.Value)
}

// BuildQuery translates normalized params into one of the five fixed query
// shapes. Only whitelisted identifiers reach the SQL text; every value is
// passed as a bind argument.
func BuildQuery(p Params) (Query, Metadata, error) {
	switch p.Intent {
	case IntentTopNByMetricInMonth:
		return buildTopN(p)
	case IntentCompareMoMGroup:
		return buildCompareMoM(p)
	case IntentMostNegativeProfit:
		return buildMostNegativeProfit(p)
	case IntentTrendRange:
		return buildTrendRange(p)
	case IntentLatestMonthOverview:
		return buildLatestOverview(p)
	default:
		// Unknown intents were mapped to the overview by Normalize.
		return buildLatestOverview(p)
	}
}

func buildTopN(p Params) (Query, Metadata, error) {
	group, metricCol, err := resolveIdentifiers(p)
	if err != nil {
		return Query{}, nil, err
	}
	sql := fmt.Sprintf(
		"SELECT %s, %s AS %s FROM %s WHERE month_key = ? ORDER BY %s DESC LIMIT ?",
		group.Column, metricCol, p.Metric, group.Table, metricCol,
	)
	meta := Metadata{"month_key": p.MonthKey, "metric": p.Metric, "groupby": p.GroupBy, "topn": p.TopN}
	return Query{SQL: sql, Args: []interface{}{p.MonthKey, p.TopN}}, meta, nil
}

func buildCompareMoM(p Params) (Query, Metadata, error) {
	group, metricCol, err := resolveIdentifiers(p)
	if err != nil {
		return Query{}, nil, err
	}
	sql := fmt.Sprintf(
		"SELECT %s, %s AS %s, %s_mom AS %s_mom, %s_mom_pct AS %s_mom_pct "+
			"FROM %s WHERE month_key = ? ORDER BY %s_mom_pct DESC LIMIT ?",
		group.Column, metricCol, p.Metric,
		metricCol, p.Metric, metricCol, p.Metric,
		group.Table, metricCol,
	)
	meta := Metadata{"month_key": p.MonthKey, "metric": p.Metric, "groupby": p.GroupBy, "topn": p.TopN}
	return Query{SQL: sql, Args: []interface{}{p.MonthKey, p.TopN}}, meta, nil
}

func buildMostNegativeProfit(p Params) (Query, Metadata, error) {
	group, known := groupBindings[p.GroupBy]
	if !known {
		return Query{}, nil, &ErrNotWhitelisted{Kind: "groupby", Value: p.GroupBy}
	}
	// Fixed to profit; the caller-supplied metric is irrelevant here.
	sql := fmt.Sprintf(
		"SELECT %s, profit_m AS profit FROM %s WHERE month_key = ? AND profit_m < 0 ORDER BY profit_m ASC LIMIT ?",
		group.Column, group.Table,
	)
	meta := Metadata{"month_key": p.MonthKey, "groupby": p.GroupBy, "topn": p.TopN}
	return Query{SQL: sql, Args: []interface{}{p.MonthKey, p.TopN}}, meta, nil
}

func buildTrendRange(p Params) (Query, Metadata, error) {
	metricCol, known := metricColumns[p.Metric]
	if !known {
		return Query{}, nil, &ErrNotWhitelisted{Kind: "metric", Value: p.Metric}
	}
	sql := fmt.Sprintf("SELECT month_key, %s AS %s FROM %s", metricCol, p.Metric, globalTable)
	args := []interface{}{}
	if p.MonthFrom != "" {
		sql += " WHERE month_key >= ?"
		args = append(args, p.MonthFrom)
		if p.MonthTo != "" {
			sql += " AND month_key <= ?"
			args = append(args, p.MonthTo)
		}
	} else if p.MonthTo != "" {
		sql += " WHERE month_key <= ?"
		args = append(args, p.MonthTo)
	}
	sql += " ORDER BY month_key ASC"
	meta := Metadata{"metric": p.Metric, "month_from": p.MonthFrom, "month_to": p.MonthTo}
	return Query{SQL: sql, Args: args}, meta, nil
}

func buildLatestOverview(p Params) (Query, Metadata, error) {
	sql := fmt.Sprintf(
		"SELECT month_key, sales_m AS sales, profit_m AS profit, qty_m AS qty, orders_m AS orders "+
			"FROM %s WHERE month_key = ?",
		globalTable,
	)
	meta := Metadata{"month_key": p.MonthKey}
	return Query{SQL: sql, Args: []interface{}{p.MonthKey}}, meta, nil
}

func resolveIdentifiers(p Params) (groupBinding, string, error) {
	group, known := groupBindings[p.GroupBy]
	if !known {
		return groupBinding{}, "", &ErrNotWhitelisted{Kind: "groupby", Value: p.GroupBy}
	}
	metricCol, known := metricColumns[p.Metric]
	if !known {
		return groupBinding{}, "", &ErrNotWhitelisted{Kind: "metric", Value: p.Metric}
	}
	return group, metricCol, nil
}
