package datamart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/kpi"
)

// measureCols are the monthly measures aggregated per KPI table. Each one
// receives the four derived delta columns from kpi.AddMoMYoY.
var measureCols = []string{"sales_m", "profit_m", "qty_m", "orders_m"}

// kpiSpec describes one KPI table: its grouping columns (which are also
// the MoM/YoY partition keys) and optional descriptive columns carried
// from a representative record of the group.
type kpiSpec struct {
	table    string
	keyCols  []string
	keyFn    func(r Record) []string
	attrCols []string
	attrFn   func(r Record) []string
}

var kpiSpecs = []kpiSpec{
	{
		table: "kpi_monthly",
	},
	{
		table:    "kpi_prod_m",
		keyCols:  []string{"product_id"},
		keyFn:    func(r Record) []string { return []string{r.ProductID} },
		attrCols: []string{"product_name", "subcategory", "category"},
		attrFn:   func(r Record) []string { return []string{r.ProductName, r.Subcategory, r.Category} },
	},
	{
		table:   "kpi_cat_m",
		keyCols: []string{"category", "subcategory"},
		keyFn:   func(r Record) []string { return []string{r.Category, r.Subcategory} },
	},
	{
		table:   "kpi_geo_m",
		keyCols: []string{"region", "state"},
		keyFn:   func(r Record) []string { return []string{r.Region, r.State} },
	},
	{
		table:   "kpi_segment_m",
		keyCols: []string{"segment"},
		keyFn:   func(r Record) []string { return []string{r.Segment} },
	},
	{
		table:   "kpi_shipmode_m",
		keyCols: []string{"ship_mode"},
		keyFn:   func(r Record) []string { return []string{r.ShipMode} },
	},
}

// KPIBuilder aggregates order records into the monthly KPI tables the
// query templates read from. Each run fully replaces the previous tables.
type KPIBuilder struct {
	db *gorm.DB
}

func NewKPIBuilder(db *gorm.DB) *KPIBuilder {
	return &KPIBuilder{db: db}
}

// BuildAll computes all six KPI tables with their MoM/YoY deltas, then
// recreates indexes and the latest-month convenience views.
func (k *KPIBuilder) BuildAll(records []Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to aggregate")
	}

	for _, spec := range kpiSpecs {
		rows, err := buildKPIRows(records, spec)
		if err != nil {
			return fmt.Errorf("failed to compute %s: %w", spec.table, err)
		}
		if err := k.writeTable(spec, rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", spec.table, err)
		}
		log.Info().Str("table", spec.table).Int("rows", len(rows)).Msg("KPI table rebuilt")
	}

	if err := k.createIndexes(); err != nil {
		return fmt.Errorf("failed to create KPI indexes: %w", err)
	}
	if err := k.createViews(); err != nil {
		return fmt.Errorf("failed to create KPI views: %w", err)
	}
	return nil
}

type measureAgg struct {
	monthKey string
	keys     []string
	attrs    []string
	sales    float64
	profit   float64
	qty      float64
	orders   map[string]struct{}
}

// buildKPIRows aggregates the records by month plus the spec's keys and
// returns the rows with derived delta columns attached.
func buildKPIRows(records []Record, spec kpiSpec) ([]kpi.Row, error) {
	groups := map[string]*measureAgg{}
	for _, r := range records {
		var keys []string
		if spec.keyFn != nil {
			keys = spec.keyFn(r)
		}
		mapKey := strings.Join(append([]string{r.MonthKey}, keys...), "\x1f")

		a, ok := groups[mapKey]
		if !ok {
			a = &measureAgg{monthKey: r.MonthKey, keys: keys, orders: map[string]struct{}{}}
			if spec.attrFn != nil {
				a.attrs = spec.attrFn(r)
			}
			groups[mapKey] = a
		}
		a.sales += r.Sales
		a.profit += r.Profit
		a.qty += r.Qty
		a.orders[r.OrderID] = struct{}{}
	}

	rows := make([]kpi.Row, 0, len(groups))
	for _, a := range groups {
		row := kpi.Row{
			"month_key": a.monthKey,
			"sales_m":   a.sales,
			"profit_m":  a.profit,
			"qty_m":     a.qty,
			"orders_m":  float64(len(a.orders)),
		}
		for i, col := range spec.keyCols {
			row[col] = a.keys[i]
		}
		for i, col := range spec.attrCols {
			row[col] = a.attrs[i]
		}
		rows = append(rows, row)
	}

	return kpi.AddMoMYoY(rows, spec.keyCols, measureCols, "month_key")
}

// tableColumns returns the column order used for both DDL and inserts.
func tableColumns(spec kpiSpec) []string {
	cols := []string{"month_key"}
	cols = append(cols, spec.keyCols...)
	cols = append(cols, spec.attrCols...)
	cols = append(cols, measureCols...)
	for _, m := range measureCols {
		for _, suffix := range kpi.DerivedSuffixes {
			cols = append(cols, m+suffix)
		}
	}
	return cols
}

func columnType(name string) string {
	switch {
	case name == "orders_m":
		return "INTEGER"
	case strings.HasSuffix(name, "_m") || strings.Contains(name, "_m_"):
		return "REAL"
	default:
		return "TEXT"
	}
}

const kpiInsertBatch = 30

func (k *KPIBuilder) writeTable(spec kpiSpec, rows []kpi.Row) error {
	cols := tableColumns(spec)

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = c + " " + columnType(c)
	}
	if err := k.db.Exec("DROP TABLE IF EXISTS " + spec.table).Error; err != nil {
		return err
	}
	if err := k.db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", spec.table, strings.Join(defs, ", "))).Error; err != nil {
		return err
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	insertPrefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", spec.table, strings.Join(cols, ", "))

	for start := 0; start < len(rows); start += kpiInsertBatch {
		end := start + kpiInsertBatch
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		values := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(cols))
		for i, row := range batch {
			values[i] = placeholder
			for _, c := range cols {
				args = append(args, row[c])
			}
		}
		if err := k.db.Exec(insertPrefix+strings.Join(values, ", "), args...).Error; err != nil {
			return err
		}
	}
	return nil
}

func (k *KPIBuilder) createIndexes() error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_kpi_monthly ON kpi_monthly(month_key)`,
		`CREATE INDEX IF NOT EXISTS idx_kpi_prod_m ON kpi_prod_m(product_id, month_key)`,
		`CREATE INDEX IF NOT EXISTS idx_kpi_cat_m ON kpi_cat_m(category, subcategory, month_key)`,
		`CREATE INDEX IF NOT EXISTS idx_kpi_geo_m ON kpi_geo_m(region, state, month_key)`,
		`CREATE INDEX IF NOT EXISTS idx_kpi_segment_m ON kpi_segment_m(segment, month_key)`,
		`CREATE INDEX IF NOT EXISTS idx_kpi_shipmode_m ON kpi_shipmode_m(ship_mode, month_key)`,
	}
	for _, stmt := range statements {
		if err := k.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (k *KPIBuilder) createViews() error {
	statements := []string{
		`DROP VIEW IF EXISTS v_latest_month`,
		`CREATE VIEW v_latest_month AS
		 SELECT month_key FROM kpi_monthly ORDER BY month_key DESC LIMIT 1`,
		`DROP VIEW IF EXISTS v_top_products_latest`,
		`CREATE VIEW v_top_products_latest AS
		 SELECT p.* FROM kpi_prod_m p
		 WHERE p.month_key = (SELECT month_key FROM v_latest_month)
		 ORDER BY p.sales_m DESC`,
		`DROP VIEW IF EXISTS v_category_summary_latest`,
		`CREATE VIEW v_category_summary_latest AS
		 SELECT c.category, c.subcategory, c.sales_m, c.profit_m FROM kpi_cat_m c
		 WHERE c.month_key = (SELECT month_key FROM v_latest_month)
		 ORDER BY c.sales_m DESC`,
		`DROP VIEW IF EXISTS v_geo_profit_latest`,
		`CREATE VIEW v_geo_profit_latest AS
		 SELECT region, state, sales_m, profit_m FROM kpi_geo_m
		 WHERE month_key = (SELECT month_key FROM v_latest_month)
		 ORDER BY profit_m ASC`,
	}
	for _, stmt := range statements {
		if err := k.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// LatestMonth returns the highest month key present in kpi_monthly, or ""
// when the table is empty.
func (k *KPIBuilder) LatestMonth() string {
	var monthKeys []string
	if err := k.db.Raw("SELECT month_key FROM kpi_monthly").Scan(&monthKeys).Error; err != nil {
		return ""
	}
	sort.Strings(monthKeys)
	if len(monthKeys) == 0 {
		return ""
	}
	return monthKeys[len(monthKeys)-1]
}
