package datamart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const ordersCSV = `Row ID,Order ID,Order Date,Ship Date,Ship Mode,Customer ID,Customer Name,Segment,Country,City,State,Postal Code,Region,Product ID,Category,Sub-Category,Product Name,Sales,Quantity,Discount,Profit
1,CA-1001,2017-01-05,2017-01-08,Second Class,CG-100,Claire Gute,Consumer,United States,Henderson,Kentucky,42420,South,FUR-BO-1001,Furniture,Bookcases,Somerset Bookcase,261.96,2,0,41.91
2,CA-1001,2017-01-05,2017-01-08,Second Class,CG-100,Claire Gute,Consumer,United States,Henderson,Kentucky,42420,South,FUR-CH-1002,Furniture,Chairs,Padded Chair,731.94,3,0,219.58
3,CA-1002,2017-02-10,2017-02-14,Standard Class,DV-200,Darrin Van Huff,Corporate,United States,Los Angeles,California,90036,West,OFF-LA-1003,Office Supplies,Labels,Adhesive Labels,14.62,2,0,6.87
3,CA-1002,2017-02-10,2017-02-14,Standard Class,DV-200,Darrin Van Huff,Corporate,United States,Los Angeles,California,90036,West,OFF-LA-1003,Office Supplies,Labels,Adhesive Labels,14.62,2,0,6.87
4,CA-1003,2017-02-20,2017-02-25,Standard Class,DV-200,Darrin Van Huff,Corporate,United States,Los Angeles,California,90036,West,FUR-CH-1002,Furniture,Chairs,Padded Chair,200.00,1,0.2,-35.50
5,,2017-03-01,2017-03-04,First Class,CG-100,Claire Gute,Consumer,United States,Henderson,Kentucky,42420,South,FUR-BO-1001,Furniture,Bookcases,Somerset Bookcase,100.00,1,0,10.00
`

func writeOrders(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(ordersCSV), 0o644))
	return path
}

func TestLoadOrdersCleansInput(t *testing.T) {
	records, err := LoadOrders(writeOrders(t))
	require.NoError(t, err)

	// 6 raw rows: one exact duplicate dropped, one missing order id dropped.
	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, "CA-1001", first.OrderID)
	assert.Equal(t, "2017-01", first.MonthKey)
	assert.InDelta(t, 261.96-41.91, first.CostEst, 1e-9)
}

func TestLoadOrdersRejectsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("Order ID,Sales\nCA-1,10\n"), 0o644))

	_, err := LoadOrders(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestLoadOrdersRejectsUnknownExtension(t *testing.T) {
	_, err := LoadOrders(filepath.Join(t.TempDir(), "orders.json"))
	require.Error(t, err)
}

func TestBuildKPIRowsAggregates(t *testing.T) {
	records, err := LoadOrders(writeOrders(t))
	require.NoError(t, err)

	var monthlySpec kpiSpec
	for _, s := range kpiSpecs {
		if s.table == "kpi_monthly" {
			monthlySpec = s
		}
	}
	rows, err := buildKPIRows(records, monthlySpec)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	jan, feb := rows[0], rows[1]
	assert.Equal(t, "2017-01", jan["month_key"])
	assert.InDelta(t, 261.96+731.94, jan["sales_m"].(float64), 1e-9)
	assert.Equal(t, float64(1), jan["orders_m"], "two lines on the same order count once")

	assert.Equal(t, "2017-02", feb["month_key"])
	assert.Equal(t, float64(2), feb["orders_m"])
	require.NotNil(t, feb["sales_m_mom"])
	assert.InDelta(t, (14.62+200.00)-(261.96+731.94), feb["sales_m_mom"].(float64), 1e-9)
}

func TestBuildKPIRowsPartitionsByGroup(t *testing.T) {
	records, err := LoadOrders(writeOrders(t))
	require.NoError(t, err)

	var prodSpec kpiSpec
	for _, s := range kpiSpecs {
		if s.table == "kpi_prod_m" {
			prodSpec = s
		}
	}
	rows, err := buildKPIRows(records, prodSpec)
	require.NoError(t, err)

	byKey := map[string]map[string]interface{}{}
	for _, row := range rows {
		byKey[row["product_id"].(string)+"/"+row["month_key"].(string)] = row
	}

	chairFeb := byKey["FUR-CH-1002/2017-02"]
	require.NotNil(t, chairFeb)
	assert.Equal(t, "Padded Chair", chairFeb["product_name"])
	assert.Equal(t, "Furniture", chairFeb["category"])
	require.NotNil(t, chairFeb["profit_m_mom"])
	assert.InDelta(t, -35.50-219.58, chairFeb["profit_m_mom"].(float64), 1e-9)

	// The labels product only exists in February, so it has no prior month.
	labelsFeb := byKey["OFF-LA-1003/2017-02"]
	require.NotNil(t, labelsFeb)
	assert.Nil(t, labelsFeb["sales_m_mom"])
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mart.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db
}

func TestBuildersEndToEnd(t *testing.T) {
	records, err := LoadOrders(writeOrders(t))
	require.NoError(t, err)

	db := openTestDB(t)
	require.NoError(t, NewBuilder(db).Build(records))
	require.NoError(t, NewKPIBuilder(db).BuildAll(records))

	var factCount int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM fact_sales").Scan(&factCount).Error)
	assert.Equal(t, int64(4), factCount)

	var latest string
	require.NoError(t, db.Raw("SELECT month_key FROM v_latest_month").Scan(&latest).Error)
	assert.Equal(t, "2017-02", latest)

	var monthly []map[string]interface{}
	require.NoError(t, db.Raw("SELECT * FROM kpi_monthly ORDER BY month_key").Find(&monthly).Error)
	require.Len(t, monthly, 2)
	assert.Nil(t, monthly[0]["sales_m_mom"], "first month has no prior")
	assert.NotNil(t, monthly[1]["sales_m_mom"])

	assert.Equal(t, "2017-02", NewKPIBuilder(db).LatestMonth())

	// Rebuilding must fully replace, not append.
	require.NoError(t, NewBuilder(db).Build(records))
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM fact_sales").Scan(&factCount).Error)
	assert.Equal(t, int64(4), factCount)
}
