package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyRows(start string, values []float64) []Row {
	ordinal, _ := MonthOrdinal(start)
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row{
			"month_key": MonthKeyFromOrdinal(ordinal + i),
			"sales_m":   v,
		}
	}
	return rows
}

func TestMonthOrdinal(t *testing.T) {
	a, err := MonthOrdinal("2016-07")
	require.NoError(t, err)
	b, err := MonthOrdinal("2016-08")
	require.NoError(t, err)
	assert.Equal(t, 1, b-a)

	c, err := MonthOrdinal("2017-07")
	require.NoError(t, err)
	assert.Equal(t, 12, c-a)

	assert.Equal(t, "2016-07", MonthKeyFromOrdinal(a))

	for _, bad := range []string{"", "2016", "2016-13", "2016-00", "abcd-ef"} {
		_, err := MonthOrdinal(bad)
		assert.Error(t, err, bad)
	}
}

func TestAddMoMYoYContiguousSeries(t *testing.T) {
	values := make([]float64, 13)
	for i := range values {
		values[i] = 100 + float64(i)*10
	}
	rows := monthlyRows("2015-01", values)

	out, err := AddMoMYoY(rows, nil, []string{"sales_m"}, "month_key")
	require.NoError(t, err)
	require.Len(t, out, 13)

	// First row has no priors at all.
	assert.Nil(t, out[0]["sales_m_mom"])
	assert.Nil(t, out[0]["sales_m_yoy"])

	// 13th row: MoM against the 12th, YoY against the 1st.
	last := out[12]
	assert.Equal(t, values[12]-values[11], last["sales_m_mom"])
	assert.Equal(t, values[12]-values[0], last["sales_m_yoy"])
	assert.InDelta(t, (values[12]-values[11])/values[11], last["sales_m_mom_pct"].(float64), 1e-12)
	assert.InDelta(t, (values[12]-values[0])/values[0], last["sales_m_yoy_pct"].(float64), 1e-12)
}

func TestAddMoMYoYGapYieldsNil(t *testing.T) {
	// 2016-01, 2016-02, then a hole, then 2016-04.
	rows := monthlyRows("2016-01", []float64{100, 110})
	rows = append(rows, Row{"month_key": "2016-04", "sales_m": 140.0})

	out, err := AddMoMYoY(rows, nil, []string{"sales_m"}, "month_key")
	require.NoError(t, err)
	require.Len(t, out, 3)

	// The row after the gap must not take the last seen row as lag-1.
	assert.Nil(t, out[2]["sales_m_mom"])
	assert.Nil(t, out[2]["sales_m_mom_pct"])
	assert.Equal(t, 110.0-100.0, out[1]["sales_m_mom"])
}

func TestAddMoMYoYZeroDenominator(t *testing.T) {
	rows := monthlyRows("2016-01", []float64{0, 50})

	out, err := AddMoMYoY(rows, nil, []string{"sales_m"}, "month_key")
	require.NoError(t, err)

	assert.Equal(t, 50.0, out[1]["sales_m_mom"])
	assert.Nil(t, out[1]["sales_m_mom_pct"], "zero prior must not produce infinity")
}

func TestAddMoMYoYMissingValue(t *testing.T) {
	rows := []Row{
		{"month_key": "2016-01", "sales_m": nil},
		{"month_key": "2016-02", "sales_m": 50.0},
	}

	out, err := AddMoMYoY(rows, nil, []string{"sales_m"}, "month_key")
	require.NoError(t, err)
	assert.Nil(t, out[1]["sales_m_mom"])
	assert.Nil(t, out[1]["sales_m_mom_pct"])
}

func TestAddMoMYoYShortPartition(t *testing.T) {
	rows := monthlyRows("2016-01", []float64{42})

	out, err := AddMoMYoY(rows, nil, []string{"sales_m"}, "month_key")
	require.NoError(t, err)
	require.Len(t, out, 1)
	for _, suffix := range DerivedSuffixes {
		assert.Nil(t, out[0]["sales_m"+suffix], suffix)
	}
}

func TestAddMoMYoYPartitionsAreIndependent(t *testing.T) {
	rows := []Row{
		{"month_key": "2016-01", "category": "Furniture", "sales_m": 100.0},
		{"month_key": "2016-02", "category": "Furniture", "sales_m": 150.0},
		{"month_key": "2016-02", "category": "Technology", "sales_m": 999.0},
	}

	out, err := AddMoMYoY(rows, []string{"category"}, []string{"sales_m"}, "month_key")
	require.NoError(t, err)
	require.Len(t, out, 3)

	byCat := map[string][]Row{}
	for _, r := range out {
		cat := r["category"].(string)
		byCat[cat] = append(byCat[cat], r)
	}

	assert.Equal(t, 50.0, byCat["Furniture"][1]["sales_m_mom"])
	// Technology has no 2016-01 row; its lone month must not borrow Furniture's.
	assert.Nil(t, byCat["Technology"][0]["sales_m_mom"])
}

func TestAddMoMYoYUnsortedInput(t *testing.T) {
	rows := monthlyRows("2016-01", []float64{100, 110, 120})
	shuffled := []Row{rows[2], rows[0], rows[1]}

	out, err := AddMoMYoY(shuffled, nil, []string{"sales_m"}, "month_key")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "2016-01", out[0]["month_key"])
	assert.Equal(t, "2016-03", out[2]["month_key"])
	assert.Equal(t, 10.0, out[2]["sales_m_mom"])
}

func TestAddMoMYoYDeterministic(t *testing.T) {
	rows := []Row{
		{"month_key": "2016-01", "segment": "Consumer", "sales_m": 10.0, "profit_m": 1.0},
		{"month_key": "2016-02", "segment": "Consumer", "sales_m": 20.0, "profit_m": -2.0},
		{"month_key": "2016-01", "segment": "Corporate", "sales_m": 30.0, "profit_m": 3.0},
		{"month_key": "2016-02", "segment": "Corporate", "sales_m": 40.0, "profit_m": 4.0},
	}
	cols := []string{"sales_m", "profit_m"}

	first, err := AddMoMYoY(rows, []string{"segment"}, cols, "month_key")
	require.NoError(t, err)
	second, err := AddMoMYoY(rows, []string{"segment"}, cols, "month_key")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAddMoMYoYRejectsBadMonthKey(t *testing.T) {
	_, err := AddMoMYoY([]Row{{"month_key": "not-a-month", "sales_m": 1.0}}, nil, []string{"sales_m"}, "month_key")
	assert.Error(t, err)
}
