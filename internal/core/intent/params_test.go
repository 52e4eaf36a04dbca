package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnknownIntentFallsBackToOverview(t *testing.T) {
	p := Normalize(Params{Intent: "make_me_a_sandwich"}, "2017-12")
	assert.Equal(t, IntentLatestMonthOverview, p.Intent)
	assert.Equal(t, "2017-12", p.MonthKey)
}

func TestNormalizeDefaults(t *testing.T) {
	p := Normalize(Params{Intent: IntentTopNByMetricInMonth}, "2017-12")
	assert.Equal(t, "sales", p.Metric)
	assert.Equal(t, 5, p.TopN)
	assert.Equal(t, "product", p.GroupBy)
	assert.Equal(t, "2017-12", p.MonthKey)
}

func TestNormalizePerIntentGroupBy(t *testing.T) {
	cases := map[string]string{
		IntentTopNByMetricInMonth: "product",
		IntentCompareMoMGroup:     "category",
		IntentMostNegativeProfit:  "subcategory",
	}
	for in, want := range cases {
		p := Normalize(Params{Intent: in, GroupBy: "nonexistent_dimension"}, "2017-12")
		assert.Equal(t, want, p.GroupBy, in)
	}
}

func TestNormalizeKeepsKnownGroupBy(t *testing.T) {
	p := Normalize(Params{Intent: IntentTopNByMetricInMonth, GroupBy: "state"}, "2017-12")
	assert.Equal(t, "state", p.GroupBy)
}

func TestNormalizeMostNegativeForcesProfit(t *testing.T) {
	p := Normalize(Params{Intent: IntentMostNegativeProfit, Metric: "sales"}, "2017-12")
	assert.Equal(t, "profit", p.Metric)
}

func TestNormalizeTopN(t *testing.T) {
	assert.Equal(t, 5, Normalize(Params{TopN: 0}, "").TopN)
	assert.Equal(t, 5, Normalize(Params{TopN: -3}, "").TopN)
	assert.Equal(t, 10, Normalize(Params{TopN: 10}, "").TopN)
}

func TestNormalizeKeepsExplicitMonth(t *testing.T) {
	p := Normalize(Params{Intent: IntentLatestMonthOverview, MonthKey: "2016-03"}, "2017-12")
	assert.Equal(t, "2016-03", p.MonthKey)
}

func TestNormalizeTrendRangeClearsMonthKey(t *testing.T) {
	p := Normalize(Params{Intent: IntentTrendRange, MonthKey: "2016-03", MonthFrom: "2016-01", MonthTo: "2016-12"}, "2017-12")
	assert.Empty(t, p.MonthKey)
	assert.Equal(t, "2016-01", p.MonthFrom)
	assert.Equal(t, "2016-12", p.MonthTo)
	assert.Empty(t, p.GroupBy, "trend is global only")
}
