package coverage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeQuerier struct {
	byTable map[string][]map[string]interface{}
}

func (f *fakeQuerier) ExecuteRead(_ context.Context, sql string, _ ...interface{}) ([]map[string]interface{}, error) {
	for table, rows := range f.byTable {
		if strings.Contains(sql, "FROM "+table) {
			return rows, nil
		}
	}
	return nil, errors.New("no such table")
}

func TestWindowFromFirstCandidate(t *testing.T) {
	g := NewGuard(&fakeQuerier{byTable: map[string][]map[string]interface{}{
		"kpi_monthly": {{"min_month_key": "2014-01", "max_month_key": "2017-12"}},
	}})

	w := g.Window(context.Background())
	assert.True(t, w.Known())
	assert.Equal(t, "2014-01", w.Min)
	assert.Equal(t, "2017-12", w.Max)
}

func TestWindowFallsBackToFactTable(t *testing.T) {
	g := NewGuard(&fakeQuerier{byTable: map[string][]map[string]interface{}{
		"fact_sales": {{"min_month_key": "2015-06", "max_month_key": "2016-06"}},
	}})

	w := g.Window(context.Background())
	assert.Equal(t, "2015-06", w.Min)
}

func TestWindowUnknownWhenNothingAnswers(t *testing.T) {
	g := NewGuard(&fakeQuerier{byTable: map[string][]map[string]interface{}{}})
	assert.False(t, g.Window(context.Background()).Known())

	// NULL aggregates from an empty table also mean unknown.
	g = NewGuard(&fakeQuerier{byTable: map[string][]map[string]interface{}{
		"kpi_monthly": {{"min_month_key": nil, "max_month_key": nil}},
	}})
	assert.False(t, g.Window(context.Background()).Known())
}

func TestStatus(t *testing.T) {
	w := Window{Min: "2014-01", Max: "2017-12"}

	assert.Equal(t, StatusInRange, Status(w, "2016-07"))
	assert.Equal(t, StatusOutOfRange, Status(w, "2019-01"))
	assert.Equal(t, StatusOutOfRange, Status(w, "2013-12", "2019-01"))
	assert.Equal(t, StatusInRange, Status(w, "2019-01", "2016-01"), "one in-range month is enough")
	assert.Equal(t, StatusInRange, Status(w), "no referenced months")
	assert.Equal(t, StatusInRange, Status(w, "", ""))
	assert.Equal(t, StatusUnknown, Status(Window{}, "2016-07"))
}
