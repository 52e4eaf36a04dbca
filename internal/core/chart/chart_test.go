package chart

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []map[string]interface{} {
	return []map[string]interface{}{
		{"month_key": "2016-01", "sales": 100.0},
		{"month_key": "2016-02", "sales": 300.0},
		{"month_key": "2016-03", "sales": 200.0},
	}
}

func TestSpecValidate(t *testing.T) {
	spec := &Spec{ChartType: "line", X: "month_key", Y: "sales"}
	assert.NoError(t, spec.Validate(sampleRows()))
}

func TestSpecValidateCaseInsensitive(t *testing.T) {
	rows := []map[string]interface{}{{"Month_Key": "2016-01", "SALES": 1.0}}
	spec := &Spec{ChartType: "bar", X: "month_key", Y: "sales"}
	assert.NoError(t, spec.Validate(rows))
}

func TestSpecValidateRejects(t *testing.T) {
	rows := sampleRows()

	assert.Error(t, (&Spec{ChartType: "pie", X: "month_key", Y: "sales"}).Validate(rows))
	assert.Error(t, (&Spec{X: "month_key"}).Validate(rows))
	assert.Error(t, (&Spec{X: "month_key", Y: "revenue"}).Validate(rows))
	assert.Error(t, (&Spec{X: "month_key", Y: "sales", Sort: "z"}).Validate(rows))
	assert.Error(t, (&Spec{X: "month_key", Y: "sales"}).Validate(nil))

	var missing *Spec
	assert.Error(t, missing.Validate(rows))
}

func TestBuildSortX(t *testing.T) {
	rows := []map[string]interface{}{
		{"month_key": "2016-03", "sales": 200.0},
		{"month_key": "2016-01", "sales": 100.0},
	}
	data := Build(rows, Spec{ChartType: "line", X: "month_key", Y: "sales", Sort: "x"})

	assert.Equal(t, "line", data.Type)
	assert.Equal(t, []string{"2016-01", "2016-03"}, data.Labels)
	assert.Equal(t, []interface{}{100.0, 200.0}, data.Data[0].Values)
}

func TestBuildSortYDescAndLimit(t *testing.T) {
	data := Build(sampleRows(), Spec{ChartType: "bar", X: "month_key", Y: "sales", Sort: "y", Limit: 2})

	assert.Equal(t, "bar", data.Type)
	assert.Equal(t, []string{"2016-02", "2016-03"}, data.Labels)
	assert.Len(t, data.Data[0].Values, 2)
}

func TestBuildUppercaseColumns(t *testing.T) {
	rows := []map[string]interface{}{{"MONTH_KEY": "2016-01", "Sales": 42.0}}
	data := Build(rows, Spec{X: "month_key", Y: "sales"})

	assert.Equal(t, []string{"2016-01"}, data.Labels)
	assert.Equal(t, []interface{}{42.0}, data.Data[0].Values)
}

func TestBuildDefaultsToLine(t *testing.T) {
	data := Build(sampleRows(), Spec{X: "month_key", Y: "sales"})
	assert.Equal(t, "line", data.Type)
	assert.Len(t, data.Labels, 3)
}

func TestStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	rel, err := store.Save(ChartData{Type: "line", Labels: []string{"a"}, Data: []Series{{Name: "sales", Values: []interface{}{1.0}}}})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)

	var decoded ChartData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "line", decoded.Type)
}
