package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []map[string]interface{} {
	return []map[string]interface{}{
		{"month_key": "2017-11", "product_name": "Padded Chair", "sales": 731.94},
		{"month_key": "2017-12", "product_name": "Somerset Bookcase", "sales": 261.96},
	}
}

func TestFromAnswerColumnOrder(t *testing.T) {
	table := FromAnswer("top products", sampleRows())

	assert.Equal(t, []string{"month_key", "product_name", "sales"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2017-11", table.Rows[0][0])
	assert.Equal(t, 731.94, table.Rows[0][2])
}

func TestFromAnswerUnknownColumnsSortAlphabetically(t *testing.T) {
	table := FromAnswer("", []map[string]interface{}{
		{"zeta": 1, "alpha": 2, "month_key": "2017-01"},
	})
	assert.Equal(t, []string{"month_key", "alpha", "zeta"}, table.Columns)
}

func TestExportExcelRoundTrip(t *testing.T) {
	svc := NewService()
	data, contentType, ext, err := svc.Export(FromAnswer("top products", sampleRows()), FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", ext)
	assert.Contains(t, contentType, "spreadsheetml")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Answer")
	require.NoError(t, err)
	// Title row, blank row, header row, two data rows.
	require.Len(t, rows, 5)
	assert.Equal(t, "top products", rows[0][0])
	assert.Equal(t, []string{"month_key", "product_name", "sales"}, rows[2])
}

func TestExportPDF(t *testing.T) {
	svc := NewService()
	data, contentType, ext, err := svc.Export(FromAnswer("top products", sampleRows()), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, ".pdf", ext)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := NewService()
	_, _, _, err := svc.Export(FromAnswer("x", sampleRows()), Format("csv"))
	require.Error(t, err)
}

func TestExportPDFWithoutColumns(t *testing.T) {
	svc := NewService()
	_, _, _, err := svc.Export(FromAnswer("empty", nil), FormatPDF)
	require.Error(t, err)
}
