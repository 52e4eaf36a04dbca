package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// writePDF renders the table as a landscape A4 document, repeating the
// header row on page breaks.
func writePDF(t *Table, w io.Writer) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("no columns to export")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	if t.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, t.Title)
		pdf.Ln(12)
	}

	if !t.Generated.IsZero() {
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", t.Generated.Format("2006-01-02 15:04:05")))
		pdf.Ln(10)
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	leftMargin, _, rightMargin, bottomMargin := pdf.GetMargins()
	colWidth := (pageWidth - leftMargin - rightMargin) / float64(len(t.Columns))

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for _, col := range t.Columns {
			pdf.CellFormat(colWidth, 7, col, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", 9)
	}

	drawHeader()
	for _, row := range t.Rows {
		for _, value := range row {
			pdf.CellFormat(colWidth, 6, cellString(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		if pdf.GetY() > pageHeight-bottomMargin-10 {
			pdf.AddPage()
			drawHeader()
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
