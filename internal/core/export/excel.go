package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Answer"

// writeExcel renders the table as a workbook with a bold header row,
// frozen header and auto-filter.
func writeExcel(t *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	rowIndex := 1
	if t.Title != "" {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), t.Title)
		titleStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 14},
		})
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowIndex), fmt.Sprintf("A%d", rowIndex), titleStyle)
		rowIndex += 2
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := rowIndex
	for colIndex, col := range t.Columns {
		cell := columnName(colIndex+1) + strconv.Itoa(rowIndex)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	rowIndex++

	for _, row := range t.Rows {
		for colIndex, value := range row {
			cell := columnName(colIndex+1) + strconv.Itoa(rowIndex)
			if value != nil {
				f.SetCellValue(sheetName, cell, value)
			}
		}
		rowIndex++
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	})

	if len(t.Columns) > 0 && len(t.Rows) > 0 {
		lastCol := columnName(len(t.Columns))
		lastRow := headerRow + len(t.Rows)
		f.AutoFilter(sheetName, fmt.Sprintf("A%d:%s%d", headerRow, lastCol, lastRow), nil)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// columnName converts a column number to its Excel name (1 -> A, 27 -> AA).
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+(col%26))) + name
		col /= 26
	}
	return name
}
