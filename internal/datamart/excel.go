package datamart

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Record is one cleaned order line from the source workbook.
type Record struct {
	OrderID      string
	OrderDate    time.Time
	ShipDate     time.Time
	ShipMode     string
	CustomerID   string
	CustomerName string
	Segment      string
	Country      string
	City         string
	State        string
	PostalCode   string
	Region       string
	ProductID    string
	Category     string
	Subcategory  string
	ProductName  string
	Sales        float64
	Qty          float64
	Discount     float64
	Profit       float64

	MonthKey string
	CostEst  float64
}

var requiredColumns = []string{
	"Order ID", "Order Date", "Ship Date", "Ship Mode",
	"Customer ID", "Customer Name", "Segment",
	"Country", "City", "State", "Postal Code", "Region",
	"Product ID", "Category", "Sub-Category", "Product Name",
	"Sales", "Quantity", "Discount", "Profit",
}

// LoadOrders reads the raw order export (.xlsx or .csv), validates the
// header, and returns cleaned, de-duplicated records. Rows missing an
// order id, order date, product id, sales or profit value are dropped.
func LoadOrders(path string) ([]Record, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q, expected .xlsx or .csv", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("input %s has no data rows", path)
	}

	return parseRows(rows)
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

func parseRows(rows [][]string) ([]Record, error) {
	colIdx := map[string]int{}
	for i, name := range rows[0] {
		colIdx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := colIdx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, name string) string {
		i := colIdx[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	seen := map[string]struct{}{}
	records := make([]Record, 0, len(rows)-1)

	for _, row := range rows[1:] {
		orderID := cell(row, "Order ID")
		productID := cell(row, "Product ID")
		orderDate, dateErr := parseDate(cell(row, "Order Date"))
		sales, salesErr := parseFloat(cell(row, "Sales"))
		profit, profitErr := parseFloat(cell(row, "Profit"))
		if orderID == "" || productID == "" || dateErr != nil || salesErr != nil || profitErr != nil {
			continue
		}

		shipDate, _ := parseDate(cell(row, "Ship Date"))
		qty, _ := parseFloat(cell(row, "Quantity"))
		discount, _ := parseFloat(cell(row, "Discount"))

		rec := Record{
			OrderID:      orderID,
			OrderDate:    orderDate,
			ShipDate:     shipDate,
			ShipMode:     cell(row, "Ship Mode"),
			CustomerID:   cell(row, "Customer ID"),
			CustomerName: cell(row, "Customer Name"),
			Segment:      cell(row, "Segment"),
			Country:      cell(row, "Country"),
			City:         cell(row, "City"),
			State:        cell(row, "State"),
			PostalCode:   cell(row, "Postal Code"),
			Region:       cell(row, "Region"),
			ProductID:    productID,
			Category:     cell(row, "Category"),
			Subcategory:  cell(row, "Sub-Category"),
			ProductName:  cell(row, "Product Name"),
			Sales:        sales,
			Qty:          qty,
			Discount:     discount,
			Profit:       profit,
			MonthKey:     orderDate.Format("2006-01"),
			CostEst:      sales - profit,
		}

		key := dedupKey(rec)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no usable rows after cleaning")
	}
	return records, nil
}

func dedupKey(r Record) string {
	return strings.Join([]string{
		r.OrderID, r.OrderDate.Format("2006-01-02"), r.ProductID, r.CustomerID,
		strconv.FormatFloat(r.Sales, 'g', -1, 64),
		strconv.FormatFloat(r.Qty, 'g', -1, 64),
		strconv.FormatFloat(r.Discount, 'g', -1, 64),
		strconv.FormatFloat(r.Profit, 'g', -1, 64),
	}, "\x1f")
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"02/01/2006",
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// Excel serial dates show up when the sheet has no date format applied.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
