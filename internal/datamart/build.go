package datamart

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/models"
)

// Builder materializes the star schema (dimension and fact tables) in the
// sales mart from cleaned order records. Each run fully replaces the
// previous tables.
type Builder struct {
	db *gorm.DB
}

func NewBuilder(db *gorm.DB) *Builder {
	return &Builder{db: db}
}

// Build writes dim_date, dim_product, dim_customer, dim_geo and fact_sales,
// then recreates the monthly summary views.
func (b *Builder) Build(records []Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to build from")
	}

	if err := replaceTable(b.db, &models.DimDate{}, buildDimDate(records)); err != nil {
		return fmt.Errorf("failed to build dim_date: %w", err)
	}
	if err := replaceTable(b.db, &models.DimProduct{}, buildDimProduct(records)); err != nil {
		return fmt.Errorf("failed to build dim_product: %w", err)
	}
	if err := replaceTable(b.db, &models.DimCustomer{}, buildDimCustomer(records)); err != nil {
		return fmt.Errorf("failed to build dim_customer: %w", err)
	}
	if err := replaceTable(b.db, &models.DimGeo{}, buildDimGeo(records)); err != nil {
		return fmt.Errorf("failed to build dim_geo: %w", err)
	}
	if err := replaceTable(b.db, &models.FactSales{}, buildFactSales(records)); err != nil {
		return fmt.Errorf("failed to build fact_sales: %w", err)
	}

	if err := b.createViews(); err != nil {
		return fmt.Errorf("failed to create summary views: %w", err)
	}

	log.Info().Int("orders", len(records)).Msg("✅ Sales mart star schema rebuilt")
	return nil
}

const insertBatchSize = 500

func replaceTable[T any](db *gorm.DB, model *T, rows []T) error {
	migrator := db.Migrator()
	if migrator.HasTable(model) {
		if err := migrator.DropTable(model); err != nil {
			return err
		}
	}
	if err := migrator.AutoMigrate(model); err != nil {
		return err
	}
	return db.CreateInBatches(rows, insertBatchSize).Error
}

func buildDimDate(records []Record) []models.DimDate {
	byDate := map[int]time.Time{}
	for _, r := range records {
		byDate[dateKey(r.OrderDate)] = r.OrderDate
	}

	keys := make([]int, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	dims := make([]models.DimDate, 0, len(keys))
	for _, k := range keys {
		d := byDate[k]
		_, week := d.ISOWeek()
		dims = append(dims, models.DimDate{
			DateKey:  k,
			Date:     d,
			Year:     d.Year(),
			Month:    int(d.Month()),
			Day:      d.Day(),
			Quarter:  (int(d.Month())-1)/3 + 1,
			Week:     week,
			MonthKey: d.Format("2006-01"),
		})
	}
	return dims
}

func buildDimProduct(records []Record) []models.DimProduct {
	seen := map[string]struct{}{}
	var dims []models.DimProduct
	for _, r := range records {
		key := r.ProductID + "\x1f" + r.ProductName + "\x1f" + r.Subcategory + "\x1f" + r.Category
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dims = append(dims, models.DimProduct{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Subcategory: r.Subcategory,
			Category:    r.Category,
		})
	}
	return dims
}

func buildDimCustomer(records []Record) []models.DimCustomer {
	seen := map[string]struct{}{}
	var dims []models.DimCustomer
	for _, r := range records {
		key := r.CustomerID + "\x1f" + r.CustomerName + "\x1f" + r.Segment
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dims = append(dims, models.DimCustomer{
			CustomerID:   r.CustomerID,
			CustomerName: r.CustomerName,
			Segment:      r.Segment,
		})
	}
	return dims
}

func buildDimGeo(records []Record) []models.DimGeo {
	seen := map[string]struct{}{}
	var dims []models.DimGeo
	for _, r := range records {
		key := r.Country + "\x1f" + r.Region + "\x1f" + r.State + "\x1f" + r.City + "\x1f" + r.PostalCode
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dims = append(dims, models.DimGeo{
			Country:    r.Country,
			Region:     r.Region,
			State:      r.State,
			City:       r.City,
			PostalCode: r.PostalCode,
		})
	}
	return dims
}

func buildFactSales(records []Record) []models.FactSales {
	facts := make([]models.FactSales, 0, len(records))
	for _, r := range records {
		facts = append(facts, models.FactSales{
			OrderID:    r.OrderID,
			DateKey:    dateKey(r.OrderDate),
			OrderDate:  r.OrderDate,
			ShipDate:   r.ShipDate,
			ProductID:  r.ProductID,
			CustomerID: r.CustomerID,
			Country:    r.Country,
			Region:     r.Region,
			State:      r.State,
			City:       r.City,
			Qty:        r.Qty,
			Sales:      r.Sales,
			Discount:   r.Discount,
			Profit:     r.Profit,
			CostEst:    r.CostEst,
			MonthKey:   r.MonthKey,
			ShipMode:   r.ShipMode,
		})
	}
	return facts
}

func dateKey(d time.Time) int {
	return d.Year()*10000 + int(d.Month())*100 + d.Day()
}

func (b *Builder) createViews() error {
	statements := []string{
		`DROP VIEW IF EXISTS v_monthly_sales`,
		`CREATE VIEW v_monthly_sales AS
		 SELECT month_key,
		        SUM(sales) AS sales_m,
		        SUM(profit) AS profit_m,
		        COUNT(DISTINCT order_id) AS orders_m
		 FROM fact_sales
		 GROUP BY 1`,
		`DROP VIEW IF EXISTS v_product_monthly`,
		`CREATE VIEW v_product_monthly AS
		 SELECT month_key,
		        product_id,
		        SUM(sales) AS sales_m,
		        SUM(profit) AS profit_m,
		        SUM(qty) AS qty_m
		 FROM fact_sales
		 GROUP BY 1, 2`,
	}
	for _, stmt := range statements {
		if err := b.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
