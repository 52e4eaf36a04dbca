package models

import (
	"time"
)

// Star-schema tables for the sales mart. Rows are produced by the
// datamart builder from the raw order workbook.

type DimDate struct {
	DateKey  int       `json:"date_key" gorm:"column:date_key;primaryKey"`
	Date     time.Time `json:"date" gorm:"column:date"`
	Year     int       `json:"yyyy" gorm:"column:yyyy"`
	Month    int       `json:"mm" gorm:"column:mm"`
	Day      int       `json:"dd" gorm:"column:dd"`
	Quarter  int       `json:"qtr" gorm:"column:qtr"`
	Week     int       `json:"week" gorm:"column:week"`
	MonthKey string    `json:"month_key" gorm:"column:month_key"`
}

func (DimDate) TableName() string { return "dim_date" }

type DimProduct struct {
	ProductID   string `json:"product_id" gorm:"column:product_id"`
	ProductName string `json:"product_name" gorm:"column:product_name"`
	Subcategory string `json:"subcategory" gorm:"column:subcategory"`
	Category    string `json:"category" gorm:"column:category"`
}

func (DimProduct) TableName() string { return "dim_product" }

type DimCustomer struct {
	CustomerID   string `json:"customer_id" gorm:"column:customer_id"`
	CustomerName string `json:"customer_name" gorm:"column:customer_name"`
	Segment      string `json:"segment" gorm:"column:segment"`
}

func (DimCustomer) TableName() string { return "dim_customer" }

type DimGeo struct {
	Country    string `json:"country" gorm:"column:country"`
	Region     string `json:"region" gorm:"column:region"`
	State      string `json:"state" gorm:"column:state"`
	City       string `json:"city" gorm:"column:city"`
	PostalCode string `json:"postal_code" gorm:"column:postal_code"`
}

func (DimGeo) TableName() string { return "dim_geo" }

type FactSales struct {
	OrderID    string    `json:"order_id" gorm:"column:order_id;index"`
	DateKey    int       `json:"date_key" gorm:"column:date_key"`
	OrderDate  time.Time `json:"order_date" gorm:"column:order_date"`
	ShipDate   time.Time `json:"ship_date" gorm:"column:ship_date"`
	ProductID  string    `json:"product_id" gorm:"column:product_id;index"`
	CustomerID string    `json:"customer_id" gorm:"column:customer_id"`
	Country    string    `json:"country" gorm:"column:country"`
	Region     string    `json:"region" gorm:"column:region"`
	State      string    `json:"state" gorm:"column:state"`
	City       string    `json:"city" gorm:"column:city"`
	Qty        float64   `json:"qty" gorm:"column:qty"`
	Sales      float64   `json:"sales" gorm:"column:sales"`
	Discount   float64   `json:"discount" gorm:"column:discount"`
	Profit     float64   `json:"profit" gorm:"column:profit"`
	CostEst    float64   `json:"cost_est" gorm:"column:cost_est"`
	MonthKey   string    `json:"month_key" gorm:"column:month_key;index"`
	ShipMode   string    `json:"ship_mode" gorm:"column:ship_mode"`
}

func (FactSales) TableName() string { return "fact_sales" }
