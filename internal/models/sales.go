package models

import (
	"time"
)

// Customer represents a row in the customers table
type Customer struct {
	CustomerID        int64     `json:"customer_id" db:"customer_id"`
	FirstName         string    `json:"first_name" db:"first_name"`
	LastName          string    `json:"last_name" db:"last_name"`
	Email             string    `json:"email" db:"email"`
	SignupDate        time.Time `json:"signup_date" db:"signup_date"`
	Country           string    `json:"country" db:"country"`
	City              string    `json:"city" db:"city"`
	MarketingOptIn    bool      `json:"marketing_opt_in" db:"marketing_opt_in"`
	AcquisitionSource string    `json:"acquisition_source" db:"acquisition_source"`
}

// Product represents a row in the products table
type Product struct {
	ProductID   int64     `json:"product_id" db:"product_id"`
	Category    string    `json:"category" db:"category"`
	Subcategory string    `json:"subcategory" db:"subcategory"`
	Brand       string    `json:"brand" db:"brand"`
	Price       float64   `json:"price" db:"price"`
	Cost        float64   `json:"cost" db:"cost"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	IsActive    bool      `json:"is_active" db:"is_active"`
}

// Order represents a row in the orders table
type Order struct {
	OrderID         int64     `json:"order_id" db:"order_id"`
	CustomerID      int64     `json:"customer_id" db:"customer_id"`
	OrderDate       time.Time `json:"order_date" db:"order_date"`
	Status          string    `json:"status" db:"status"`
	Currency        string    `json:"currency" db:"currency"`
	PaymentMethod   string    `json:"payment_method" db:"payment_method"`
	ShippingCountry string    `json:"shipping_country" db:"shipping_country"`
	Discount        float64   `json:"discount" db:"discount"`
	TotalAmount     float64   `json:"total_amount" db:"total_amount"`
}

// OrderItem represents a row in the order_items table
type OrderItem struct {
	OrderItemID int64   `json:"order_item_id" db:"order_item_id"`
	OrderID     int64   `json:"order_id" db:"order_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	Quantity    int     `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	LineTotal   float64 `json:"line_total" db:"line_total"`
}

// CountryCategorySales is one output row of the trailing-window sales
// report: all eligible order activity for a single (shipping country,
// product category) pair.
type CountryCategorySales struct {
	ShippingCountry string  `json:"shipping_country" db:"shipping_country"`
	Category        string  `json:"category" db:"category"`
	Orders          int64   `json:"orders" db:"orders"`
	Units           int64   `json:"units" db:"units"`
	Revenue         float64 `json:"revenue" db:"revenue"`
	UniqueCustomers int64   `json:"unique_customers" db:"unique_customers"`
}

// Order statuses
const (
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)
