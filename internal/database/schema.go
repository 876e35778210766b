package database

import (
	"fmt"
	"strings"
)

// Schema for the synthetic e-commerce dataset the reports run against.
// Column sets follow the upstream data generator; orders and order_items
// carry the base lookup indexes from day one.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
	    customer_id BIGINT PRIMARY KEY,
	    first_name VARCHAR(64),
	    last_name  VARCHAR(64),
	    email      VARCHAR(128),
	    signup_date DATE,
	    country    VARCHAR(64),
	    city       VARCHAR(64),
	    marketing_opt_in TINYINT(1),
	    acquisition_source VARCHAR(32)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS products (
	    product_id BIGINT PRIMARY KEY,
	    category   VARCHAR(64),
	    subcategory VARCHAR(64),
	    brand      VARCHAR(64),
	    price      DECIMAL(10,2),
	    cost       DECIMAL(10,2),
	    created_at DATE,
	    is_active  TINYINT(1)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
	    order_id   BIGINT PRIMARY KEY,
	    customer_id BIGINT,
	    order_date DATETIME,
	    status     VARCHAR(16),
	    currency   CHAR(3),
	    payment_method VARCHAR(16),
	    shipping_country VARCHAR(64),
	    discount   DECIMAL(10,2),
	    total_amount DECIMAL(12,2),
	    INDEX idx_orders_customer (customer_id),
	    INDEX idx_orders_date (order_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS order_items (
	    order_item_id BIGINT PRIMARY KEY,
	    order_id  BIGINT,
	    product_id BIGINT,
	    quantity  INT,
	    unit_price DECIMAL(10,2),
	    line_total DECIMAL(12,2),
	    INDEX idx_items_order (order_id),
	    INDEX idx_items_product (product_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Supporting indexes for the trailing-window report. The date+country
// index lets the window filter and group key come out of one scan; the
// order+product index covers the item-side join.
var reportIndexStatements = []string{
	`CREATE INDEX idx_orders_date_country ON orders (order_date, shipping_country)`,
	`CREATE INDEX idx_items_order_product ON order_items (order_id, product_id)`,
}

// SalesTables lists the report's input tables in FK-safe drop order.
var SalesTables = []string{"order_items", "orders", "products", "customers"}

// SetupSchema creates the four sales tables
func (db *DB) SetupSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// EnsureReportIndexes creates the supporting report indexes. Duplicate
// index errors are ignored so setup stays re-runnable.
func (db *DB) EnsureReportIndexes() error {
	for _, stmt := range reportIndexStatements {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("failed to create report index: %w", err)
		}
	}
	return nil
}

// CleanupData removes all rows from the sales tables (but keeps schema)
func (db *DB) CleanupData() error {
	for _, table := range SalesTables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return nil
}

// DropSchema removes the sales tables entirely
func (db *DB) DropSchema() error {
	for _, table := range SalesTables {
		if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return err
		}
	}
	return nil
}

// TableCount returns the number of rows in a sales table
func (db *DB) TableCount(table string) (int64, error) {
	var count int64
	err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
