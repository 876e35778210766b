package seed

import (
	"fmt"
	"strings"

	"github.com/matthieukhl/salescope/internal/database"
	"github.com/matthieukhl/salescope/internal/models"
)

// Loader writes generated rows into MySQL with multi-row INSERTs.
type Loader struct {
	db        *database.DB
	batchSize int
}

func NewLoader(db *database.DB, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Loader{db: db, batchSize: batchSize}
}

func (l *Loader) insertBatches(table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	placeholder := "(" + strings.Repeat("?,", len(columns)-1) + "?)"

	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		placeholders := make([]string, len(batch))
		args := make([]any, 0, len(batch)*len(columns))
		for i, row := range batch {
			placeholders[i] = placeholder
			args = append(args, row...)
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
		if _, err := l.db.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

func (l *Loader) Customers(customers []models.Customer) error {
	rows := make([][]any, len(customers))
	for i, c := range customers {
		rows[i] = []any{c.CustomerID, c.FirstName, c.LastName, c.Email,
			c.SignupDate.Format("2006-01-02"), c.Country, c.City, c.MarketingOptIn, c.AcquisitionSource}
	}
	return l.insertBatches("customers",
		[]string{"customer_id", "first_name", "last_name", "email", "signup_date",
			"country", "city", "marketing_opt_in", "acquisition_source"}, rows)
}

func (l *Loader) Products(products []models.Product) error {
	rows := make([][]any, len(products))
	for i, p := range products {
		rows[i] = []any{p.ProductID, p.Category, p.Subcategory, p.Brand,
			p.Price, p.Cost, p.CreatedAt.Format("2006-01-02"), p.IsActive}
	}
	return l.insertBatches("products",
		[]string{"product_id", "category", "subcategory", "brand", "price", "cost",
			"created_at", "is_active"}, rows)
}

func (l *Loader) Orders(orders []models.Order) error {
	rows := make([][]any, len(orders))
	for i, o := range orders {
		rows[i] = []any{o.OrderID, o.CustomerID, o.OrderDate.Format("2006-01-02 15:04:05"),
			o.Status, o.Currency, o.PaymentMethod, o.ShippingCountry, o.Discount, o.TotalAmount}
	}
	return l.insertBatches("orders",
		[]string{"order_id", "customer_id", "order_date", "status", "currency",
			"payment_method", "shipping_country", "discount", "total_amount"}, rows)
}

func (l *Loader) OrderItems(items []models.OrderItem) error {
	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = []any{it.OrderItemID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.LineTotal}
	}
	return l.insertBatches("order_items",
		[]string{"order_item_id", "order_id", "product_id", "quantity", "unit_price", "line_total"}, rows)
}
