package report

import (
	"context"
	"fmt"

	"github.com/matthieukhl/salescope/internal/database"
	"github.com/matthieukhl/salescope/internal/models"
	"golang.org/x/sync/errgroup"
)

// Snapshot is a point-in-time copy of the four report inputs. Aggregate
// never mutates it, so one snapshot can serve any number of report runs.
type Snapshot struct {
	Orders     []models.Order
	OrderItems []models.OrderItem
	Products   []models.Product
	Customers  []models.Customer
}

type groupKey struct {
	country  string
	category string
}

type groupAccum struct {
	orders    map[int64]struct{}
	customers map[int64]struct{}
	units     int64
	revenue   float64
}

// Aggregate computes the trailing-window sales report over an in-memory
// snapshot. Order items whose order, product or customer is missing are
// dropped, matching the SQL backend's inner-join semantics.
func Aggregate(snap Snapshot, opts Options) []models.CountryCategorySales {
	opts = opts.withDefaults()

	products := make(map[int64]string, len(snap.Products))
	for _, p := range snap.Products {
		products[p.ProductID] = p.Category
	}
	customers := make(map[int64]struct{}, len(snap.Customers))
	for _, c := range snap.Customers {
		customers[c.CustomerID] = struct{}{}
	}

	// Eligible order projection: the optimized formulation materializes
	// it up front (the CTE shape), the direct formulation applies the
	// window check while joining. Same predicate either way.
	eligible := make(map[int64]*models.Order, len(snap.Orders))
	if opts.Formulation == FormulationOptimized {
		for i := range snap.Orders {
			o := &snap.Orders[i]
			if inWindow(o.OrderDate, opts.Now, opts.WindowDays, opts.Policy) {
				eligible[o.OrderID] = o
			}
		}
	} else {
		for i := range snap.Orders {
			eligible[snap.Orders[i].OrderID] = &snap.Orders[i]
		}
	}

	groups := make(map[groupKey]*groupAccum)
	for _, item := range snap.OrderItems {
		o, ok := eligible[item.OrderID]
		if !ok {
			continue
		}
		if opts.Formulation != FormulationOptimized &&
			!inWindow(o.OrderDate, opts.Now, opts.WindowDays, opts.Policy) {
			continue
		}
		category, ok := products[item.ProductID]
		if !ok {
			continue
		}
		if _, ok := customers[o.CustomerID]; !ok {
			continue
		}

		key := groupKey{country: o.ShippingCountry, category: category}
		g := groups[key]
		if g == nil {
			g = &groupAccum{
				orders:    make(map[int64]struct{}),
				customers: make(map[int64]struct{}),
			}
			groups[key] = g
		}
		g.orders[o.OrderID] = struct{}{}
		g.customers[o.CustomerID] = struct{}{}
		g.units += int64(item.Quantity)
		g.revenue += item.LineTotal
	}

	rows := make([]models.CountryCategorySales, 0, len(groups))
	for key, g := range groups {
		rows = append(rows, models.CountryCategorySales{
			ShippingCountry: key.country,
			Category:        key.category,
			Orders:          int64(len(g.orders)),
			Units:           g.units,
			Revenue:         round2(g.revenue),
			UniqueCustomers: int64(len(g.customers)),
		})
	}
	return sortAndLimit(rows, opts.Limit)
}

// LoadSnapshot reads all four report inputs from the database, one query
// per table, fetched concurrently. Any failure aborts the whole load.
func LoadSnapshot(ctx context.Context, db *database.DB) (*Snapshot, error) {
	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := db.QueryContext(ctx,
			`SELECT order_id, customer_id, order_date, status, currency,
			        payment_method, shipping_country, discount, total_amount
			 FROM orders`)
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var o models.Order
			if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.OrderDate, &o.Status,
				&o.Currency, &o.PaymentMethod, &o.ShippingCountry, &o.Discount, &o.TotalAmount); err != nil {
				return fmt.Errorf("failed to scan order: %w", err)
			}
			snap.Orders = append(snap.Orders, o)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := db.QueryContext(ctx,
			`SELECT order_item_id, order_id, product_id, quantity, unit_price, line_total
			 FROM order_items`)
		if err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var it models.OrderItem
			if err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.ProductID,
				&it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
				return fmt.Errorf("failed to scan order item: %w", err)
			}
			snap.OrderItems = append(snap.OrderItems, it)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := db.QueryContext(ctx,
			`SELECT product_id, category, subcategory, brand, price, cost, created_at, is_active
			 FROM products`)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var p models.Product
			if err := rows.Scan(&p.ProductID, &p.Category, &p.Subcategory, &p.Brand,
				&p.Price, &p.Cost, &p.CreatedAt, &p.IsActive); err != nil {
				return fmt.Errorf("failed to scan product: %w", err)
			}
			snap.Products = append(snap.Products, p)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := db.QueryContext(ctx,
			`SELECT customer_id, first_name, last_name, email, signup_date,
			        country, city, marketing_opt_in, acquisition_source
			 FROM customers`)
		if err != nil {
			return fmt.Errorf("failed to load customers: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var c models.Customer
			if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.Email,
				&c.SignupDate, &c.Country, &c.City, &c.MarketingOptIn, &c.AcquisitionSource); err != nil {
				return fmt.Errorf("failed to scan customer: %w", err)
			}
			snap.Customers = append(snap.Customers, c)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
