package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/matthieukhl/salescope/internal/database"
	"github.com/matthieukhl/salescope/internal/models"
)

// SQLReporter pushes the aggregation down to MySQL.
type SQLReporter struct {
	db *database.DB
}

func NewSQLReporter(db *database.DB) *SQLReporter {
	return &SQLReporter{db: db}
}

const selectAggregates = `
    COUNT(DISTINCT o.order_id)   AS orders,
    SUM(oi.quantity)             AS units,
    ROUND(SUM(oi.line_total), 2) AS revenue,
    COUNT(DISTINCT o.customer_id) AS unique_customers`

// windowPredicate returns the SQL window filter for a policy. Both take
// the same two args: the reference timestamp and the window length in
// days.
func windowPredicate(policy WindowPolicy) string {
	if policy == WindowFullTimestamp {
		return `o.order_date >= DATE_SUB(DATE(?), INTERVAL ? DAY)`
	}
	return `DATE(o.order_date) >= DATE(DATE_SUB(?, INTERVAL ? DAY))`
}

// buildQuery assembles one of the two formulations. Ordering carries the
// explicit revenue-tie break (country, category ascending) so both
// formulations return byte-identical row sequences.
func buildQuery(opts Options) string {
	predicate := windowPredicate(opts.Policy)

	if opts.Formulation == FormulationOptimized {
		return `
WITH recent_orders AS (
    SELECT o.order_id, o.customer_id, o.shipping_country
    FROM orders o
    WHERE ` + predicate + `
)
SELECT
    o.shipping_country,
    p.category,` + selectAggregates + `
FROM recent_orders o
JOIN order_items oi ON oi.order_id = o.order_id
JOIN products p     ON p.product_id = oi.product_id
JOIN customers c    ON c.customer_id = o.customer_id
GROUP BY o.shipping_country, p.category
ORDER BY revenue DESC, o.shipping_country ASC, p.category ASC
LIMIT ?`
	}

	return `
SELECT
    o.shipping_country,
    p.category,` + selectAggregates + `
FROM orders o
JOIN order_items oi ON oi.order_id = o.order_id
JOIN products p     ON p.product_id = oi.product_id
JOIN customers c    ON c.customer_id = o.customer_id
WHERE ` + predicate + `
GROUP BY o.shipping_country, p.category
ORDER BY revenue DESC, o.shipping_country ASC, p.category ASC
LIMIT ?`
}

// CountryCategorySales runs the report against the database.
func (r *SQLReporter) CountryCategorySales(ctx context.Context, opts Options) ([]models.CountryCategorySales, error) {
	opts = opts.withDefaults()
	query := buildQuery(opts)
	now := opts.Now.UTC().Format("2006-01-02 15:04:05")

	rows, err := r.db.QueryContext(ctx, query, now, opts.WindowDays, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run sales report: %w", err)
	}
	defer rows.Close()

	var result []models.CountryCategorySales
	for rows.Next() {
		var row models.CountryCategorySales
		if err := rows.Scan(&row.ShippingCountry, &row.Category,
			&row.Orders, &row.Units, &row.Revenue, &row.UniqueCustomers); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report rows: %w", err)
	}
	return result, nil
}

// Explain returns the MySQL query plan for the report under the given
// options, one formatted line per plan row.
func (r *SQLReporter) Explain(ctx context.Context, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	query := "EXPLAIN FORMAT=TRADITIONAL " + buildQuery(opts)
	now := opts.Now.UTC().Format("2006-01-02 15:04:05")

	rows, err := r.db.QueryContext(ctx, query, now, opts.WindowDays, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to explain report: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read explain columns: %w", err)
	}

	var lines []string
	for rows.Next() {
		values := make([]any, len(cols))
		for i := range values {
			values[i] = new(sql.NullString)
		}
		if err := rows.Scan(values...); err != nil {
			return nil, fmt.Errorf("failed to scan explain row: %w", err)
		}
		parts := make([]string, 0, len(cols))
		for i, col := range cols {
			ns := values[i].(*sql.NullString)
			if ns.Valid && ns.String != "" {
				parts = append(parts, col+"="+ns.String)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines, rows.Err()
}
