// Package report implements the trailing-window sales report: for each
// (shipping country, product category) pair with order activity in the
// last N days, the distinct order count, total units, total revenue and
// distinct customer count, sorted by revenue.
//
// The same report exists in two backends (a SQL aggregation pushed to
// MySQL, and an in-memory aggregation over a loaded snapshot) and in two
// formulations each. All four paths must produce identical rows for the
// same inputs.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/matthieukhl/salescope/internal/models"
)

// WindowPolicy selects how an order's timestamp is compared against the
// trailing-window cutoff.
type WindowPolicy string

const (
	// WindowDateTruncated truncates the order timestamp to its calendar
	// date before comparing: DATE(order_date) >= DATE(now - N days).
	WindowDateTruncated WindowPolicy = "date-truncated"

	// WindowFullTimestamp compares the raw order timestamp against the
	// midnight cutoff: order_date >= DATE(now) - N days. Sargable, so
	// MySQL can drive it off idx_orders_date.
	WindowFullTimestamp WindowPolicy = "full-timestamp"
)

// Formulation selects between the two algebraically equivalent shapes of
// the aggregation query.
type Formulation string

const (
	// FormulationDirect filters orders inside the four-way join.
	FormulationDirect Formulation = "direct"

	// FormulationOptimized narrows orders to a pre-filtered projection
	// (a CTE on the SQL side) before joining the other three inputs.
	FormulationOptimized Formulation = "optimized"
)

// Options parameterizes one report run.
type Options struct {
	Now         time.Time
	WindowDays  int
	Limit       int
	Policy      WindowPolicy
	Formulation Formulation
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	if o.WindowDays <= 0 {
		o.WindowDays = 90
	}
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Policy == "" {
		o.Policy = WindowDateTruncated
	}
	if o.Formulation == "" {
		o.Formulation = FormulationDirect
	}
	return o
}

// ParsePolicy validates a policy name from config or a flag
func ParsePolicy(s string) (WindowPolicy, error) {
	switch WindowPolicy(s) {
	case WindowDateTruncated, WindowFullTimestamp:
		return WindowPolicy(s), nil
	}
	return "", fmt.Errorf("unknown window policy %q (want %s or %s)", s, WindowDateTruncated, WindowFullTimestamp)
}

// ParseFormulation validates a formulation name from config or a flag
func ParseFormulation(s string) (Formulation, error) {
	switch Formulation(s) {
	case FormulationDirect, FormulationOptimized:
		return Formulation(s), nil
	}
	return "", fmt.Errorf("unknown formulation %q (want %s or %s)", s, FormulationDirect, FormulationOptimized)
}

// truncateToDay drops the time-of-day portion, keeping the location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// inWindow reports whether an order timestamp falls inside the trailing
// window under the given policy. Both policies resolve to a midnight
// cutoff; they differ only in whether the order timestamp is truncated
// before the comparison, which matters once inputs stop being
// midnight-aligned in the same location as now.
func inWindow(orderDate, now time.Time, days int, policy WindowPolicy) bool {
	switch policy {
	case WindowFullTimestamp:
		cutoff := truncateToDay(now).AddDate(0, 0, -days)
		return !orderDate.Before(cutoff)
	default: // WindowDateTruncated
		cutoff := truncateToDay(now.AddDate(0, 0, -days))
		return !truncateToDay(orderDate).Before(cutoff)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// sortAndLimit orders rows by revenue descending and truncates to limit.
// Revenue ties break on shipping country then category, ascending, so
// the report is deterministic end to end.
func sortAndLimit(rows []models.CountryCategorySales, limit int) []models.CountryCategorySales {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		if rows[i].ShippingCountry != rows[j].ShippingCountry {
			return rows[i].ShippingCountry < rows[j].ShippingCountry
		}
		return rows[i].Category < rows[j].Category
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
