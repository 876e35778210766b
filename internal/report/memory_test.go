package report

import (
	"reflect"
	"testing"
	"time"

	"github.com/matthieukhl/salescope/internal/models"
)

var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func day(daysAgo int) time.Time {
	return truncateToDay(testNow).AddDate(0, 0, -daysAgo)
}

// snapshotFixture builds a minimal snapshot: customers 1..nCustomers,
// one product per given category, and the given orders/items.
func snapshotFixture(t *testing.T, nCustomers int, categories []string, orders []models.Order, items []models.OrderItem) Snapshot {
	t.Helper()
	snap := Snapshot{Orders: orders, OrderItems: items}
	for i := 1; i <= nCustomers; i++ {
		snap.Customers = append(snap.Customers, models.Customer{CustomerID: int64(i)})
	}
	for i, cat := range categories {
		snap.Products = append(snap.Products, models.Product{ProductID: int64(i + 1), Category: cat})
	}
	return snap
}

func allVariants() []Options {
	var variants []Options
	for _, policy := range []WindowPolicy{WindowDateTruncated, WindowFullTimestamp} {
		for _, f := range []Formulation{FormulationDirect, FormulationOptimized} {
			variants = append(variants, Options{Now: testNow, Policy: policy, Formulation: f})
		}
	}
	return variants
}

func TestAggregateBasicScenario(t *testing.T) {
	snap := snapshotFixture(t, 1, []string{"Books"},
		[]models.Order{
			{OrderID: 1, CustomerID: 1, ShippingCountry: "US", OrderDate: testNow},
		},
		[]models.OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 2, LineTotal: 20.00},
			{OrderItemID: 2, OrderID: 1, ProductID: 1, Quantity: 1, LineTotal: 15.00},
		})

	want := []models.CountryCategorySales{
		{ShippingCountry: "US", Category: "Books", Orders: 1, Units: 3, Revenue: 35.00, UniqueCustomers: 1},
	}

	for _, opts := range allVariants() {
		got := Aggregate(snap, opts)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s/%s: got %+v, want %+v", opts.Policy, opts.Formulation, got, want)
		}
	}
}

func TestAggregateWindowExclusion(t *testing.T) {
	snap := snapshotFixture(t, 1, []string{"Books"},
		[]models.Order{
			{OrderID: 1, CustomerID: 1, ShippingCountry: "US", OrderDate: day(91)},
			{OrderID: 2, CustomerID: 1, ShippingCountry: "US", OrderDate: day(90)},
		},
		[]models.OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 5, LineTotal: 500.00},
			{OrderItemID: 2, OrderID: 2, ProductID: 1, Quantity: 1, LineTotal: 10.00},
		})

	for _, opts := range allVariants() {
		got := Aggregate(snap, opts)
		if len(got) != 1 {
			t.Fatalf("%s/%s: got %d rows, want 1", opts.Policy, opts.Formulation, len(got))
		}
		// The 91-day-old order must not leak into any metric.
		row := got[0]
		if row.Orders != 1 || row.Units != 1 || row.Revenue != 10.00 || row.UniqueCustomers != 1 {
			t.Errorf("%s/%s: stale order leaked into row %+v", opts.Policy, opts.Formulation, row)
		}
	}
}

func TestAggregateMissingProductExcluded(t *testing.T) {
	snap := snapshotFixture(t, 1, []string{"Books"},
		[]models.Order{
			{OrderID: 1, CustomerID: 1, ShippingCountry: "US", OrderDate: testNow},
		},
		[]models.OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 1, LineTotal: 10.00},
			{OrderItemID: 2, OrderID: 1, ProductID: 999, Quantity: 7, LineTotal: 700.00},
		})

	for _, opts := range allVariants() {
		got := Aggregate(snap, opts)
		if len(got) != 1 {
			t.Fatalf("%s/%s: got %d rows, want 1", opts.Policy, opts.Formulation, len(got))
		}
		if got[0].Units != 1 || got[0].Revenue != 10.00 {
			t.Errorf("%s/%s: dangling item leaked into row %+v", opts.Policy, opts.Formulation, got[0])
		}
	}
}

func TestAggregateMissingCustomerExcluded(t *testing.T) {
	snap := snapshotFixture(t, 1, []string{"Books"},
		[]models.Order{
			{OrderID: 1, CustomerID: 1, ShippingCountry: "US", OrderDate: testNow},
			{OrderID: 2, CustomerID: 999, ShippingCountry: "US", OrderDate: testNow},
		},
		[]models.OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 1, LineTotal: 10.00},
			{OrderItemID: 2, OrderID: 2, ProductID: 1, Quantity: 4, LineTotal: 400.00},
		})

	for _, opts := range allVariants() {
		got := Aggregate(snap, opts)
		if len(got) != 1 || got[0].Orders != 1 || got[0].Revenue != 10.00 {
			t.Errorf("%s/%s: order with unresolved customer leaked: %+v", opts.Policy, opts.Formulation, got)
		}
	}
}

func TestAggregateDistinctCounts(t *testing.T) {
	// Two orders from the same customer, plus one from another: orders
	// counts order IDs, unique_customers counts customer IDs.
	snap := snapshotFixture(t, 2, []string{"Books"},
		[]models.Order{
			{OrderID: 1, CustomerID: 1, ShippingCountry: "US", OrderDate: day(5)},
			{OrderID: 2, CustomerID: 1, ShippingCountry: "US", OrderDate: day(10)},
			{OrderID: 3, CustomerID: 2, ShippingCountry: "US", OrderDate: day(15)},
		},
		[]models.OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 1, LineTotal: 10.00},
			{OrderItemID: 2, OrderID: 1, ProductID: 1, Quantity: 2, LineTotal: 20.00},
			{OrderItemID: 3, OrderID: 2, ProductID: 1, Quantity: 1, LineTotal: 30.00},
			{OrderItemID: 4, OrderID: 3, ProductID: 1, Quantity: 1, LineTotal: 40.00},
		})

	got := Aggregate(snap, Options{Now: testNow})
	want := []models.CountryCategorySales{
		{ShippingCountry: "US", Category: "Books", Orders: 3, Units: 5, Revenue: 100.00, UniqueCustomers: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAggregateSortAndTieBreak(t *testing.T) {
	snap := snapshotFixture(t, 1, []string{"Books", "Toys", "Games"},
		[]models.Order{
			{OrderID: 1, CustomerID: 1, ShippingCountry: "US", OrderDate: testNow},
			{OrderID: 2, CustomerID: 1, ShippingCountry: "DE", OrderDate: testNow},
			{OrderID: 3, CustomerID: 1, ShippingCountry: "DE", OrderDate: testNow},
		},
		[]models.OrderItem{
			// US/Books and DE/Toys tie at 50.00; DE/Games trails.
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 1, LineTotal: 50.00},
			{OrderItemID: 2, OrderID: 2, ProductID: 2, Quantity: 1, LineTotal: 50.00},
			{OrderItemID: 3, OrderID: 3, ProductID: 3, Quantity: 1, LineTotal: 30.00},
		})

	got := Aggregate(snap, Options{Now: testNow})
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	// Ties break on country then category, ascending.
	if got[0].ShippingCountry != "DE" || got[0].Category != "Toys" {
		t.Errorf("row 0 = %+v, want DE/Toys", got[0])
	}
	if got[1].ShippingCountry != "US" || got[1].Category != "Books" {
		t.Errorf("row 1 = %+v, want US/Books", got[1])
	}
	if got[2].Revenue != 30.00 {
		t.Errorf("row 2 = %+v, want revenue 30.00 last", got[2])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Revenue > got[i-1].Revenue {
			t.Errorf("revenue not non-increasing at row %d: %v after %v", i, got[i].Revenue, got[i-1].Revenue)
		}
	}
}

func TestAggregateLimit(t *testing.T) {
	categories := []string{"A", "B", "C", "D", "E"}
	var orders []models.Order
	var items []models.OrderItem
	for i := 0; i < len(categories); i++ {
		id := int64(i + 1)
		orders = append(orders, models.Order{OrderID: id, CustomerID: 1, ShippingCountry: "US", OrderDate: testNow})
		items = append(items, models.OrderItem{OrderItemID: id, OrderID: id, ProductID: id, Quantity: 1,
			LineTotal: float64(100 - i*10)})
	}
	snap := snapshotFixture(t, 1, categories, orders, items)

	got := Aggregate(snap, Options{Now: testNow, Limit: 2})
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	// Truncation happens after the sort: the top revenues survive.
	if got[0].Revenue != 100.00 || got[1].Revenue != 90.00 {
		t.Errorf("limit kept wrong rows: %+v", got)
	}
}

func TestAggregateRevenueRounding(t *testing.T) {
	// 0.10 accumulated three times is not exactly 0.30 in binary floating
	// point; the report rounds the sum to two decimals.
	snap := snapshotFixture(t, 1, []string{"Books"},
		[]models.Order{
			{OrderID: 1, CustomerID: 1, ShippingCountry: "US", OrderDate: testNow},
		},
		[]models.OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 1, LineTotal: 0.10},
			{OrderItemID: 2, OrderID: 1, ProductID: 1, Quantity: 1, LineTotal: 0.10},
			{OrderItemID: 3, OrderID: 1, ProductID: 1, Quantity: 1, LineTotal: 0.10},
		})

	got := Aggregate(snap, Options{Now: testNow})
	if len(got) != 1 || got[0].Revenue != 0.30 {
		t.Errorf("got %+v, want revenue exactly 0.30", got)
	}
}

func TestAggregateFormulationsEquivalent(t *testing.T) {
	// A denser dataset with window stragglers, danglers and ties; the
	// direct and pre-filtered formulations must agree byte for byte.
	snap := snapshotFixture(t, 3, []string{"Books", "Toys"},
		[]models.Order{
			{OrderID: 1, CustomerID: 1, ShippingCountry: "US", OrderDate: day(1)},
			{OrderID: 2, CustomerID: 2, ShippingCountry: "US", OrderDate: day(89)},
			{OrderID: 3, CustomerID: 2, ShippingCountry: "DE", OrderDate: day(91)},
			{OrderID: 4, CustomerID: 3, ShippingCountry: "DE", OrderDate: day(30)},
			{OrderID: 5, CustomerID: 42, ShippingCountry: "FR", OrderDate: day(2)},
		},
		[]models.OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 2, LineTotal: 25.50},
			{OrderItemID: 2, OrderID: 1, ProductID: 2, Quantity: 1, LineTotal: 14.99},
			{OrderItemID: 3, OrderID: 2, ProductID: 1, Quantity: 3, LineTotal: 75.00},
			{OrderItemID: 4, OrderID: 3, ProductID: 1, Quantity: 1, LineTotal: 999.99},
			{OrderItemID: 5, OrderID: 4, ProductID: 2, Quantity: 2, LineTotal: 40.00},
			{OrderItemID: 6, OrderID: 5, ProductID: 2, Quantity: 1, LineTotal: 5.00},
			{OrderItemID: 7, OrderID: 99, ProductID: 1, Quantity: 1, LineTotal: 1.00},
		})

	for _, policy := range []WindowPolicy{WindowDateTruncated, WindowFullTimestamp} {
		direct := Aggregate(snap, Options{Now: testNow, Policy: policy, Formulation: FormulationDirect})
		optimized := Aggregate(snap, Options{Now: testNow, Policy: policy, Formulation: FormulationOptimized})
		if !reflect.DeepEqual(direct, optimized) {
			t.Errorf("%s: direct %+v != optimized %+v", policy, direct, optimized)
		}
	}
}

func TestAggregateDeterministic(t *testing.T) {
	snap := snapshotFixture(t, 2, []string{"Books", "Toys"},
		[]models.Order{
			{OrderID: 1, CustomerID: 1, ShippingCountry: "US", OrderDate: day(3)},
			{OrderID: 2, CustomerID: 2, ShippingCountry: "DE", OrderDate: day(7)},
		},
		[]models.OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 1, LineTotal: 12.34},
			{OrderItemID: 2, OrderID: 2, ProductID: 2, Quantity: 2, LineTotal: 56.78},
		})

	opts := Options{Now: testNow}
	first := Aggregate(snap, opts)
	for i := 0; i < 10; i++ {
		if got := Aggregate(snap, opts); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v != %+v", i, got, first)
		}
	}
}

func TestWindowPoliciesAgreeOnMidnightCutoff(t *testing.T) {
	// Both policies resolve to the same midnight cutoff in UTC: the
	// truncated comparison and the raw one admit the same orders, even
	// for timestamps that are not midnight-aligned.
	cutoff := truncateToDay(testNow).AddDate(0, 0, -90)
	cases := []struct {
		name      string
		orderDate time.Time
		want      bool
	}{
		{"well inside window", day(10), true},
		{"cutoff midnight", cutoff, true},
		{"cutoff day, half past midnight", cutoff.Add(30 * time.Minute), true},
		{"minute before cutoff", cutoff.Add(-time.Minute), false},
		{"day before cutoff, late evening", cutoff.AddDate(0, 0, -1).Add(23 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			truncated := inWindow(tc.orderDate, testNow, 90, WindowDateTruncated)
			full := inWindow(tc.orderDate, testNow, 90, WindowFullTimestamp)
			if truncated != tc.want {
				t.Errorf("date-truncated: got %v, want %v", truncated, tc.want)
			}
			if full != tc.want {
				t.Errorf("full-timestamp: got %v, want %v", full, tc.want)
			}
		})
	}
}

func TestParsePolicyAndFormulation(t *testing.T) {
	if _, err := ParsePolicy("date-truncated"); err != nil {
		t.Errorf("ParsePolicy(date-truncated): %v", err)
	}
	if _, err := ParsePolicy("last-week"); err == nil {
		t.Error("ParsePolicy accepted an unknown policy")
	}
	if _, err := ParseFormulation("optimized"); err != nil {
		t.Errorf("ParseFormulation(optimized): %v", err)
	}
	if _, err := ParseFormulation("fastest"); err == nil {
		t.Error("ParseFormulation accepted an unknown formulation")
	}
}
