// Package seed generates the synthetic e-commerce dataset the reports
// run against. Value pools and distributions follow the upstream CSV
// generator, so a seeded run reproduces a comparable dataset shape.
package seed

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/matthieukhl/salescope/internal/models"
)

type categoryFamily struct {
	name          string
	subcategories []string
	brands        []string
}

var categoryFamilies = []categoryFamily{
	{"Electronics", []string{"Phones", "Laptops", "Headphones", "Monitors", "Cameras"}, []string{"Acme", "Zebra", "Lux", "Nova", "Kite"}},
	{"Home", []string{"Kitchen", "Bedding", "Furniture", "Decor"}, []string{"Homely", "Casa", "Nido", "Oak&Co"}},
	{"Outdoors", []string{"Camping", "Cycling", "Hiking", "Fishing"}, []string{"Trail", "Peak", "Rivera"}},
	{"Beauty", []string{"Skincare", "Haircare", "Fragrance"}, []string{"Aura", "Bloom", "Velvet"}},
	{"Toys", []string{"Blocks", "RC", "Puzzles", "Plush"}, []string{"PlayCo", "Kiddo", "FunLab"}},
}

var (
	countries          = []string{"UA", "PL", "DE", "FR", "GB", "US", "CA", "ES", "IT", "NL", "SE", "NO"}
	statuses           = []string{"paid", "paid", "paid", "shipped", "shipped", "cancelled", "refunded"}
	paymentMethods     = []string{"card", "card", "card", "paypal", "cod", "applepay", "googlepay"}
	currencies         = []string{"USD", "EUR", "PLN", "GBP"}
	acquisitionSources = []string{"seo", "sem", "email", "social", "direct", "referral", "marketplace"}
	firstNames         = []string{"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda", "David", "Barbara", "Olena", "Piotr", "Sofia", "Lukas", "Emma", "Noah"}
	lastNames          = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Kowalski", "Shevchenko", "Müller", "Rossi", "Jansen", "Larsen"}
	cities             = []string{"Kyiv", "Warsaw", "Berlin", "Paris", "London", "New York", "Toronto", "Madrid", "Rome", "Amsterdam", "Stockholm", "Oslo"}
)

// Counts sets how many rows to generate per table. Order items are
// derived from orders via a skewed 1-6 items-per-order distribution.
type Counts struct {
	Customers int
	Products  int
	Orders    int
}

// Generator produces deterministic synthetic data for a fixed seed.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now().UTC(),
	}
}

// NewGeneratorAt pins the generator's reference time, so tests can place
// orders relative to a known "now".
func NewGeneratorAt(seed int64, now time.Time) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), now: now.UTC()}
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Customers generates n customer rows with sequential IDs starting at 1.
func (g *Generator) Customers(n int) []models.Customer {
	customers := make([]models.Customer, 0, n)
	for id := int64(1); id <= int64(n); id++ {
		first := g.pick(firstNames)
		last := g.pick(lastNames)
		customers = append(customers, models.Customer{
			CustomerID:        id,
			FirstName:         first,
			LastName:          last,
			Email:             strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, id)),
			SignupDate:        g.randDate(3 * 365),
			Country:           g.pick(countries),
			City:              g.pick(cities),
			MarketingOptIn:    g.rng.Float64() < 0.35,
			AcquisitionSource: g.pick(acquisitionSources),
		})
	}
	return customers
}

// Products generates n product rows with sequential IDs starting at 1.
func (g *Generator) Products(n int) []models.Product {
	products := make([]models.Product, 0, n)
	for id := int64(1); id <= int64(n); id++ {
		family := categoryFamilies[g.rng.Intn(len(categoryFamilies))]
		price := round2(5 + g.rng.Float64()*895)
		products = append(products, models.Product{
			ProductID:   id,
			Category:    family.name,
			Subcategory: g.pick(family.subcategories),
			Brand:       g.pick(family.brands),
			Price:       price,
			Cost:        round2(price * (0.5 + g.rng.Float64()*0.35)),
			CreatedAt:   g.randDate(5 * 365),
			IsActive:    g.rng.Float64() > 0.15,
		})
	}
	return products
}

// Orders generates n order rows spread over the trailing two years.
func (g *Generator) Orders(n, customerCount int) []models.Order {
	orders := make([]models.Order, 0, n)
	for id := int64(1); id <= int64(n); id++ {
		status := g.pick(statuses)
		discount := 0.0
		if g.rng.Float64() < 0.25 {
			discount = round2(math.Max(0, g.rng.NormFloat64()*7+3))
		}
		total := round2(math.Abs(g.rng.NormFloat64()*70 + 80))
		if status == models.OrderStatusShipped || status == models.OrderStatusPaid {
			total = round2(total + 5)
		}
		orders = append(orders, models.Order{
			OrderID:         id,
			CustomerID:      int64(g.rng.Intn(customerCount)) + 1,
			OrderDate:       g.randDateTime(730),
			Status:          status,
			Currency:        g.pick(currencies),
			PaymentMethod:   g.pick(paymentMethods),
			ShippingCountry: g.pick(countries),
			Discount:        discount,
			TotalAmount:     total,
		})
	}
	return orders
}

// itemsPerOrder draws from the upstream generator's skewed distribution:
// 40% of orders have a single item, the tail runs out at six.
func (g *Generator) itemsPerOrder() int {
	r := g.rng.Float64()
	switch {
	case r < 0.40:
		return 1
	case r < 0.70:
		return 2
	case r < 0.88:
		return 3
	case r < 0.95:
		return 4
	case r < 0.985:
		return 5
	default:
		return 6
	}
}

// OrderItems generates line items for every order ID in [1, orderCount].
func (g *Generator) OrderItems(orderCount, productCount int) []models.OrderItem {
	items := make([]models.OrderItem, 0, orderCount*3)
	itemID := int64(1)
	for orderID := int64(1); orderID <= int64(orderCount); orderID++ {
		for i := 0; i < g.itemsPerOrder(); i++ {
			qty := 1
			if g.rng.Float64() >= 0.7 {
				qty = g.rng.Intn(4) + 2
			}
			unit := round2(math.Max(1, g.rng.NormFloat64()*50+60))
			items = append(items, models.OrderItem{
				OrderItemID: itemID,
				OrderID:     orderID,
				ProductID:   int64(g.rng.Intn(productCount)) + 1,
				Quantity:    qty,
				UnitPrice:   unit,
				LineTotal:   round2(unit * float64(qty)),
			})
			itemID++
		}
	}
	return items
}

func (g *Generator) randDate(maxDaysAgo int) time.Time {
	t := g.now.AddDate(0, 0, -g.rng.Intn(maxDaysAgo+1))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (g *Generator) randDateTime(maxDaysAgo int) time.Time {
	span := time.Duration(maxDaysAgo) * 24 * time.Hour
	return g.now.Add(-time.Duration(g.rng.Int63n(int64(span)))).Truncate(time.Second)
}
