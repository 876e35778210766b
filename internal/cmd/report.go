package cmd

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/matthieukhl/salescope/internal/config"
	"github.com/matthieukhl/salescope/internal/database"
	"github.com/matthieukhl/salescope/internal/models"
	"github.com/matthieukhl/salescope/internal/report"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	reportNow         string
	reportWindow      int
	reportLimit       int
	reportPolicy      string
	reportFormulation string
	reportEngine      string
	reportCompare     bool
	reportExplain     bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the trailing-window sales report once",
	Long: `Computes orders, units, revenue and unique customers per
(shipping country, product category) pair over the trailing window,
sorted by revenue, and prints the result as a table.

--engine sql pushes the aggregation down to MySQL; --engine memory
loads a snapshot of the four tables and aggregates in-process. Both
engines support the direct and the optimized (pre-filtered orders)
formulation. --compare runs both formulations and verifies they
produce identical rows; --explain prints the MySQL query plan instead
of the report.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportNow, "now", "", "Reference time, RFC 3339 (default: current time)")
	reportCmd.Flags().IntVar(&reportWindow, "window", 0, "Trailing window in days (0 = config default)")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0, "Maximum result rows (0 = config default)")
	reportCmd.Flags().StringVar(&reportPolicy, "policy", "", "Window policy: date-truncated|full-timestamp (default from config)")
	reportCmd.Flags().StringVar(&reportFormulation, "formulation", "", "Query formulation: direct|optimized (default from config)")
	reportCmd.Flags().StringVar(&reportEngine, "engine", "sql", "Aggregation engine: sql|memory")
	reportCmd.Flags().BoolVar(&reportCompare, "compare", false, "Run both formulations and verify identical output")
	reportCmd.Flags().BoolVar(&reportExplain, "explain", false, "Print the MySQL query plan instead of the report")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := reportOptions(cfg.Report)
	if err != nil {
		return err
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	reporter := report.NewSQLReporter(db)

	if reportExplain {
		return explainReport(ctx, reporter, opts)
	}

	if reportCompare {
		return compareFormulations(ctx, db, reporter, opts)
	}

	rows, err := runEngine(ctx, db, reporter, opts)
	if err != nil {
		return err
	}

	fmt.Printf("📊 Sales by country and category, trailing %d days as of %s (%s engine, %s formulation)\n",
		opts.WindowDays, opts.Now.Format(time.RFC3339), reportEngine, opts.Formulation)
	renderReport(rows)
	return nil
}

// reportOptions merges config defaults with the report flags.
func reportOptions(defaults config.ReportConfig) (report.Options, error) {
	opts := report.Options{
		Now:        time.Now().UTC(),
		WindowDays: defaults.WindowDays,
		Limit:      defaults.Limit,
	}
	if reportNow != "" {
		now, err := time.Parse(time.RFC3339, reportNow)
		if err != nil {
			return report.Options{}, fmt.Errorf("invalid --now: %w", err)
		}
		opts.Now = now.UTC()
	}
	if reportWindow > 0 {
		opts.WindowDays = reportWindow
	}
	if reportLimit > 0 {
		opts.Limit = reportLimit
	}

	policyName := defaults.Policy
	if reportPolicy != "" {
		policyName = reportPolicy
	}
	policy, err := report.ParsePolicy(policyName)
	if err != nil {
		return report.Options{}, err
	}
	opts.Policy = policy

	formulationName := defaults.Formulation
	if reportFormulation != "" {
		formulationName = reportFormulation
	}
	formulation, err := report.ParseFormulation(formulationName)
	if err != nil {
		return report.Options{}, err
	}
	opts.Formulation = formulation

	return opts, nil
}

func runEngine(ctx context.Context, db *database.DB, reporter *report.SQLReporter, opts report.Options) ([]models.CountryCategorySales, error) {
	switch reportEngine {
	case "sql":
		return reporter.CountryCategorySales(ctx, opts)
	case "memory":
		snap, err := report.LoadSnapshot(ctx, db)
		if err != nil {
			return nil, err
		}
		return report.Aggregate(*snap, opts), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want sql or memory)", reportEngine)
	}
}

// compareFormulations runs the direct and optimized formulations under
// the same options and verifies they agree row for row.
func compareFormulations(ctx context.Context, db *database.DB, reporter *report.SQLReporter, opts report.Options) error {
	direct := opts
	direct.Formulation = report.FormulationDirect
	optimized := opts
	optimized.Formulation = report.FormulationOptimized

	directRows, err := runEngine(ctx, db, reporter, direct)
	if err != nil {
		return fmt.Errorf("direct formulation failed: %w", err)
	}
	optimizedRows, err := runEngine(ctx, db, reporter, optimized)
	if err != nil {
		return fmt.Errorf("optimized formulation failed: %w", err)
	}

	if !reflect.DeepEqual(directRows, optimizedRows) {
		fmt.Printf("❌ Formulations disagree: direct returned %d rows, optimized %d\n",
			len(directRows), len(optimizedRows))
		return fmt.Errorf("formulations are not equivalent for this dataset")
	}

	fmt.Printf("✅ Both formulations agree: %d identical rows\n", len(directRows))
	renderReport(directRows)
	return nil
}

func explainReport(ctx context.Context, reporter *report.SQLReporter, opts report.Options) error {
	fmt.Printf("🔍 Query plan (%s formulation, %s policy):\n", opts.Formulation, opts.Policy)
	lines, err := reporter.Explain(ctx, opts)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println("   " + line)
	}
	return nil
}

func renderReport(rows []models.CountryCategorySales) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Country", "Category", "Orders", "Units", "Revenue", "Customers"})
	for _, row := range rows {
		table.Append([]string{
			row.ShippingCountry,
			row.Category,
			strconv.FormatInt(row.Orders, 10),
			strconv.FormatInt(row.Units, 10),
			strconv.FormatFloat(row.Revenue, 'f', 2, 64),
			strconv.FormatInt(row.UniqueCustomers, 10),
		})
	}
	table.Render()

	if len(rows) == 0 {
		fmt.Println("   (no orders in window)")
	}
}
