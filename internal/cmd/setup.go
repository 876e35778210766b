package cmd

import (
	"fmt"

	"github.com/matthieukhl/salescope/internal/config"
	"github.com/matthieukhl/salescope/internal/database"
	"github.com/spf13/cobra"
)

var (
	dropFirst   bool
	skipIndexes bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up the sales database schema",
	Long: `Creates the sales tables (customers, products, orders, order_items)
plus the supporting report indexes. Run 'seed' afterwards to populate
them with synthetic data.`,
	RunE: setupSchema,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop existing sales tables before creating")
	setupCmd.Flags().BoolVar(&skipIndexes, "skip-indexes", false, "Skip the supporting report indexes")
}

func setupSchema(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up sales database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Drop tables if requested
	if dropFirst {
		fmt.Println("🗑️  Dropping existing sales tables...")
		if err := db.DropSchema(); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	// Create schema
	fmt.Println("📋 Creating sales schema...")
	if err := db.SetupSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if !skipIndexes {
		fmt.Println("⚡ Creating supporting report indexes...")
		if err := db.EnsureReportIndexes(); err != nil {
			return fmt.Errorf("failed to create report indexes: %w", err)
		}
	}

	fmt.Println("✅ Sales database setup complete!")
	return nil
}
