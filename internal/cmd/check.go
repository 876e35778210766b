package cmd

import (
	"fmt"
	"strings"

	"github.com/matthieukhl/salescope/internal/config"
	"github.com/matthieukhl/salescope/internal/database"
	"github.com/spf13/cobra"
)

var peekRows int

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check database connectivity and table contents",
	Long: `Verifies the database connection, reports the row count of each
sales table, and with --peek shows the first rows of each table. Useful
after setup/seed to confirm the dataset is in place.`,
	RunE: checkDatabase,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVar(&peekRows, "peek", 0, "Show the first N rows of each table")
}

func checkDatabase(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Checking sales database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Database connection OK")

	for _, table := range database.SalesTables {
		count, err := db.TableCount(table)
		if err != nil {
			if strings.Contains(err.Error(), "doesn't exist") {
				fmt.Printf("   ⚠️  %s: table missing (run 'salescope setup')\n", table)
				continue
			}
			return err
		}
		fmt.Printf("   📋 %-12s %d rows\n", table, count)
	}

	if peekRows > 0 {
		for _, table := range database.SalesTables {
			if err := peekTable(db, table, peekRows); err != nil {
				return err
			}
		}
	}

	return nil
}

// peekTable prints the first n rows of a table, column=value per field.
func peekTable(db *database.DB, table string, n int) error {
	fmt.Printf("\n👀 %s (first %d rows):\n", table, n)

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, n))
	if err != nil {
		return fmt.Errorf("failed to peek %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	for rows.Next() {
		raw := make([][]byte, len(cols))
		values := make([]any, len(cols))
		for i := range raw {
			values[i] = &raw[i]
		}
		if err := rows.Scan(values...); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", table, err)
		}

		parts := make([]string, 0, len(cols))
		for i, col := range cols {
			v := "NULL"
			if raw[i] != nil {
				v = string(raw[i])
			}
			parts = append(parts, col+"="+v)
		}
		fmt.Println("   " + strings.Join(parts, " "))
	}
	return rows.Err()
}
