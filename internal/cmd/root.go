package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "salescope",
	Short: "Salescope - Trailing-Window E-Commerce Sales Reporting",
	Long: `Salescope computes the trailing 90-day sales report (orders, units,
revenue and unique customers per shipping country and product category)
over a synthetic e-commerce dataset in MySQL.

It can run as a server exposing the report over HTTP, or be used via
CLI commands to set up the schema, seed synthetic data and run the
report once to stdout.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
