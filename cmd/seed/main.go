// Command seed loads a document extraction export into the invoice schema.
// It replaces the current contents of the database, so it is meant for
// development and demo environments only.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/pkg/config"
	"github.com/spendlens/spendlens/pkg/database"
	"github.com/spendlens/spendlens/pkg/ingest"
	"github.com/spendlens/spendlens/pkg/logging"
)

var runMigrations bool

var rootCmd = &cobra.Command{
	Use:   "seed [export-file]",
	Short: "Load an extraction export into the invoice database",
	Long: `Seed reads a document extraction JSON export, normalizes it into
vendors, customers, documents, invoices, payment details and line items,
and loads the result into the configured PostgreSQL database.

The load replaces all existing rows. Database connection settings come
from the same environment variables the API server uses.`,
	Example: `  # Load the demo dataset
  seed Analytics_Test_Data.json

  # Apply migrations first, then load
  seed --migrate Analytics_Test_Data.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.Flags().BoolVar(&runMigrations, "migrate", false, "apply pending migrations before loading")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Errors are reported by main; cobra's usage text would bury them.
	cmd.SilenceUsage = true

	_ = godotenv.Load()

	cfg, err := config.Load("seed")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read export file: %w", err)
	}

	var records []*ingest.RawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("parse export file: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	connStr := cfg.Database.ConnectionString()

	if runMigrations {
		if err := database.Migrate(connStr, cfg.Database.MigrationsPath, logger); err != nil {
			return err
		}
	}

	db, err := database.ConnectDSN(ctx, connStr, 5)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	bundles := make([]*ingest.DocumentBundle, 0, len(records))
	for _, record := range records {
		bundles = append(bundles, ingest.Transform(record))
	}

	summary, err := ingest.NewLoader(db, logger).Load(ctx, bundles)
	if err != nil {
		return fmt.Errorf("load export: %w", err)
	}

	fmt.Printf("Loaded %d documents, %d invoices, %d vendors, %d customers, %d payment details, %d line items (%d skipped)\n",
		summary.Documents, summary.Invoices, summary.Vendors,
		summary.Customers, summary.PaymentDetails, summary.LineItems,
		summary.Skipped)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
