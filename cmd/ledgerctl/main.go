package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/surenmigorskiy-ui/duo-backend/internal/bootstrap"
	"github.com/surenmigorskiy-ui/duo-backend/internal/config"
	"github.com/surenmigorskiy-ui/duo-backend/internal/services"
	"github.com/surenmigorskiy-ui/duo-backend/internal/store"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

var dryRun bool

func main() {
	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Maintenance tasks across every family ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "report what would be removed without writing")

	rootCmd.AddCommand(purgeImportsCmd())
	rootCmd.AddCommand(purgeYearCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func purgeImportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-imports",
		Short: "Remove every bulk-imported transaction",
		Long: `Remove every transaction that came from a bulk import, identified by its
_importTimestamp tag or a bulk- id prefix. Manually entered transactions are kept.

Examples:
  ledgerctl purge-imports --dry-run
  ledgerctl purge-imports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), func(ctx context.Context, svc maintenance) (services.SweepReport, error) {
				return svc.PurgeImports(ctx, dryRun)
			})
		},
	}
}

func purgeYearCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "purge-year",
		Short: "Remove transactions dated in one year",
		Long: `Remove transactions whose date falls in the given year. Undated entries and
dates that cannot be parsed are kept.

Examples:
  ledgerctl purge-year --year 2024 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year < 1 {
				return fmt.Errorf("--year must be a positive year")
			}
			return run(cmd.Context(), func(ctx context.Context, svc maintenance) (services.SweepReport, error) {
				return svc.PurgeYear(ctx, year, dryRun)
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "calendar year to remove")
	cmd.MarkFlagRequired("year")
	return cmd
}

type maintenance interface {
	PurgeImports(ctx context.Context, dryRun bool) (services.SweepReport, error)
	PurgeYear(ctx context.Context, year int, dryRun bool) (services.SweepReport, error)
}

func run(ctx context.Context, task func(context.Context, maintenance) (services.SweepReport, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, logger.NewCloudLoggingHandler)
	ctx = logger.ToContext(ctx, log)

	client, err := bootstrap.InitFirestore(ctx, cfg.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to connect to firestore: %w", err)
	}
	defer client.Close()

	report, err := task(ctx, services.NewMaintenanceService(store.NewFamilyStore(client)))
	if err != nil {
		return err
	}

	verb := "removed"
	if dryRun {
		verb = "would remove"
	}
	fmt.Printf("%d families scanned, %d changed, %s %d transactions\n", report.Families, report.Touched, verb, report.Removed)
	return nil
}
