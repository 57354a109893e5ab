package services

import (
	"context"

	"github.com/surenmigorskiy-ui/duo-backend/internal/ledger"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

type ledgerSweeper interface {
	Get(ctx context.Context, familyID string) (map[string]any, error)
	UpdateTransactions(ctx context.Context, familyID string, fn func([]ledger.Entry) ([]ledger.Entry, error)) error
	ForEachFamily(ctx context.Context, fn func(familyID string) error) error
}

// SweepReport totals a maintenance run across families.
type SweepReport struct {
	Families int
	Touched  int
	Removed  int
}

type maintenanceService struct {
	families ledgerSweeper
}

func NewMaintenanceService(families ledgerSweeper) *maintenanceService {
	return &maintenanceService{families: families}
}

// PurgeImports removes every bulk-imported entry from every family.
func (s *maintenanceService) PurgeImports(ctx context.Context, dryRun bool) (SweepReport, error) {
	return s.sweep(ctx, dryRun, ledger.RemoveAllImports)
}

// PurgeYear removes entries dated in year from every family.
func (s *maintenanceService) PurgeYear(ctx context.Context, year int, dryRun bool) (SweepReport, error) {
	return s.sweep(ctx, dryRun, func(entries []ledger.Entry) ([]ledger.Entry, int) {
		return ledger.RemoveYear(entries, year)
	})
}

// sweep reads each ledger first and only writes the ones that change.
func (s *maintenanceService) sweep(ctx context.Context, dryRun bool, remove func([]ledger.Entry) ([]ledger.Entry, int)) (SweepReport, error) {
	var report SweepReport
	err := s.families.ForEachFamily(ctx, func(familyID string) error {
		log := logger.FromContext(ctx).With("family_id", familyID)
		report.Families++

		doc, err := s.families.Get(ctx, familyID)
		if err != nil {
			return err
		}
		_, removed := remove(ledger.Entries(doc))
		if removed == 0 {
			return nil
		}

		if !dryRun {
			err := s.families.UpdateTransactions(ctx, familyID, func(entries []ledger.Entry) ([]ledger.Entry, error) {
				var kept []ledger.Entry
				kept, removed = remove(entries)
				return kept, nil
			})
			if err != nil {
				log.Error("failed to sweep family ledger", "error", err)
				return err
			}
		}

		report.Touched++
		report.Removed += removed
		log.Info("family ledger swept", "removed", removed, "dry_run", dryRun)
		return nil
	})
	return report, err
}
