package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/surenmigorskiy-ui/duo-backend/internal/dto"
	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/ledger"
	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

const (
	InviteCodeLength = 6
	InviteTTL        = 24 * time.Hour

	inviteAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type familyLedgerStore interface {
	Get(ctx context.Context, familyID string) (map[string]any, error)
	Merge(ctx context.Context, familyID string, data map[string]any) error
	Reset(ctx context.Context, familyID string) error
	SetInvite(ctx context.Context, familyID, code string, expiresAt time.Time) error
	FindByInviteCode(ctx context.Context, code string) (*models.FamilyInvite, error)
	UpdateTransactions(ctx context.Context, familyID string, fn func([]ledger.Entry) ([]ledger.Entry, error)) error
}

type familyMemberStore interface {
	ListFamilyMembers(ctx context.Context, familyID string) ([]models.User, error)
	SetFamily(ctx context.Context, userID, familyID string) error
}

type familyService struct {
	families    familyLedgerStore
	users       familyMemberStore
	tokens      tokenIssuer
	frontendURL string
	clockNow    func() time.Time
	inviteCode  func() (string, error)
	idSuffix    func() string
}

func NewFamilyService(families familyLedgerStore, users familyMemberStore, tokens tokenIssuer, frontendURL string) *familyService {
	return &familyService{
		families:    families,
		users:       users,
		tokens:      tokens,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		clockNow:    time.Now,
		inviteCode:  randomInviteCode,
		idSuffix:    func() string { return uuid.NewString()[:8] },
	}
}

func (s *familyService) Members(ctx context.Context, familyID string) ([]models.User, error) {
	members, err := s.users.ListFamilyMembers(ctx, familyID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list family members", "error", err)
		return nil, err
	}
	return members, nil
}

func (s *familyService) Data(ctx context.Context, familyID string) (map[string]any, error) {
	return s.families.Get(ctx, familyID)
}

func (s *familyService) SaveData(ctx context.Context, familyID string, data map[string]any) error {
	if data == nil {
		return errs.NewValidationError("request body must be a JSON object")
	}
	if err := s.families.Merge(ctx, familyID, data); err != nil {
		logger.FromContext(ctx).Error("failed to save family data", "error", err)
		return err
	}
	return nil
}

func (s *familyService) ResetData(ctx context.Context, familyID string) error {
	log := logger.FromContext(ctx)
	if err := s.families.Reset(ctx, familyID); err != nil {
		log.Error("failed to reset family data", "error", err)
		return err
	}
	log.Info("family data reset")
	return nil
}

func (s *familyService) CreateInvitation(ctx context.Context, familyID string) (models.Invitation, error) {
	log := logger.FromContext(ctx)

	code, err := s.inviteCode()
	if err != nil {
		return models.Invitation{}, err
	}
	expiresAt := s.clockNow().Add(InviteTTL)
	if err := s.families.SetInvite(ctx, familyID, code, expiresAt); err != nil {
		log.Error("failed to store invite code", "error", err)
		return models.Invitation{}, err
	}

	log.Info("invitation created", "expires_at", expiresAt)
	return models.Invitation{
		InviteLink: fmt.Sprintf("%s/join?code=%s", s.frontendURL, code),
		InviteCode: code,
		ExpiresAt:  expiresAt,
	}, nil
}

// Join moves the user into the family owning code and returns a token for
// the new family.
func (s *familyService) Join(ctx context.Context, userID, code string) (dto.JoinResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return dto.JoinResponse{}, errs.NewValidationError("invite code not provided")
	}
	log := logger.FromContext(ctx)

	invite, err := s.families.FindByInviteCode(ctx, code)
	if err != nil {
		return dto.JoinResponse{}, err
	}
	if !invite.ExpiresAt.IsZero() && s.clockNow().After(invite.ExpiresAt) {
		return dto.JoinResponse{}, errs.NewValidationError("invite code has expired")
	}

	if err := s.users.SetFamily(ctx, userID, invite.FamilyID); err != nil {
		log.Error("failed to move user into family", "error", err, "target_family_id", invite.FamilyID)
		return dto.JoinResponse{}, err
	}
	token, err := s.tokens.Issue(userID, invite.FamilyID)
	if err != nil {
		return dto.JoinResponse{}, err
	}

	log.Info("user joined family", "target_family_id", invite.FamilyID)
	return dto.JoinResponse{
		Success:  true,
		Message:  "joined family",
		FamilyID: invite.FamilyID,
		Token:    token,
	}, nil
}

// BulkAdd prepends batch to the ledger, tagged with a shared import timestamp
// that RollbackImport accepts.
func (s *familyService) BulkAdd(ctx context.Context, familyID string, batch []ledger.Entry) (dto.BulkAddResponse, error) {
	log := logger.FromContext(ctx)

	ts := s.clockNow().UnixMilli()
	prepared, err := ledger.PrepareImport(batch, ts, s.idSuffix)
	if err != nil {
		return dto.BulkAddResponse{}, err
	}

	err = s.families.UpdateTransactions(ctx, familyID, func(existing []ledger.Entry) ([]ledger.Entry, error) {
		return ledger.Prepend(existing, prepared), nil
	})
	if err != nil {
		log.Error("failed to import transactions", "error", err, "count", len(prepared))
		return dto.BulkAddResponse{}, err
	}

	log.Info("transactions imported", "count", len(prepared), "import_timestamp", ts)
	return dto.BulkAddResponse{
		Success:         true,
		Message:         fmt.Sprintf("added %d transactions", len(prepared)),
		Added:           len(prepared),
		ImportTimestamp: ts,
	}, nil
}

func (s *familyService) RollbackImport(ctx context.Context, familyID string, ts int64) (dto.RemoveResponse, error) {
	log := logger.FromContext(ctx)

	removed := 0
	err := s.families.UpdateTransactions(ctx, familyID, func(existing []ledger.Entry) ([]ledger.Entry, error) {
		var kept []ledger.Entry
		kept, removed = ledger.RemoveImport(existing, ts)
		return kept, nil
	})
	if err != nil {
		log.Error("failed to roll back import", "error", err, "import_timestamp", ts)
		return dto.RemoveResponse{}, err
	}

	log.Info("import rolled back", "import_timestamp", ts, "removed", removed)
	return dto.RemoveResponse{
		Success: true,
		Message: fmt.Sprintf("removed %d transactions", removed),
		Removed: removed,
	}, nil
}

func (s *familyService) DeleteYear(ctx context.Context, familyID string, year int) (dto.RemoveResponse, error) {
	log := logger.FromContext(ctx)

	removed := 0
	err := s.families.UpdateTransactions(ctx, familyID, func(existing []ledger.Entry) ([]ledger.Entry, error) {
		var kept []ledger.Entry
		kept, removed = ledger.RemoveYear(existing, year)
		return kept, nil
	})
	if err != nil {
		log.Error("failed to delete transactions by year", "error", err, "year", year)
		return dto.RemoveResponse{}, err
	}

	log.Info("transactions deleted by year", "year", year, "removed", removed)
	return dto.RemoveResponse{
		Success: true,
		Message: fmt.Sprintf("removed %d transactions from %d", removed, year),
		Removed: removed,
		Year:    year,
	}, nil
}

func randomInviteCode() (string, error) {
	size := big.NewInt(int64(len(inviteAlphabet)))
	var b strings.Builder
	for range InviteCodeLength {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(inviteAlphabet[n.Int64()])
	}
	return b.String(), nil
}
