package store

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/ledger"
	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

// familyStore keeps one document per family in "families". The document
// holds the transaction array plus whatever the frontend saves through
// PUT /data.
type familyStore struct {
	client   *firestore.Client
	clockNow func() time.Time
}

func NewFamilyStore(client *firestore.Client) *familyStore {
	return &familyStore{client: client, clockNow: time.Now}
}

func (s *familyStore) collection() *firestore.CollectionRef {
	return s.client.Collection("families")
}

// Create adds an empty family and returns its id.
func (s *familyStore) Create(ctx context.Context) (string, error) {
	ref, _, err := s.collection().Add(ctx, map[string]any{
		models.FieldCreatedAt: s.clockNow(),
	})
	if err != nil {
		return "", errs.NewDatabaseError("create", "failed to create family", err)
	}
	return ref.ID, nil
}

// Get returns the family document, or an empty map when it does not exist.
func (s *familyStore) Get(ctx context.Context, familyID string) (map[string]any, error) {
	doc, err := s.collection().Doc(familyID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return map[string]any{}, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to get family data", err)
	}
	return doc.Data(), nil
}

// Merge writes data over the document; fields absent from data are kept.
func (s *familyStore) Merge(ctx context.Context, familyID string, data map[string]any) error {
	if _, err := s.collection().Doc(familyID).Set(ctx, data, firestore.MergeAll); err != nil {
		return errs.NewDatabaseError("write", "failed to save family data", err)
	}
	return nil
}

// Reset replaces the document with a fresh createdAt, dropping all data.
func (s *familyStore) Reset(ctx context.Context, familyID string) error {
	_, err := s.collection().Doc(familyID).Set(ctx, map[string]any{
		models.FieldCreatedAt: s.clockNow(),
	})
	if err != nil {
		return errs.NewDatabaseError("write", "failed to reset family data", err)
	}
	return nil
}

func (s *familyStore) SetInvite(ctx context.Context, familyID, code string, expiresAt time.Time) error {
	_, err := s.collection().Doc(familyID).Set(ctx, map[string]any{
		models.FieldInviteCode:          code,
		models.FieldInviteCodeExpiresAt: expiresAt,
	}, firestore.MergeAll)
	if err != nil {
		return errs.NewDatabaseError("write", "failed to save invite code", err)
	}
	return nil
}

// FindByInviteCode returns the family holding code.
func (s *familyStore) FindByInviteCode(ctx context.Context, code string) (*models.FamilyInvite, error) {
	iter := s.collection().Where(models.FieldInviteCode, "==", code).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errs.NewNotFoundError("invalid invite code")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to look up invite code", err)
	}

	invite := &models.FamilyInvite{FamilyID: doc.Ref.ID}
	if expires, ok := doc.Data()[models.FieldInviteCodeExpiresAt].(time.Time); ok {
		invite.ExpiresAt = expires
	}
	return invite, nil
}

// UpdateTransactions rewrites the transaction array inside a Firestore
// transaction. fn may run more than once and must not have side effects.
func (s *familyStore) UpdateTransactions(ctx context.Context, familyID string, fn func([]ledger.Entry) ([]ledger.Entry, error)) error {
	ref := s.collection().Doc(familyID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		data := map[string]any{}
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			data = snap.Data()
		}

		updated, err := fn(ledger.Entries(data))
		if err != nil {
			return err
		}
		return tx.Set(ref, map[string]any{models.FieldTransactions: updated}, firestore.MergeAll)
	})
	if err != nil {
		var verr *errs.ValidationError
		if errors.As(err, &verr) {
			return err
		}
		return errs.NewDatabaseError("transaction", "failed to update transactions", err)
	}
	return nil
}

// ForEachFamily calls fn with every family id. Iteration stops at the first
// error fn returns.
func (s *familyStore) ForEachFamily(ctx context.Context, fn func(familyID string) error) error {
	log := logger.FromContext(ctx)
	iter := s.collection().Select().Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to list families", err)
		}
		if err := fn(doc.Ref.ID); err != nil {
			return err
		}
		count++
	}
	log.Debug("families visited", "count", count)
	return nil
}
