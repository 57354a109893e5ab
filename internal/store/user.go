package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
)

type userStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{
		Client:     client,
		Collection: client.Collection("users"),
	}
}

func (us *userStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := us.Collection.Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("user already exists")
		}
		return errs.NewDatabaseError("create", "failed to create user", err)
	}
	return nil
}

func (us *userStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	doc, err := us.Collection.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user", err)
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user", err)
	}
	return &user, nil
}

// GetUserByEmail expects an already normalized email.
func (us *userStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	iter := us.Collection.Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errs.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to find user", err)
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user", err)
	}
	return &user, nil
}

func (us *userStore) ListFamilyMembers(ctx context.Context, familyID string) ([]models.User, error) {
	docs, err := us.Collection.Where("familyId", "==", familyID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list family members", err)
	}
	members := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		var user models.User
		if err := doc.DataTo(&user); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse user", err)
		}
		members = append(members, user)
	}
	return members, nil
}

func (us *userStore) SetFamily(ctx context.Context, userID, familyID string) error {
	_, err := us.Collection.Doc(userID).Update(ctx, []firestore.Update{
		{Path: "familyId", Value: familyID},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("user not found")
		}
		return errs.NewDatabaseError("update", "failed to update user family", err)
	}
	return nil
}
