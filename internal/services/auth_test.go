package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/surenmigorskiy-ui/duo-backend/internal/auth"
	"github.com/surenmigorskiy-ui/duo-backend/internal/dto"
	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/helpers"
)

type stubAuthUserStore struct {
	byEmail   map[string]*models.User
	lookupErr error
	created   *models.User
	createErr error
}

func (s *stubAuthUserStore) CreateUser(ctx context.Context, user *models.User) error {
	s.created = user
	return s.createErr
}

func (s *stubAuthUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, errs.NewNotFoundError("user not found")
}

type stubFamilyCreator struct {
	id     string
	called bool
	err    error
}

func (s *stubFamilyCreator) Create(ctx context.Context) (string, error) {
	s.called = true
	return s.id, s.err
}

type stubTokens struct {
	userID, familyID string
}

func (s *stubTokens) Issue(userID, familyID string) (string, error) {
	s.userID = userID
	s.familyID = familyID
	return "token-" + userID + "-" + familyID, nil
}

func newTestAuthService(users *stubAuthUserStore, families *stubFamilyCreator) *authService {
	svc := NewAuthService(users, families, &stubTokens{})
	svc.clockNow = func() time.Time { return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "user-1" }
	return svc
}

func TestRegisterCreatesUserAndFamily(t *testing.T) {
	users := &stubAuthUserStore{}
	families := &stubFamilyCreator{id: "fam-1"}
	svc := newTestAuthService(users, families)

	resp, err := svc.Register(helpers.TestCtx(), dto.RegisterRequest{
		Name:     " Alena ",
		Email:    "  Alena@Example.COM ",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !families.called {
		t.Fatalf("expected a family to be created")
	}
	if users.created == nil {
		t.Fatalf("expected user to be stored")
	}
	u := users.created
	if u.ID != "user-1" || u.FamilyID != "fam-1" || u.Name != "Alena" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Email != "alena@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Avatar != models.DefaultAvatar {
		t.Fatalf("expected default avatar, got %q", u.Avatar)
	}
	if u.Password == "secret" || !auth.CheckPassword(u.Password, "secret") {
		t.Fatalf("password not hashed")
	}
	if resp.Token != "token-user-1-fam-1" {
		t.Fatalf("token mismatch: %q", resp.Token)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := &stubAuthUserStore{byEmail: map[string]*models.User{"a@b.c": {ID: "u0"}}}
	families := &stubFamilyCreator{id: "fam-1"}
	svc := newTestAuthService(users, families)

	_, err := svc.Register(helpers.TestCtx(), dto.RegisterRequest{Name: "A", Email: "A@B.C", Password: "x"})
	var exists *errs.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
	if families.called || users.created != nil {
		t.Fatalf("nothing should be written on duplicate email")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(&stubAuthUserStore{}, &stubFamilyCreator{})

	cases := []dto.RegisterRequest{
		{Name: "A", Password: "x"},
		{Name: "A", Email: "a@b.c"},
		{Email: "a@b.c", Password: "x"},
	}
	for _, req := range cases {
		_, err := svc.Register(helpers.TestCtx(), req)
		var verr *errs.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %+v, got %v", req, err)
		}
	}
}

func TestRegisterPropagatesLookupFailure(t *testing.T) {
	dbErr := errs.NewDatabaseError("read", "failed to find user", errors.New("boom"))
	svc := newTestAuthService(&stubAuthUserStore{lookupErr: dbErr}, &stubFamilyCreator{})

	_, err := svc.Register(helpers.TestCtx(), dto.RegisterRequest{Name: "A", Email: "a@b.c", Password: "x"})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected database error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &stubAuthUserStore{byEmail: map[string]*models.User{
		"a@b.c": {ID: "u1", FamilyID: "f1", Email: "a@b.c", Password: hash},
	}}
	svc := newTestAuthService(users, &stubFamilyCreator{})

	resp, err := svc.Login(helpers.TestCtx(), dto.LoginRequest{Email: " A@B.C", Password: "secret"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if resp.Token != "token-u1-f1" || resp.User.ID != "u1" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	for _, req := range []dto.LoginRequest{
		{Email: "a@b.c", Password: "wrong"},
		{Email: "nobody@b.c", Password: "secret"},
	} {
		_, err := svc.Login(helpers.TestCtx(), req)
		var verr *errs.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %+v, got %v", req, err)
		}
	}
}
