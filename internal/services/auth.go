package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/surenmigorskiy-ui/duo-backend/internal/auth"
	"github.com/surenmigorskiy-ui/duo-backend/internal/dto"
	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

type authUserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type familyCreator interface {
	Create(ctx context.Context) (string, error)
}

type tokenIssuer interface {
	Issue(userID, familyID string) (string, error)
}

type authService struct {
	users    authUserStore
	families familyCreator
	tokens   tokenIssuer
	clockNow func() time.Time
	newID    func() string
}

func NewAuthService(users authUserStore, families familyCreator, tokens tokenIssuer) *authService {
	return &authService{
		users:    users,
		families: families,
		tokens:   tokens,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

// Register creates the user together with a new family of one.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return dto.AuthResponse{}, errs.NewValidationError("email and password are required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.AuthResponse{}, errs.NewValidationError("name is required")
	}

	log, ctx := logger.With(ctx, "email", email)

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return dto.AuthResponse{}, errs.NewAlreadyExistsError("a user with this email already exists")
	}
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		log.Error("failed to look up user by email", "error", err)
		return dto.AuthResponse{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return dto.AuthResponse{}, err
	}

	familyID, err := s.families.Create(ctx)
	if err != nil {
		log.Error("failed to create family", "error", err)
		return dto.AuthResponse{}, err
	}

	avatar := strings.TrimSpace(req.Avatar)
	if avatar == "" {
		avatar = models.DefaultAvatar
	}
	user := &models.User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Avatar:    avatar,
		FamilyID:  familyID,
		Password:  hash,
		CreatedAt: s.clockNow(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user in store", "error", err)
		return dto.AuthResponse{}, err
	}

	token, err := s.tokens.Issue(user.ID, user.FamilyID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	log.Info("user registered", "user_id", user.ID, "family_id", familyID)
	return dto.AuthResponse{Token: token, User: *user}, nil
}

// Login does not distinguish an unknown email from a wrong password.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return dto.AuthResponse{}, errs.NewValidationError("email and password are required")
	}
	log, ctx := logger.With(ctx, "email", email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return dto.AuthResponse{}, errs.NewValidationError("invalid email or password")
		}
		log.Error("failed to look up user by email", "error", err)
		return dto.AuthResponse{}, err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		log.Info("login rejected")
		return dto.AuthResponse{}, errs.NewValidationError("invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.FamilyID)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	log.Info("user logged in", "user_id", user.ID)
	return dto.AuthResponse{Token: token, User: *user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
