package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	domainerrors "souq/internal/errors"
	"souq/internal/model"
	"souq/internal/repository"
)

const bcryptCost = 10

// CredentialService handles username/password storage and verification.
// There are no sessions or tokens anywhere in the system; credentials are
// re-submitted with every privileged request.
type CredentialService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Verify(ctx context.Context, username, password string) (bool, error)
	ResolveOrCreate(ctx context.Context, username, password string) (*model.User, error)
	Match(user *model.User, password string) bool
}

type credentialService struct {
	userRepo repository.UserRepository
}

// NewCredentialService creates a new credential service.
func NewCredentialService(userRepo repository.UserRepository) CredentialService {
	return &credentialService{userRepo: userRepo}
}

// Register creates a new user with a bcrypt-hashed password. The plaintext
// is never stored. A duplicate username surfaces as ErrUsernameTaken.
func (s *credentialService) Register(ctx context.Context, username, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainerrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Verify reports whether the supplied password matches the stored hash for
// username. Returns ErrUserNotFound when the user does not exist.
func (s *credentialService) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domainerrors.ErrUserNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return s.Match(user, password), nil
}

// ResolveOrCreate is the single register-or-login branch used when a post
// is submitted: a never-seen username becomes a new account, an existing
// username must present its password. The existence check is only an
// optimization; if a concurrent request registers the username first, the
// unique index rejects the insert and the loser gets ErrUsernameTaken.
func (s *credentialService) ResolveOrCreate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Register(ctx, username, password)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.Match(user, password) {
		return nil, domainerrors.ErrInvalidPassword
	}
	return user, nil
}

// Match compares a plaintext password against a user's stored hash.
// bcrypt's comparison is constant-time over the hash output.
func (s *credentialService) Match(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
