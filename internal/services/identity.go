package services

import (
	"context"
	"errors"
	"strings"

	"github.com/nordicmaskin/kma/internal/store"
	"github.com/nordicmaskin/kma/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByName(ctx context.Context, fullName string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// UserService verifies credentials and creates accounts.
type UserService struct {
	repo UserRepository
	cost int
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

// CreateUser registers a new active account. Names differing only by case
// or surrounding whitespace are the same identity.
func (s *UserService) CreateUser(ctx context.Context, fullName, password, email string) (types.User, error) {
	if err := Required("full_name", fullName, "password", password); err != nil {
		return types.User{}, err
	}

	if _, err := s.repo.GetByName(ctx, fullName); err == nil {
		return types.User{}, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hashed),
		Email:        strings.TrimSpace(email),
		IsActive:     true,
	})
}

// Authenticate checks credentials against the first user with a matching
// name. Inactive accounts are rejected before the password is checked.
func (s *UserService) Authenticate(ctx context.Context, fullName, password string) (types.User, error) {
	user, err := s.repo.GetByName(ctx, fullName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrUserNotFound
		}
		return types.User{}, err
	}

	if !user.IsActive {
		return types.User{}, ErrInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrBadPassword
	}
	return user, nil
}
