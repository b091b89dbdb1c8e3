package store

import (
	"context"
	"strings"

	"github.com/nordicmaskin/kma/internal/normalize"
	"github.com/nordicmaskin/kma/internal/tabular"
	"github.com/nordicmaskin/kma/types"
)

// UserRepository handles persistence for users in the Users table.
type UserRepository struct {
	tables *tabular.Store
}

func NewUserRepository(tables *tabular.Store) *UserRepository {
	return &UserRepository{tables: tables}
}

// GetByName returns the first user whose normalized FullName matches.
func (r *UserRepository) GetByName(ctx context.Context, fullName string) (types.User, error) {
	rows, err := r.tables.ReadTable(ctx, tabular.TableUsers)
	if err != nil {
		return types.User{}, err
	}
	for _, row := range rows {
		if normalize.Equal(row.Get("FullName"), fullName) {
			return userFromRow(row), nil
		}
	}
	return types.User{}, ErrNotFound
}

// Create appends a user. Callers check for duplicates first.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	if err := r.tables.AppendRow(ctx, tabular.TableUsers, userToRow(user)); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func userFromRow(row tabular.Row) types.User {
	return types.User{
		FullName:     row.Get("FullName"),
		PasswordHash: row.Get("PasswordHash"),
		Email:        row.Get("Email"),
		IsActive:     parseBool(row.Get("IsActive")),
	}
}

func userToRow(user types.User) tabular.Row {
	active := "False"
	if user.IsActive {
		active = "True"
	}
	return tabular.Row{
		"FullName":     user.FullName,
		"PasswordHash": user.PasswordHash,
		"Email":        user.Email,
		"IsActive":     active,
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
