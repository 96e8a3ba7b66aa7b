package user

import (
	"context"

	"brewhaven-site/internal/domain"
)

type Repository interface {
	// Create stores a new user. Returns domain.ErrAlreadyExists when the
	// email is taken.
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
