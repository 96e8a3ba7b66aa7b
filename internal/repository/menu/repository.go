package menu

import (
	"context"

	"brewhaven-site/internal/domain"
)

type Repository interface {
	// List returns the full menu ordered by category and position.
	List(ctx context.Context) ([]domain.MenuItem, error)
}
