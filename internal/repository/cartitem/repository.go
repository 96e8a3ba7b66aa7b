package cartitem

import (
	"context"

	"brewhaven-site/internal/domain"
)

// Repository is the row-store contract over the cart_items table.
type Repository interface {
	// ListByOwner returns every row owned by the given identity, oldest first.
	ListByOwner(ctx context.Context, owner domain.Owner) ([]domain.CartLineItem, error)
	// Insert stores a new row with the given quantity and returns it,
	// including the store-assigned id.
	Insert(ctx context.Context, owner domain.Owner, in domain.ItemInput, quantity int) (*domain.CartLineItem, error)
	// UpdateQuantity sets the quantity of the row with the given id.
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	// Delete removes the row with the given id.
	Delete(ctx context.Context, id string) error
	// DeleteByOwner removes every row owned by the given identity.
	DeleteByOwner(ctx context.Context, owner domain.Owner) error
}
