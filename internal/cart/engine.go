package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"brewhaven-site/internal/domain"
)

// ErrBusy is returned when an operation is attempted while another one is
// still in flight for the same engine. Callers retry once the pending
// operation settles.
var ErrBusy = errors.New("cart operation already in flight")

// Store is the remote cart store the engine writes through to.
type Store interface {
	ListByOwner(ctx context.Context, owner domain.Owner) ([]domain.CartLineItem, error)
	Insert(ctx context.Context, owner domain.Owner, in domain.ItemInput, quantity int) (*domain.CartLineItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, owner domain.Owner) error
}

// Engine keeps the in-memory cart of one owner consistent with the remote
// store. Local state is mutated only after the store confirms the
// corresponding write; a failed call leaves the local list untouched.
//
// A single in-flight slot serializes operations: a second call while one is
// pending fails with ErrBusy. The generation counter detects owner changes
// that happen while a call is in flight, so stale results never overwrite
// state belonging to the new owner.
type Engine struct {
	store  Store
	logger *log.Logger

	mu      sync.Mutex
	owner   domain.Owner
	gen     uint64
	items   []domain.CartLineItem
	loading bool
}

// NewEngine builds an engine scoped to the given owner. The caller is
// expected to run Load before reading state.
func NewEngine(store Store, owner domain.Owner, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{store: store, owner: owner, logger: logger}
}

// begin claims the in-flight slot and snapshots the owner and generation the
// operation is issued for.
func (e *Engine) begin() (domain.Owner, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loading {
		return domain.Owner{}, 0, ErrBusy
	}
	e.loading = true
	return e.owner, e.gen, nil
}

func (e *Engine) finish() {
	e.mu.Lock()
	e.loading = false
	e.mu.Unlock()
}

// Load replaces the local list with the owner's rows from the store. On
// failure the local list keeps its previous value.
func (e *Engine) Load(ctx context.Context) error {
	owner, gen, err := e.begin()
	if err != nil {
		return err
	}
	defer e.finish()

	items, err := e.store.ListByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		e.logger.Printf("discarding stale cart load for %s", owner.Key())
		return nil
	}
	e.items = items
	return nil
}

// SetOwner switches the engine to a new owner identity and loads that
// owner's rows. The previous owner's items are not merged; they stay in the
// store under the old identity. The local list is emptied immediately so the
// old owner's items are never visible under the new identity, even when the
// load has to wait for an in-flight operation to settle.
func (e *Engine) SetOwner(ctx context.Context, owner domain.Owner) error {
	e.mu.Lock()
	if e.owner == owner {
		e.mu.Unlock()
		return nil
	}
	e.owner = owner
	e.gen++
	e.items = nil
	e.mu.Unlock()
	return e.Load(ctx)
}

// AddItem adds one unit of the given menu item to the cart. An item with the
// same name and category already in the local list is incremented instead of
// inserted again.
func (e *Engine) AddItem(ctx context.Context, in domain.ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("item name required")
	}
	if in.Price < 0 {
		return errors.New("item price must not be negative")
	}

	owner, gen, err := e.begin()
	if err != nil {
		return err
	}
	defer e.finish()

	e.mu.Lock()
	var existingID string
	var existingQty int
	for i := range e.items {
		if e.items[i].Name == in.Name && e.items[i].Category == in.Category {
			existingID = e.items[i].ID
			existingQty = e.items[i].Quantity
			break
		}
	}
	e.mu.Unlock()

	if existingID != "" {
		return e.writeQuantity(ctx, gen, existingID, existingQty+1)
	}

	stored, err := e.store.Insert(ctx, owner, in, 1)
	if err != nil {
		return fmt.Errorf("add item: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		// The row was written for the previous owner; it stays in the
		// store but must not show up under the new identity.
		return nil
	}
	e.items = append(e.items, *stored)
	return nil
}

// UpdateQuantity sets a line item's quantity. A quantity of zero or less
// removes the item instead; a non-positive quantity is never stored.
func (e *Engine) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	_, gen, err := e.begin()
	if err != nil {
		return err
	}
	defer e.finish()
	return e.writeQuantity(ctx, gen, id, quantity)
}

// RemoveItem deletes a line item from the store and, on success, from the
// local list.
func (e *Engine) RemoveItem(ctx context.Context, id string) error {
	_, gen, err := e.begin()
	if err != nil {
		return err
	}
	defer e.finish()
	return e.deleteItem(ctx, gen, id)
}

// Clear removes every row owned by the current identity.
func (e *Engine) Clear(ctx context.Context) error {
	owner, gen, err := e.begin()
	if err != nil {
		return err
	}
	defer e.finish()

	if err := e.store.DeleteByOwner(ctx, owner); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return nil
	}
	e.items = nil
	return nil
}

// writeQuantity performs the write-through quantity update. The in-flight
// slot must already be held.
func (e *Engine) writeQuantity(ctx context.Context, gen uint64, id string, quantity int) error {
	if quantity <= 0 {
		return e.deleteItem(ctx, gen, id)
	}

	if err := e.store.UpdateQuantity(ctx, id, quantity); err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return nil
	}
	for i := range e.items {
		if e.items[i].ID == id {
			e.items[i].Quantity = quantity
			break
		}
	}
	return nil
}

// deleteItem performs the write-through removal. The in-flight slot must
// already be held.
func (e *Engine) deleteItem(ctx context.Context, gen uint64, id string) error {
	if err := e.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return nil
	}
	kept := e.items[:0]
	for _, item := range e.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	e.items = kept
	return nil
}

// Items returns a copy of the local line-item list in load/insertion order.
func (e *Engine) Items() []domain.CartLineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.CartLineItem, len(e.items))
	copy(out, e.items)
	return out
}

// TotalItems is the sum of all quantities.
func (e *Engine) TotalItems() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0
	for _, item := range e.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity over all items.
func (e *Engine) TotalPrice() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0.0
	for _, item := range e.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Loading reports whether an operation is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Owner returns the identity the engine is currently scoped to.
func (e *Engine) Owner() domain.Owner {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.owner
}
