package cartitem

import (
	"context"
	"errors"

	"brewhaven-site/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByOwner(ctx context.Context, owner domain.Owner) ([]domain.CartLineItem, error) {
	const byUser = `
SELECT id::text, item_name, item_price::float8, item_description, item_category, quantity
FROM cart_items
WHERE user_id = $1
ORDER BY created_at ASC
`
	const bySession = `
SELECT id::text, item_name, item_price::float8, item_description, item_category, quantity
FROM cart_items
WHERE session_id = $1
ORDER BY created_at ASC
`
	q := bySession
	if owner.Kind == domain.OwnerUser {
		q = byUser
	}
	rows, err := r.pool.Query(ctx, q, owner.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.CartLineItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) Insert(ctx context.Context, owner domain.Owner, in domain.ItemInput, quantity int) (*domain.CartLineItem, error) {
	const q = `
INSERT INTO cart_items (user_id, session_id, item_name, item_price, item_description, item_category, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text, item_name, item_price::float8, item_description, item_category, quantity
`
	userID, sessionID := owner.Columns()
	item, err := scanItem(r.pool.QueryRow(ctx, q, userID, sessionID, in.Name, in.Price, in.Description, in.Category, quantity))
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE cart_items SET quantity = $1 WHERE id = $2`, quantity, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteByOwner(ctx context.Context, owner domain.Owner) error {
	q := `DELETE FROM cart_items WHERE session_id = $1`
	if owner.Kind == domain.OwnerUser {
		q = `DELETE FROM cart_items WHERE user_id = $1`
	}
	_, err := r.pool.Exec(ctx, q, owner.ID)
	return err
}

func scanItem(row pgx.Row) (domain.CartLineItem, error) {
	var item domain.CartLineItem
	var description *string
	var category *string
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&description,
		&category,
		&item.Quantity,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CartLineItem{}, domain.ErrNotFound
		}
		return domain.CartLineItem{}, err
	}
	if description != nil {
		item.Description = *description
	}
	if category != nil {
		item.Category = *category
	}
	return item, nil
}
