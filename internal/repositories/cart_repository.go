package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

// CartRepository persists the cart lines of authenticated profiles.
// There is at most one line per (profile, product) and its quantity is >= 1.
type CartRepository interface {
	// AddQuantity inserts the line or increments an existing one and
	// returns the resulting quantity. It fails with models.ErrQuantityLimit
	// instead of growing a line past models.MaxLineQuantity.
	AddQuantity(ctx context.Context, profileID, productID int64, quantity int) (int, error)
	// EnsureItem creates the line with quantity 1 unless it already exists.
	EnsureItem(ctx context.Context, profileID, productID int64) error
	// GetQuantityForUpdate locks the line and returns its quantity.
	GetQuantityForUpdate(ctx context.Context, profileID, productID int64) (int, error)
	SetQuantity(ctx context.Context, profileID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, profileID, productID int64) error
	ListItems(ctx context.Context, profileID int64) (models.CartLines, error)
	CountQuantity(ctx context.Context, profileID int64) (int, error)
	ClearCart(ctx context.Context, profileID int64) (int64, error)
}

type cartRepository struct {
	DB DBTX
}

func NewCartRepo(db DBTX) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) AddQuantity(ctx context.Context, profileID, productID int64, quantity int) (int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (profile_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		WHERE cart_items.quantity + EXCLUDED.quantity <= $4
		RETURNING quantity`

	var newQty int

	err := r.DB.QueryRowContext(dbCtx, query, profileID, productID, quantity, models.MaxLineQuantity).Scan(&newQty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrQuantityLimit
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add cart item: %w", err)
	}

	return newQty, nil
}

func (r *cartRepository) EnsureItem(ctx context.Context, profileID, productID int64) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (profile_id, product_id, quantity, added_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (profile_id, product_id) DO NOTHING`

	if _, err := r.DB.ExecContext(dbCtx, query, profileID, productID); err != nil {
		return fmt.Errorf("failed to ensure cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) GetQuantityForUpdate(ctx context.Context, profileID, productID int64) (int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT quantity FROM cart_items
		WHERE profile_id = $1 AND product_id = $2
		FOR UPDATE`

	var qty int

	if err := r.DB.QueryRowContext(dbCtx, query, profileID, productID).Scan(&qty); err != nil {
		return 0, err
	}

	return qty, nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, profileID, productID int64, quantity int) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE cart_items SET quantity = $1 WHERE profile_id = $2 AND product_id = $3`

	if _, err := r.DB.ExecContext(dbCtx, query, quantity, profileID, productID); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return nil
}

// RemoveItem is idempotent; removing a missing line is not an error.
func (r *cartRepository) RemoveItem(ctx context.Context, profileID, productID int64) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE profile_id = $1 AND product_id = $2`

	if _, err := r.DB.ExecContext(dbCtx, query, profileID, productID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// ListItems returns the lines priced with the current product price.
func (r *cartRepository) ListItems(ctx context.Context, profileID int64) (models.CartLines, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ci.product_id, p.name, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.profile_id = $1
		ORDER BY ci.added_at, ci.id`

	rows, err := r.DB.QueryContext(dbCtx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	lines := models.CartLines{}

	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Price, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart rows: %w", err)
	}

	return lines, nil
}

func (r *cartRepository) CountQuantity(ctx context.Context, profileID int64) (int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var qty int

	query := `SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE profile_id = $1`

	if err := r.DB.QueryRowContext(dbCtx, query, profileID).Scan(&qty); err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}

	return qty, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, profileID int64) (int64, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE profile_id = $1`, profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted rows: %w", err)
	}

	return deleted, nil
}
