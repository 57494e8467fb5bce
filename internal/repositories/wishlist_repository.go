package repository

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

type WishlistRepository interface {
	// AddFavorite reports whether the product was newly added.
	AddFavorite(ctx context.Context, profileID, productID int64) (bool, error)
	// RemoveFavorite reports whether the product was in the set.
	RemoveFavorite(ctx context.Context, profileID, productID int64) (bool, error)
	CountFavorites(ctx context.Context, profileID int64) (int, error)
	ListFavorites(ctx context.Context, profileID int64) ([]models.Product, error)
}

type wishlistRepository struct {
	DB DBTX
}

func NewWishlistRepo(db DBTX) WishlistRepository {
	return &wishlistRepository{DB: db}
}

func (r *wishlistRepository) AddFavorite(ctx context.Context, profileID, productID int64) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO favorites (profile_id, product_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (profile_id, product_id) DO NOTHING`

	result, err := r.DB.ExecContext(dbCtx, query, profileID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get inserted rows: %w", err)
	}

	return affected > 0, nil
}

func (r *wishlistRepository) RemoveFavorite(ctx context.Context, profileID, productID int64) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM favorites WHERE profile_id = $1 AND product_id = $2`, profileID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get deleted rows: %w", err)
	}

	return affected > 0, nil
}

func (r *wishlistRepository) CountFavorites(ctx context.Context, profileID int64) (int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var count int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM favorites WHERE profile_id = $1`, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	return count, nil
}

func (r *wishlistRepository) ListFavorites(ctx context.Context, profileID int64) ([]models.Product, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + `
		FROM favorites f
		JOIN products p ON p.id = f.product_id
		WHERE f.profile_id = $1
		ORDER BY f.created_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}

	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}
