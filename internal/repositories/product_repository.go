package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/lib/pq"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]models.Product, int, error)
	GetPriceBounds(ctx context.Context) (*models.PriceBounds, error)
}

type productRepository struct {
	DB DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `p.id, p.category_id, p.brand_id, p.name, p.slug, p.description, p.complectation,
		p.price, p.old_price, p.discount, p.status, p.is_available, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *models.Product) error {
	return row.Scan(&p.ID, &p.CategoryID, &p.BrandID, &p.Name, &p.Slug, &p.Description, &p.Complectation,
		&p.Price, &p.OldPrice, &p.Discount, &p.Status, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (category_id, brand_id, name, slug, description, complectation,
			price, old_price, discount, status, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return r.DB.QueryRowContext(dbCtx, query,
		product.CategoryID, product.BrandID, product.Name, product.Slug, product.Description, product.Complectation,
		product.Price, product.OldPrice, product.Discount, product.Status, product.IsAvailable,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`

	if err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id), product); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET category_id = $1, brand_id = $2, name = $3, slug = $4, description = $5, complectation = $6,
			price = $7, old_price = $8, discount = $9, status = $10, is_available = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query,
		product.CategoryID, product.BrandID, product.Name, product.Slug, product.Description, product.Complectation,
		product.Price, product.OldPrice, product.Discount, product.Status, product.IsAvailable, product.ID,
	).Scan(&product.UpdatedAt)
}

// DeleteProduct removes the product. Cart lines and favorites go with it,
// order items keep their snapshot with a NULL product reference.
func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *productRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1 AND id <> $2)`

	if err := r.DB.QueryRowContext(dbCtx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}

	return exists, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// productWhere renders the WHERE clause for a listing filter. Category id 0
// means "all categories" and disables the category condition.
func productWhere(filter *models.ProductFilter) (string, []any) {

	var (
		conds []string
		args  []any
	)

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		ph := next("%" + likeEscaper.Replace(q) + "%")
		conds = append(conds, fmt.Sprintf("(p.name ILIKE %s OR c.name ILIKE %s)", ph, ph))
	}

	if ids := filter.CategoryIDs; len(ids) > 0 {
		all := false
		for _, id := range ids {
			if id == 0 {
				all = true
				break
			}
		}
		if !all {
			conds = append(conds, "p.category_id = ANY("+next(pq.Array(ids))+")")
		}
	}

	if filter.PriceMin != nil {
		conds = append(conds, "p.price >= "+next(*filter.PriceMin))
	}

	if filter.PriceMax != nil {
		conds = append(conds, "p.price <= "+next(*filter.PriceMax))
	}

	if filter.Discounted {
		conds = append(conds, "(COALESCE(p.discount, 0) > 0 OR (p.old_price IS NOT NULL AND p.old_price > p.price))")
	}

	if len(conds) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func productOrderBy(sort models.ProductSort) string {
	switch sort {
	case models.SortPriceAsc:
		return " ORDER BY p.price ASC, p.id DESC"
	case models.SortPriceDesc:
		return " ORDER BY p.price DESC, p.id DESC"
	case models.SortPopular:
		return " ORDER BY COALESCE(pop.in_carts, 0) DESC, p.id DESC"
	default:
		return " ORDER BY p.id DESC"
	}
}

func (r *productRepository) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]models.Product, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where, args := productWhere(filter)

	var total int

	countQuery := `SELECT COUNT(*) FROM products p LEFT JOIN categories c ON c.id = p.category_id` + where

	if err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN (
			SELECT product_id, SUM(quantity) AS in_carts FROM cart_items GROUP BY product_id
		) pop ON pop.product_id = p.id` +
		where + productOrderBy(filter.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := r.DB.QueryContext(dbCtx, query, append(args, filter.PageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0, filter.PageSize)

	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating product rows: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) GetPriceBounds(ctx context.Context) (*models.PriceBounds, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	bounds := &models.PriceBounds{}

	query := `SELECT MIN(price), MAX(price) FROM products`

	if err := r.DB.QueryRowContext(dbCtx, query).Scan(&bounds.MinPrice, &bounds.MaxPrice); err != nil {
		return nil, fmt.Errorf("failed to load price bounds: %w", err)
	}

	return bounds, nil
}
