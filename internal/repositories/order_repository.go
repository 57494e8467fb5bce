package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OrderRepository interface {
	// CreateOrder inserts the order and its items. Callers run it inside a
	// transaction so the two inserts land together.
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetOrderForUpdate locks the order row and returns it without items.
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, order *models.Order) error
	ListOrdersByProfile(ctx context.Context, profileID int64, page, size int) ([]models.Order, int, error)
	ListOrders(ctx context.Context, filter *models.OrderListFilter) ([]models.Order, int, error)
}

type orderRepository struct {
	DB DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, profile_id, full_name, phone, payment_method, status, is_processed, created_at, updated_at`

func scanOrder(row rowScanner, o *models.Order) error {
	return row.Scan(&o.ID, &o.ProfileID, &o.FullName, &o.Phone, &o.PaymentMethod, &o.Status, &o.IsProcessed, &o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO orders (id, profile_id, full_name, phone, payment_method, status, is_processed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query,
		order.ID, order.ProfileID, order.FullName, order.Phone, order.PaymentMethod, order.Status, order.IsProcessed,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		if err := r.DB.QueryRowContext(dbCtx, itemQuery, order.ID, item.ProductID, item.Name, item.Price, item.Quantity).Scan(&item.ID); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	if err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id), order); err != nil {
		return nil, err
	}

	orders := []models.Order{*order}
	if err := r.attachItems(dbCtx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

func (r *orderRepository) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	if err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id), order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET status = $1, is_processed = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query, order.Status, order.IsProcessed, order.ID).Scan(&order.UpdatedAt)
}

func (r *orderRepository) ListOrdersByProfile(ctx context.Context, profileID int64, page, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE profile_id = $1`, profileID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	orders, err := r.queryOrders(dbCtx, query, profileID, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter *models.OrderListFilter) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE ($1::text = '' OR status = $1::text)`, filter.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	orders, err := r.queryOrders(dbCtx, query, filter.Status, filter.PageSize, (filter.Page-1)*filter.PageSize)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the items of all given orders with one query.
func (r *orderRepository) attachItems(ctx context.Context, orders []models.Order) error {

	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID.String()
		index[o.ID] = i
	}

	query := `
		SELECT id, order_id, product_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	grouped := make([][]models.OrderItem, len(orders))

	for rows.Next() {
		var (
			item      models.OrderItem
			productID sql.NullInt64
		)

		if err := rows.Scan(&item.ID, &item.OrderID, &productID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}

		if productID.Valid {
			id := productID.Int64
			item.ProductID = &id
		}

		if i, ok := index[item.OrderID]; ok {
			grouped[i] = append(grouped[i], item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order item rows: %w", err)
	}

	for i := range orders {
		items := grouped[i]
		if items == nil {
			items = []models.OrderItem{}
		}
		orders[i].SetItems(items)
	}

	return nil
}
