package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	// Checkout converts the profile's cart into an order and empties the cart
	// in one transaction.
	Checkout(ctx context.Context, actor models.Actor, req *models.CheckoutRequest) (*models.Order, error)
	GetOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error)
	ListMyOrders(ctx context.Context, actor models.Actor, page, size int) (*models.PaginatedResponse, error)
	ListAllOrders(ctx context.Context, actor models.Actor, filter *models.OrderListFilter) (*models.PaginatedResponse, error)
	ApplyAction(ctx context.Context, actor models.Actor, id uuid.UUID, action string) (*models.Order, error)
}

type orderService struct {
	orders   repository.OrderRepository
	tx       repository.TxManager
	notifier NotificationService
}

func NewOrderService(orders repository.OrderRepository, tx repository.TxManager, notifier NotificationService) OrderService {
	return &orderService{orders: orders, tx: tx, notifier: notifier}
}

func (s *orderService) Checkout(ctx context.Context, actor models.Actor, req *models.CheckoutRequest) (*models.Order, error) {

	if actor.ProfileID == 0 {
		return nil, appErrors.UnauthorizedError("Login required to place an order")
	}

	order := &models.Order{
		ID:            uuid.New(),
		ProfileID:     actor.ProfileID,
		FullName:      sanitize(req.FullName),
		Phone:         sanitize(req.Phone),
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusNew,
	}

	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentMethodBank
	}

	err := s.tx.WithinTx(ctx, func(repos repository.RepositoryFactory) error {
		// serializes checkouts of the same profile
		if err := repos.Profiles().LockProfile(ctx, actor.ProfileID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.NotFoundError("Profile not found").WithError(err)
			}

			return err
		}

		lines, err := repos.Carts().ListItems(ctx, actor.ProfileID)
		if err != nil {
			return err
		}

		if len(lines) == 0 {
			return appErrors.PreconditionFailedError("Cart is empty")
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			productID := line.ProductID
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: &productID,
				Name:      line.Name,
				Price:     line.Price,
				Quantity:  line.Quantity,
			})
		}
		order.SetItems(items)

		if err := repos.Orders().CreateOrder(ctx, order); err != nil {
			return err
		}

		_, err = repos.Carts().ClearCart(ctx, actor.ProfileID)

		return err
	})
	if err != nil {
		if appErr, ok := appErrors.IsAppError(err); ok {
			return nil, appErr
		}

		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	metrics.RecordOrderPlaced()
	s.notifier.OrderPlaced(ctx, order)

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin && order.ProfileID != actor.ProfileID {
		return nil, appErrors.ForbiddenError("You do not have access to this order")
	}

	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, actor models.Actor, page, size int) (*models.PaginatedResponse, error) {

	page, size = normalizePage(page, size)

	orders, total, err := s.orders.ListOrdersByProfile(ctx, actor.ProfileID, page, size)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	resp := models.NewPaginatedResponse(orders, total, page, size)

	return &resp, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, actor models.Actor, filter *models.OrderListFilter) (*models.PaginatedResponse, error) {

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.AddValidationError("status", "must be one of new, accepted, completed, canceled")
	}

	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	orders, total, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	resp := models.NewPaginatedResponse(orders, total, filter.Page, filter.PageSize)

	return &resp, nil
}

func (s *orderService) ApplyAction(ctx context.Context, actor models.Actor, id uuid.UUID, action string) (*models.Order, error) {

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	orderAction, err := models.ParseOrderAction(action)
	if err != nil {
		return nil, appErrors.ValidationError("Unknown action").WithError(err)
	}

	err = s.tx.WithinTx(ctx, func(repos repository.RepositoryFactory) error {
		order, err := repos.Orders().GetOrderForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.NotFoundError("Order not found").WithError(err)
			}

			return err
		}

		if err := order.Apply(orderAction); err != nil {
			return appErrors.InvalidTransitionError(err.Error()).WithError(err)
		}

		return repos.Orders().UpdateOrderStatus(ctx, order)
	})
	metrics.RecordOrderTransition(action, err)
	if err != nil {
		if appErr, ok := appErrors.IsAppError(err); ok {
			return nil, appErr
		}

		return nil, appErrors.DatabaseError("Failed to update order").WithError(err)
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifier.OrderStatusChanged(ctx, order)

	return order, nil
}

func (s *orderService) getOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}
