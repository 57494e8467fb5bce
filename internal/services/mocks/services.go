package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *UserService) GetProfile(ctx context.Context, actor models.Actor) (*models.ProfileResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ProfileResponse), args.Error(1)
}

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) ListProducts(ctx context.Context, filter *models.ProductFilter) (*models.ProductListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ProductListResponse), args.Error(1)
}

func (m *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *CatalogService) CreateProduct(ctx context.Context, actor models.Actor, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *CatalogService) UpdateProduct(ctx context.Context, actor models.Actor, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *CatalogService) DeleteProduct(ctx context.Context, actor models.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *CatalogService) GetCategory(ctx context.Context, slug string) (*models.CategoryDetailResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CategoryDetailResponse), args.Error(1)
}

func (m *CatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Brand), args.Error(1)
}

func (m *CatalogService) ListLocations(ctx context.Context) ([]models.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Location), args.Error(1)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, owner models.CartOwner) (*models.CartView, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartView), args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, owner models.CartOwner, productID int64, quantity int) (*models.AddItemResponse, error) {
	args := m.Called(ctx, owner, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.AddItemResponse), args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, owner models.CartOwner, productID int64, action models.CartAction) (*models.QuantityChange, error) {
	args := m.Called(ctx, owner, productID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.QuantityChange), args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, owner models.CartOwner, productID int64) error {
	return m.Called(ctx, owner, productID).Error(0)
}

func (m *CartService) ClaimGuestCart(ctx context.Context, profileID int64, sessionID string) (*models.ClaimCartResponse, error) {
	args := m.Called(ctx, profileID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ClaimCartResponse), args.Error(1)
}

type WishlistService struct {
	mock.Mock
}

func (m *WishlistService) Toggle(ctx context.Context, profileID, productID int64) (*models.WishlistToggleResponse, error) {
	args := m.Called(ctx, profileID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.WishlistToggleResponse), args.Error(1)
}

func (m *WishlistService) Remove(ctx context.Context, profileID, productID int64) error {
	return m.Called(ctx, profileID, productID).Error(0)
}

func (m *WishlistService) List(ctx context.Context, profileID int64) ([]models.Product, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Product), args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) Checkout(ctx context.Context, actor models.Actor, req *models.CheckoutRequest) (*models.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) ListMyOrders(ctx context.Context, actor models.Actor, page, size int) (*models.PaginatedResponse, error) {
	args := m.Called(ctx, actor, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PaginatedResponse), args.Error(1)
}

func (m *OrderService) ListAllOrders(ctx context.Context, actor models.Actor, filter *models.OrderListFilter) (*models.PaginatedResponse, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PaginatedResponse), args.Error(1)
}

func (m *OrderService) ApplyAction(ctx context.Context, actor models.Actor, id uuid.UUID, action string) (*models.Order, error) {
	args := m.Called(ctx, actor, id, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) OrderPlaced(ctx context.Context, order *models.Order) {
	m.Called(ctx, order)
}

func (m *NotificationService) OrderStatusChanged(ctx context.Context, order *models.Order) {
	m.Called(ctx, order)
}
