package mocks

import (
	"context"
	"maps"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) GetUserByProfileID(ctx context.Context, profileID int64) (*models.User, error) {
	args := m.Called(ctx, profileID)
	return userOrNil(args.Get(0)), args.Error(1)
}

func userOrNil(v any) *models.User {
	if v == nil {
		return nil
	}

	return v.(*models.User)
}

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) CreateProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	return profileOrNil(args.Get(0)), args.Error(1)
}

func (m *ProfileRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	return profileOrNil(args.Get(0)), args.Error(1)
}

func (m *ProfileRepository) LockProfile(ctx context.Context, profileID int64) error {
	return m.Called(ctx, profileID).Error(0)
}

func profileOrNil(v any) *models.Profile {
	if v == nil {
		return nil
	}

	return v.(*models.Profile)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *ProductRepository) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]models.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Product), args.Int(1), args.Error(2)
}

func (m *ProductRepository) GetPriceBounds(ctx context.Context) (*models.PriceBounds, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PriceBounds), args.Error(1)
}

type CatalogRepository struct {
	mock.Mock
}

func (m *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *CatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CatalogRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Brand), args.Error(1)
}

func (m *CatalogRepository) ListLocations(ctx context.Context) ([]models.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Location), args.Error(1)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) AddQuantity(ctx context.Context, profileID, productID int64, quantity int) (int, error) {
	args := m.Called(ctx, profileID, productID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *CartRepository) EnsureItem(ctx context.Context, profileID, productID int64) error {
	return m.Called(ctx, profileID, productID).Error(0)
}

func (m *CartRepository) GetQuantityForUpdate(ctx context.Context, profileID, productID int64) (int, error) {
	args := m.Called(ctx, profileID, productID)
	return args.Int(0), args.Error(1)
}

func (m *CartRepository) SetQuantity(ctx context.Context, profileID, productID int64, quantity int) error {
	return m.Called(ctx, profileID, productID, quantity).Error(0)
}

func (m *CartRepository) RemoveItem(ctx context.Context, profileID, productID int64) error {
	return m.Called(ctx, profileID, productID).Error(0)
}

func (m *CartRepository) ListItems(ctx context.Context, profileID int64) (models.CartLines, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(models.CartLines), args.Error(1)
}

func (m *CartRepository) CountQuantity(ctx context.Context, profileID int64) (int, error) {
	args := m.Called(ctx, profileID)
	return args.Int(0), args.Error(1)
}

func (m *CartRepository) ClearCart(ctx context.Context, profileID int64) (int64, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(int64), args.Error(1)
}

type WishlistRepository struct {
	mock.Mock
}

func (m *WishlistRepository) AddFavorite(ctx context.Context, profileID, productID int64) (bool, error) {
	args := m.Called(ctx, profileID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *WishlistRepository) RemoveFavorite(ctx context.Context, profileID, productID int64) (bool, error) {
	args := m.Called(ctx, profileID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *WishlistRepository) CountFavorites(ctx context.Context, profileID int64) (int, error) {
	args := m.Called(ctx, profileID)
	return args.Int(0), args.Error(1)
}

func (m *WishlistRepository) ListFavorites(ctx context.Context, profileID int64) ([]models.Product, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Product), args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *OrderRepository) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) ListOrdersByProfile(ctx context.Context, profileID int64, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, profileID, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *OrderRepository) ListOrders(ctx context.Context, filter *models.OrderListFilter) ([]models.Order, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func orderOrNil(v any) *models.Order {
	if v == nil {
		return nil
	}

	return v.(*models.Order)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckLoginRateLimit(ctx context.Context, identifier string) (bool, int, int, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}

type GuestCartRepository struct {
	mock.Mock
}

func (m *GuestCartRepository) GetCart(ctx context.Context, sessionID string) (models.GuestCart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(models.GuestCart), args.Error(1)
}

// UpdateCart runs fn against a copy of the cart given as the first return
// value, so callers see the same result the store would write.
func (m *GuestCartRepository) UpdateCart(ctx context.Context, sessionID string, fn func(cart models.GuestCart) error) (models.GuestCart, error) {
	args := m.Called(ctx, sessionID, fn)
	if err := args.Error(1); err != nil {
		return nil, err
	}

	cart := models.GuestCart{}
	if stored, ok := args.Get(0).(models.GuestCart); ok {
		maps.Copy(cart, stored)
	}

	if err := fn(cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (m *GuestCartRepository) DeleteCart(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}
