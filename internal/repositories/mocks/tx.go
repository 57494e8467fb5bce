package mocks

import (
	"context"
	"time"

	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// RepositoryFactory exposes the mocks a transaction callback receives.
type RepositoryFactory struct {
	UserRepo     *UserRepository
	ProfileRepo  *ProfileRepository
	CartRepo     *CartRepository
	WishlistRepo *WishlistRepository
	OrderRepo    *OrderRepository
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{
		UserRepo:     new(UserRepository),
		ProfileRepo:  new(ProfileRepository),
		CartRepo:     new(CartRepository),
		WishlistRepo: new(WishlistRepository),
		OrderRepo:    new(OrderRepository),
	}
}

func (f *RepositoryFactory) Users() repository.UserRepository { return f.UserRepo }
func (f *RepositoryFactory) Profiles() repository.ProfileRepository { return f.ProfileRepo }
func (f *RepositoryFactory) Carts() repository.CartRepository { return f.CartRepo }
func (f *RepositoryFactory) Wishlists() repository.WishlistRepository { return f.WishlistRepo }
func (f *RepositoryFactory) Orders() repository.OrderRepository { return f.OrderRepo }

// TxManager runs the callback against Repos unless the expectation returns
// an error, which simulates a failed BEGIN.
type TxManager struct {
	mock.Mock
	Repos *RepositoryFactory
}

func NewTxManager(repos *RepositoryFactory) *TxManager {
	return &TxManager{Repos: repos}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(repos repository.RepositoryFactory) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}

	return fn(m.Repos)
}

type Cache struct {
	mock.Mock
}

func (m *Cache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func (m *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *Cache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *Cache) Update(ctx context.Context, key string, ttl time.Duration, fn func(current []byte) ([]byte, error)) error {
	return m.Called(ctx, key, ttl, fn).Error(0)
}

func (m *Cache) Close() error {
	return m.Called().Error(0)
}
