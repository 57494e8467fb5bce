package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

// GuestCartRepository keeps anonymous carts in the session store.
type GuestCartRepository interface {
	GetCart(ctx context.Context, sessionID string) (models.GuestCart, error)
	// UpdateCart applies fn to the stored cart atomically and returns the
	// cart as written. The expiry is refreshed and an empty cart is deleted.
	// fn may run more than once and must only touch the cart it is given.
	UpdateCart(ctx context.Context, sessionID string, fn func(cart models.GuestCart) error) (models.GuestCart, error)
	DeleteCart(ctx context.Context, sessionID string) error
}

type guestCartRepository struct {
	store cache.Cache
	ttl   time.Duration
}

func NewGuestCartRepo(store cache.Cache, ttl time.Duration) GuestCartRepository {
	return &guestCartRepository{store: store, ttl: ttl}
}

func (r *guestCartRepository) GetCart(ctx context.Context, sessionID string) (models.GuestCart, error) {

	cart := models.GuestCart{}

	found, err := r.store.Get(ctx, cache.GuestCartKey(sessionID), &cart)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}

	if !found || cart == nil {
		return models.GuestCart{}, nil
	}

	return cart, nil
}

func (r *guestCartRepository) UpdateCart(ctx context.Context, sessionID string, fn func(cart models.GuestCart) error) (models.GuestCart, error) {

	var updated models.GuestCart

	err := r.store.Update(ctx, cache.GuestCartKey(sessionID), r.ttl, func(current []byte) ([]byte, error) {
		cart := models.GuestCart{}
		if current != nil {
			if err := json.Unmarshal(current, &cart); err != nil {
				return nil, fmt.Errorf("failed to decode guest cart: %w", err)
			}
			if cart == nil {
				cart = models.GuestCart{}
			}
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		updated = cart
		if len(cart) == 0 {
			return nil, nil
		}

		return json.Marshal(cart)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update guest cart: %w", err)
	}

	return updated, nil
}

func (r *guestCartRepository) DeleteCart(ctx context.Context, sessionID string) error {

	if err := r.store.Delete(ctx, cache.GuestCartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to delete guest cart: %w", err)
	}

	return nil
}
