package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
)

type WishlistService interface {
	// Toggle adds the product to the favorites set, or removes it when it is
	// already there, and reports the new set size.
	Toggle(ctx context.Context, profileID, productID int64) (*models.WishlistToggleResponse, error)
	Remove(ctx context.Context, profileID, productID int64) error
	List(ctx context.Context, profileID int64) ([]models.Product, error)
}

type wishlistService struct {
	products  repository.ProductRepository
	wishlists repository.WishlistRepository
	tx        repository.TxManager
}

func NewWishlistService(products repository.ProductRepository, wishlists repository.WishlistRepository, tx repository.TxManager) WishlistService {
	return &wishlistService{products: products, wishlists: wishlists, tx: tx}
}

func (s *wishlistService) Toggle(ctx context.Context, profileID, productID int64) (*models.WishlistToggleResponse, error) {

	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	resp := &models.WishlistToggleResponse{Success: true}

	err := s.tx.WithinTx(ctx, func(repos repository.RepositoryFactory) error {
		wishlists := repos.Wishlists()

		removed, err := wishlists.RemoveFavorite(ctx, profileID, productID)
		if err != nil {
			return err
		}

		resp.Action = models.WishlistRemoved
		if !removed {
			if _, err := wishlists.AddFavorite(ctx, profileID, productID); err != nil {
				return err
			}
			resp.Action = models.WishlistAdded
		}

		resp.WishlistQty, err = wishlists.CountFavorites(ctx, profileID)

		return err
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update wishlist").WithError(err)
	}

	return resp, nil
}

func (s *wishlistService) Remove(ctx context.Context, profileID, productID int64) error {

	if _, err := s.wishlists.RemoveFavorite(ctx, profileID, productID); err != nil {
		return appErrors.DatabaseError("Failed to update wishlist").WithError(err)
	}

	return nil
}

func (s *wishlistService) List(ctx context.Context, profileID int64) ([]models.Product, error) {

	products, err := s.wishlists.ListFavorites(ctx, profileID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch wishlist").WithError(err)
	}

	return products, nil
}
