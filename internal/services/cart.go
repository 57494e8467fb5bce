package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/shopspring/decimal"
)

// CartService exposes one cart contract over two stores: cart_items rows for
// profiles and a session-keyed snapshot for guests.
type CartService interface {
	GetCart(ctx context.Context, owner models.CartOwner) (*models.CartView, error)
	// AddItem increments the line by quantity, creating it when missing, and
	// returns the quantity across the whole cart.
	AddItem(ctx context.Context, owner models.CartOwner, productID int64, quantity int) (*models.AddItemResponse, error)
	// UpdateQuantity finds or creates the line and moves it by one. Decreasing
	// a line of quantity 1 removes it.
	UpdateQuantity(ctx context.Context, owner models.CartOwner, productID int64, action models.CartAction) (*models.QuantityChange, error)
	RemoveItem(ctx context.Context, owner models.CartOwner, productID int64) error
	// ClaimGuestCart moves the session cart into the profile cart with add
	// semantics and deletes the session cart.
	ClaimGuestCart(ctx context.Context, profileID int64, sessionID string) (*models.ClaimCartResponse, error)
}

type cartService struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	guests   repository.GuestCartRepository
	tx       repository.TxManager
}

func NewCartService(products repository.ProductRepository, carts repository.CartRepository, guests repository.GuestCartRepository, tx repository.TxManager) CartService {
	return &cartService{products: products, carts: carts, guests: guests, tx: tx}
}

func (s *cartService) GetCart(ctx context.Context, owner models.CartOwner) (*models.CartView, error) {

	if owner.IsGuest() {
		cart, err := s.loadGuestCart(ctx, owner)
		if err != nil {
			return nil, err
		}

		return models.NewCartView(cart.Lines()), nil
	}

	lines, err := s.carts.ListItems(ctx, owner.ProfileID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return models.NewCartView(lines), nil
}

func (s *cartService) AddItem(ctx context.Context, owner models.CartOwner, productID int64, quantity int) (*models.AddItemResponse, error) {

	if quantity < 1 {
		quantity = 1
	}
	if quantity > models.MaxLineQuantity {
		return nil, lineLimitError(models.ErrQuantityLimit)
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !product.IsAvailable {
		return nil, appErrors.PreconditionFailedError("Product is not available")
	}

	var cartQty int

	if owner.IsGuest() {
		cart, err := s.updateGuestCart(ctx, owner, func(cart models.GuestCart) error {
			key := models.GuestCartKey(productID)
			line, ok := cart[key]
			if ok {
				if line.Quantity+quantity > models.MaxLineQuantity {
					return models.ErrQuantityLimit
				}
				line.Quantity += quantity
			} else {
				line = models.GuestCartLine{Name: product.Name, Price: product.Price, Quantity: quantity}
			}
			cart[key] = line

			return nil
		})
		if err != nil {
			return nil, err
		}

		cartQty = cart.Lines().Quantity()
	} else {
		if _, err := s.carts.AddQuantity(ctx, owner.ProfileID, productID, quantity); err != nil {
			return nil, cartWriteError(err)
		}

		cartQty, err = s.carts.CountQuantity(ctx, owner.ProfileID)
		if err != nil {
			return nil, appErrors.DatabaseError("Failed to count cart items").WithError(err)
		}
	}

	metrics.RecordCartMutation("add", owner.IsGuest())

	return &models.AddItemResponse{
		Success: true,
		Message: fmt.Sprintf("%s added to cart", product.Name),
		CartQty: cartQty,
	}, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, owner models.CartOwner, productID int64, action models.CartAction) (*models.QuantityChange, error) {

	// rejected before touching the cart so an unknown action leaves no line behind
	if !action.Valid() {
		return nil, appErrors.ValidationError("Unknown action")
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var change *models.QuantityChange
	if owner.IsGuest() {
		change, err = s.updateGuestQuantity(ctx, owner, product, action)
	} else {
		change, err = s.updateQuantity(ctx, owner.ProfileID, product, action)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordCartMutation("update", owner.IsGuest())

	return change, nil
}

func (s *cartService) updateQuantity(ctx context.Context, profileID int64, product *models.Product, action models.CartAction) (*models.QuantityChange, error) {

	change := &models.QuantityChange{}
	var lines models.CartLines

	err := s.tx.WithinTx(ctx, func(repos repository.RepositoryFactory) error {
		carts := repos.Carts()

		if err := carts.EnsureItem(ctx, profileID, product.ID); err != nil {
			return err
		}

		qty, err := carts.GetQuantityForUpdate(ctx, profileID, product.ID)
		if err != nil {
			return err
		}

		switch {
		case action == models.CartActionIncrease:
			if qty >= models.MaxLineQuantity {
				return models.ErrQuantityLimit
			}
			qty++
			err = carts.SetQuantity(ctx, profileID, product.ID, qty)
		case qty > 1:
			qty--
			err = carts.SetQuantity(ctx, profileID, product.ID, qty)
		default:
			change.Removed = true
			err = carts.RemoveItem(ctx, profileID, product.ID)
		}
		if err != nil {
			return err
		}

		change.Quantity = qty
		lines, err = carts.ListItems(ctx, profileID)

		return err
	})
	if err != nil {
		return nil, cartWriteError(err)
	}

	change.CartTotal = lines.Total()
	if change.Removed {
		change.Quantity = 0
	} else {
		change.ItemTotal = product.Price.Mul(decimal.NewFromInt(int64(change.Quantity)))
	}

	return change, nil
}

func (s *cartService) updateGuestQuantity(ctx context.Context, owner models.CartOwner, product *models.Product, action models.CartAction) (*models.QuantityChange, error) {

	var change *models.QuantityChange

	cart, err := s.updateGuestCart(ctx, owner, func(cart models.GuestCart) error {
		change = &models.QuantityChange{}

		key := models.GuestCartKey(product.ID)
		line, ok := cart[key]
		if !ok {
			line = models.GuestCartLine{Name: product.Name, Price: product.Price, Quantity: 1}
		}

		switch {
		case action == models.CartActionIncrease:
			if line.Quantity >= models.MaxLineQuantity {
				return models.ErrQuantityLimit
			}
			line.Quantity++
		case line.Quantity > 1:
			line.Quantity--
		default:
			change.Removed = true
		}

		if change.Removed {
			delete(cart, key)
			return nil
		}

		cart[key] = line
		change.Quantity = line.Quantity
		change.ItemTotal = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))

		return nil
	})
	if err != nil {
		return nil, err
	}

	change.CartTotal = cart.Lines().Total()

	return change, nil
}

func (s *cartService) RemoveItem(ctx context.Context, owner models.CartOwner, productID int64) error {

	if owner.IsGuest() {
		_, err := s.updateGuestCart(ctx, owner, func(cart models.GuestCart) error {
			delete(cart, models.GuestCartKey(productID))
			return nil
		})
		if err != nil {
			return err
		}
	} else if err := s.carts.RemoveItem(ctx, owner.ProfileID, productID); err != nil {
		return appErrors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	metrics.RecordCartMutation("remove", owner.IsGuest())

	return nil
}

func (s *cartService) ClaimGuestCart(ctx context.Context, profileID int64, sessionID string) (*models.ClaimCartResponse, error) {

	owner := models.CartOwner{SessionID: sessionID}

	cart, err := s.loadGuestCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	// lines whose product was deleted or withdrawn are dropped
	var claimable models.CartLines
	for _, line := range cart.Lines() {
		product, err := s.products.GetProductByID(ctx, line.ProductID)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
		}
		if product.IsAvailable {
			claimable = append(claimable, line)
		}
	}

	var cartQty int

	err = s.tx.WithinTx(ctx, func(repos repository.RepositoryFactory) error {
		carts := repos.Carts()

		for _, line := range claimable {
			if _, err := carts.AddQuantity(ctx, profileID, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		var err error
		cartQty, err = carts.CountQuantity(ctx, profileID)

		return err
	})
	if err != nil {
		return nil, cartWriteError(err)
	}

	if len(cart) > 0 {
		if err := s.guests.DeleteCart(ctx, sessionID); err != nil {
			middleware.LoggerFromContext(ctx).Warn("Failed to delete claimed guest cart",
				slog.String("error", err.Error()))
		}
	}

	metrics.RecordCartMutation("claim", false)

	return &models.ClaimCartResponse{MergedLines: len(claimable), CartQty: cartQty}, nil
}

func (s *cartService) getProduct(ctx context.Context, productID int64) (*models.Product, error) {

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

func (s *cartService) loadGuestCart(ctx context.Context, owner models.CartOwner) (models.GuestCart, error) {

	if owner.SessionID == "" {
		return nil, appErrors.BadRequestError("Session is required")
	}

	cart, err := s.guests.GetCart(ctx, owner.SessionID)
	if err != nil {
		return nil, appErrors.UnavailableError("Failed to load cart").WithError(err)
	}

	return cart, nil
}

// updateGuestCart mutates the session cart in one atomic step so concurrent
// requests of the same session cannot overwrite each other's lines.
func (s *cartService) updateGuestCart(ctx context.Context, owner models.CartOwner, fn func(cart models.GuestCart) error) (models.GuestCart, error) {

	if owner.SessionID == "" {
		return nil, appErrors.BadRequestError("Session is required")
	}

	cart, err := s.guests.UpdateCart(ctx, owner.SessionID, fn)
	if errors.Is(err, models.ErrQuantityLimit) {
		return nil, lineLimitError(err)
	}
	if err != nil {
		return nil, appErrors.UnavailableError("Failed to save cart").WithError(err)
	}

	return cart, nil
}

func cartWriteError(err error) error {
	switch {
	case repository.IsForeignKeyViolation(err):
		return appErrors.NotFoundError("Product not found").WithError(err)
	case errors.Is(err, models.ErrQuantityLimit), repository.IsNumericOutOfRange(err):
		return lineLimitError(err)
	}

	return appErrors.DatabaseError("Failed to update cart").WithError(err)
}

func lineLimitError(err error) error {
	return appErrors.ValidationError(fmt.Sprintf("At most %d of an item per cart", models.MaxLineQuantity)).WithError(err)
}
