package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart godoc
//	@Summary		Get the current cart
//	@Description	Returns the profile cart for signed-in callers and the session cart for guests.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartView
//	@Failure		400	{object}	response.ErrorResponse	"Session is required"
//	@Failure		500	{object}	response.ErrorResponse
//	@Router			/carts [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		cart, err := h.cartService.GetCart(r.Context(), cartOwner(r))
		if err != nil {
			logger.Error("Failed to fetch cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Description	Increments the line by quantity, creating it when missing. Quantities that are missing or not a positive integer count as 1.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int						true	"Product ID"
//	@Param			item		body		models.AddItemRequest	false	"Quantity to add"
//	@Success		200			{object}	models.AddItemResponse
//	@Failure		404			{object}	response.ErrorResponse	"Product not found"
//	@Failure		422			{object}	response.ErrorResponse	"Product is not available"
//	@Router			/carts/items/{productID} [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		productID, err := utils.ParseInt64(r, "productID")
		if err != nil {
			logger.Warn("Invalid product ID", slog.String("productID", r.PathValue("productID")))
			response.Error(w, err)
			return
		}
		logger = logger.With(slog.Int64("productId", productID))

		var req models.AddItemRequest
		if isForm(r) {
			req.Quantity = r.PostFormValue("quantity")
		} else if err := utils.DecodeOptionalJSONBody(r, &req); err != nil {
			logger.Warn("Invalid add to cart input", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		owner := cartOwner(r)

		resp, err := h.cartService.AddItem(r.Context(), owner, productID, models.CoerceQuantity(req.Quantity))
		if err != nil {
			logger.Warn("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Bool("guest", owner.IsGuest()), slog.Int("cartQty", resp.CartQty))
		response.WriteJson(w, http.StatusOK, resp)
	}
}

// UpdateItem godoc
//	@Summary		Change a line quantity by one
//	@Description	Finds or creates the line, then applies the action. Decreasing a line of quantity 1 removes it.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int							true	"Product ID"
//	@Param			action		body		models.UpdateItemRequest	true	"increase or decrease"
//	@Success		200			{object}	models.UpdateItemResponse
//	@Failure		400			{object}	models.UpdateItemErrorResponse	"Unknown action"
//	@Failure		404			{object}	models.UpdateItemErrorResponse	"Product not found"
//	@Router			/carts/items/{productID}/update [post]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		productID, err := utils.ParseInt64(r, "productID")
		if err != nil {
			writeUpdateError(w, err)
			return
		}
		logger = logger.With(slog.Int64("productId", productID))

		var req models.UpdateItemRequest
		if isForm(r) {
			req.Action = models.CartAction(r.PostFormValue("action"))
		} else if err := utils.DecodeOptionalJSONBody(r, &req); err != nil {
			logger.Warn("Invalid cart update input", slog.String("error", err.Error()))
			writeUpdateError(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		change, err := h.cartService.UpdateQuantity(r.Context(), cartOwner(r), productID, req.Action)
		if err != nil {
			logger.Warn("Failed to update cart item", slog.String("action", string(req.Action)), slog.Any("error", err))
			writeUpdateError(w, err)
			return
		}

		logger.Info("Cart item updated", slog.String("action", string(req.Action)), slog.Bool("removed", change.Removed))
		response.WriteJson(w, http.StatusOK, models.NewUpdateItemResponse(change))
	}
}

// RemoveItem godoc
//	@Summary		Remove a product from the cart
//	@Description	Removing a product that is not in the cart is a no-op.
//	@Tags			Cart
//	@Param			productID	path	int	true	"Product ID"
//	@Success		204
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID"
//	@Router			/carts/items/{productID} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		productID, err := utils.ParseInt64(r, "productID")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), cartOwner(r), productID); err != nil {
			logger.Error("Failed to remove cart item", slog.Int64("productId", productID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item removed", slog.Int64("productId", productID))
		response.NoContent(w)
	}
}

// ClaimCart godoc
//	@Summary		Move the guest cart into the account cart
//	@Description	Adds every guest line to the profile cart and deletes the guest cart. Lines for deleted or unavailable products are dropped.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.ClaimCartResponse
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/carts/claim [post]
func (h *CartHandler) ClaimCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			logger.Warn("Unauthorized cart claim attempt")
			response.Error(w, err)
			return
		}
		logger = logger.With(slog.Int64("profileId", actor.ProfileID))

		resp, err := h.cartService.ClaimGuestCart(r.Context(), actor.ProfileID, middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			logger.Error("Failed to claim guest cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Guest cart claimed", slog.Int("mergedLines", resp.MergedLines))
		response.Success(w, http.StatusOK, resp)
	}
}

func isForm(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func writeUpdateError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "An unexpected error occured"

	if appErr, ok := errors.IsAppError(err); ok {
		status = appErr.StatusCode
		message = appErr.Message
	}

	response.WriteJson(w, status, models.UpdateItemErrorResponse{Status: "error", Message: message})
}
