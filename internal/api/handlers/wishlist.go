package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// List godoc
//	@Summary	List favorite products
//	@Tags		Wishlist
//	@Produce	json
//	@Success	200	{array}		models.Product
//	@Failure	401	{object}	response.ErrorResponse	"Authentication required"
//	@Security	BearerAuth
//	@Router		/wishlist [get]
func (h *WishlistHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		products, err := h.wishlistService.List(r.Context(), actor.ProfileID)
		if err != nil {
			logger.Error("Failed to list wishlist", slog.Int64("profileId", actor.ProfileID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

// Toggle godoc
//	@Summary		Toggle a favorite
//	@Description	Adds the product to the wishlist, or removes it when it is already there.
//	@Tags			Wishlist
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	models.WishlistToggleResponse
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse	"Product not found"
//	@Security		BearerAuth
//	@Router			/wishlist/{productID} [post]
func (h *WishlistHandler) Toggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			logger.Warn("Unauthorized wishlist toggle attempt")
			response.Error(w, err)
			return
		}

		productID, err := utils.ParseInt64(r, "productID")
		if err != nil {
			response.Error(w, err)
			return
		}
		logger = logger.With(slog.Int64("profileId", actor.ProfileID), slog.Int64("productId", productID))

		resp, err := h.wishlistService.Toggle(r.Context(), actor.ProfileID, productID)
		if err != nil {
			logger.Warn("Failed to toggle favorite", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Favorite toggled", slog.String("action", string(resp.Action)))
		response.WriteJson(w, http.StatusOK, resp)
	}
}

// Remove godoc
//	@Summary	Remove a favorite
//	@Tags		Wishlist
//	@Param		productID	path	int	true	"Product ID"
//	@Success	204
//	@Failure	401	{object}	response.ErrorResponse	"Authentication required"
//	@Security	BearerAuth
//	@Router		/wishlist/{productID} [delete]
func (h *WishlistHandler) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		productID, err := utils.ParseInt64(r, "productID")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.wishlistService.Remove(r.Context(), actor.ProfileID, productID); err != nil {
			logger.Error("Failed to remove favorite", slog.Int64("productId", productID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.NoContent(w)
	}
}
