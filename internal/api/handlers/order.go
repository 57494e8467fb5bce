package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: utils.NewValidator()}
}

// Checkout godoc
//	@Summary		Place an order
//	@Description	Converts the caller's cart into an order and empties the cart. Item names and prices are frozen at this point.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.CheckoutRequest	false	"Contact and payment details"
//	@Success		201		{object}	models.Order			"Order placed"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		422		{object}	response.ErrorResponse	"Cart is empty"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			logger.Warn("Unauthorized checkout attempt")
			response.Error(w, err)
			return
		}
		logger = logger.With(slog.Int64("profileId", actor.ProfileID))

		// an empty body places the order with defaults
		var req models.CheckoutRequest
		if err := utils.DecodeOptionalJSONBody(r, &req); err != nil {
			logger.Warn("Invalid checkout input", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		if !utils.Validate(w, &req, h.validator) {
			logger.Warn("Checkout validation failed")
			return
		}

		order, err := h.orderService.Checkout(r.Context(), actor, &req)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed",
			slog.String("orderId", order.ID.String()),
			slog.Int("items", len(order.Items)),
			slog.String("total", models.FormatMoney(order.Total)))
		response.Success(w, http.StatusCreated, order)
	}
}

// GetOrder godoc
//	@Summary		Get an order by ID
//	@Description	Retrieves an order owned by the caller. Admins can read any order.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Successfully retrieved order"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Forbidden - User does not own this order"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			logger.Warn("Unauthorized order access attempt: missing user claims")
			response.Error(w, err)
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("orderId", id.String()), slog.Int64("profileId", actor.ProfileID))

		order, err := h.orderService.GetOrder(r.Context(), actor, id)
		if err != nil {
			logger.Warn("Failed to get order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		List the caller's orders
//	@Description	Newest first, paginated.
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int												false	"Page number (default: 1)"						minimum(1)
//	@Param			pageSize	query		int												false	"Items per page (default: 20, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}	"Successfully retrieved list of orders"
//	@Failure		401			{object}	response.ErrorResponse							"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse							"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			logger.Warn("Unauthorized order list attempt: missing user claims")
			response.Error(w, err)
			return
		}

		page := utils.QueryInt(r, "page", 1)
		pageSize := utils.QueryInt(r, "pageSize", 0)

		orders, err := h.orderService.ListMyOrders(r.Context(), actor, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Int64("profileId", actor.ProfileID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// AdminListOrders godoc
//	@Summary		List all orders (Admin)
//	@Tags			Admin
//	@Produce		json
//	@Param			status		query		string											false	"new, accepted, completed or canceled"
//	@Param			page		query		int												false	"Page number (default: 1)"
//	@Param			pageSize	query		int												false	"Items per page (default: 20, max: 100)"
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}
//	@Failure		400			{object}	response.ErrorResponse	"Invalid status"
//	@Failure		403			{object}	response.ErrorResponse	"Admin access required"
//	@Security		BearerAuth
//	@Router			/admin/orders [get]
func (h *OrderHandler) AdminListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		filter := &models.OrderListFilter{
			Status:   models.OrderStatus(r.URL.Query().Get("status")),
			Page:     utils.QueryInt(r, "page", 1),
			PageSize: utils.QueryInt(r, "pageSize", 0),
		}

		orders, err := h.orderService.ListAllOrders(r.Context(), actor, filter)
		if err != nil {
			logger.Warn("Failed to list all orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// ApplyAction godoc
//	@Summary		Move an order through its lifecycle (Admin)
//	@Description	accept: new to accepted. complete: new or accepted to completed. cancel: new or accepted to canceled. Completed and canceled are final.
//	@Tags			Admin
//	@Produce		json
//	@Param			id		path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Param			action	path		string					true	"accept, complete or cancel"
//	@Success		200		{object}	models.Order
//	@Failure		400		{object}	response.ErrorResponse	"Unknown action or invalid order ID"
//	@Failure		403		{object}	response.ErrorResponse	"Admin access required"
//	@Failure		404		{object}	response.ErrorResponse	"Order not found"
//	@Failure		409		{object}	response.ErrorResponse	"Transition not allowed from the current status"
//	@Security		BearerAuth
//	@Router			/admin/orders/{id}/{action} [post]
func (h *OrderHandler) ApplyAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			logger.Warn("Unauthorized order action attempt")
			response.Error(w, err)
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		action := r.PathValue("action")
		logger = logger.With(slog.String("orderId", id.String()), slog.String("action", action))

		order, err := h.orderService.ApplyAction(r.Context(), actor, id, action)
		if err != nil {
			logger.Warn("Order action rejected", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order status changed", slog.String("status", string(order.Status)))
		response.Success(w, http.StatusOK, order)
	}
}
