package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func placedOrder(id uuid.UUID, status models.OrderStatus) *models.Order {
	productID := int64(7)
	order := &models.Order{ID: id, ProfileID: 42, PaymentMethod: models.PaymentMethodBank, Status: status}
	order.SetItems([]models.OrderItem{{OrderID: id, ProductID: &productID, Name: "Lamp", Price: decimal.RequireFromString("19.99"), Quantity: 5}})

	return order
}

// TestCheckout tests the Checkout handler
func TestCheckout(t *testing.T) {
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)
	orderID := uuid.New()

	t.Run("Success - Order Placed", func(t *testing.T) {
		// Arrange
		checkoutReq := models.CheckoutRequest{FullName: "Jane Doe", Phone: "+15550100", PaymentMethod: models.PaymentMethodPaypal}
		expectedOrder := placedOrder(orderID, models.OrderStatusNew)

		mockOrderService.On("Checkout", mock.Anything, memberClaims.Actor(), mock.MatchedBy(func(r *models.CheckoutRequest) bool {
			return r.FullName == "Jane Doe" && r.PaymentMethod == models.PaymentMethodPaypal
		})).Return(expectedOrder, nil).Once()

		bodyBytes, _ := json.Marshal(checkoutReq)
		req := testutils.CreateTestRequestWithClaims(http.MethodPost, "/api/v1/orders", bytes.NewReader(bodyBytes), memberClaims, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		orderHandler.Checkout().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp *response.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		// Marshall the Data from map[string]interface{} to bytes
		databytes, err := json.Marshal(resp.Data)
		require.NoError(t, err)

		var respOrder models.Order
		require.NoError(t, json.Unmarshal(databytes, &respOrder))
		assert.Equal(t, orderID, respOrder.ID)
		assert.Equal(t, models.OrderStatusNew, respOrder.Status)
		assert.True(t, respOrder.Total.Equal(decimal.RequireFromString("99.95")))

		mockOrderService.AssertExpectations(t)
	})

	t.Run("Success - Empty Body Uses Defaults", func(t *testing.T) {
		// Arrange
		mockOrderService.On("Checkout", mock.Anything, memberClaims.Actor(), &models.CheckoutRequest{}).
			Return(placedOrder(orderID, models.OrderStatusNew), nil).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodPost, "/api/v1/orders", nil, memberClaims, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.Checkout().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`), nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.Checkout().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockOrderService.AssertNotCalled(t, "Checkout")
	})

	t.Run("Failure - Invalid Input", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithClaims(http.MethodPost, "/api/v1/orders", strings.NewReader("{invalid json"), memberClaims, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.Checkout().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockOrderService.AssertNotCalled(t, "Checkout")
	})

	t.Run("Failure - Unknown Payment Method", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithClaims(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"payment_method":"crypto"}`), memberClaims, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.Checkout().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeValidation)
		mockOrderService.AssertNotCalled(t, "Checkout")
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		// Arrange
		mockOrderService.On("Checkout", mock.Anything, memberClaims.Actor(), mock.Anything).
			Return(nil, appErrors.PreconditionFailedError("Cart is empty")).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`), memberClaims, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.Checkout().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodePrecondition)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		// Arrange
		mockOrderService.On("Checkout", mock.Anything, memberClaims.Actor(), mock.Anything).
			Return(nil, appErrors.DatabaseError("Failed to create order")).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`), memberClaims, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.Checkout().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeDatabaseError)
	})
}

func TestGetOrder(t *testing.T) {
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)
	orderID := uuid.New()

	t.Run("Success - Owner Reads Order", func(t *testing.T) {
		// Arrange
		mockOrderService.On("GetOrder", mock.Anything, memberClaims.Actor(), orderID).
			Return(placedOrder(orderID, models.OrderStatusNew), nil).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil, memberClaims, map[string]string{"id": orderID.String()})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), orderID.String())
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithClaims(http.MethodGet, "/api/v1/orders/nope", nil, memberClaims, map[string]string{"id": "nope"})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockOrderService.AssertNotCalled(t, "GetOrder")
	})

	t.Run("Failure - Not Owner", func(t *testing.T) {
		// Arrange
		other := uuid.New()
		mockOrderService.On("GetOrder", mock.Anything, memberClaims.Actor(), other).
			Return(nil, appErrors.ForbiddenError("You do not have access to this order")).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodGet, "/api/v1/orders/"+other.String(), nil, memberClaims, map[string]string{"id": other.String()})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.GetOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestListOrders(t *testing.T) {
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)

	t.Run("Success - Paginated", func(t *testing.T) {
		// Arrange
		mockOrderService.On("ListMyOrders", mock.Anything, memberClaims.Actor(), 2, 5).
			Return(&models.PaginatedResponse{Data: []models.Order{}, Total: 6, Page: 2, PageSize: 5}, nil).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodGet, "/api/v1/orders?page=2&pageSize=5", nil, memberClaims, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.ListOrders().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"total":6`)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/orders", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.ListOrders().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminOrders(t *testing.T) {
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)
	orderID := uuid.New()

	t.Run("Success - Filter By Status", func(t *testing.T) {
		// Arrange
		mockOrderService.On("ListAllOrders", mock.Anything, adminClaims.Actor(), &models.OrderListFilter{Status: models.OrderStatusNew, Page: 1}).
			Return(&models.PaginatedResponse{Data: []models.Order{}, Page: 1, PageSize: 20}, nil).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodGet, "/api/v1/admin/orders?status=new", nil, adminClaims, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.AdminListOrders().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Success - Accept", func(t *testing.T) {
		// Arrange
		mockOrderService.On("ApplyAction", mock.Anything, adminClaims.Actor(), orderID, "accept").
			Return(placedOrder(orderID, models.OrderStatusAccepted), nil).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodPost, "/api/v1/admin/orders/"+orderID.String()+"/accept", nil, adminClaims,
			map[string]string{"id": orderID.String(), "action": "accept"})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.ApplyAction().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"accepted"`)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Terminal Order", func(t *testing.T) {
		// Arrange
		mockOrderService.On("ApplyAction", mock.Anything, adminClaims.Actor(), orderID, "cancel").
			Return(nil, appErrors.InvalidTransitionError("cannot cancel a completed order")).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodPost, "/api/v1/admin/orders/"+orderID.String()+"/cancel", nil, adminClaims,
			map[string]string{"id": orderID.String(), "action": "cancel"})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.ApplyAction().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeInvalidTransition)
	})

	t.Run("Failure - Not Admin", func(t *testing.T) {
		// Arrange
		mockOrderService.On("ApplyAction", mock.Anything, memberClaims.Actor(), orderID, "accept").
			Return(nil, appErrors.ForbiddenError("Admin access required")).Once()

		req := testutils.CreateTestRequestWithClaims(http.MethodPost, "/api/v1/admin/orders/"+orderID.String()+"/accept", nil, memberClaims,
			map[string]string{"id": orderID.String(), "action": "accept"})
		rr := httptest.NewRecorder()

		// Act
		orderHandler.ApplyAction().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
