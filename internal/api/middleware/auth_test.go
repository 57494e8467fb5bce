package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJwtKey = []byte("test-secret-key-123456789012345")

func createTestToken(t *testing.T, claims *models.Claims, duration time.Duration, key []byte, method jwt.SigningMethod) string {
	t.Helper()

	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func newRequest(authHeader string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return req.WithContext(middleware.WithLogger(req.Context(), logger))
}

func TestAuthenticate(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)
	userID := uuid.New()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		require.True(t, ok, "claims should be in context")
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, int64(42), claims.ProfileID)
		assert.True(t, claims.IsAdmin)
		w.WriteHeader(http.StatusOK)
	})

	unauthorized := func(msg string) string {
		return `{"success": false, "error": {"code": "UNAUTHORIZED", "message": "` + msg + `"}}`
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success - Valid Token",
			authHeader:     "Bearer " + createTestToken(t, &models.Claims{UserID: userID, ProfileID: 42, IsAdmin: true}, time.Hour, testJwtKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Failure - Missing Authorization Header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Authorization header is required"),
		},
		{
			name:           "Failure - No Bearer Prefix",
			authHeader:     "Token abc",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid authorization format"),
		},
		{
			name:           "Failure - Malformed Token",
			authHeader:     "Bearer not.a.valid.token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid or expired token"),
		},
		{
			name:           "Failure - Wrong Signing Key",
			authHeader:     "Bearer " + createTestToken(t, &models.Claims{UserID: userID}, time.Hour, []byte("different-secret-key-0987654321"), jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid or expired token"),
		},
		{
			name:           "Failure - Unexpected Signing Method",
			authHeader:     "Bearer " + createTestToken(t, &models.Claims{UserID: userID}, time.Hour, testJwtKey, jwt.SigningMethodHS512),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid or expired token"),
		},
		{
			name:           "Failure - Expired Token",
			authHeader:     "Bearer " + createTestToken(t, &models.Claims{UserID: userID}, -time.Hour, testJwtKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid or expired token"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			rr := httptest.NewRecorder()

			// Act
			authMiddleware.Authenticate(next).ServeHTTP(rr, newRequest(tc.authHeader))

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)

	t.Run("Success - Anonymous Passes As Guest", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			_, ok := middleware.ClaimsFromContext(r.Context())
			assert.False(t, ok)
		})

		// Act
		authMiddleware.OptionalAuthenticate(next).ServeHTTP(rr, newRequest(""))

		// Assert
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Success - Token Attaches Claims", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()
		token := createTestToken(t, &models.Claims{UserID: uuid.New(), ProfileID: 9}, time.Hour, testJwtKey, jwt.SigningMethodHS256)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := middleware.ClaimsFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, int64(9), claims.ProfileID)
		})

		// Act
		authMiddleware.OptionalAuthenticate(next).ServeHTTP(rr, newRequest("Bearer "+token))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Invalid Token Is Not Downgraded To Guest", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not run")
		})

		// Act
		authMiddleware.OptionalAuthenticate(next).ServeHTTP(rr, newRequest("Bearer garbage"))

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
