package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	models "github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey}

}

// parseClaims reads the bearer token. It returns nil claims and a nil error
// when the request carries no Authorization header at all.
func (m *AuthMiddleware) parseClaims(r *http.Request, logger *slog.Logger) (*models.Claims, *errors.AppError) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	// "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")

	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		logger.Warn("Invalid authorization header format")
		return nil, errors.UnauthorizedError("Invalid authorization format")
	}

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
		return m.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
		return nil, errors.UnauthorizedError("Invalid or expired token")
	}

	if !token.Valid {
		logger.Warn("Invalid token")
		return nil, errors.UnauthorizedError("Invalid token")
	}

	return claims, nil
}

func (m *AuthMiddleware) withClaims(r *http.Request, logger *slog.Logger, claims *models.Claims) *http.Request {

	ctx := context.WithValue(r.Context(), UserContextKey, claims)

	requestScopedLogger := logger.With(
		slog.String("userId", claims.UserID.String()),
		slog.Int64("profileId", claims.ProfileID),
	)
	requestScopedLogger.Info("User authenticated")

	return r.WithContext(WithLogger(ctx, requestScopedLogger))
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		claims, appErr := m.parseClaims(r, logger)
		if appErr != nil {
			response.Error(w, appErr)
			return
		}

		if claims == nil {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		next.ServeHTTP(w, m.withClaims(r, logger, claims))
	}
}

// OptionalAuthenticate lets anonymous requests through as guests. A token
// that is present but invalid is still rejected.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		claims, appErr := m.parseClaims(r, logger)
		if appErr != nil {
			response.Error(w, appErr)
			return
		}

		if claims == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, m.withClaims(r, logger, claims))
	}
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok && claims != nil
}
