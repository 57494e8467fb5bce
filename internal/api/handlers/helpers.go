package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

func requireActor(r *http.Request) (models.Actor, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return models.Actor{}, errors.UnauthorizedError("Authentication required")
	}

	return claims.Actor(), nil
}

// cartOwner resolves the profile cart for signed-in callers and the session
// cart otherwise.
func cartOwner(r *http.Request) models.CartOwner {
	owner := models.CartOwner{SessionID: middleware.SessionIDFromContext(r.Context())}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		owner.ProfileID = claims.ProfileID
	}

	return owner
}
