package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the shopper identity that owns carts, favorites and orders.
// Exactly one exists per user and it is created together with the user.
type Profile struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=150,alphanum"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success        bool   `json:"success"`
	Token          string `json:"token,omitempty"`
	ExpiresIn      int    `json:"expires_in,omitempty"`
	RemainingTries int    `json:"remaining_tries,omitempty"`
	RetryAfter     int    `json:"retry_after,omitempty"`
	Message        string `json:"message,omitempty"`
}

// ProfileResponse carries the header counters shown on every storefront page.
type ProfileResponse struct {
	User        *User `json:"user"`
	ProfileID   int64 `json:"profile_id"`
	CartQty     int   `json:"cart_qty"`
	WishlistQty int   `json:"wishlist_qty"`
}

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	ProfileID int64     `json:"profile_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	jwt.RegisteredClaims
}

// Actor is the authenticated caller as seen by the service layer.
type Actor struct {
	UserID    uuid.UUID
	ProfileID int64
	IsAdmin   bool
}

func (c *Claims) Actor() Actor {
	return Actor{UserID: c.UserID, ProfileID: c.ProfileID, IsAdmin: c.IsAdmin}
}
