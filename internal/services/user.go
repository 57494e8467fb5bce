package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	// Register creates the user and its profile in one transaction.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetProfile(ctx context.Context, actor models.Actor) (*models.ProfileResponse, error)
}

type userService struct {
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	carts       repository.CartRepository
	wishlists   repository.WishlistRepository
	rateLimiter repository.RateLimitRepository
	tx          repository.TxManager
	jwtKey      []byte
	tokenTTL    time.Duration
}

func NewUserService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	carts repository.CartRepository,
	wishlists repository.WishlistRepository,
	rateLimiter repository.RateLimitRepository,
	tx repository.TxManager,
	jwtKey []byte,
	tokenTTL time.Duration,
) UserService {
	return &userService{
		users:       users,
		profiles:    profiles,
		carts:       carts,
		wishlists:   wishlists,
		rateLimiter: rateLimiter,
		tx:          tx,
		jwtKey:      jwtKey,
		tokenTTL:    tokenTTL,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Name:     sanitize(req.Name),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	err = s.tx.WithinTx(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.Users().CreateUser(ctx, user); err != nil {
			return err
		}

		_, err := repos.Profiles().CreateProfile(ctx, user.ID)

		return err
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.DuplicateEntryError("Email or username already registered").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	allowed, remaining, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, req.Email)
	if err != nil {
		return nil, appErrors.UnavailableError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return &models.LoginResponse{
			Success:    false,
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: retryAfter,
		}, nil
	}

	invalidCredentials := &models.LoginResponse{
		Success:        false,
		Message:        "Invalid email or password",
		RemainingTries: remaining,
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invalidCredentials, nil
		}

		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return invalidCredentials, nil
	}

	profile, err := s.profiles.GetProfileByUserID(ctx, user.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// accounts created before profiles were mandatory
		profile, err = s.profiles.CreateProfile(ctx, user.ID)
	}
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load profile").WithError(err)
	}

	now := time.Now()
	claims := &models.Claims{
		UserID:    user.ID,
		ProfileID: profile.ID,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.LoginResponse{
		Success:   true,
		Token:     tokenString,
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, actor models.Actor) (*models.ProfileResponse, error) {

	user, err := s.users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("User not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	cartQty, err := s.carts.CountQuantity(ctx, actor.ProfileID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to count cart items").WithError(err)
	}

	wishlistQty, err := s.wishlists.CountFavorites(ctx, actor.ProfileID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to count favorites").WithError(err)
	}

	return &models.ProfileResponse{
		User:        user,
		ProfileID:   actor.ProfileID,
		CartQty:     cartQty,
		WishlistQty: wishlistQty,
	}, nil
}
