package repository

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

type ProfileRepository interface {
	CreateProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	// LockProfile takes a row lock on the profile for the rest of the
	// surrounding transaction. It returns sql.ErrNoRows for unknown profiles.
	LockProfile(ctx context.Context, profileID int64) error
}

type profileRepository struct {
	DB DBTX
}

func NewProfileRepo(db DBTX) ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) CreateProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	profile := &models.Profile{UserID: userID}

	query := `
		INSERT INTO profiles (user_id, created_at)
		VALUES ($1, NOW())
		RETURNING id, created_at`

	if err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&profile.ID, &profile.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}

func (r *profileRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	profile := &models.Profile{}

	query := `SELECT id, user_id, created_at FROM profiles WHERE user_id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&profile.ID, &profile.UserID, &profile.CreatedAt)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *profileRepository) LockProfile(ctx context.Context, profileID int64) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var id int64

	query := `SELECT id FROM profiles WHERE id = $1 FOR UPDATE`

	return r.DB.QueryRowContext(dbCtx, query, profileID).Scan(&id)
}
