package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - CreateUser", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewUserRepo(db)
		user := &models.User{Name: "Ada", Username: "ada", Email: "ada@example.com", Password: "hashed"}
		newID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, username, email, password, is_admin")).
			WithArgs(user.Name, user.Username, user.Email, user.Password, false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(newID.String(), now, now))

		// Act
		err := repo.CreateUser(ctx, user)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, newID, user.ID)
		assert.WithinDuration(t, now, user.CreatedAt, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - CreateUser Duplicate", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewUserRepo(db)
		dbErr := errors.New("duplicate key value violates unique constraint")

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).WillReturnError(dbErr)

		// Act
		err := repo.CreateUser(ctx, &models.User{Email: "ada@example.com"})

		// Assert
		require.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - GetUserByEmail", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewUserRepo(db)
		id := uuid.New()
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("ada@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "email", "password", "is_admin", "created_at", "updated_at"}).
				AddRow(id.String(), "Ada", "ada", "ada@example.com", "hashed", true, now, now))

		// Act
		user, err := repo.GetUserByEmail(ctx, "ada@example.com")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "hashed", user.Password)
		assert.True(t, user.IsAdmin)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - GetUserByEmail Not Found", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewUserRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		// Act
		user, err := repo.GetUserByEmail(ctx, "missing@example.com")

		// Assert
		assert.Nil(t, user)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - GetUserByID", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewUserRepo(db)
		id := uuid.New()
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "email", "is_admin", "created_at", "updated_at"}).
				AddRow(id.String(), "Ada", "ada", "ada@example.com", false, now, now))

		// Act
		user, err := repo.GetUserByID(ctx, id)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "ada", user.Username)
		assert.Empty(t, user.Password)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileRepository(t *testing.T) {
	ctx := t.Context()
	userID := uuid.New()

	t.Run("Success - CreateProfile", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProfileRepo(db)
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO profiles (user_id, created_at)")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now))

		// Act
		profile, err := repo.CreateProfile(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(11), profile.ID)
		assert.Equal(t, userID, profile.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - CreateProfile", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProfileRepo(db)
		dbErr := errors.New("insert failed")

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO profiles")).WillReturnError(dbErr)

		// Act
		profile, err := repo.CreateProfile(ctx, userID)

		// Assert
		assert.Nil(t, profile)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to create profile")
	})

	t.Run("Success - GetProfileByUserID", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProfileRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, created_at FROM profiles WHERE user_id = $1")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}).AddRow(int64(3), userID.String(), time.Now()))

		// Act
		profile, err := repo.GetProfileByUserID(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(3), profile.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - LockProfile", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProfileRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM profiles WHERE id = $1 FOR UPDATE")).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

		// Act
		err := repo.LockProfile(ctx, 3)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - LockProfile Unknown", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewProfileRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		// Act
		err := repo.LockProfile(ctx, 404)

		// Assert
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserRepository_GetUserByProfileID(t *testing.T) {
	// Arrange
	db, mock := newMockDB(t)
	repo := repository.NewUserRepo(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("JOIN profiles pr ON pr.user_id = u.id WHERE pr.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "email", "is_admin", "created_at", "updated_at"}).
			AddRow(id.String(), "Ada", "ada", "ada@example.com", false, now, now))

	// Act
	user, err := repo.GetUserByProfileID(t.Context(), 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintErrors(t *testing.T) {
	unique := &pq.Error{Code: "23505"}
	fk := &pq.Error{Code: "23503"}

	assert.True(t, repository.IsUniqueViolation(fmt.Errorf("wrapped: %w", unique)))
	assert.False(t, repository.IsUniqueViolation(fk))
	assert.True(t, repository.IsForeignKeyViolation(fk))
	assert.False(t, repository.IsForeignKeyViolation(errors.New("plain")))
}
