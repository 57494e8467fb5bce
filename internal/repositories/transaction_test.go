package repository_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManager_WithinTx(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Commit", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		tx := repository.NewTxManager(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE profile_id = $1")).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		// Act
		err := tx.WithinTx(ctx, func(repos repository.RepositoryFactory) error {
			_, err := repos.Carts().ClearCart(ctx, 1)
			return err
		})

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Rollback Returns Callback Error", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		tx := repository.NewTxManager(db)
		fnErr := errors.New("cart empty")

		mock.ExpectBegin()
		mock.ExpectRollback()

		// Act
		err := tx.WithinTx(ctx, func(repository.RepositoryFactory) error { return fnErr })

		// Assert
		assert.Equal(t, fnErr, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Rollback On Panic", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		tx := repository.NewTxManager(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		// Act & Assert
		assert.PanicsWithValue(t, "boom", func() {
			_ = tx.WithinTx(ctx, func(repository.RepositoryFactory) error { panic("boom") })
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Begin", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		tx := repository.NewTxManager(db)
		beginErr := errors.New("too many connections")

		mock.ExpectBegin().WillReturnError(beginErr)

		// Act
		called := false
		err := tx.WithinTx(ctx, func(repository.RepositoryFactory) error { called = true; return nil })

		// Assert
		require.ErrorIs(t, err, beginErr)
		assert.False(t, called)
	})

	t.Run("Failure - Commit", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		tx := repository.NewTxManager(db)
		commitErr := errors.New("serialization failure")

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(commitErr)

		// Act
		err := tx.WithinTx(ctx, func(repository.RepositoryFactory) error { return nil })

		// Assert
		require.ErrorIs(t, err, commitErr)
		assert.Contains(t, err.Error(), "failed to commit transaction")
	})
}
