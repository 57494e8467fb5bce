package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_AddQuantity(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Upsert Returns New Quantity", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (profile_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity")).
			WithArgs(int64(1), int64(7), 3, models.MaxLineQuantity).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(5))

		// Act
		qty, err := repo.AddQuantity(ctx, 1, 7, 3)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 5, qty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Line Limit Leaves Row Untouched", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE cart_items.quantity + EXCLUDED.quantity <= $4")).
			WithArgs(int64(1), int64(7), 2, models.MaxLineQuantity).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}))

		// Act
		qty, err := repo.AddQuantity(ctx, 1, 7, 2)

		// Assert
		assert.Zero(t, qty)
		assert.ErrorIs(t, err, models.ErrQuantityLimit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)
		dbErr := errors.New("foreign key violation")

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cart_items")).WillReturnError(dbErr)

		// Act
		qty, err := repo.AddQuantity(ctx, 1, 999, 1)

		// Assert
		assert.Zero(t, qty)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestCartRepository_QuantityOps(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - EnsureItem", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (profile_id, product_id) DO NOTHING")).
			WithArgs(int64(1), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.EnsureItem(ctx, 1, 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - GetQuantityForUpdate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT quantity FROM cart_items WHERE profile_id = $1 AND product_id = $2 FOR UPDATE")).
			WithArgs(int64(1), int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(2))

		qty, err := repo.GetQuantityForUpdate(ctx, 1, 7)

		require.NoError(t, err)
		assert.Equal(t, 2, qty)
	})

	t.Run("Failure - GetQuantityForUpdate Missing Line", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetQuantityForUpdate(ctx, 1, 7)

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("Success - SetQuantity", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE cart_items SET quantity = $1 WHERE profile_id = $2 AND product_id = $3")).
			WithArgs(4, int64(1), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetQuantity(ctx, 1, 7, 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - RemoveItem Is Idempotent", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE profile_id = $1 AND product_id = $2")).
			WithArgs(int64(1), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.RemoveItem(ctx, 1, 7))
	})

	t.Run("Success - ClearCart", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE profile_id = $1")).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 3))

		deleted, err := repo.ClearCart(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
	})

	t.Run("Success - CountQuantity", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(quantity), 0) FROM cart_items")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(7))

		qty, err := repo.CountQuantity(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, 7, qty)
	})
}

func TestCartRepository_ListItems(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Totals Are Exact", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY ci.added_at, ci.id")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "price", "quantity"}).
				AddRow(int64(7), "Desk Lamp", "19.99", 5).
				AddRow(int64(9), "Bulb", "0.10", 3))

		// Act
		lines, err := repo.ListItems(ctx, 1)

		// Assert
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, 8, lines.Quantity())
		assert.Equal(t, "99.95", lines[0].Total().StringFixed(2))
		assert.True(t, lines.Total().Equal(decimal.RequireFromString("100.25")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Empty Cart", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := repository.NewCartRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items ci")).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "price", "quantity"}))

		// Act
		lines, err := repo.ListItems(ctx, 2)

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, lines)
		assert.Empty(t, lines)
	})
}

func TestWishlistRepository(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - AddFavorite New", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewWishlistRepo(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorites")).
			WithArgs(int64(1), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		added, err := repo.AddFavorite(ctx, 1, 7)

		require.NoError(t, err)
		assert.True(t, added)
	})

	t.Run("Success - AddFavorite Already Present", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewWishlistRepo(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorites")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		added, err := repo.AddFavorite(ctx, 1, 7)

		require.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("Success - RemoveFavorite", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewWishlistRepo(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites WHERE profile_id = $1 AND product_id = $2")).
			WithArgs(int64(1), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		removed, err := repo.RemoveFavorite(ctx, 1, 7)

		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("Success - CountFavorites", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewWishlistRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM favorites WHERE profile_id = $1")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := repo.CountFavorites(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("Success - ListFavorites", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewWishlistRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("JOIN products p ON p.id = f.product_id")).
			WithArgs(int64(1)).
			WillReturnRows(productRows())

		products, err := repo.ListFavorites(ctx, 1)

		require.NoError(t, err)
		assert.Len(t, products, 2)
	})
}
