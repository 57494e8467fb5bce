package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// RepositoryFactory hands out repositories bound to a single transaction.
type RepositoryFactory interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Carts() CartRepository
	Wishlists() WishlistRepository
	Orders() OrderRepository
}

type TxManager interface {
	// WithinTx runs fn in one transaction. The transaction is committed when
	// fn returns nil and rolled back on error or panic; fn's error is returned as is.
	WithinTx(ctx context.Context, fn func(repos RepositoryFactory) error) error
}

type txManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(repos RepositoryFactory) error) error {

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txRepositoryFactory{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type txRepositoryFactory struct {
	tx *sql.Tx
}

func (f *txRepositoryFactory) Users() UserRepository {
	return NewUserRepo(f.tx)
}

func (f *txRepositoryFactory) Profiles() ProfileRepository {
	return NewProfileRepo(f.tx)
}

func (f *txRepositoryFactory) Carts() CartRepository {
	return NewCartRepo(f.tx)
}

func (f *txRepositoryFactory) Wishlists() WishlistRepository {
	return NewWishlistRepo(f.tx)
}

func (f *txRepositoryFactory) Orders() OrderRepository {
	return NewOrderRepo(f.tx)
}
