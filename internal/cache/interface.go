package cache

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrUpdateConflict is returned by Update when the key kept changing under
// concurrent writers until the attempts ran out.
var ErrUpdateConflict = errors.New("cache: key changed concurrently")

// Cache stores JSON-encoded values. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	// Set stores value under key; a non-positive ttl selects the default TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Update is an atomic read-modify-write of key. fn gets the stored JSON
	// (nil on a miss) and returns the replacement; a nil result deletes the
	// key. fn runs again when another writer changes the key first.
	Update(ctx context.Context, key string, ttl time.Duration, fn func(current []byte) ([]byte, error)) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

// ProductKey addresses the cached product detail, invalidated on every write.
func ProductKey(id int64) string {
	return Key(ProductKeyPrefix, strconv.FormatInt(id, 10))
}

// GuestCartKey addresses the cart of an anonymous session.
func GuestCartKey(sessionID string) string {
	return Key(CartKeyPrefix, "guest:"+sessionID)
}

const (
	ProductKeyPrefix = "product"
	CartKeyPrefix    = "cart"
)
