package db

import (
	"context"

	"gorm.io/gorm"
)

// WithTransaction runs fn inside a database transaction. The transaction
// commits when fn returns nil and rolls back when fn returns an error or
// panics. Errors from fn come back unwrapped so sentinel checks keep
// working across the transaction boundary.
func (db *DB) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return db.DB.WithContext(ctx).Transaction(fn)
}
