package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrStaleObject is returned when a version-guarded update matched no rows,
// i.e. the row changed since it was read.
var ErrStaleObject = errors.New("stale object")

// TxManager runs a function inside a single database transaction. All
// repository calls made with the context it hands to fn share that
// transaction; if fn returns an error the whole unit rolls back.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

type txKey struct{}

// conn resolves the database handle for ctx: the enclosing transaction when
// there is one, the repository's own connection otherwise.
func conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
