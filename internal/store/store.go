// Package store implements the relationship store interfaces on gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"datefinder/backend/internal/relationship"

	"gorm.io/gorm"
)

// Store is the gorm-backed relationship.Store.
type Store struct {
	DB *gorm.DB
}

var _ relationship.Store = (*Store)(nil)

// New wraps db.
func New(db *gorm.DB) *Store { return &Store{DB: db} }

// WithTx runs fn inside a database transaction. The transaction is rolled
// back if fn returns an error.
func (s *Store) WithTx(ctx context.Context, fn func(tx relationship.Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// notFound translates gorm.ErrRecordNotFound into relationship.ErrNotFound.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", relationship.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
