// Package store is the relational storage layer. Every method takes the request
// context and maps gorm sentinel errors onto ErrNotFound and ErrDuplicate.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by point lookups and targeted updates that match no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects an insert or update.
	ErrDuplicate = errors.New("duplicate record")
)

// Store wraps the gorm handle owned by the process entry point.
type Store struct {
	db *gorm.DB
}

// New creates a Store on top of db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
