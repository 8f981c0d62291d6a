// Package store is the entity store: gorm repositories for users, the
// catalog, recipes and the user relations, with storage errors translated
// into the package's error taxonomy.
package store

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
)

type Store struct {
	db      *gorm.DB
	log     *logger.Logger
	hashLen int
}

type Option func(*Store)

// WithShortHashLength overrides the number of hex characters kept for short links.
func WithShortHashLength(n int) Option {
	return func(s *Store) {
		if n > 0 && n <= model.MaxShortHashLength {
			s.hashLen = n
		}
	}
}

func New(db *gorm.DB, log *logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Store{db: db, log: log.With("component", "store"), hashLen: model.ShortHashLength}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store bound to one transaction. Every write made
// through tx commits or rolls back together. Nested calls use savepoints.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(s.with(gtx))
	})
}

// ReadTransaction is Transaction with a read-only hint, for multi-table reads
// that must see one consistent snapshot.
func (s *Store) ReadTransaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(s.with(gtx))
	}, &sql.TxOptions{ReadOnly: true})
}

func (s *Store) with(db *gorm.DB) *Store {
	return &Store{db: db, log: s.log, hashLen: s.hashLen}
}

func (s *Store) fail(op string, err error) error {
	mapped := MapError(err)
	if mapped != err {
		s.log.Debug("storage error mapped", "op", op, "error", err, "mapped", mapped)
	}
	return mapped
}

// Page bounds a list query. Limit <= 0 returns every row.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}
