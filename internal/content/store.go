package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/pdfmail/pkg/db"
)

// Reader looks up content items by id.
type Reader interface {
	Get(ctx context.Context, id int64) (*Entity, error)
}

// Store reads and writes content items in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const selectEntity = `SELECT id, label, body, updated_at FROM content_items WHERE id = $1`

// Get returns the item with id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*Entity, error) {
	return scanEntity(s.pool.QueryRow(ctx, selectEntity, id))
}

// Save inserts e when e.ID is zero and updates it otherwise.
// It fills in ID and UpdatedAt from the stored row.
func (s *Store) Save(ctx context.Context, e *Entity) error {
	if e == nil || strings.TrimSpace(e.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidInput)
	}

	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var row pgx.Row
		if e.ID == 0 {
			row = tx.QueryRow(ctx,
				`INSERT INTO content_items (label, body) VALUES ($1, $2)
				 RETURNING id, label, body, updated_at`,
				e.Label, e.Body)
		} else {
			row = tx.QueryRow(ctx,
				`UPDATE content_items SET label = $2, body = $3, updated_at = now()
				 WHERE id = $1
				 RETURNING id, label, body, updated_at`,
				e.ID, e.Label, e.Body)
		}

		saved, err := scanEntity(row)
		if err != nil {
			return err
		}
		*e = *saved
		return nil
	})
}

func scanEntity(row pgx.Row) (*Entity, error) {
	var (
		e         Entity
		updatedAt time.Time
	)
	if err := row.Scan(&e.ID, &e.Label, &e.Body, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrQuery, err)
	}
	e.UpdatedAt = updatedAt.UTC()
	return &e, nil
}
