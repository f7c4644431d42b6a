package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/flower-server/internal/model"
)

const uniqueViolation = "23505"

var _ model.DocumentStore = (*DocumentStore)(nil)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// DocumentStore keeps documents as JSONB rows keyed by (collection, id).
type DocumentStore struct {
	db DBTX
}

func NewDocumentStore(db DBTX) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (model.Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return decode(raw)
}

// Create inserts a new row. The primary key makes it an atomic
// create-if-absent.
func (s *DocumentStore) Create(ctx context.Context, collection, id string, data model.Document) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`

	_, err = s.db.ExecContext(ctx, query, collection, id, string(raw))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// Update merges the top-level keys of patch into the stored document.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, patch model.Document) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	query := `UPDATE documents SET data = data || $3::jsonb, updated_at = now()
			  WHERE collection = $1 AND id = $2`

	res, err := s.db.ExecContext(ctx, query, collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([]model.DocumentRef, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var refs []model.DocumentRef
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, model.DocumentRef{ID: id, Data: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return refs, nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	p, ok := s.db.(pinger)
	if !ok {
		return nil
	}
	return p.PingContext(ctx)
}

func decode(raw []byte) (model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc == nil {
		doc = model.Document{}
	}
	return doc, nil
}
