package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/flower-server/internal/model"
)

// Collection is where persisted revocations are written.
const Collection = "revoked_tokens"

var _ model.RevocationRegistry = (*Store)(nil)

// Store persists revocations in a document store so they survive restarts and
// are shared between replicas. Tokens are keyed by their SHA-256 digest and
// the store's create-if-absent provides the atomicity of Invalidate.
type Store struct {
	store model.DocumentStore
	now   func() time.Time
}

// NewStore creates a registry backed by store.
func NewStore(store model.DocumentStore) *Store {
	return &Store{store: store, now: time.Now}
}

// Invalidate records token as logged out.
func (s *Store) Invalidate(ctx context.Context, token string) error {
	err := s.store.Create(ctx, Collection, digest(token), model.Document{
		"revoked_at": s.now().UTC().Format(time.RFC3339Nano),
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.ErrAlreadyInvalidated
	}
	if err != nil {
		return fmt.Errorf("failed to persist revocation: %w", err)
	}
	return nil
}

// IsInvalidated reports whether token has been logged out.
func (s *Store) IsInvalidated(ctx context.Context, token string) (bool, error) {
	_, err := s.store.Get(ctx, Collection, digest(token))
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up revocation: %w", err)
	}
	return true, nil
}

func digest(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
