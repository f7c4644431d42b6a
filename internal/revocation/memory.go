// Package revocation keeps track of bearer tokens that have been logged out.
package revocation

import (
	"context"
	"sync"

	"github.com/dtroode/flower-server/internal/model"
)

var _ model.RevocationRegistry = (*Memory)(nil)

// Memory is a process-local registry. Entries live until the process exits.
type Memory struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

// NewMemory creates an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]struct{})}
}

// Invalidate marks token as logged out.
func (m *Memory) Invalidate(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[token]; ok {
		return model.ErrAlreadyInvalidated
	}
	m.tokens[token] = struct{}{}
	return nil
}

// IsInvalidated reports whether token has been logged out.
func (m *Memory) IsInvalidated(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.tokens[token]
	return ok, nil
}

// Len returns the number of invalidated tokens.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}
