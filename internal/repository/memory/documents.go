// Package memory provides an in-process DocumentStore.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/dtroode/flower-server/internal/model"
)

var _ model.DocumentStore = (*DocumentStore)(nil)

// DocumentStore keeps documents in memory. Values are stored as JSON so that
// callers never share maps with the store.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{collections: make(map[string]map[string][]byte)}
}

func (s *DocumentStore) Get(_ context.Context, collection, id string) (model.Document, error) {
	s.mu.RLock()
	raw, ok := s.collections[collection][id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrNotFound
	}
	return decode(raw)
}

func (s *DocumentStore) Create(_ context.Context, collection, id string, data model.Document) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		s.collections[collection] = docs
	}
	if _, exists := docs[id]; exists {
		return model.ErrAlreadyExists
	}
	docs[id] = raw
	return nil
}

func (s *DocumentStore) Update(_ context.Context, collection, id string, patch model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.collections[collection][id]
	if !ok {
		return model.ErrNotFound
	}
	doc, err := decode(raw)
	if err != nil {
		return err
	}
	for k, v := range patch {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	s.collections[collection][id] = merged
	return nil
}

// List returns the documents of collection ordered by id.
func (s *DocumentStore) List(_ context.Context, collection string) ([]model.DocumentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	refs := make([]model.DocumentRef, 0, len(ids))
	for _, id := range ids {
		doc, err := decode(docs[id])
		if err != nil {
			return nil, err
		}
		refs = append(refs, model.DocumentRef{ID: id, Data: doc})
	}
	return refs, nil
}

func (s *DocumentStore) Ping(_ context.Context) error {
	return nil
}

func decode(raw []byte) (model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
