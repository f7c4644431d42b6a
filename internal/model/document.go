package model

import "context"

// Document is a schemaless record stored under a collection and id.
type Document map[string]any

// DocumentRef pairs a document with its id, as returned by List.
type DocumentRef struct {
	ID   string
	Data Document
}

// DocumentStore is a key-value document database keyed by collection and id.
//
// Create fails with ErrAlreadyExists when the id is taken, Get and Update fail
// with ErrNotFound when it is absent. Update merges the top-level keys of the
// patch into the stored document.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection, id string, data Document) error
	Update(ctx context.Context, collection, id string, patch Document) error
	List(ctx context.Context, collection string) ([]DocumentRef, error)
	Ping(ctx context.Context) error
}
