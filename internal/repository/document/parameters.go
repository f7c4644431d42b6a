package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/flower-server/internal/model"
)

var _ model.ParametersStore = (*ParametersRepository)(nil)

// ParametersRepository stores the single training-parameters document.
type ParametersRepository struct {
	store model.DocumentStore
}

func NewParametersRepository(store model.DocumentStore) *ParametersRepository {
	return &ParametersRepository{store: store}
}

func (r *ParametersRepository) Create(ctx context.Context, params model.Document) error {
	err := r.store.Create(ctx, model.ParametersCollection, model.ParametersDocumentID, params)
	if err != nil && !errors.Is(err, model.ErrAlreadyExists) {
		return fmt.Errorf("failed to create parameters: %w", err)
	}
	return err
}

func (r *ParametersRepository) Get(ctx context.Context) (model.Document, error) {
	doc, err := r.store.Get(ctx, model.ParametersCollection, model.ParametersDocumentID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("failed to get parameters: %w", err)
	}
	return doc, err
}

func (r *ParametersRepository) Update(ctx context.Context, patch model.Document) error {
	err := r.store.Update(ctx, model.ParametersCollection, model.ParametersDocumentID, patch)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to update parameters: %w", err)
	}
	return err
}
