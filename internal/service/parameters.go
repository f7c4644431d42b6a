package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/model"
)

// Parameters manages the model training parameters document.
type Parameters struct {
	store  model.ParametersStore
	logger *logger.Logger
}

func NewParameters(store model.ParametersStore, logger *logger.Logger) *Parameters {
	return &Parameters{store: store, logger: logger}
}

// CreateDefaults writes model.DefaultParameters. It fails with
// model.ErrAlreadyExists when the document is present.
func (p *Parameters) CreateDefaults(ctx context.Context) (model.Document, error) {
	params := model.DefaultParameters()
	if err := p.store.Create(ctx, params); err != nil {
		if !errors.Is(err, model.ErrAlreadyExists) {
			p.logger.Error("Parameters service: failed to create parameters",
				"error", err.Error())
		}
		return nil, err
	}

	p.logger.Info("Parameters service: default parameters created")

	return params, nil
}

// Get returns the parameters document.
func (p *Parameters) Get(ctx context.Context) (model.Document, error) {
	return p.store.Get(ctx)
}

// Update merges patch into the parameters document and returns the result.
func (p *Parameters) Update(ctx context.Context, patch model.Document) (model.Document, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: empty update", model.ErrValidation)
	}

	if err := p.store.Update(ctx, patch); err != nil {
		return nil, err
	}

	p.logger.Info("Parameters service: parameters updated",
		"keys", len(patch))

	return p.store.Get(ctx)
}
