package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/flower-server/internal/model"
)

// ParametersStore is a mock type for the model.ParametersStore type.
type ParametersStore struct {
	mock.Mock
}

func (_m *ParametersStore) Create(ctx context.Context, params model.Document) error {
	ret := _m.Called(ctx, params)
	return ret.Error(0)
}

func (_m *ParametersStore) Get(ctx context.Context) (model.Document, error) {
	ret := _m.Called(ctx)

	var r0 model.Document
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.Document)
	}
	return r0, ret.Error(1)
}

func (_m *ParametersStore) Update(ctx context.Context, patch model.Document) error {
	ret := _m.Called(ctx, patch)
	return ret.Error(0)
}

// NewParametersStore creates a new instance of ParametersStore.
func NewParametersStore(t testingT) *ParametersStore {
	m := &ParametersStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
