package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/flower-server/internal/model"
)

// ParametersService is a mock type for the handler.ParametersService type.
type ParametersService struct {
	mock.Mock
}

func (_m *ParametersService) CreateDefaults(ctx context.Context) (model.Document, error) {
	ret := _m.Called(ctx)
	return documentOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *ParametersService) Get(ctx context.Context) (model.Document, error) {
	ret := _m.Called(ctx)
	return documentOrNil(ret.Get(0)), ret.Error(1)
}

func (_m *ParametersService) Update(ctx context.Context, patch model.Document) (model.Document, error) {
	ret := _m.Called(ctx, patch)
	return documentOrNil(ret.Get(0)), ret.Error(1)
}

// NewParametersService creates a new instance of ParametersService.
func NewParametersService(t testingT) *ParametersService {
	m := &ParametersService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
