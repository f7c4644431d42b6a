package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// RevocationRegistry is a mock type for the model.RevocationRegistry type.
type RevocationRegistry struct {
	mock.Mock
}

func (_m *RevocationRegistry) Invalidate(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

func (_m *RevocationRegistry) IsInvalidated(ctx context.Context, token string) (bool, error) {
	ret := _m.Called(ctx, token)
	return ret.Bool(0), ret.Error(1)
}

// NewRevocationRegistry creates a new instance of RevocationRegistry.
func NewRevocationRegistry(t testingT) *RevocationRegistry {
	m := &RevocationRegistry{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
