package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/flower-server/internal/model"
)

// DocumentStore is a mock type for the model.DocumentStore type.
type DocumentStore struct {
	mock.Mock
}

func (_m *DocumentStore) Get(ctx context.Context, collection string, id string) (model.Document, error) {
	ret := _m.Called(ctx, collection, id)

	var r0 model.Document
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.Document)
	}
	return r0, ret.Error(1)
}

func (_m *DocumentStore) Create(ctx context.Context, collection string, id string, data model.Document) error {
	ret := _m.Called(ctx, collection, id, data)
	return ret.Error(0)
}

func (_m *DocumentStore) Update(ctx context.Context, collection string, id string, patch model.Document) error {
	ret := _m.Called(ctx, collection, id, patch)
	return ret.Error(0)
}

func (_m *DocumentStore) List(ctx context.Context, collection string) ([]model.DocumentRef, error) {
	ret := _m.Called(ctx, collection)

	var r0 []model.DocumentRef
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.DocumentRef)
	}
	return r0, ret.Error(1)
}

func (_m *DocumentStore) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// NewDocumentStore creates a new instance of DocumentStore. It also registers
// a cleanup function to assert the mocks expectations.
func NewDocumentStore(t testingT) *DocumentStore {
	m := &DocumentStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
