// Package mocks holds testify mocks for the interfaces in internal/model and
// the service dependencies of the HTTP layer.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/flower-server/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func documentOrNil(v any) model.Document {
	if v == nil {
		return nil
	}
	return v.(model.Document)
}
