package mocks

import "github.com/stretchr/testify/mock"

// TokenCodec is a mock type for the model.TokenCodec type.
type TokenCodec struct {
	mock.Mock
}

func (_m *TokenCodec) Issue(email string) (string, error) {
	ret := _m.Called(email)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenCodec) Parse(token string) (string, error) {
	ret := _m.Called(token)
	return ret.String(0), ret.Error(1)
}

// NewTokenCodec creates a new instance of TokenCodec.
func NewTokenCodec(t testingT) *TokenCodec {
	m := &TokenCodec{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
