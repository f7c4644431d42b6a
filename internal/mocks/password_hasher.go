package mocks

import "github.com/stretchr/testify/mock"

// PasswordHasher is a mock type for the service.PasswordHasher type.
type PasswordHasher struct {
	mock.Mock
}

func (_m *PasswordHasher) Hash(password string) (string, error) {
	ret := _m.Called(password)
	return ret.String(0), ret.Error(1)
}

func (_m *PasswordHasher) Compare(hash string, password string) error {
	ret := _m.Called(hash, password)
	return ret.Error(0)
}

// NewPasswordHasher creates a new instance of PasswordHasher.
func NewPasswordHasher(t testingT) *PasswordHasher {
	m := &PasswordHasher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
