package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/genever-ioc/ioc"
)

func TestResolveMockRepository(t *testing.T) {
	c := ioc.New()
	require.NoError(t, ioc.RegisterImplementation[UserRepository, *MockUserRepository](c))

	repo, err := ioc.Resolve[UserRepository](c)
	require.NoError(t, err)
	assert.IsType(t, &MockUserRepository{}, repo)
	assert.Equal(t, "Mock User 1", repo.GetUsername())
}

func TestRegister(t *testing.T) {
	c := ioc.New()
	require.NoError(t, Register(c))

	svc, err := ioc.Resolve[*UserService](c)
	require.NoError(t, err)
	assert.Equal(t, "hello, Mock User 1", svc.Greeting())

	other, err := ioc.Resolve[*UserService](c)
	require.NoError(t, err)
	assert.NotSame(t, svc, other)

	assert.ErrorIs(t, Register(c), ioc.ErrDuplicateRegistration)
}
