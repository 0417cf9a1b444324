// Package repository holds the sample data-access types wired by the
// command-line entry points.
package repository

import "github.com/skekre98/genever-ioc/ioc"

// UserRepository looks up the current user.
type UserRepository interface {
	GetUsername() string
}

// MockUserRepository is an in-memory UserRepository with a fixed user.
type MockUserRepository struct{}

func (*MockUserRepository) GetUsername() string { return "Mock User 1" }

// UserService greets the user held by its repository.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Greeting() string {
	return "hello, " + s.repo.GetUsername()
}

// Register binds the mock as the UserRepository implementation and
// NewUserService as the UserService constructor.
func Register(c *ioc.Container) error {
	if err := ioc.RegisterImplementation[UserRepository, *MockUserRepository](c); err != nil {
		return err
	}
	return c.RegisterConstructor(NewUserService)
}
