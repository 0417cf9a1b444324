package ioc

import (
	"fmt"
	"reflect"
)

// RegisterImplementation registers TImpl as the implementation of TService.
//
//	ioc.RegisterImplementation[repository.UserRepository, *repository.MockUserRepository](c)
func RegisterImplementation[TService, TImpl any](c *Container) error {
	return c.RegisterImplementation(reflect.TypeFor[TService](), reflect.TypeFor[TImpl]())
}

// RegisterFactory registers factory as the producer of T.
func RegisterFactory[T any](c *Container, factory func() T) error {
	if factory == nil {
		return newError(ErrInvalidRegistration, reflect.TypeFor[T](), fmt.Errorf("nil factory"))
	}
	return c.RegisterFactory(reflect.TypeFor[T](), func() (any, error) {
		return factory(), nil
	})
}

// RegisterSingleton registers instance as the only value of T.
func RegisterSingleton[T any](c *Container, instance T) error {
	return c.RegisterSingleton(reflect.TypeFor[T](), instance)
}

// Resolve resolves T and type-asserts the result.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	typ := reflect.TypeFor[T]()

	v, err := c.Resolve(typ)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, newError(ErrConstruction, typ, fmt.Errorf("resolved value is %T", v))
	}
	return t, nil
}

// ResolveRegistered is like Resolve but fails with ErrNotRegistered unless a
// producer or constructor plan exists for T. Use it for services that must be
// seeded by the caller, where a synthesized zero value would be wrong.
func ResolveRegistered[T any](c *Container) (T, error) {
	if typ := reflect.TypeFor[T](); !c.Registered(typ) {
		var zero T
		return zero, newError(ErrNotRegistered, typ, nil)
	}
	return Resolve[T](c)
}

// MustResolve is like Resolve but panics on error. Meant for wiring code
// where a missing service is a programming error.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}
