// Package ioc implements a small inversion-of-control container.
//
// A Container maps a service type to a producer. Three kinds of producer can
// be registered:
//
//   - an implementation type, resolved again on every request
//     (RegisterImplementation)
//   - a factory function, called on every request (RegisterFactory)
//   - a ready instance, returned as-is on every request (RegisterSingleton)
//
// Resolve returns the registered producer's result. When nothing is
// registered for a type, the container tries to build it itself: first from a
// constructor plan (RegisterConstructor, RegisterPlan), then, for struct and
// pointer-to-struct types, by allocating a zero value and resolving every
// exported field tagged `inject:""`. Interfaces and other non-struct types
// with no producer fail with ErrNotRegistered.
//
// Nothing is cached apart from singleton instances. Each Resolve of a
// factory, implementation or synthesized type yields a fresh value.
//
// Registration and resolution are safe for concurrent use. Producers run
// outside the registry lock.
package ioc

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

// Mode says how a registered service is produced.
type Mode int

const (
	// ModeImplementation resolves a concrete implementation type on each request.
	ModeImplementation Mode = iota
	// ModeFactory calls a factory function on each request.
	ModeFactory
	// ModeSingleton returns the same instance on each request.
	ModeSingleton
	// ModeConstructor builds a concrete type from a constructor plan.
	ModeConstructor
)

func (m Mode) String() string {
	switch m {
	case ModeImplementation:
		return "implementation"
	case ModeFactory:
		return "factory"
	case ModeSingleton:
		return "singleton"
	case ModeConstructor:
		return "constructor"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// producer yields an instance of a registered service. chain is the
// in-progress resolution path and already ends with the service itself.
type producer struct {
	mode    Mode
	impl    reflect.Type
	produce func(chain []reflect.Type) (any, error)
}

// Container is the service registry and resolver.
// The zero value is not usable; create one with New.
type Container struct {
	mu        sync.RWMutex
	producers map[reflect.Type]*producer
	plans     map[reflect.Type]*Plan
	opts      options
}

// New creates an empty container.
func New(opts ...Option) *Container {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Container{
		producers: make(map[reflect.Type]*producer),
		plans:     make(map[reflect.Type]*Plan),
		opts:      o,
	}
}

// RegisterImplementation registers service so that every resolution resolves
// impl instead. impl must be assignable to service. Nothing is constructed
// until the service is resolved.
func (c *Container) RegisterImplementation(service, impl reflect.Type) error {
	if service == nil || impl == nil {
		return newError(ErrInvalidRegistration, service, fmt.Errorf("nil type"))
	}
	if !impl.AssignableTo(service) {
		return newError(ErrInvalidRegistration, service,
			fmt.Errorf("%v is not assignable to %v", impl, service))
	}
	return c.add(service, &producer{
		mode: ModeImplementation,
		impl: impl,
		produce: func(chain []reflect.Type) (any, error) {
			return c.resolve(impl, chain)
		},
	})
}

// RegisterFactory registers service to be produced by factory. The factory is
// called on every resolution and its result is not cached.
func (c *Container) RegisterFactory(service reflect.Type, factory func() (any, error)) error {
	if service == nil || factory == nil {
		return newError(ErrInvalidRegistration, service, fmt.Errorf("nil type or factory"))
	}
	return c.add(service, &producer{
		mode: ModeFactory,
		produce: func(_ []reflect.Type) (any, error) {
			v, err := factory()
			if err != nil {
				return nil, newError(ErrConstruction, service, err)
			}
			if err := checkAssignable(service, v); err != nil {
				return nil, newError(ErrConstruction, service, err)
			}
			return v, nil
		},
	})
}

// RegisterSingleton registers instance as the only value of service.
func (c *Container) RegisterSingleton(service reflect.Type, instance any) error {
	if service == nil {
		return newError(ErrInvalidRegistration, nil, fmt.Errorf("nil type"))
	}
	if err := checkAssignable(service, instance); err != nil {
		return newError(ErrInvalidRegistration, service, err)
	}
	return c.add(service, &producer{
		mode: ModeSingleton,
		produce: func(_ []reflect.Type) (any, error) {
			return instance, nil
		},
	})
}

func (c *Container) add(service reflect.Type, p *producer) error {
	c.mu.Lock()
	_, exists := c.producers[service]
	if exists && !c.opts.allowOverride {
		c.mu.Unlock()
		return newError(ErrDuplicateRegistration, service, nil)
	}
	c.producers[service] = p
	c.mu.Unlock()

	c.opts.metrics.registered(p.mode)
	c.opts.logger.Debug("service registered",
		"service", service.String(),
		"mode", p.mode.String(),
		"replaced", exists,
	)
	return nil
}

// Resolve returns an instance of service.
//
// A registered producer always wins. Otherwise a constructor plan for service
// is used, and failing that struct types are synthesized. Any other type
// without a producer fails with ErrNotRegistered. A type that transitively
// depends on itself fails with ErrCircularDependency.
func (c *Container) Resolve(service reflect.Type) (any, error) {
	if service == nil {
		return nil, newError(ErrNotRegistered, nil, fmt.Errorf("nil type"))
	}
	defer c.opts.metrics.observe(time.Now())
	return c.resolve(service, nil)
}

func (c *Container) resolve(service reflect.Type, chain []reflect.Type) (any, error) {
	for _, t := range chain {
		if t == service {
			cycle := make([]reflect.Type, 0, len(chain)+1)
			cycle = append(append(cycle, chain...), service)
			return nil, &Error{Kind: ErrCircularDependency, Type: service, Chain: cycle}
		}
	}
	// Full slice expression so siblings never share a backing array.
	next := append(chain[:len(chain):len(chain)], service)

	c.mu.RLock()
	p, registered := c.producers[service]
	plan, planned := c.plans[service]
	c.mu.RUnlock()

	var (
		v      any
		err    error
		source string
	)
	switch {
	case registered:
		source = p.mode.String()
		v, err = p.produce(next)
	case planned:
		source = ModeConstructor.String()
		v, err = c.construct(plan, next)
	case synthesizable(service):
		source = "synthesized"
		v, err = c.synthesize(service, next)
	default:
		source = "none"
		err = newError(ErrNotRegistered, service, nil)
	}
	c.opts.metrics.resolved(source, err)
	return v, err
}

// Registered reports whether a producer or a constructor plan exists for t.
func (c *Container) Registered(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, p := c.producers[t]
	_, plan := c.plans[t]
	return p || plan
}

// Descriptor describes one registration, for diagnostics.
type Descriptor struct {
	Service        string   `json:"service"`
	Mode           string   `json:"mode"`
	Implementation string   `json:"implementation,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
}

// Services returns every registration and constructor plan, sorted by service
// name.
func (c *Container) Services() []Descriptor {
	c.mu.RLock()
	out := make([]Descriptor, 0, len(c.producers)+len(c.plans))
	for t, p := range c.producers {
		d := Descriptor{Service: t.String(), Mode: p.mode.String()}
		if p.impl != nil {
			d.Implementation = p.impl.String()
		}
		out = append(out, d)
	}
	for t, plan := range c.plans {
		d := Descriptor{Service: t.String(), Mode: ModeConstructor.String()}
		for _, dep := range plan.Deps {
			d.Dependencies = append(d.Dependencies, dep.String())
		}
		out = append(out, d)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Service != out[j].Service {
			return out[i].Service < out[j].Service
		}
		return out[i].Mode < out[j].Mode
	})
	return out
}

func checkAssignable(service reflect.Type, v any) error {
	if v == nil {
		return fmt.Errorf("nil instance for %v", service)
	}
	if vt := reflect.TypeOf(v); !vt.AssignableTo(service) {
		return fmt.Errorf("%v is not assignable to %v", vt, service)
	}
	return nil
}
