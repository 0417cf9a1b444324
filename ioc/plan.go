package ioc

import (
	"errors"
	"fmt"
	"reflect"
)

// InjectTag marks struct fields that are resolved when the container
// synthesizes a struct with no constructor plan.
const InjectTag = "inject"

var errorType = reflect.TypeFor[error]()

// Plan tells the container how to build a concrete type: the services to
// resolve, in order, and a function that receives them.
type Plan struct {
	Type  reflect.Type
	Deps  []reflect.Type
	Build func(args []any) (any, error)
}

// RegisterPlan registers a constructor plan for the concrete type t.
//
// Plans are used only when no producer is registered for t. A type has at
// most one plan; a second one fails with ErrDuplicateRegistration unless the
// container allows overrides.
func (c *Container) RegisterPlan(t reflect.Type, deps []reflect.Type, build func(args []any) (any, error)) error {
	if t == nil || build == nil {
		return newError(ErrInvalidRegistration, t, fmt.Errorf("nil type or build function"))
	}
	if t.Kind() == reflect.Interface {
		return newError(ErrInvalidRegistration, t,
			fmt.Errorf("plans build concrete types; use RegisterImplementation or RegisterFactory for interfaces"))
	}
	for i, dep := range deps {
		if dep == nil {
			return newError(ErrInvalidRegistration, t, fmt.Errorf("dependency %d is nil", i))
		}
	}
	plan := &Plan{Type: t, Deps: append([]reflect.Type(nil), deps...), Build: build}

	c.mu.Lock()
	_, exists := c.plans[t]
	if exists && !c.opts.allowOverride {
		c.mu.Unlock()
		return newError(ErrDuplicateRegistration, t, fmt.Errorf("constructor plan"))
	}
	c.plans[t] = plan
	c.mu.Unlock()

	c.opts.metrics.registered(ModeConstructor)
	c.opts.logger.Debug("constructor registered",
		"service", t.String(),
		"deps", len(plan.Deps),
		"replaced", exists,
	)
	return nil
}

// RegisterConstructor derives a plan from a constructor function.
//
// fn must have the shape func(A, B, ...) T or func(A, B, ...) (T, error).
// Its parameters are resolved in declaration order and T is the type the plan
// builds. A non-nil error return fails the resolution with ErrConstruction.
func (c *Container) RegisterConstructor(fn any) error {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return newError(ErrInvalidRegistration, nil,
			fmt.Errorf("constructor must be a non-nil function, got %T", fn))
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return newError(ErrInvalidRegistration, ft, fmt.Errorf("variadic constructors are not supported"))
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return newError(ErrInvalidRegistration, ft,
			fmt.Errorf("constructor must return T or (T, error)"))
	}

	deps := make([]reflect.Type, ft.NumIn())
	for i := range deps {
		deps[i] = ft.In(i)
	}

	build := func(args []any) (any, error) {
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			if a == nil {
				in[i] = reflect.Zero(ft.In(i))
				continue
			}
			in[i] = reflect.ValueOf(a)
		}
		results := fv.Call(in)
		if len(results) == 2 && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	}
	return c.RegisterPlan(ft.Out(0), deps, build)
}

func (c *Container) construct(plan *Plan, chain []reflect.Type) (any, error) {
	args := make([]any, len(plan.Deps))
	for i, dep := range plan.Deps {
		v, err := c.resolve(dep, chain)
		if err != nil {
			return nil, wrapConstruction(plan.Type, fmt.Errorf("dependency %d (%v): %w", i, dep, err))
		}
		args[i] = v
	}

	v, err := plan.Build(args)
	if err != nil {
		return nil, newError(ErrConstruction, plan.Type, err)
	}
	if err := checkAssignable(plan.Type, v); err != nil {
		return nil, newError(ErrConstruction, plan.Type, err)
	}
	return v, nil
}

// synthesizable reports whether t can be built without a producer or plan.
func synthesizable(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// synthesize allocates a zero value of t and resolves its injectable fields.
func (c *Container) synthesize(t reflect.Type, chain []reflect.Type) (any, error) {
	st := t
	if t.Kind() == reflect.Pointer {
		st = t.Elem()
	}

	val := reflect.New(st)
	if err := c.injectFields(val.Elem(), chain); err != nil {
		return nil, wrapConstruction(t, err)
	}
	c.opts.logger.Debug("service synthesized", "service", t.String())

	if t.Kind() == reflect.Pointer {
		return val.Interface(), nil
	}
	return val.Elem().Interface(), nil
}

func (c *Container) injectFields(sv reflect.Value, chain []reflect.Type) error {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if _, ok := field.Tag.Lookup(InjectTag); !ok {
			continue
		}
		if !field.IsExported() {
			return fmt.Errorf("field %s: unexported fields cannot be injected", field.Name)
		}

		dep, err := c.resolve(field.Type, chain)
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		sv.Field(i).Set(reflect.ValueOf(dep))
	}
	return nil
}

// wrapConstruction reports err as a construction failure of t. Cycles are
// passed through untouched so the caller sees the full chain.
func wrapConstruction(t reflect.Type, err error) error {
	var ce *Error
	if errors.As(err, &ce) && ce.Kind == ErrCircularDependency {
		return ce
	}
	return newError(ErrConstruction, t, err)
}
