package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Binder decodes merged source maps into a configuration struct and
// validates the result.
//
// Fields are mapped with `config` tags and checked with `validate` tags:
//
//	type ServerConfig struct {
//	    Addr        string        `config:"addr" validate:"required"`
//	    ReadTimeout time.Duration `config:"readTimeout"`
//	}
//
// Decoding is weakly typed, so the string values produced by the env and cli
// sources convert to ints, bools and durations ("5s"). Comma separated
// strings decode into slices.
type Binder struct {
	validator *validator.Validate
}

// BindError reports which stage of binding failed: "decode" or "validate".
type BindError struct {
	Stage string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Stage, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func NewBinder() *Binder {
	return &Binder{
		validator: validator.New(),
	}
}

// Bind decodes source into target, which must be a pointer to a struct, and
// validates it. target may be partially populated when validation fails.
func (b *Binder) Bind(source map[string]any, target any) error {
	if err := b.decode(source, target); err != nil {
		return &BindError{Stage: "decode", Err: err}
	}
	if err := b.validator.Struct(target); err != nil {
		return &BindError{Stage: "validate", Err: err}
	}
	return nil
}

func (b *Binder) decode(source map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		TagName: "config",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(source)
}
