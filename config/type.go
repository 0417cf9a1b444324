package config

import "context"

// ConfigSource is one layer of configuration: a yaml file, the environment,
// command-line flags, or built-in defaults.
//
// Load must return a fresh map on every call; the Manager merges into it.
// Nested maps express hierarchy, e.g. {"server": {"addr": ":8080"}}.
type ConfigSource interface {
	// Load returns the source's values. Implementations should honour ctx
	// cancellation for anything slower than an in-memory read.
	Load(ctx context.Context) (map[string]any, error)

	// Name identifies the source in errors and logs ("file", "env", "cli").
	Name() string
}

// Event is sent to subscribers when a reload changed the configuration.
type Event struct {
	// ChangedKeys lists the top-level struct fields whose values differ.
	// A change to Server.Addr is reported as "Server".
	ChangedKeys []string

	OldConfig any
	NewConfig any
}
