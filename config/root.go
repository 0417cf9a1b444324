package config

import "time"

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	BasePath string `config:"basePath" validate:"required,startswith=/"`
	// Beans exposes the container registrations under {BasePath}/beans.
	Beans bool `config:"beans"`
}

type ServerConfig struct {
	Addr         string        `config:"addr" validate:"required"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
}

type LoggingConfig struct {
	Level  string `config:"level" validate:"oneof=debug info warn error"`
	Format string `config:"format" validate:"oneof=text json"`
}

type ContainerConfig struct {
	// AllowOverride lets a later registration replace an earlier one
	// instead of failing.
	AllowOverride bool `config:"allowOverride"`
}

type Root struct {
	App           AppInfo             `config:"app"`
	Server        ServerConfig        `config:"server"`
	Logging       LoggingConfig       `config:"logging"`
	Container     ContainerConfig     `config:"container"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
}

// Defaults returns the lowest-precedence configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":    "genever",
			"version": "dev",
		},
		"server": map[string]any{
			"addr":         ":8080",
			"readTimeout":  "5s",
			"writeTimeout": "10s",
			"idleTimeout":  "60s",
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"observability": map[string]any{
			"metrics": map[string]any{
				"enabled": true,
				"path":    "/actuator/metrics",
			},
		},
		"actuator": map[string]any{
			"basePath": "/actuator",
			"beans":    true,
		},
	}
}
