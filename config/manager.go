package config

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Manager loads configuration from an ordered list of sources, binds it into
// the caller's struct and notifies subscribers when a reload changes it.
//
// Later sources override earlier ones, so the usual order is defaults, file,
// env, cli. A reload that fails to load, decode or validate leaves the
// current configuration untouched.
//
// All methods are safe for concurrent use.
type Manager struct {
	sources []ConfigSource
	config  any
	binder  *Binder
	mu      sync.RWMutex
	subs    []chan Event
}

// NewManager performs the initial load into cfg, which must be a pointer to
// a struct.
//
//	var cfg config.Root
//	mgr, err := config.NewManager(&cfg,
//	    &source.StaticSource{Values: config.Defaults()},
//	    &source.FileSource{BasePath: "configs"},
//	    &source.EnvSource{},
//	    &source.CLISource{},
//	)
func NewManager(cfg any, sources ...ConfigSource) (*Manager, error) {
	if v := reflect.ValueOf(cfg); v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("config must be a pointer to a struct, got %T", cfg)
	}

	m := &Manager{
		sources: sources,
		config:  cfg,
		binder:  NewBinder(),
	}
	if err := m.Reload(context.Background()); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload re-reads every source and atomically replaces the configuration.
// Subscribers are notified only when something changed.
func (m *Manager) Reload(ctx context.Context) error {
	merged := map[string]any{}
	for _, src := range m.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		mergeMaps(merged, vals)
	}

	cfgType := reflect.TypeOf(m.config).Elem()
	newCfg := reflect.New(cfgType).Interface()
	if err := m.binder.Bind(merged, newCfg); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}

	m.mu.Lock()
	oldCfg := reflect.New(cfgType).Interface()
	reflect.ValueOf(oldCfg).Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(reflect.ValueOf(newCfg).Elem())
	m.mu.Unlock()

	if !reflect.DeepEqual(oldCfg, newCfg) {
		m.notify(diffEvent(oldCfg, newCfg))
	}
	return nil
}

// Snapshot copies the current configuration into dst, which must be a
// pointer to the same struct type the Manager was created with.
func (m *Manager) Snapshot(dst any) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.Elem().Type() != reflect.TypeOf(m.config).Elem() {
		return fmt.Errorf("snapshot target must be %T, got %T", m.config, dst)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	dv.Elem().Set(reflect.ValueOf(m.config).Elem())
	return nil
}

// Subscribe registers ch for change events. Sends never block: when ch is
// full the event is dropped, so give it a buffer. ch is never closed.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
