package config_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/genever-ioc/config"
)

type mockSource struct {
	name string
	mu   sync.Mutex
	data map[string]any
	err  error
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Load(context.Context) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]any, len(m.data))
	for k, v := range m.data {
		if nested, ok := v.(map[string]any); ok {
			cp := make(map[string]any, len(nested))
			for nk, nv := range nested {
				cp[nk] = nv
			}
			v = cp
		}
		out[k] = v
	}
	return out, nil
}

func (m *mockSource) set(data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

type appConfig struct {
	Name     string `config:"name" validate:"required"`
	Port     int    `config:"port" validate:"required,min=1,max=65535"`
	Database struct {
		Host string `config:"host"`
		Port int    `config:"port"`
	} `config:"database"`
}

func TestNewManager_LayeredSources(t *testing.T) {
	base := &mockSource{name: "base", data: map[string]any{
		"name":     "app",
		"port":     8080,
		"database": map[string]any{"host": "localhost", "port": 5432},
	}}
	override := &mockSource{name: "override", data: map[string]any{
		"port":     "9090",
		"database": map[string]any{"host": "db.internal"},
	}}

	var cfg appConfig
	_, err := config.NewManager(&cfg, base, override)
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestNewManager_Errors(t *testing.T) {
	loadErr := errors.New("unreachable")

	var cfg appConfig
	_, err := config.NewManager(&cfg, &mockSource{name: "broken", err: loadErr})
	assert.ErrorIs(t, err, loadErr)
	assert.Contains(t, err.Error(), "broken")

	_, err = config.NewManager(&cfg, &mockSource{name: "bad", data: map[string]any{"name": "x", "port": 0}})
	var bindErr *config.BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, "validate", bindErr.Stage)

	_, err = config.NewManager(cfg)
	assert.Error(t, err, "non-pointer config must be rejected")
}

func TestManager_ReloadNotifiesChanges(t *testing.T) {
	src := &mockSource{name: "test", data: map[string]any{"name": "app", "port": 8080}}

	var cfg appConfig
	mgr, err := config.NewManager(&cfg, src)
	require.NoError(t, err)

	events := make(chan config.Event, 1)
	mgr.Subscribe(events)

	require.NoError(t, mgr.Reload(context.Background()))
	assert.Empty(t, events, "reload without changes must not notify")

	src.set(map[string]any{"name": "app", "port": 9090})
	require.NoError(t, mgr.Reload(context.Background()))

	require.Len(t, events, 1)
	evt := <-events
	assert.Equal(t, []string{"Port"}, evt.ChangedKeys)
	assert.Equal(t, 8080, evt.OldConfig.(*appConfig).Port)
	assert.Equal(t, 9090, cfg.Port)
}

func TestManager_FailedReloadKeepsConfig(t *testing.T) {
	src := &mockSource{name: "test", data: map[string]any{"name": "app", "port": 8080}}

	var cfg appConfig
	mgr, err := config.NewManager(&cfg, src)
	require.NoError(t, err)

	src.set(map[string]any{"name": "", "port": 9090})
	require.Error(t, mgr.Reload(context.Background()))
	assert.Equal(t, "app", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, mgr.Reload(ctx), context.Canceled)
}

func TestManager_Snapshot(t *testing.T) {
	src := &mockSource{name: "test", data: map[string]any{"name": "app", "port": 8080}}

	var cfg appConfig
	mgr, err := config.NewManager(&cfg, src)
	require.NoError(t, err)

	var snap appConfig
	require.NoError(t, mgr.Snapshot(&snap))
	assert.Equal(t, cfg, snap)

	var wrong config.Root
	assert.Error(t, mgr.Snapshot(&wrong))
}

func TestManager_ConcurrentReload(t *testing.T) {
	src := &mockSource{name: "test", data: map[string]any{"name": "app", "port": 8080}}

	var cfg appConfig
	mgr, err := config.NewManager(&cfg, src)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, mgr.Reload(context.Background()))
		}()
		go func() {
			defer wg.Done()
			var snap appConfig
			assert.NoError(t, mgr.Snapshot(&snap))
		}()
	}
	wg.Wait()
}
