package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/genever-ioc/config"
)

func TestBinder_Bind(t *testing.T) {
	type server struct {
		Addr    string        `config:"addr" validate:"required"`
		Timeout time.Duration `config:"timeout"`
		Port    int           `config:"port" validate:"min=0,max=65535"`
		Tags    []string      `config:"tags"`
		Debug   bool          `config:"debug"`
	}

	tests := []struct {
		name      string
		source    map[string]any
		want      server
		wantStage string
	}{
		{
			name:   "typed values",
			source: map[string]any{"addr": ":8080", "timeout": 5 * time.Second, "port": 8080},
			want:   server{Addr: ":8080", Timeout: 5 * time.Second, Port: 8080},
		},
		{
			name:   "string values convert",
			source: map[string]any{"addr": ":8080", "timeout": "30s", "port": "9090", "tags": "a,b", "debug": "true"},
			want:   server{Addr: ":8080", Timeout: 30 * time.Second, Port: 9090, Tags: []string{"a", "b"}, Debug: true},
		},
		{
			name:      "missing required field",
			source:    map[string]any{"port": 1},
			wantStage: "validate",
		},
		{
			name:      "port out of range",
			source:    map[string]any{"addr": ":1", "port": 70000},
			wantStage: "validate",
		},
		{
			name:      "bad duration",
			source:    map[string]any{"addr": ":1", "timeout": "soon"},
			wantStage: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got server
			err := config.NewBinder().Bind(tt.source, &got)
			if tt.wantStage != "" {
				var bindErr *config.BindError
				require.ErrorAs(t, err, &bindErr)
				assert.Equal(t, tt.wantStage, bindErr.Stage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBindError(t *testing.T) {
	cause := errors.New("bad value")
	err := &config.BindError{Stage: "decode", Err: cause}

	assert.Equal(t, "config decode error: bad value", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestDefaults_BindIntoRoot(t *testing.T) {
	var root config.Root
	require.NoError(t, config.NewBinder().Bind(config.Defaults(), &root))

	assert.Equal(t, "genever", root.App.Name)
	assert.Equal(t, ":8080", root.Server.Addr)
	assert.Equal(t, 5*time.Second, root.Server.ReadTimeout)
	assert.Equal(t, "info", root.Logging.Level)
	assert.Equal(t, "/actuator", root.Actuator.BasePath)
	assert.True(t, root.Actuator.Beans)
	assert.False(t, root.Container.AllowOverride)
}

func TestRoot_Validation(t *testing.T) {
	src := config.Defaults()
	src["logging"] = map[string]any{"level": "verbose", "format": "text"}

	var root config.Root
	err := config.NewBinder().Bind(src, &root)

	var bindErr *config.BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, "validate", bindErr.Stage)
	assert.Contains(t, err.Error(), "Level")
}
