package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource_ReturnsCopy(t *testing.T) {
	values := map[string]any{"server": map[string]any{"addr": ":8080"}}
	src := &StaticSource{Values: values}

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	got["server"].(map[string]any)["addr"] = ":9090"

	assert.Equal(t, ":8080", values["server"].(map[string]any)["addr"])
	assert.Equal(t, "static", src.Name())
}

func TestEnvSource_Load(t *testing.T) {
	t.Setenv("GENEVER_SERVER_ADDR", ":9090")
	t.Setenv("GENEVER_CONTAINER_ALLOWOVERRIDE", "true")
	t.Setenv("GENEVER_DB", "leaf")
	t.Setenv("GENEVER_DB_HOST", "ignored")
	t.Setenv("OTHER_SERVER_ADDR", ":1")

	got, err := (&EnvSource{}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ":9090", got["server"].(map[string]any)["addr"])
	assert.Equal(t, "true", got["container"].(map[string]any)["allowoverride"])
	assert.NotContains(t, got, "other")

	assert.Equal(t, "leaf", got["db"])
}

func TestEnvSource_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_LOGGING_LEVEL", "debug")
	t.Setenv("GENEVER_LOGGING_LEVEL", "warn")

	got, err := (&EnvSource{Prefix: "MYAPP_"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"logging": map[string]any{"level": "debug"}}, got)
}

func TestCLISource_Load(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{
			name: "equals form",
			args: []string{"--server.addr=:9090", "--logging.level=debug"},
			want: map[string]any{
				"server":  map[string]any{"addr": ":9090"},
				"logging": map[string]any{"level": "debug"},
			},
		},
		{
			name: "space form and single dash",
			args: []string{"--app.name", "orders", "-app.version=1.2.0"},
			want: map[string]any{"app": map[string]any{"name": "orders", "version": "1.2.0"}},
		},
		{
			name: "positional arguments and empty values ignored",
			args: []string{"serve", "--app.name=", "--server.addr=:1"},
			want: map[string]any{"server": map[string]any{"addr": ":1"}},
		},
		{
			name: "no args",
			args: []string{},
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (&CLISource{Args: tt.args}).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "application.yaml"), "app:\n  name: base\nserver:\n  addr: \":8080\"\n")
	writeFile(t, filepath.Join(dir, "application.prod.yml"), "app:\n  name: prod\n")

	got, err := (&FileSource{BasePath: dir}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "base", got["app"].(map[string]any)["name"])

	got, err = (&FileSource{BasePath: dir, Profile: "prod"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "prod", got["app"].(map[string]any)["name"])
	assert.Equal(t, ":8080", got["server"].(map[string]any)["addr"])

	got, err = (&FileSource{BasePath: dir, Profile: "missing"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "base", got["app"].(map[string]any)["name"])
}

func TestFileSource_Missing(t *testing.T) {
	dir := t.TempDir()

	_, err := (&FileSource{BasePath: dir}).Load(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	got, err := (&FileSource{BasePath: dir, Optional: true}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileSource_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "application.yaml"), "app: [unclosed\n")

	_, err := (&FileSource{BasePath: dir}).Load(context.Background())
	assert.Error(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
