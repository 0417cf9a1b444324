package source

import (
	"context"
	"os"
	"strings"
)

// DefaultEnvPrefix is used when EnvSource.Prefix is empty.
const DefaultEnvPrefix = "GENEVER_"

// EnvSource loads variables that start with Prefix. The rest of the name is
// lowercased and split on underscores into nested keys:
//
//	GENEVER_SERVER_ADDR=:9090            -> {server: {addr: ":9090"}}
//	GENEVER_CONTAINER_ALLOWOVERRIDE=true -> {container: {allowoverride: "true"}}
//
// Keys are matched to `config` tags case-insensitively during binding, so
// camelCase tags need their words run together in the variable name.
//
// When a leaf and a nested key collide (GENEVER_DB and GENEVER_DB_HOST) the
// leaf wins. Values are strings; the Binder converts them.
type EnvSource struct {
	Prefix string
}

func (e *EnvSource) Name() string { return "env" }

func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	result := make(map[string]any)
	for _, env := range os.Environ() {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, prefix) {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		setNestedValue(result, strings.Split(key, "_"), value)
	}
	return result, nil
}

func setNestedValue(m map[string]any, segments []string, value string) {
	current := m

	for i, segment := range segments {
		if segment == "" {
			continue
		}

		if i == len(segments)-1 {
			current[segment] = value
			return
		}

		existing, exists := current[segment]
		if !exists {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
			continue
		}
		nested, ok := existing.(map[string]any)
		if !ok {
			// A leaf already lives at this path.
			return
		}
		current = nested
	}
}
