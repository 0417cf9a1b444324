package source

import "context"

// StaticSource serves a fixed map, typically config.Defaults(). Load returns
// a deep copy so merging never mutates Values.
type StaticSource struct {
	Values map[string]any
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return copyMap(s.Values), nil
}

func copyMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			out[k] = copyMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
