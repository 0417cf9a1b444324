package config

import "strings"

// mergeMaps deep-merges src into dst. Nested maps are merged key by key;
// any other value in src replaces the one in dst. Keys match
// case-insensitively and keep dst's spelling, so GENEVER_SERVER_READTIMEOUT
// overrides a file's readTimeout.
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		k = matchKey(dst, k)
		if mv, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeMaps(existing, mv)
				continue
			}
		}
		dst[k] = v
	}
}

func matchKey(m map[string]any, k string) string {
	if _, ok := m[k]; ok {
		return k
	}
	for existing := range m {
		if strings.EqualFold(existing, k) {
			return existing
		}
	}
	return k
}
