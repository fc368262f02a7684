package launch

import (
	"strings"
)

// Environ merges overrides into a base environment, both given as KEY=value strings.
// Overridden variables keep their position in base; new ones follow in override order.
// A later override of the same key wins.
func Environ(base []string, overrides ...[]string) []string {
	out := make([]string, 0, len(base))
	index := map[string]int{}

	add := func(env string) {
		key, _, _ := strings.Cut(env, "=")
		if i, ok := index[key]; ok {
			out[i] = env
			return
		}
		index[key] = len(out)
		out = append(out, env)
	}

	for _, env := range base {
		add(env)
	}
	for _, set := range overrides {
		for _, env := range set {
			add(env)
		}
	}
	return out
}

// Lookup returns the value of key in an environment list.
func Lookup(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		if k, v, _ := strings.Cut(env[i], "="); k == key {
			return v, true
		}
	}
	return "", false
}
