package config

import (
	"fmt"
	"sort"
)

// Key is one configuration key with the value it takes in a given config.
type Key struct {
	Name  string
	Value string
	Env   string
}

// Keys flattens cfg into dotted keys ordered by name.
func Keys(cfg *Config) []Key {
	var out []Key
	flattenKeys("", configMap(cfg), &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func flattenKeys(prefix string, tree map[string]any, out *[]Key) {
	for k, v := range tree {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flattenKeys(name, sub, out)
			continue
		}
		*out = append(*out, Key{Name: name, Value: fmt.Sprint(v), Env: EnvVar(name)})
	}
}
