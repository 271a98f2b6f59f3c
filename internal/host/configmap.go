package host

import (
	"fmt"
	"strings"
)

// ConfigMap is the host configuration: nested string-keyed maps whose
// leaves are scalars or sequences.
type ConfigMap = map[string]any

// MergeConfig merges fragment into base and returns the result. Nested maps
// are merged key by key; any other fragment value, sequences included,
// replaces the base value. Neither input is modified and subtrees that the
// fragment does not touch are shared with base.
func MergeConfig(base, fragment ConfigMap) ConfigMap {
	out := make(ConfigMap, len(base)+len(fragment))
	for k, v := range base {
		out[k] = v
	}
	for k, fv := range fragment {
		fm, fragIsMap := asMap(fv)
		bm, baseIsMap := asMap(out[k])
		if fragIsMap && baseIsMap {
			out[k] = MergeConfig(bm, fm)
			continue
		}
		out[k] = fv
	}
	return out
}

// asMap accepts the map shapes produced by YAML decoders.
func asMap(v any) (ConfigMap, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(ConfigMap, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}

// ConfigInt reads an integer leaf at key, accepting the numeric types
// decoders produce. ok is false when the key is missing or not numeric.
func ConfigInt(cfg ConfigMap, key string) (int, bool) {
	switch v := cfg[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// ConfigString reads a string leaf at key.
func ConfigString(cfg ConfigMap, key string) (string, bool) {
	s, ok := cfg[key].(string)
	return s, ok
}

// ConfigEnabled reports whether the on/off constant at key is switched on.
// Hosts spell it as a bool, a number equal to Enabled, or "1"/"true".
func ConfigEnabled(cfg ConfigMap, key string) bool {
	switch v := cfg[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true":
			return true
		}
		return false
	case float64:
		return v == Enabled
	}
	n, ok := ConfigInt(cfg, key)
	return ok && n == Enabled
}
