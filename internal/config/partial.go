package config

import (
	"fmt"
	"sort"
)

// Partial is one configuration layer: a deep-partial AppConfig.
//
// It is a tree of nested map[string]any keyed by the schema's YAML field names.
// A missing key means the layer does not define that field, at any depth;
// an explicit null is treated the same way. Leaves hold raw values (strings,
// numbers, booleans, lists) that the Merger converts into the schema's types.
//
// Partial is merge input only. It is never the shape of a validated config.
type Partial map[string]any

// Set stores value at path, creating intermediate objects as needed.
// An intermediate that is not an object is replaced.
func (p Partial) Set(path []string, value any) {
	if len(path) == 0 {
		return
	}
	node := map[string]any(p)
	for _, key := range path[:len(path)-1] {
		next, ok := asObject(node[key])
		if !ok {
			next = map[string]any{}
			node[key] = next
		}
		node = next
	}
	node[path[len(path)-1]] = value
}

// Lookup returns the value stored at path and whether the layer defines it.
func (p Partial) Lookup(path []string) (any, bool) {
	var node any = map[string]any(p)
	for _, key := range path {
		obj, ok := asObject(node)
		if !ok {
			return nil, false
		}
		node, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// asObject returns v as a layer object when it is one.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Partial:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalizeTree converts a decoded YAML value into layer form: mappings with
// non-string keys (for example a numeric project id) become map[string]any,
// recursively, including mappings inside lists.
func normalizeTree(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeTree(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeTree(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeTree(val)
		}
		return out
	default:
		return v
	}
}
