package config

import (
	"reflect"
	"strings"
	"sync"
)

// schemaField describes one field of a configuration struct as layers see it:
// the YAML key, its index in the struct and its Go type.
type schemaField struct {
	Key   string
	Index []int
	Type  reflect.Type
}

// schemaCache holds the field list of each walked struct type.
var schemaCache sync.Map //nolint:gochecknoglobals // reflection cache keyed by type

// appConfigType is the root of the schema.
var appConfigType = reflect.TypeFor[AppConfig]() //nolint:gochecknoglobals // immutable type handle

// fieldsOf returns the layer-visible fields of struct type t in declaration order.
func fieldsOf(t reflect.Type) []schemaField {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.([]schemaField)
	}

	fields := make([]schemaField, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := yamlKey(sf)
		if key == "-" {
			continue
		}
		fields = append(fields, schemaField{Key: key, Index: sf.Index, Type: sf.Type})
	}

	schemaCache.Store(t, fields)
	return fields
}

// yamlKey returns the key a struct field uses in YAML sources.
// Untagged fields use the lower-cased field name, matching yaml.v3.
func yamlKey(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("yaml"), ",")
	if name == "" {
		return strings.ToLower(sf.Name)
	}
	return name
}

// fieldByKey looks up the field of struct type t that a layer addresses as key.
func fieldByKey(t reflect.Type, key string) (schemaField, bool) {
	for _, f := range fieldsOf(t) {
		if f.Key == key {
			return f, true
		}
	}
	return schemaField{}, false
}

// isObject reports whether a layer expresses values of type t as nested mappings.
func isObject(t reflect.Type) bool {
	return t.Kind() == reflect.Struct || t.Kind() == reflect.Map
}

// SchemaHasPath reports whether path addresses a field declared by the schema,
// starting at AppConfig. Any key is accepted where the schema has a map, so
// "projects.<id>.limits.max_members" resolves for every id. The empty path is
// the root and always exists.
func SchemaHasPath(path []string) bool {
	t := appConfigType
	for _, key := range path {
		switch t.Kind() {
		case reflect.Struct:
			f, ok := fieldByKey(t, key)
			if !ok {
				return false
			}
			t = f.Type
		case reflect.Map:
			t = t.Elem()
		default:
			return false
		}
	}
	return true
}

// leafPaths returns the path of every scalar or list field reachable from
// struct type t without crossing a map, in declaration order.
func leafPaths(t reflect.Type, prefix []string) [][]string {
	var out [][]string
	for _, f := range fieldsOf(t) {
		path := childPath(prefix, f.Key)
		switch f.Type.Kind() {
		case reflect.Struct:
			out = append(out, leafPaths(f.Type, path)...)
		case reflect.Map:
			// map entries are addressed by id and have no fixed leaf set
		default:
			out = append(out, path)
		}
	}
	return out
}

// childPath returns a new slice holding parent followed by key.
// The parent slice is never aliased.
func childPath(parent []string, key string) []string {
	out := make([]string, len(parent), len(parent)+1)
	copy(out, parent)
	return append(out, key)
}
