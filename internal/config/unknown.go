package config

import (
	"fmt"
	"reflect"
	"strings"
)

// unknownFieldsRule names the diagnostics produced by UnknownFields.
const unknownFieldsRule = "unknown_fields"

// UnknownFields reports every key in layer that the schema does not declare.
//
// Each finding is a warning with code unknown_field. Its Path points at the
// nearest enclosing object that does exist in the schema (the root for a
// top-level typo) and the message names the offending key and the source,
// so a path never refers to a field the schema lacks. Findings are ordered
// by key so the output is reproducible.
func UnknownFields(layer Partial, source string) []Diagnostic {
	out := []Diagnostic{}
	collectUnknown(appConfigType, layer, []string{}, source, &out)
	return out
}

// collectUnknown walks obj against struct type t.
func collectUnknown(t reflect.Type, obj map[string]any, path []string, source string, out *[]Diagnostic) {
	for _, key := range sortedKeys(obj) {
		f, ok := fieldByKey(t, key)
		if !ok {
			full := strings.Join(childPath(path, key), ".")
			*out = append(*out, Diagnostic{
				Path:     append([]string{}, path...),
				Code:     CodeUnknownField,
				Message:  fmt.Sprintf("unknown field %q in %s", full, source),
				Rule:     unknownFieldsRule,
				Severity: SeverityWarning,
			})
			continue
		}

		child, isObj := asObject(obj[key])
		if !isObj {
			continue
		}

		switch f.Type.Kind() {
		case reflect.Struct:
			collectUnknown(f.Type, child, childPath(path, key), source, out)
		case reflect.Map:
			if f.Type.Elem().Kind() != reflect.Struct {
				continue
			}
			mapPath := childPath(path, key)
			for _, id := range sortedKeys(child) {
				if entry, ok := asObject(child[id]); ok {
					collectUnknown(f.Type.Elem(), entry, childPath(mapPath, id), source, out)
				}
			}
		}
	}
}
