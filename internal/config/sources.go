package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Source names the layer that supplied an effective value.
type Source string

// Layer names, lowest precedence first.
const (
	SourceDefault Source = "default"
	SourceProject Source = "project"
	SourceEnv     Source = "env"
)

// AnnotatedValue is one leaf of the effective configuration with the layer it
// came from.
type AnnotatedValue struct {
	Path   string `json:"path" yaml:"path"`
	Value  string `json:"value" yaml:"value"`
	Source Source `json:"source" yaml:"source"`
}

// SourceOf reports which layer supplied the value at path.
func (s *Snapshot) SourceOf(path []string) Source {
	if s == nil {
		return SourceDefault
	}
	if v, ok := s.envLayer.Lookup(path); ok && v != nil {
		return SourceEnv
	}
	if v, ok := s.fileLayer.Lookup(path); ok && v != nil {
		return SourceProject
	}
	return SourceDefault
}

// Annotate flattens cfg into sorted leaf values, each tagged with the layer of
// this snapshot that supplied it. cfg is normally the snapshot's own config or
// a Redacted copy of it.
func (s *Snapshot) Annotate(cfg *AppConfig) []AnnotatedValue {
	if cfg == nil {
		return nil
	}
	var out []AnnotatedValue
	s.annotate(reflect.ValueOf(cfg).Elem(), nil, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (s *Snapshot) annotate(v reflect.Value, path []string, out *[]AnnotatedValue) {
	switch v.Kind() {
	case reflect.Struct:
		for _, f := range fieldsOf(v.Type()) {
			s.annotate(v.FieldByIndex(f.Index), childPath(path, f.Key), out)
		}
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			s.annotate(v.MapIndex(k), childPath(path, k.String()), out)
		}
	default:
		*out = append(*out, AnnotatedValue{
			Path:   strings.Join(path, "."),
			Value:  formatLeaf(v),
			Source: s.SourceOf(path),
		})
	}
}

// formatLeaf renders a scalar or list for display.
func formatLeaf(v reflect.Value) string {
	if d, ok := v.Interface().(time.Duration); ok {
		return d.String()
	}
	if v.Kind() == reflect.Slice {
		items := make([]string, v.Len())
		for i := range v.Len() {
			items[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return fmt.Sprint(v.Interface())
}
