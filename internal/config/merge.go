package config

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mrz1836/skillreport/internal/errors"
)

// Merge combines layers over defaults into a new, fully populated AppConfig.
//
// Layers are ordered lowest precedence first. For every schema field the value
// of the highest layer that defines it wins; a field no layer defines keeps its
// default. The collection policy is fixed:
//   - structs merge recursively, field by field;
//   - maps merge key by key, and struct-valued entries (projects) merge
//     recursively; an entry missing from defaults starts from its type's
//     default (DefaultProjectConfig for projects);
//   - slices and scalars are replaced whole; lists are never merged
//     element-wise and numbers never accumulate.
//
// Merge is pure. It performs no I/O, never mutates defaults or layers, and the
// result shares no maps or slices with its inputs. A nil defaults means
// DefaultConfig(). Keys the schema does not declare are skipped here; see
// UnknownFields to report them.
func Merge(defaults *AppConfig, layers ...Partial) (*AppConfig, error) {
	if defaults == nil {
		defaults = DefaultConfig()
	}

	out := reflect.New(appConfigType).Elem()
	deepCopy(out, reflect.ValueOf(defaults).Elem())

	trees := make([]map[string]any, 0, len(layers))
	for _, layer := range layers {
		if len(layer) > 0 {
			trees = append(trees, layer)
		}
	}

	if err := mergeStruct(out, trees, nil); err != nil {
		return nil, err
	}

	cfg, _ := out.Addr().Interface().(*AppConfig)
	return cfg, nil
}

// mergeStruct overlays each field of dst with the values the layers define for it.
func mergeStruct(dst reflect.Value, layers []map[string]any, path []string) error {
	if len(layers) == 0 {
		return nil
	}
	for _, f := range fieldsOf(dst.Type()) {
		values := definedValues(layers, f.Key)
		if len(values) == 0 {
			continue
		}
		if err := mergeField(dst.FieldByIndex(f.Index), values, childPath(path, f.Key)); err != nil {
			return err
		}
	}
	return nil
}

// mergeField applies the values defined for one field, lowest precedence first.
func mergeField(dst reflect.Value, values []any, path []string) error {
	switch dst.Kind() {
	case reflect.Struct:
		objects, err := objectLayers(values, path)
		if err != nil {
			return err
		}
		return mergeStruct(dst, objects, path)
	case reflect.Map:
		objects, err := objectLayers(values, path)
		if err != nil {
			return err
		}
		return mergeMap(dst, objects, path)
	default:
		// Scalars and slices: the highest-precedence value replaces everything below.
		return decodeLeaf(dst, values[len(values)-1], path)
	}
}

// mergeMap overlays map entries key by key. dst is owned by the merge result.
func mergeMap(dst reflect.Value, layers []map[string]any, path []string) error {
	mapType := dst.Type()
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(mapType))
	}

	keys := unionKeys(layers)
	for _, key := range keys {
		values := definedValues(layers, key)
		if len(values) == 0 {
			continue
		}

		mapKey := reflect.ValueOf(key).Convert(mapType.Key())
		entry := reflect.New(mapType.Elem()).Elem()
		if existing := dst.MapIndex(mapKey); existing.IsValid() {
			entry.Set(existing)
		} else {
			seedEntry(entry)
		}

		if err := mergeField(entry, values, childPath(path, key)); err != nil {
			return err
		}
		dst.SetMapIndex(mapKey, entry)
	}
	return nil
}

// seedEntry fills a new map entry with its type's defaults, if it has any.
func seedEntry(entry reflect.Value) {
	if entry.Type() == reflect.TypeFor[ProjectConfig]() {
		entry.Set(reflect.ValueOf(DefaultProjectConfig()))
	}
}

// decodeLeaf converts a raw layer value into dst's type.
// Decoding is strict: YAML values must already have the field's type, except
// that integral floats fill integer fields. Strings are parsed into durations
// ("10s"), comma-separated lists, numbers and booleans, which is how the
// environment layer supplies every value.
func decodeLeaf(dst reflect.Value, raw any, path []string) error {
	target := reflect.New(dst.Type())
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target.Interface(),
		TagName: "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToBasicTypeHookFunc(),
			integralFloatHookFunc(),
		),
	})
	if err != nil {
		return errors.Wrap(err, "failed to build field decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return &FieldError{Path: path, Err: err}
	}
	dst.Set(target.Elem())
	return nil
}

// integralFloatHookFunc rejects floats with a fractional part bound for an
// integer field, which mapstructure would otherwise truncate.
func integralFloatHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.Float64 && from.Kind() != reflect.Float32 {
			return data, nil
		}
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return data, nil
		}
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%w, got %v", errors.ErrConfigNotWholeNumber, data)
		}
		return int64(f), nil
	}
}

// objectLayers asserts every defined value of an object field is a mapping.
func objectLayers(values []any, path []string) ([]map[string]any, error) {
	objects := make([]map[string]any, 0, len(values))
	for _, v := range values {
		obj, ok := asObject(v)
		if !ok {
			return nil, &FieldError{
				Path: path,
				Err:  fmt.Errorf("%w, got %T", errors.ErrConfigObjectExpected, v),
			}
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// definedValues collects the non-null values the layers define for key,
// in layer order.
func definedValues(layers []map[string]any, key string) []any {
	var values []any
	for _, layer := range layers {
		if v, ok := layer[key]; ok && v != nil {
			values = append(values, v)
		}
	}
	return values
}

// unionKeys returns every key defined by any layer, sorted so that
// merge failures are reported deterministically.
func unionKeys(layers []map[string]any) []string {
	union := make(map[string]any)
	for _, layer := range layers {
		for k := range layer {
			union[k] = nil
		}
	}
	return sortedKeys(union)
}

// deepCopy copies src into dst without sharing maps, slices or pointers.
func deepCopy(dst, src reflect.Value) {
	switch src.Kind() {
	case reflect.Struct:
		t := src.Type()
		for i := range src.NumField() {
			if !t.Field(i).IsExported() {
				continue
			}
			deepCopy(dst.Field(i), src.Field(i))
		}
	case reflect.Map:
		if src.IsNil() {
			dst.Set(reflect.Zero(src.Type()))
			return
		}
		m := reflect.MakeMapWithSize(src.Type(), src.Len())
		iter := src.MapRange()
		for iter.Next() {
			elem := reflect.New(src.Type().Elem()).Elem()
			deepCopy(elem, iter.Value())
			m.SetMapIndex(iter.Key(), elem)
		}
		dst.Set(m)
	case reflect.Slice:
		if src.IsNil() {
			dst.Set(reflect.Zero(src.Type()))
			return
		}
		s := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := range src.Len() {
			deepCopy(s.Index(i), src.Index(i))
		}
		dst.Set(s)
	case reflect.Pointer:
		if src.IsNil() {
			dst.Set(reflect.Zero(src.Type()))
			return
		}
		p := reflect.New(src.Type().Elem())
		deepCopy(p.Elem(), src.Elem())
		dst.Set(p)
	default:
		dst.Set(src)
	}
}

// Clone returns a deep copy of cfg that shares no maps or slices with it.
func Clone(cfg *AppConfig) *AppConfig {
	if cfg == nil {
		return nil
	}
	out := reflect.New(appConfigType).Elem()
	deepCopy(out, reflect.ValueOf(cfg).Elem())
	c, _ := out.Addr().Interface().(*AppConfig)
	return c
}

// cloneProject returns a deep copy of p.
func cloneProject(p *ProjectConfig) *ProjectConfig {
	out := new(ProjectConfig)
	deepCopy(reflect.ValueOf(out).Elem(), reflect.ValueOf(p).Elem())
	return out
}
