package config

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/mrz1836/skillreport/internal/constants"
)

// projectEnvSeparator splits the id and field parts of a project override.
// Field names contain single underscores, so parts are joined with two.
const projectEnvSeparator = "__"

// EnvVar describes one recognized environment override.
type EnvVar struct {
	// Name is the environment variable name, e.g. SKILLREPORT_LOG_LEVEL.
	Name string `json:"name" yaml:"name"`
	// Path is the config field the variable overrides.
	Path []string `json:"path" yaml:"path"`
	// Value is the current value, empty when unset.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	// Set reports whether the variable is present in the environment.
	Set bool `json:"set" yaml:"set"`
}

// EnvVarName returns the variable that overrides the field at path,
// e.g. EnvVarName("SKILLREPORT", []string{"log", "level"}) is SKILLREPORT_LOG_LEVEL.
func EnvVarName(prefix string, path []string) string {
	if prefix == "" {
		prefix = constants.EnvPrefix
	}
	return prefix + "_" + strings.ToUpper(strings.Join(path, "_"))
}

// EnvLayer builds the environment override layer from the process environment.
//
// Every scalar and list field outside projects is bound by name through viper
// (see EnvVarName); only variables that are set and non-empty enter the layer,
// so an unset variable never masks a lower layer. Project fields are addressed
// as PREFIX_PROJECTS__<ID>__<FIELD>[__<SUBFIELD>], with every part lower-cased;
// AlignProjectIDs restores the spelling of ids declared elsewhere.
// Values stay strings; the Merger converts them to the field types.
func EnvLayer(prefix string) Partial {
	if prefix == "" {
		prefix = constants.EnvPrefix
	}

	layer := Partial{}

	v := viper.New()
	for _, path := range leafPaths(appConfigType, nil) {
		key := strings.Join(path, ".")
		// BindEnv with an explicit name only fails when no key is given.
		_ = v.BindEnv(key, EnvVarName(prefix, path))
		if v.IsSet(key) {
			layer.Set(path, v.Get(key))
		}
	}

	for path, value := range projectEnv(prefix, os.Environ()) {
		layer.Set(strings.Split(path, "."), value)
	}

	return layer
}

// projectEnv extracts project overrides from environ, keyed by dotted path.
func projectEnv(prefix string, environ []string) map[string]string {
	head := prefix + "_PROJECTS" + projectEnvSeparator
	out := make(map[string]string)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !strings.HasPrefix(name, head) {
			continue
		}
		parts := strings.Split(strings.TrimPrefix(name, head), projectEnvSeparator)
		if len(parts) < 2 {
			continue
		}
		path := make([]string, 0, len(parts)+1)
		path = append(path, "projects")
		valid := true
		for _, p := range parts {
			if p == "" {
				valid = false
				break
			}
			path = append(path, strings.ToLower(p))
		}
		if valid {
			out[strings.Join(path, ".")] = value
		}
	}
	return out
}

// AlignProjectIDs renames project ids in an environment layer to the
// spelling used by the projects of the given layers and of DefaultConfig,
// matching case-insensitively. Variable names are upper case, so without it
// PREFIX_PROJECTS__HR__NAME could never reach a project declared as "HR".
// An exact match wins; ids matching nothing are left as they are.
func AlignProjectIDs(env Partial, layers ...Partial) {
	projects, ok := asObject(env["projects"])
	if !ok {
		return
	}

	known := make(map[string]any)
	for id := range DefaultConfig().Projects {
		known[id] = nil
	}
	for _, layer := range layers {
		if declared, ok := asObject(layer["projects"]); ok {
			for id := range declared {
				known[id] = nil
			}
		}
	}
	ids := sortedKeys(known)

	for _, id := range sortedKeys(projects) {
		if _, exact := known[id]; exact {
			continue
		}
		for _, k := range ids {
			if strings.EqualFold(k, id) {
				projects[k] = projects[id]
				delete(projects, id)
				break
			}
		}
	}
}

// EnvVars lists every fixed override variable with its current state, sorted
// by name, followed by any project override variables that are set.
func EnvVars(prefix string) []EnvVar {
	if prefix == "" {
		prefix = constants.EnvPrefix
	}

	var vars []EnvVar
	for _, path := range leafPaths(appConfigType, nil) {
		name := EnvVarName(prefix, path)
		value, set := os.LookupEnv(name)
		vars = append(vars, EnvVar{Name: name, Path: path, Value: value, Set: set && value != ""})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })

	projects := projectEnv(prefix, os.Environ())
	keys := make([]string, 0, len(projects))
	for k := range projects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		path := strings.Split(k, ".")
		vars = append(vars, EnvVar{
			Name:  prefix + "_PROJECTS" + projectEnvSeparator + strings.ToUpper(strings.Join(path[1:], projectEnvSeparator)),
			Path:  path,
			Value: projects[k],
			Set:   true,
		})
	}
	return vars
}
