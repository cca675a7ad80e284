package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/skillreport/internal/constants"
)

// Rule is one named semantic check over a merged configuration.
// Check must not modify cfg.
type Rule interface {
	Name() string
	Check(cfg *AppConfig) []Diagnostic
}

// RuleFunc adapts a function into a Rule.
type RuleFunc struct {
	name string
	fn   func(cfg *AppConfig) []Diagnostic
}

// NewRule creates a Rule named name that runs fn.
func NewRule(name string, fn func(cfg *AppConfig) []Diagnostic) RuleFunc {
	return RuleFunc{name: name, fn: fn}
}

// Name returns the rule name.
func (r RuleFunc) Name() string { return r.name }

// Check runs the rule.
func (r RuleFunc) Check(cfg *AppConfig) []Diagnostic { return r.fn(cfg) }

// Validator runs an ordered list of rules.
type Validator struct {
	rules []Rule
}

// NewValidator creates a Validator. With no rules it uses DefaultRules.
func NewValidator(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Validator{rules: rules}
}

// Rules returns the rule names in evaluation order.
func (v *Validator) Rules() []string {
	names := make([]string, len(v.rules))
	for i, r := range v.rules {
		names[i] = r.Name()
	}
	return names
}

// Validate checks cfg and returns every finding.
//
// Every rule runs, in declaration order, even after earlier rules report
// errors. The result is valid when no rule reported an error; warnings are
// recorded but never affect validity. A nil cfg yields a single "required"
// error at the root.
func (v *Validator) Validate(cfg *AppConfig) *ValidationResult {
	result := newValidationResult()
	if cfg == nil {
		d := errorAt(CodeRequired, "configuration is required")
		d.Path = []string{}
		d.Rule = "config"
		result.add(d)
		return result
	}

	for _, rule := range v.rules {
		diags := rule.Check(cfg)
		for i := range diags {
			if diags[i].Path == nil {
				diags[i].Path = []string{}
			}
			if diags[i].Rule == "" {
				diags[i].Rule = rule.Name()
			}
		}
		result.add(diags...)
	}
	return result
}

// Validate checks cfg with the default rules.
func Validate(cfg *AppConfig) *ValidationResult {
	return NewValidator().Validate(cfg)
}

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		NewRule("environment", checkEnvironment),
		NewRule("log", checkLog),
		NewRule("unknown_fields_mode", checkUnknownFieldsMode),
		NewRule("default_project", checkDefaultProject),
		NewRule("projects_present", checkProjectsPresent),
		NewRule("project_names", forEachProject(checkProjectName)),
		NewRule("project_limits", forEachProject(checkProjectLimits)),
		NewRule("rating_scale", forEachProject(checkRatingScale)),
		NewRule("feature_exclusivity", forEachProject(checkFeatureExclusivity)),
		NewRule("connection", forEachProject(checkConnection)),
		NewRule("ui", forEachProject(checkUI)),
		NewRule("skill_categories", forEachProject(checkSkillCategories)),
		NewRule("database", checkDatabase),
		NewRule("server", checkServer),
		NewRule("duration_units", checkDurationUnits),
		NewRule("production_logging", checkProductionLogging),
	}
}

// forEachProject lifts a per-project check into a rule body. Projects are
// visited in id order so the output is deterministic.
func forEachProject(check func(id string, p *ProjectConfig) []Diagnostic) func(cfg *AppConfig) []Diagnostic {
	return func(cfg *AppConfig) []Diagnostic {
		ids := make([]string, 0, len(cfg.Projects))
		for id := range cfg.Projects {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		var out []Diagnostic
		for _, id := range ids {
			p := cfg.Projects[id]
			out = append(out, check(id, &p)...)
		}
		return out
	}
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func checkEnvironment(cfg *AppConfig) []Diagnostic {
	if oneOf(cfg.Environment, EnvDevelopment, EnvTest, EnvStaging, EnvProduction) {
		return nil
	}
	return []Diagnostic{errorAt(CodeInvalidValue,
		fmt.Sprintf("environment must be one of development, test, staging, production; got %q", cfg.Environment),
		"environment")}
}

func checkLog(cfg *AppConfig) []Diagnostic {
	var out []Diagnostic
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil || cfg.Log.Level == "" {
		out = append(out, errorAt(CodeInvalidValue,
			fmt.Sprintf("log level %q is not a known level", cfg.Log.Level), "log", "level"))
	}
	if !oneOf(cfg.Log.Format, LogFormatConsole, LogFormatJSON) {
		out = append(out, errorAt(CodeInvalidValue,
			fmt.Sprintf("log format must be console or json; got %q", cfg.Log.Format), "log", "format"))
	}
	if cfg.Log.File == "" {
		return out
	}
	for _, f := range []struct {
		key   string
		value int
	}{
		{"max_size_mb", cfg.Log.MaxSizeMB},
		{"max_backups", cfg.Log.MaxBackups},
		{"max_age_days", cfg.Log.MaxAgeDays},
	} {
		if f.value <= 0 {
			out = append(out, errorAt(CodeMustBePositive,
				fmt.Sprintf("must be positive when log.file is set; got %d", f.value), "log", f.key))
		}
	}
	return out
}

func checkUnknownFieldsMode(cfg *AppConfig) []Diagnostic {
	if oneOf(cfg.UnknownFields, UnknownFieldsIgnore, UnknownFieldsWarn) {
		return nil
	}
	return []Diagnostic{errorAt(CodeInvalidValue,
		fmt.Sprintf("unknown_fields must be ignore or warn; got %q", cfg.UnknownFields), "unknown_fields")}
}

func checkDefaultProject(cfg *AppConfig) []Diagnostic {
	if cfg.DefaultProject == "" {
		return []Diagnostic{errorAt(CodeRequired, "default project is required", "default_project")}
	}
	if _, ok := cfg.Projects[cfg.DefaultProject]; !ok {
		return []Diagnostic{errorAt(CodeUnknownProject,
			fmt.Sprintf("default project %q is not configured under projects", cfg.DefaultProject),
			"default_project")}
	}
	return nil
}

func checkProjectsPresent(cfg *AppConfig) []Diagnostic {
	if len(cfg.Projects) == 0 {
		return []Diagnostic{errorAt(CodeRequired, "at least one project must be configured", "projects")}
	}
	return nil
}

func checkProjectName(id string, p *ProjectConfig) []Diagnostic {
	if strings.TrimSpace(p.Name) == "" {
		return []Diagnostic{errorAt(CodeRequired, "project name is required", "projects", id, "name")}
	}
	return nil
}

func checkProjectLimits(id string, p *ProjectConfig) []Diagnostic {
	var out []Diagnostic
	for _, f := range []struct {
		key   string
		value int
	}{
		{"max_members", p.Limits.MaxMembers},
		{"max_skills_per_member", p.Limits.MaxSkillsPerMember},
		{"max_reports_per_month", p.Limits.MaxReportsPerMonth},
	} {
		if f.value <= 0 {
			out = append(out, errorAt(CodeMustBePositive,
				fmt.Sprintf("must be positive; got %d", f.value), "projects", id, "limits", f.key))
		}
	}
	return out
}

func checkRatingScale(id string, p *ProjectConfig) []Diagnostic {
	if p.Limits.RatingMin < p.Limits.RatingMax {
		return nil
	}
	return []Diagnostic{errorAt(CodeInconsistent,
		fmt.Sprintf("rating_min (%d) must be lower than rating_max (%d)", p.Limits.RatingMin, p.Limits.RatingMax),
		"projects", id, "limits", "rating_max")}
}

func checkFeatureExclusivity(id string, p *ProjectConfig) []Diagnostic {
	if p.Features.AnonymousFeedback && p.Features.PublicProfiles {
		return []Diagnostic{errorAt(CodeMutuallyExclusive,
			"anonymous_feedback cannot be enabled together with public_profiles",
			"projects", id, "features", "anonymous_feedback")}
	}
	return nil
}

func checkConnection(id string, p *ProjectConfig) []Diagnostic {
	var out []Diagnostic
	if p.Connection.Timeout <= 0 {
		out = append(out, errorAt(CodeMustBePositive,
			fmt.Sprintf("must be positive; got %s", p.Connection.Timeout),
			"projects", id, "connection", "timeout"))
	}
	if p.Connection.MaxRetries < 0 {
		out = append(out, errorAt(CodeOutOfRange,
			fmt.Sprintf("must not be negative; got %d", p.Connection.MaxRetries),
			"projects", id, "connection", "max_retries"))
	}
	if p.Connection.BaseURL != "" {
		u, err := url.Parse(p.Connection.BaseURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			out = append(out, errorAt(CodeInvalidValue,
				fmt.Sprintf("base_url must be an absolute http or https URL; got %q", p.Connection.BaseURL),
				"projects", id, "connection", "base_url"))
		}
	}
	return out
}

func checkUI(id string, p *ProjectConfig) []Diagnostic {
	var out []Diagnostic
	if p.UI.PageSize < 1 || p.UI.PageSize > constants.MaxPageSize {
		out = append(out, errorAt(CodeOutOfRange,
			fmt.Sprintf("page_size must be between 1 and %d; got %d", constants.MaxPageSize, p.UI.PageSize),
			"projects", id, "ui", "page_size"))
	}
	if !oneOf(p.UI.Theme, "light", "dark", "system") {
		out = append(out, warningAt(CodeInvalidValue,
			fmt.Sprintf("theme %q is not one of light, dark, system and falls back to light", p.UI.Theme),
			"projects", id, "ui", "theme"))
	}
	return out
}

func checkSkillCategories(id string, p *ProjectConfig) []Diagnostic {
	var out []Diagnostic
	if len(p.SkillCategories) == 0 && p.Features.SkillMatrix {
		out = append(out, warningAt(CodeRequired,
			"skill_matrix is enabled but no skill categories are configured",
			"projects", id, "skill_categories"))
	}
	seen := make(map[string]bool, len(p.SkillCategories))
	for _, c := range p.SkillCategories {
		key := strings.ToLower(strings.TrimSpace(c))
		if seen[key] {
			out = append(out, warningAt(CodeDuplicate,
				fmt.Sprintf("skill category %q is listed more than once", c),
				"projects", id, "skill_categories"))
			continue
		}
		seen[key] = true
	}
	return out
}

func checkDatabase(cfg *AppConfig) []Diagnostic {
	var out []Diagnostic
	db := cfg.Database
	if db.URL == "" && !oneOf(cfg.Environment, EnvDevelopment, EnvTest) {
		out = append(out, errorAt(CodeRequired,
			fmt.Sprintf("database url is required in %s", cfg.Environment), "database", "url"))
	}
	if db.MaxOpenConns <= 0 {
		out = append(out, errorAt(CodeMustBePositive,
			fmt.Sprintf("must be positive; got %d", db.MaxOpenConns), "database", "max_open_conns"))
	}
	if db.MaxIdleConns <= 0 {
		out = append(out, errorAt(CodeMustBePositive,
			fmt.Sprintf("must be positive; got %d", db.MaxIdleConns), "database", "max_idle_conns"))
	}
	if db.MaxOpenConns > 0 && db.MaxIdleConns > db.MaxOpenConns {
		out = append(out, warningAt(CodeInconsistent,
			fmt.Sprintf("max_idle_conns (%d) exceeds max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns),
			"database", "max_idle_conns"))
	}
	if db.ConnTimeout <= 0 {
		out = append(out, errorAt(CodeMustBePositive,
			fmt.Sprintf("must be positive; got %s", db.ConnTimeout), "database", "conn_timeout"))
	}
	return out
}

func checkServer(cfg *AppConfig) []Diagnostic {
	var out []Diagnostic
	if strings.TrimSpace(cfg.Server.Address) == "" {
		out = append(out, errorAt(CodeRequired, "server address is required", "server", "address"))
	}
	for _, f := range []struct {
		key   string
		value time.Duration
	}{
		{"read_timeout", cfg.Server.ReadTimeout},
		{"write_timeout", cfg.Server.WriteTimeout},
	} {
		if f.value <= 0 {
			out = append(out, errorAt(CodeMustBePositive,
				fmt.Sprintf("must be positive; got %s", f.value), "server", f.key))
		}
	}
	return out
}

// checkDurationUnits warns about positive durations under a millisecond.
// A bare YAML integer is read as nanoseconds, so "timeout: 30" is almost
// always a missing unit.
func checkDurationUnits(cfg *AppConfig) []Diagnostic {
	type field struct {
		path  []string
		value time.Duration
	}
	fields := []field{
		{[]string{"database", "conn_timeout"}, cfg.Database.ConnTimeout},
		{[]string{"server", "read_timeout"}, cfg.Server.ReadTimeout},
		{[]string{"server", "write_timeout"}, cfg.Server.WriteTimeout},
	}
	ids := make([]string, 0, len(cfg.Projects))
	for id := range cfg.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fields = append(fields, field{
			[]string{"projects", id, "connection", "timeout"},
			cfg.Projects[id].Connection.Timeout,
		})
	}

	var out []Diagnostic
	for _, f := range fields {
		if f.value > 0 && f.value < time.Millisecond {
			out = append(out, warningAt(CodeNotRecommended,
				fmt.Sprintf("%s is below 1ms; bare numbers are nanoseconds, add a unit such as \"30s\"", f.value),
				f.path...))
		}
	}
	return out
}

func checkProductionLogging(cfg *AppConfig) []Diagnostic {
	if cfg.Environment != EnvProduction {
		return nil
	}
	level := strings.ToLower(cfg.Log.Level)
	if level == "debug" || level == "trace" {
		return []Diagnostic{warningAt(CodeNotRecommended,
			fmt.Sprintf("log level %s is not recommended in production", level), "log", "level")}
	}
	return nil
}
