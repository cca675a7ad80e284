package config

import "fmt"

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityError makes the configuration invalid and blocks startup.
	SeverityError Severity = "error"
	// SeverityWarning is recorded but never blocks startup.
	SeverityWarning Severity = "warning"
)

// Diagnostic codes. Codes are stable and machine readable.
const (
	CodeRequired          = "required"
	CodeMustBePositive    = "must_be_positive"
	CodeOutOfRange        = "out_of_range"
	CodeInvalidValue      = "invalid_value"
	CodeUnknownProject    = "unknown_project"
	CodeMutuallyExclusive = "mutually_exclusive"
	CodeInconsistent      = "inconsistent"
	CodeDuplicate         = "duplicate"
	CodeUnknownField      = "unknown_field"
	CodeNotRecommended    = "not_recommended"
)

// Diagnostic is one validation finding. Errors and warnings share this shape.
type Diagnostic struct {
	// Path addresses the field the finding is about. It always resolves in the
	// schema (see SchemaHasPath); project fields use "projects", <id>, ...
	Path []string `json:"path" yaml:"path"`
	// Code is the machine-readable classification.
	Code string `json:"code" yaml:"code"`
	// Message is the human-readable explanation.
	Message string `json:"message" yaml:"message"`
	// Rule names the rule that produced the finding.
	Rule string `json:"rule" yaml:"rule"`
	// Severity is error or warning.
	Severity Severity `json:"severity" yaml:"severity"`
}

// PathString renders Path in dotted form.
func (d Diagnostic) PathString() string {
	return formatPath(d.Path)
}

// String renders the diagnostic as "path: message (code)".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.PathString(), d.Message, d.Code)
}

// ValidationResult aggregates every finding of one validation pass.
// Valid is true if and only if Errors is empty.
type ValidationResult struct {
	Valid    bool         `json:"valid" yaml:"valid"`
	Errors   []Diagnostic `json:"errors" yaml:"errors"`
	Warnings []Diagnostic `json:"warnings" yaml:"warnings"`
}

// newValidationResult returns an empty, valid result.
func newValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
}

// add files each diagnostic by severity and keeps Valid in sync.
func (r *ValidationResult) add(diags ...Diagnostic) {
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			r.Warnings = append(r.Warnings, d)
			continue
		}
		d.Severity = SeverityError
		r.Errors = append(r.Errors, d)
	}
	r.Valid = len(r.Errors) == 0
}

// errorAt builds an error diagnostic.
func errorAt(code, msg string, path ...string) Diagnostic {
	return Diagnostic{Path: path, Code: code, Message: msg, Severity: SeverityError}
}

// warningAt builds a warning diagnostic.
func warningAt(code, msg string, path ...string) Diagnostic {
	return Diagnostic{Path: path, Code: code, Message: msg, Severity: SeverityWarning}
}
