package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/skillreport/internal/config"
	"github.com/mrz1836/skillreport/internal/errors"
)

// validateResponse is the JSON response of config validate.
type validateResponse struct {
	Valid    bool                `json:"valid"`
	Source   string              `json:"source"`
	Errors   []config.Diagnostic `json:"errors"`
	Warnings []config.Diagnostic `json:"warnings"`
	Error    string              `json:"error,omitempty"`
}

// newConfigValidateCmd creates the 'config validate' subcommand.
func newConfigValidateCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Load every configuration layer, merge them and run all validation rules.

Every error and warning is reported, not just the first. The command exits
with status 1 when the configuration is invalid or cannot be loaded.

Examples:
  skillreport config validate
  skillreport config validate --strict       # also warn about unknown keys
  skillreport config validate --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := newConfigManager(cmd, flags)
			err := runConfigValidate(cmd.Context(), cmd.OutOrStdout(), m, flags)
			if stderrors.Is(err, errors.ErrJSONErrorOutput) {
				cmd.SilenceErrors = true
			}
			return err
		},
		SilenceUsage: true,
	}
}

// runConfigValidate executes the config validate command.
func runConfigValidate(ctx context.Context, w io.Writer, m *config.Manager, flags *GlobalFlags) error {
	source, err := m.SourcePath()
	if err != nil {
		return err
	}

	_, loadErr := loadConfig(ctx, m, flags)

	resp := validateResponse{
		Valid:    loadErr == nil,
		Source:   source,
		Errors:   []config.Diagnostic{},
		Warnings: []config.Diagnostic{},
	}
	if result := m.LastResult(); result != nil && !isSourceError(loadErr) {
		resp.Errors = result.Errors
		resp.Warnings = result.Warnings
	}
	if isSourceError(loadErr) {
		resp.Error = loadErr.Error()
	}

	if flags.Output == OutputJSON {
		if loadErr != nil {
			return HandleCommandError(OutputJSON, w, resp, loadErr)
		}
		return encodeJSONIndented(w, resp)
	}

	printValidateReport(w, resp, loadErr)
	return loadErr
}

// isSourceError reports whether err happened before validation ran, in which
// case the last validation result belongs to an earlier run.
func isSourceError(err error) bool {
	return err != nil && !stderrors.Is(err, errors.ErrConfigInvalid)
}

// printValidateReport renders a validation report for humans.
func printValidateReport(w io.Writer, resp validateResponse, loadErr error) {
	styles := newOutputStyles()

	_, _ = fmt.Fprintf(w, "%s %s\n\n", styles.header.Render("Configuration:"), resp.Source)

	if resp.Error != "" {
		message, action := errors.Actionable(loadErr)
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.failure.Render("✗"), message)
		_, _ = fmt.Fprintf(w, "  %s\n", styles.dim.Render(resp.Error))
		if action != "" {
			_, _ = fmt.Fprintf(w, "  %s\n", action)
		}
		return
	}

	for _, d := range resp.Errors {
		printDiagnostic(w, styles, d)
	}
	for _, d := range resp.Warnings {
		printDiagnostic(w, styles, d)
	}
	if len(resp.Errors)+len(resp.Warnings) > 0 {
		_, _ = fmt.Fprintln(w)
	}

	summary := fmt.Sprintf("%s, %s", plural(len(resp.Errors), "error"), plural(len(resp.Warnings), "warning"))
	if resp.Valid {
		_, _ = fmt.Fprintf(w, "%s configuration is valid (%s)\n", styles.success.Render("✓"), summary)
		return
	}
	_, _ = fmt.Fprintf(w, "%s configuration is invalid (%s)\n", styles.failure.Render("✗"), summary)
}

// printDiagnostic renders one finding as "severity path message (code) [rule]".
func printDiagnostic(w io.Writer, styles *outputStyles, d config.Diagnostic) {
	label := styles.failure.Render("error  ")
	if d.Severity == config.SeverityWarning {
		label = styles.warning.Render("warning")
	}
	_, _ = fmt.Fprintf(w, "  %s %s  %s %s\n",
		label,
		styles.key.Render(d.PathString()),
		d.Message,
		styles.dim.Render(fmt.Sprintf("(%s) [%s]", d.Code, d.Rule)),
	)
}
