package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mrz1836/skillreport/internal/config"
	"github.com/mrz1836/skillreport/internal/errors"
)

// Config show formats.
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// Format is yaml or json. The global --output json forces json.
	Format string
	// Sources lists every leaf value with the layer that supplied it.
	Sources bool
}

// errorResponse is the JSON body of a failed command.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd(flags *GlobalFlags, showFlags *ConfigShowFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective skillreport configuration after all layers are merged.

With --sources every value is annotated with where it comes from:
  - default: built-in default value
  - project: skillreport.yaml in the project root
  - env:     SKILLREPORT_* environment variable

Credentials in database and connection URLs are masked in the output.

Examples:
  skillreport config show
  skillreport config show --format json
  skillreport config show --sources`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := newConfigManager(cmd, flags)
			err := runConfigShow(cmd.Context(), cmd.OutOrStdout(), m, flags, showFlags)
			if stderrors.Is(err, errors.ErrJSONErrorOutput) {
				cmd.SilenceErrors = true
			}
			return err
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&showFlags.Format, "format", "f", formatYAML, "configuration format (yaml or json)")
	cmd.Flags().BoolVar(&showFlags.Sources, "sources", false, "annotate each value with its source layer")

	return cmd
}

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, w io.Writer, m *config.Manager, flags *GlobalFlags, showFlags *ConfigShowFlags) error {
	format := showFlags.Format
	if flags.Output == OutputJSON {
		format = formatJSON
	}
	if format != formatYAML && format != formatJSON {
		return errors.NewExitCode2Error(
			fmt.Errorf("%w: %q (use yaml or json)", errors.ErrUnsupportedOutputFormat, showFlags.Format))
	}

	if _, err := loadConfig(ctx, m, flags); err != nil {
		return HandleCommandError(flags.Output, w, errorResponse{Error: err.Error()}, err)
	}

	snap := m.Snapshot()
	display := config.Redacted(snap.Config)

	if showFlags.Sources {
		values := snap.Annotate(display)
		if format == formatJSON {
			return encodeJSONIndented(w, values)
		}
		printSources(w, snap.Source, values)
		return nil
	}

	if format == formatJSON {
		return encodeJSONIndented(w, display)
	}
	_, _ = fmt.Fprintf(w, "# Effective configuration (file: %s)\n", snap.Source)
	return encodeYAML(w, display)
}

// printSources renders annotated values as "path = value  # source".
func printSources(w io.Writer, source string, values []config.AnnotatedValue) {
	styles := newOutputStyles()

	_, _ = fmt.Fprintf(w, "%s %s\n\n", styles.header.Render("Effective configuration"), styles.dim.Render(source))
	for _, v := range values {
		_, _ = fmt.Fprintf(w, "%s = %s  %s\n",
			styles.key.Render(v.Path),
			styles.value.Render(v.Value),
			sourceStyle(styles, v.Source).Render("# "+string(v.Source)),
		)
	}
}

// sourceStyle picks the color of a source annotation.
func sourceStyle(styles *outputStyles, source config.Source) lipgloss.Style {
	switch source {
	case config.SourceEnv:
		return styles.sourceEnv
	case config.SourceProject:
		return styles.sourcePrj
	default:
		return styles.sourceDef
	}
}
