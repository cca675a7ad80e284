package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/skillreport/internal/config"
	"github.com/mrz1836/skillreport/internal/logging"
)

// envVarView is one row of config env output.
type envVarView struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Value string `json:"value,omitempty"`
	Set   bool   `json:"set"`
}

// newConfigEnvCmd creates the 'config env' subcommand.
func newConfigEnvCmd(flags *GlobalFlags) *cobra.Command {
	var onlySet bool

	cmd := &cobra.Command{
		Use:   "env",
		Short: "List environment variable overrides",
		Long: `List the environment variables that override configuration fields.

Fields outside projects are named SKILLREPORT_<SECTION>_<FIELD>. Project
fields use double underscores between parts:

  SKILLREPORT_PROJECTS__<ID>__<FIELD>[__<SUBFIELD>]

Empty variables are ignored. Secret values are masked.

Examples:
  skillreport config env
  skillreport config env --set`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := newConfigManager(cmd, flags)
			return runConfigEnv(cmd.OutOrStdout(), m.EnvPrefix(), flags.Output, onlySet)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&onlySet, "set", false, "only list variables that are set")

	return cmd
}

// runConfigEnv executes the config env command.
func runConfigEnv(w io.Writer, prefix, output string, onlySet bool) error {
	views := make([]envVarView, 0)
	for _, v := range config.EnvVars(prefix) {
		if onlySet && !v.Set {
			continue
		}
		views = append(views, envVarView{
			Name:  v.Name,
			Path:  strings.Join(v.Path, "."),
			Value: maskEnvValue(v.Path, v.Value),
			Set:   v.Set,
		})
	}

	if output == OutputJSON {
		return encodeJSONIndented(w, views)
	}

	styles := newOutputStyles()
	for _, v := range views {
		if !v.Set {
			_, _ = fmt.Fprintf(w, "%s  %s\n", styles.dim.Render(v.Name), styles.dim.Render(v.Path))
			continue
		}
		_, _ = fmt.Fprintf(w, "%s=%s  %s\n", styles.key.Render(v.Name), styles.value.Render(v.Value), styles.sourceEnv.Render(v.Path))
	}
	return nil
}

// maskEnvValue hides credentials in an override value before display.
func maskEnvValue(path []string, value string) string {
	if value == "" || len(path) == 0 {
		return value
	}
	field := path[len(path)-1]
	if strings.HasSuffix(field, "url") {
		return logging.RedactURL(value)
	}
	return logging.SafeValue(field, value)
}
