package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mrz1836/skillreport/internal/config"
	"github.com/mrz1836/skillreport/internal/errors"
)

// projectListEntry is one row of config project --list.
type projectListEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// projectResponse is the JSON response of config project <id>.
type projectResponse struct {
	ID      string                `json:"id"`
	Project *config.ProjectConfig `json:"project"`
}

// newConfigProjectCmd creates the 'config project' subcommand.
func newConfigProjectCmd(flags *GlobalFlags) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "project [id]",
		Short: "Display the effective configuration of one project",
		Long: `Display the merged configuration of a single project.

Without an id the default project is shown. Use --list to print every
configured project id.

Examples:
  skillreport config project
  skillreport config project backend
  skillreport config project --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			m := newConfigManager(cmd, flags)
			err := runConfigProject(cmd.Context(), cmd.OutOrStdout(), m, flags, id, list)
			if stderrors.Is(err, errors.ErrJSONErrorOutput) {
				cmd.SilenceErrors = true
			}
			return err
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list configured project ids")

	return cmd
}

// runConfigProject executes the config project command.
func runConfigProject(ctx context.Context, w io.Writer, m *config.Manager, flags *GlobalFlags, id string, list bool) error {
	cfg, err := loadConfig(ctx, m, flags)
	if err != nil {
		return HandleCommandError(flags.Output, w, errorResponse{Error: err.Error()}, err)
	}

	if list {
		return printProjectList(w, cfg, flags.Output)
	}

	p, err := m.Project(ctx, id)
	if err != nil {
		if stderrors.Is(err, errors.ErrProjectNotFound) {
			err = errors.NewExitCode2Error(err)
		}
		return HandleCommandError(flags.Output, w, errorResponse{Error: err.Error()}, err)
	}
	if id == "" {
		id = cfg.DefaultProject
	}

	// Redact through the whole config so project URLs and labels are masked.
	redacted := config.Redacted(&config.AppConfig{Projects: map[string]config.ProjectConfig{id: *p}})
	shown := redacted.Projects[id]

	if flags.Output == OutputJSON {
		return encodeJSONIndented(w, projectResponse{ID: id, Project: &shown})
	}
	_, _ = fmt.Fprintf(w, "# Project %q\n", id)
	return encodeYAML(w, shown)
}

// printProjectList renders the sorted project ids, marking the default.
func printProjectList(w io.Writer, cfg *config.AppConfig, output string) error {
	ids := make([]string, 0, len(cfg.Projects))
	for id := range cfg.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]projectListEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, projectListEntry{
			ID:      id,
			Name:    cfg.Projects[id].Name,
			Default: id == cfg.DefaultProject,
		})
	}

	if output == OutputJSON {
		return encodeJSONIndented(w, entries)
	}

	styles := newOutputStyles()
	for _, e := range entries {
		marker := " "
		if e.Default {
			marker = styles.success.Render("*")
		}
		_, _ = fmt.Fprintf(w, "%s %s  %s\n", marker, styles.key.Render(e.ID), styles.dim.Render(e.Name))
	}
	return nil
}
