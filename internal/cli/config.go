package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/skillreport/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate skillreport configuration",
		Long: `Inspect and validate the layered skillreport configuration.

Values are merged from built-in defaults, skillreport.yaml in the project
root and SKILLREPORT_* environment variables, in that order.`,
	}
}

// AddConfigCommand adds the config command and its subcommands to the root command.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	configCmd := newConfigCmd()

	configCmd.AddCommand(newConfigValidateCmd(flags))
	configCmd.AddCommand(newConfigShowCmd(flags, &ConfigShowFlags{}))
	configCmd.AddCommand(newConfigProjectCmd(flags))
	configCmd.AddCommand(newConfigEnvCmd(flags))
	configCmd.AddCommand(newConfigWatchCmd(flags))

	root.AddCommand(configCmd)
}

// newConfigManager builds a configuration manager from the global flags.
// --strict only overrides the file's strict setting when given explicitly.
func newConfigManager(cmd *cobra.Command, flags *GlobalFlags, opts ...config.Option) *config.Manager {
	base := []config.Option{
		config.WithRoot(flags.Root),
		config.WithLogger(GetLogger()),
	}
	if f := cmd.Flag("strict"); f != nil && f.Changed {
		base = append(base, config.WithStrict(flags.Strict))
	}
	return config.NewManager(append(base, opts...)...)
}

// loadConfig loads the configuration through m and, on success, reconfigures
// the CLI logger from its log section.
func loadConfig(ctx context.Context, m *config.Manager, flags *GlobalFlags) (*config.AppConfig, error) {
	cfg, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	if _, logErr := ConfigureLogger(cfg.Log, flags.Verbose, flags.Quiet); logErr != nil {
		logger := GetLogger()
		logger.Warn().Err(logErr).Msg("log file unavailable, logging to console only")
	}
	return cfg, nil
}
