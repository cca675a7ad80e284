package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/skillreport/internal/constants"
	"github.com/mrz1836/skillreport/internal/errors"
)

// HomeDir returns the skillreport home directory, where logs are kept.
// SKILLREPORT_HOME overrides the default of ~/.skillreport.
//
// Returns an error if the home directory cannot be determined.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.HomeDir), nil
}

// ResolveRoot returns the project root directory. An explicit root wins,
// then SKILLREPORT_ROOT, then the working directory.
func ResolveRoot(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if dir := os.Getenv(constants.EnvRoot); dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get working directory")
	}
	return wd, nil
}

// ProjectConfigPath returns the path of the project config file under root.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, constants.ProjectConfigName)
}
