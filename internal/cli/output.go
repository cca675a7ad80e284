package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/skillreport/internal/errors"
)

// encodeJSONIndented writes v as indented JSON.
func encodeJSONIndented(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// encodeYAML writes v as YAML with two-space indentation.
func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// HandleCommandError reports err in the requested format. For JSON output the
// response is written to w and ErrJSONErrorOutput is returned, so the caller
// still exits non-zero without printing the error a second time.
func HandleCommandError(format string, w io.Writer, response any, err error) error {
	if format != OutputJSON {
		return err
	}
	if encErr := encodeJSONIndented(w, response); encErr != nil {
		return fmt.Errorf("failed to encode JSON output: %w", encErr)
	}
	return errors.ErrJSONErrorOutput
}

// outputStyles contains the lipgloss styles shared by the config commands.
type outputStyles struct {
	header    lipgloss.Style
	key       lipgloss.Style
	value     lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	warning   lipgloss.Style
	sourceEnv lipgloss.Style
	sourcePrj lipgloss.Style
	sourceDef lipgloss.Style
	dim       lipgloss.Style
}

// newOutputStyles creates the styles for config command output.
func newOutputStyles() *outputStyles {
	return &outputStyles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00D7FF")),
		key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D7FF")),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF87")),
		failure: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F5F")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		sourceEnv: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")), // Red for env (highest precedence)
		sourcePrj: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")), // Yellow for project file
		sourceDef: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")), // Gray for default
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
	}
}

// plural returns "n word" with a trailing s unless n is 1.
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
