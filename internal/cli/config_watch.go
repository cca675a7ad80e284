package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/skillreport/internal/config"
	"github.com/mrz1836/skillreport/internal/signal"
)

// Watch event triggers.
const (
	triggerInitial = "initial"
	triggerFile    = "file"
	triggerHangup  = "sighup"
)

// watchEvent is one line of config watch output.
type watchEvent struct {
	Time     time.Time `json:"time"`
	Trigger  string    `json:"trigger"`
	Valid    bool      `json:"valid"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
	RunID    string    `json:"run_id,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// newConfigWatchCmd creates the 'config watch' subcommand.
func newConfigWatchCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload and validate the configuration on every change",
		Long: `Watch skillreport.yaml and rerun the configuration pipeline whenever it
changes. Sending SIGHUP forces a reload, which also picks up changed
environment variables of a long-running parent. Stop with Ctrl+C.

Each reload prints one line: text by default, JSON with --output json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := signal.NewHandler(cmd.Context())
			defer h.Stop()

			m := newConfigManager(cmd, flags)
			return runConfigWatch(h.Context(), cmd.OutOrStdout(), m, flags, h.Hangups())
		},
		SilenceUsage: true,
	}
}

// runConfigWatch reports the initial load, then every file-triggered or
// SIGHUP-triggered reload, until ctx is done.
func runConfigWatch(ctx context.Context, w io.Writer, m *config.Manager, flags *GlobalFlags, hangups <-chan struct{}) error {
	var mu sync.Mutex
	report := func(trigger string, err error) {
		ev := newWatchEvent(m, trigger, err)
		mu.Lock()
		defer mu.Unlock()
		printWatchEvent(w, flags.Output, ev)
	}

	_, err := loadConfig(ctx, m, flags)
	report(triggerInitial, err)

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- m.Watch(ctx, func(_ *config.AppConfig, err error) {
			report(triggerFile, err)
		})
	}()

	for {
		select {
		case <-ctx.Done():
			return <-watchErr
		case err := <-watchErr:
			return err
		case <-hangups:
			_, err := m.Reload(ctx)
			report(triggerHangup, err)
		}
	}
}

// newWatchEvent summarizes the outcome of one pipeline run.
func newWatchEvent(m *config.Manager, trigger string, err error) watchEvent {
	ev := watchEvent{Time: time.Now(), Trigger: trigger, Valid: err == nil}
	if result := m.LastResult(); result != nil && !isSourceError(err) {
		ev.Errors = len(result.Errors)
		ev.Warnings = len(result.Warnings)
	}
	if snap := m.Snapshot(); snap != nil && err == nil {
		ev.RunID = snap.RunID
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

// printWatchEvent writes ev as a single line.
func printWatchEvent(w io.Writer, output string, ev watchEvent) {
	if output == OutputJSON {
		_ = json.NewEncoder(w).Encode(ev)
		return
	}

	styles := newOutputStyles()
	stamp := styles.dim.Render(ev.Time.Format(time.TimeOnly))
	counts := fmt.Sprintf("%s, %s", plural(ev.Errors, "error"), plural(ev.Warnings, "warning"))
	if ev.Valid {
		_, _ = fmt.Fprintf(w, "%s %s %s valid (%s)\n", stamp, styles.success.Render("✓"), ev.Trigger, counts)
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s %s invalid: %s\n", stamp, styles.failure.Render("✗"), ev.Trigger, ev.Error)
}
