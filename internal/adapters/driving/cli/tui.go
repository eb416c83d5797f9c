package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/payroll/internal/adapters/driving/tui"
	"github.com/custodia-labs/payroll/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive payroll dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard lists every employee with tax and net salary, plus totals.
With the file backend it reloads automatically when the data file changes.

Controls:
  ↑/k, ↓/j - Move selection
  r        - Reload
  d        - Delete selected (confirm with y)
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ports := tui.NewPorts(payrollService)

	if watchMedium != nil {
		changes, stop, werr := watchMedium()
		if werr != nil {
			// Auto-reload is optional; r still reloads by hand.
			logger.Warn("watching records: %v", werr)
		} else {
			ports.Changes = changes
			defer func() {
				if serr := stop(); serr != nil {
					logger.Warn("stopping watcher: %v", serr)
				}
			}()
		}
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
