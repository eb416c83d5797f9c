// Package cli provides the cobra command tree for the payroll binary.
// It is a driving adapter: commands call core services only through
// the driving ports injected at startup.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/payroll/internal/core/ports/driving"
	"github.com/custodia-labs/payroll/internal/logger"
)

// version is overridden at build time.
var version = "dev"

// bootstrapAnnotation controls what a command needs from startup wiring.
const (
	bootstrapAnnotation = "payroll/bootstrap"
	bootstrapNone       = "none"
	bootstrapSettings   = "settings"
)

// Watch starts observing the record medium. stop releases the watch.
type Watch func() (changes <-chan struct{}, stop func() error, err error)

// Services holds the driving ports used by commands.
type Services struct {
	Payroll  driving.PayrollService
	Settings driving.SettingsService

	// Watch is nil when the configured backend cannot be observed.
	Watch Watch
}

// BootstrapOptions tells the bootstrapper what to build.
type BootstrapOptions struct {
	// ConfigDir overrides the default configuration directory.
	ConfigDir string

	// SettingsOnly skips opening the record store.
	SettingsOnly bool
}

// Bootstrapper builds services before a command runs.
// The returned closer is called after the command finishes.
type Bootstrapper func(opts BootstrapOptions) (*Services, func() error, error)

var (
	payrollService  driving.PayrollService
	settingsService driving.SettingsService
	watchMedium     Watch

	bootstrap     Bootstrapper
	closeServices func() error

	configDir string
	verbose   bool
)

var errPayrollNotConfigured = errors.New("payroll service not configured")

var rootCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Manage employee records and payroll",
	Long: `payroll keeps a collection of employee records and derives payroll
figures (12% flat tax, net salary) from each gross salary.

Records can be managed from the command line, an HTTP dashboard,
an interactive terminal UI, or an MCP server for AI assistants.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.SetVersionTemplate("payroll version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.payroll)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// SetBootstrap installs the function that wires services before each command.
func SetBootstrap(b Bootstrapper) {
	bootstrap = b
}

// SetServices injects services directly, bypassing the bootstrapper.
func SetServices(s *Services) {
	if s == nil {
		payrollService, settingsService, watchMedium = nil, nil, nil
		return
	}
	payrollService = s.Payroll
	settingsService = s.Settings
	watchMedium = s.Watch
}

// Execute runs the root command. Output goes to stdout so it can be piped.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	if cerr := teardown(rootCmd, nil); err == nil {
		err = cerr
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	mode := cmd.Annotations[bootstrapAnnotation]
	if bootstrap == nil || mode == bootstrapNone {
		return nil
	}

	services, closer, err := bootstrap(BootstrapOptions{
		ConfigDir:    configDir,
		SettingsOnly: mode == bootstrapSettings,
	})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	closeServices = closer
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	closer := closeServices
	closeServices = nil
	if err := closer(); err != nil {
		return fmt.Errorf("closing services: %w", err)
	}
	return nil
}
