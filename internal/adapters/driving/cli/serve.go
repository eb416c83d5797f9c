package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/payroll/internal/adapters/driving/web"
	"github.com/custodia-labs/payroll/internal/core/domain"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP dashboard",
	Long: `Start the HTTP dashboard server.

Routes:
  GET  /              employees with payroll figures and totals (JSON)
  GET  /health        liveness probe
  POST /add           create an employee from a form submission
  GET  /edit/:id      a single employee (JSON)
  POST /edit/:id      update the submitted fields
  GET  /delete/:id    delete an employee

The listen address and rate limit come from the http.* settings;
--addr overrides the address.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if payrollService == nil {
		return errPayrollNotConfigured
	}

	cfg, err := httpConfig(cmd)
	if err != nil {
		return err
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := web.NewServer(&web.Ports{Payroll: payrollService}, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Dashboard listening on http://localhost%s\n", cfg.Addr)
	return server.Run(ctx)
}

// httpConfig merges stored settings with the --addr flag.
func httpConfig(cmd *cobra.Command) (web.Config, error) {
	settings := domain.DefaultSettings()
	if settingsService != nil {
		s, err := settingsService.Get()
		if err != nil {
			return web.Config{}, fmt.Errorf("failed to get settings: %w", err)
		}
		settings = *s
	}

	cfg := web.Config{
		Addr:      settings.HTTP.Addr,
		RateLimit: settings.HTTP.RateLimit,
		Burst:     settings.HTTP.Burst,
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	return cfg, nil
}
