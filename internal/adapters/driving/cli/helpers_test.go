package cli

import (
	"bytes"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/payroll/internal/adapters/driven/avatar"
	"github.com/custodia-labs/payroll/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/payroll/internal/core/services"
)

// setupTestServices wires in-memory services and restores the globals afterwards.
func setupTestServices(t *testing.T) (*services.PayrollService, *memory.RecordStore) {
	t.Helper()

	store := memory.NewRecordStore()
	svc := services.NewPayrollService(store, avatar.NewURLBuilder(""))
	var ms atomic.Int64
	ms.Store(1700000000000)
	svc.SetClock(func() time.Time { return time.UnixMilli(ms.Add(1)) })

	settings := services.NewSettingsService(memory.NewConfigStore(), t.TempDir())
	SetServices(&Services{Payroll: svc, Settings: settings})
	t.Cleanup(func() { SetServices(nil) })
	return svc, store
}

// resetFlags restores every flag to its default so commands can run repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// withTerminal makes the delete prompt believe stdin is interactive.
func withTerminal(t *testing.T, interactive bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = func() bool { return interactive }
	t.Cleanup(func() { isTerminal = orig })
}
