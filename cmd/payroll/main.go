// Command payroll manages employee records and payroll figures.
package main

import (
	"os"

	"github.com/custodia-labs/payroll/internal/adapters/driving/cli"
	"github.com/custodia-labs/payroll/internal/bootstrap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap.Build)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
