package web

import (
	"github.com/custodia-labs/payroll/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the HTTP server.
type Ports struct {
	// Payroll serves every route.
	Payroll driving.PayrollService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Payroll == nil {
		return ErrMissingPayrollService
	}
	return nil
}
