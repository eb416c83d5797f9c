// Package tui provides an interactive terminal dashboard for payroll records.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/payroll/internal/core/ports/driving"
)

// Ports aggregates the driving ports and event sources used by the TUI.
type Ports struct {
	// Payroll lists and deletes employee records.
	Payroll driving.PayrollService

	// Changes signals that the underlying medium was modified outside the TUI.
	// Optional; nil disables automatic reload.
	Changes <-chan struct{}
}

// NewPorts creates a new Ports aggregate with the given service.
func NewPorts(payroll driving.PayrollService) *Ports {
	return &Ports{Payroll: payroll}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Payroll == nil {
		return ErrMissingPayrollService
	}
	return nil
}
