package mcp

import (
	"context"

	"github.com/custodia-labs/payroll/internal/core/domain"
	"github.com/custodia-labs/payroll/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Payroll manages employee records.
	Payroll driving.PayrollService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Payroll == nil {
		return ErrMissingPayrollService
	}
	return nil
}

// matchReporter is implemented by payroll services that can tell, within the
// same cycle as the change, whether an id matched any record.
type matchReporter interface {
	UpdateMatched(ctx context.Context, id string, in domain.EmployeeInput) (bool, error)
	DeleteMatched(ctx context.Context, id string) (int, error)
}
