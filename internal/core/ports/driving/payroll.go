package driving

import (
	"context"

	"github.com/custodia-labs/payroll/internal/core/domain"
)

// PayrollService manages employee records and derives payroll figures.
// Every operation loads the full collection, transforms it, and (for
// mutations) saves it back.
type PayrollService interface {
	// List returns every employee with tax and net salary computed.
	List(ctx context.Context) ([]domain.EmployeeView, error)

	// Get returns the first employee whose ID matches id, or nil when none does.
	Get(ctx context.Context, id string) (*domain.Employee, error)

	// Create validates and normalises the input, then appends a new employee.
	// Invalid input returns a *domain.ValidationError before any I/O.
	Create(ctx context.Context, input domain.EmployeeInput) (*domain.Employee, error)

	// Update overwrites the submitted fields of the matching employee.
	// An unknown id is a silent no-op.
	Update(ctx context.Context, id string, input domain.EmployeeInput) error

	// Delete removes every employee whose ID matches id.
	// An unknown id is a silent no-op.
	Delete(ctx context.Context, id string) error
}
