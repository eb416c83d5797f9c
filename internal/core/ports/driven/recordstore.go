package driven

import (
	"context"

	"github.com/custodia-labs/payroll/internal/core/domain"
)

// RecordStore persists the employee collection as a single unit.
// There is no single-record operation: callers load everything,
// transform in memory, and save everything.
type RecordStore interface {
	// LoadAll returns the full collection in insertion order.
	// A medium that does not exist yet yields an empty collection.
	// Unparseable content returns an error wrapping domain.ErrCorruptStore.
	LoadAll(ctx context.Context) ([]domain.Employee, error)

	// SaveAll overwrites the medium with the given collection.
	// Any I/O failure returns an error wrapping domain.ErrWriteFailure.
	SaveAll(ctx context.Context, employees []domain.Employee) error
}
