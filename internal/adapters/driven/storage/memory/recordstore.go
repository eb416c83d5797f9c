package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/payroll/internal/adapters/driven/storage/codec"
	"github.com/custodia-labs/payroll/internal/core/domain"
	"github.com/custodia-labs/payroll/internal/core/ports/driven"
	"github.com/custodia-labs/payroll/internal/logger"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// It keeps the encoded collection bytes rather than live structs, so it
// behaves like the file medium: callers never share slices with the store,
// corrupt content can be seeded, and byte-level comparisons are meaningful.
type RecordStore struct {
	mu       sync.RWMutex
	data     []byte
	exists   bool
	writeErr error
	writes   int
}

// NewRecordStore creates an empty in-memory record store.
// The medium does not exist until the first successful save.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// LoadAll decodes the stored collection.
func (s *RecordStore) LoadAll(ctx context.Context) ([]domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.exists {
		return []domain.Employee{}, nil
	}
	return codec.Decode(s.data)
}

// SaveAll encodes and replaces the stored collection.
func (s *RecordStore) SaveAll(ctx context.Context, employees []domain.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		logger.Error("writing in-memory employees: %v", s.writeErr)
		return fmt.Errorf("%w: %w", domain.ErrWriteFailure, s.writeErr)
	}
	data, err := codec.Encode(employees)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}
	s.data = data
	s.exists = true
	s.writes++
	return nil
}

// Bytes returns a copy of the stored content, or nil if nothing was saved.
func (s *RecordStore) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.exists {
		return nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

// SetBytes replaces the stored content verbatim, e.g. to seed corrupt data.
func (s *RecordStore) SetBytes(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.exists = true
}

// FailWrites makes every subsequent SaveAll fail with err. Pass nil to recover.
func (s *RecordStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Writes returns the number of successful saves.
func (s *RecordStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
