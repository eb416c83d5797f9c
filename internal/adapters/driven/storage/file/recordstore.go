package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/payroll/internal/adapters/driven/storage/codec"
	"github.com/custodia-labs/payroll/internal/core/domain"
	"github.com/custodia-labs/payroll/internal/core/ports/driven"
	"github.com/custodia-labs/payroll/internal/logger"
)

// DefaultFileName is the collection file name used when only a directory is configured.
const DefaultFileName = "employees.json"

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is a file-backed implementation of driven.RecordStore.
type RecordStore struct {
	path string
	perm os.FileMode
}

// NewRecordStore creates a store for the collection file at path.
// The file and its parent directory are created on first save.
func NewRecordStore(path string) (*RecordStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: record file path is required", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	return &RecordStore{path: abs, perm: 0o600}, nil
}

// Path returns the absolute collection file path.
func (s *RecordStore) Path() string {
	return s.path
}

// LoadAll reads and decodes the whole collection file.
func (s *RecordStore) LoadAll(ctx context.Context) ([]domain.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no collection at %s yet, starting empty", s.path)
			return []domain.Employee{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	employees, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.path, err)
	}
	logger.Debug("loaded %d employees from %s", len(employees), s.path)
	return employees, nil
}

// SaveAll encodes the collection and atomically replaces the file.
func (s *RecordStore) SaveAll(ctx context.Context, employees []domain.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := codec.Encode(employees)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}

	if err := writeFileAtomic(s.path, data, s.perm); err != nil {
		logger.Error("writing %s: %v", s.path, err)
		return fmt.Errorf("%w: writing %s: %w", domain.ErrWriteFailure, s.path, err)
	}
	logger.Debug("saved %d employees to %s", len(employees), s.path)
	return nil
}
