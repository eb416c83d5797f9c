package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/payroll/internal/core/domain"
	"github.com/custodia-labs/payroll/internal/core/ports/driven"
	"github.com/custodia-labs/payroll/internal/core/ports/driving"
	"github.com/custodia-labs/payroll/internal/logger"
)

// Ensure PayrollService implements the interface.
var _ driving.PayrollService = (*PayrollService)(nil)

// PayrollService implements record-level CRUD over a RecordStore.
//
// Each operation loads the whole collection, transforms it in memory and,
// when it changed, saves the whole collection back. By default every
// operation runs under one mutex so that cycles through the same service
// are linearised and no update is lost to an interleaved save.
type PayrollService struct {
	store  driven.RecordStore
	avatar driven.AvatarURLBuilder
	now    func() time.Time

	mu         sync.Mutex
	serialized bool
}

// NewPayrollService creates a new payroll service.
func NewPayrollService(store driven.RecordStore, avatar driven.AvatarURLBuilder) *PayrollService {
	return &PayrollService{
		store:      store,
		avatar:     avatar,
		now:        time.Now,
		serialized: true,
	}
}

// SetClock replaces the clock used to assign ids. Call before first use.
func (s *PayrollService) SetClock(now func() time.Time) {
	s.now = now
}

// DisableSerialization lets load-mutate-save cycles interleave freely.
// Concurrent mutations may then overwrite each other, last save wins.
// Call before first use.
func (s *PayrollService) DisableSerialization() {
	s.serialized = false
}

func (s *PayrollService) lock() func() {
	if !s.serialized {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// List returns every employee enriched with tax and net salary.
func (s *PayrollService) List(ctx context.Context) ([]domain.EmployeeView, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	unlock := s.lock()
	employees, err := s.store.LoadAll(ctx)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	views := make([]domain.EmployeeView, 0, len(employees))
	for _, e := range employees {
		views = append(views, domain.ComputePayroll(e))
	}
	return views, nil
}

// Get returns the first employee whose id matches, or nil when none does.
func (s *PayrollService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	unlock := s.lock()
	employees, err := s.store.LoadAll(ctx)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	idx := indexOf(employees, id)
	if idx < 0 {
		return nil, nil
	}
	e := employees[idx].Clone()
	return &e, nil
}

// Create validates the input and appends a new employee.
// Validation failures are returned before the store is touched.
func (s *PayrollService) Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError(string(domain.FieldName), "Name is required")
	}
	salary, err := ParseSalary(in.Salary)
	if err != nil {
		return nil, err
	}

	unlock := s.lock()
	defer unlock()

	employees, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	e := domain.Employee{
		ID:         s.now().UnixMilli(),
		Name:       name,
		Gender:     in.Gender,
		Department: NormalizeDepartment(in.Department),
		Salary:     salary,
		StartDate:  in.StartDate,
		Notes:      in.Notes,
		ProfilePic: s.avatarURL(name),
	}
	employees = append(employees, e)

	if err := s.store.SaveAll(ctx, employees); err != nil {
		return nil, fmt.Errorf("save employees: %w", err)
	}

	logger.Info("Created employee %d (%s)", e.ID, e.Name)
	created := e.Clone()
	return &created, nil
}

// Update merges the submitted fields into the matching employee.
// Fields absent from the submission keep their previous values and the id
// and avatar URL are never changed. An unknown id is a no-op.
func (s *PayrollService) Update(ctx context.Context, id string, in domain.EmployeeInput) error {
	_, err := s.UpdateMatched(ctx, id, in)
	return err
}

// UpdateMatched is Update that also reports whether a record matched id.
// The match is decided inside the same serialised cycle as the save.
func (s *PayrollService) UpdateMatched(ctx context.Context, id string, in domain.EmployeeInput) (bool, error) {
	if s.store == nil {
		return false, domain.ErrNotImplemented
	}

	unlock := s.lock()
	defer unlock()

	employees, err := s.store.LoadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("load employees: %w", err)
	}

	idx := indexOf(employees, id)
	if idx < 0 {
		logger.Debug("Update skipped: no employee with id %q", id)
		return false, nil
	}
	employees[idx] = merge(employees[idx], in)

	if err := s.store.SaveAll(ctx, employees); err != nil {
		return false, fmt.Errorf("save employees: %w", err)
	}

	logger.Info("Updated employee %d", employees[idx].ID)
	return true, nil
}

// Delete removes every employee whose id matches. An unknown id is a no-op.
func (s *PayrollService) Delete(ctx context.Context, id string) error {
	_, err := s.DeleteMatched(ctx, id)
	return err
}

// DeleteMatched is Delete that also reports how many records were removed.
func (s *PayrollService) DeleteMatched(ctx context.Context, id string) (int, error) {
	if s.store == nil {
		return 0, domain.ErrNotImplemented
	}

	unlock := s.lock()
	defer unlock()

	employees, err := s.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load employees: %w", err)
	}

	kept := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		if !e.MatchesID(id) {
			kept = append(kept, e)
		}
	}
	removed := len(employees) - len(kept)
	if removed == 0 {
		logger.Debug("Delete skipped: no employee with id %q", id)
		return 0, nil
	}

	if err := s.store.SaveAll(ctx, kept); err != nil {
		return 0, fmt.Errorf("save employees: %w", err)
	}

	logger.Info("Deleted %d employee(s) with id %s", removed, strings.TrimSpace(id))
	return removed, nil
}

func (s *PayrollService) avatarURL(name string) string {
	if s.avatar == nil {
		return ""
	}
	return s.avatar.URL(name)
}

func indexOf(employees []domain.Employee, id string) int {
	for i := range employees {
		if employees[i].MatchesID(id) {
			return i
		}
	}
	return -1
}

// merge applies submitted fields over prev. Unsubmitted fields survive.
func merge(prev domain.Employee, in domain.EmployeeInput) domain.Employee {
	next := prev.Clone()
	if in.Has(domain.FieldName) {
		next.Name = strings.TrimSpace(in.Name)
	}
	if in.Has(domain.FieldGender) {
		next.Gender = in.Gender
	}
	if in.Has(domain.FieldDepartment) {
		next.Department = NormalizeDepartment(in.Department)
	}
	if in.Has(domain.FieldSalary) {
		next.Salary = CoerceSalary(in.Salary)
	}
	if in.Has(domain.FieldStartDate) {
		next.StartDate = in.StartDate
	}
	if in.Has(domain.FieldNotes) {
		next.Notes = in.Notes
	}
	return next
}
