package mcp

import (
	"context"

	"github.com/custodia-labs/payroll/internal/core/domain"
)

// mockPayrollService is a mock implementation of driving.PayrollService.
type mockPayrollService struct {
	views    []domain.EmployeeView
	employee *domain.Employee
	created  *domain.Employee
	err      error

	createdWith *domain.EmployeeInput
	updatedID   string
	updatedWith *domain.EmployeeInput
	deletedID   string
}

func (m *mockPayrollService) List(_ context.Context) ([]domain.EmployeeView, error) {
	return m.views, m.err
}

func (m *mockPayrollService) Get(_ context.Context, _ string) (*domain.Employee, error) {
	return m.employee, m.err
}

func (m *mockPayrollService) Create(_ context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	m.createdWith = &in
	return m.created, m.err
}

func (m *mockPayrollService) Update(_ context.Context, id string, in domain.EmployeeInput) error {
	m.updatedID = id
	m.updatedWith = &in
	return m.err
}

func (m *mockPayrollService) Delete(_ context.Context, id string) error {
	m.deletedID = id
	return m.err
}

// matchingPayrollService also reports matches from inside the change.
type matchingPayrollService struct {
	mockPayrollService
	matched bool
	removed int
}

func (m *matchingPayrollService) UpdateMatched(_ context.Context, id string, in domain.EmployeeInput) (bool, error) {
	m.updatedID = id
	m.updatedWith = &in
	return m.matched, m.err
}

func (m *matchingPayrollService) DeleteMatched(_ context.Context, id string) (int, error) {
	m.deletedID = id
	return m.removed, m.err
}
