// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/payroll/internal/core/domain"
)

// EmployeesLoaded carries a freshly computed payroll listing back to the model.
type EmployeesLoaded struct {
	Views []domain.EmployeeView
	Err   error
}

// EmployeeDeleted reports the outcome of a delete request.
type EmployeeDeleted struct {
	ID  int64
	Err error
}

// DataChanged is sent when the record medium changed on disk.
type DataChanged struct{}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDashboard is the employee table with payroll totals.
	ViewDashboard ViewType = iota
	// ViewConfirmDelete asks before removing the selected employee.
	ViewConfirmDelete
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewConfirmDelete:
		return "confirm_delete"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
