// Package web provides the HTTP dashboard adapter built on gin.
// Routes mirror the form-driven dashboard: list, add, edit and delete.
package web

import "errors"

// ErrMissingPayrollService is returned when the payroll service is not provided.
var ErrMissingPayrollService = errors.New("web: payroll service is required")
