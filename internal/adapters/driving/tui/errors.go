package tui

import "errors"

// ErrMissingPayrollService is returned when the payroll service is not provided.
var ErrMissingPayrollService = errors.New("tui: payroll service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
