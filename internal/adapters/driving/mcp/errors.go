// Package mcp provides an MCP (Model Context Protocol) server adapter for payroll.
// It lets AI assistants list, inspect, add, edit and remove employee records.
package mcp

import "errors"

// ErrMissingPayrollService is returned when the payroll service is not provided.
var ErrMissingPayrollService = errors.New("mcp: payroll service is required")
