package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/payroll/internal/core/domain"
)

// NormalizeDepartment converts submitted department values into the stored form.
// No values yields an empty slice; values are otherwise kept in order as given.
func NormalizeDepartment(values []string) domain.Departments {
	out := make(domain.Departments, len(values))
	copy(out, values)
	return out
}

// ParseSalary validates a salary submitted on create.
// The value must be present, numeric, finite and not negative.
func ParseSalary(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, domain.NewValidationError(string(domain.FieldSalary), "Salary is required")
	}
	salary, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(salary) || math.IsInf(salary, 0) {
		return 0, domain.NewValidationError(string(domain.FieldSalary), "Salary must be a number")
	}
	if salary < 0 {
		return 0, domain.NewValidationError(string(domain.FieldSalary), "Salary cannot be negative")
	}
	return salary, nil
}

// CoerceSalary converts a salary submitted on update.
// Update does not validate, so anything unparsable becomes 0.
func CoerceSalary(raw string) float64 {
	salary, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(salary) || math.IsInf(salary, 0) {
		return 0
	}
	return salary
}
