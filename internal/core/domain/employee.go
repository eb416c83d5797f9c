package domain

import (
	"encoding/json"
	"fmt"
)

// Employee is a single persisted payroll record.
// Field names in JSON match the on-disk collection format.
type Employee struct {
	// ID is the creation time in epoch milliseconds.
	// Two records created within the same millisecond share an ID.
	ID int64 `json:"id"`

	// Name is the employee's display name. Required.
	Name string `json:"name"`

	// Gender is free text.
	Gender string `json:"gender"`

	// Department holds zero or more department tags in submission order.
	Department Departments `json:"department"`

	// Salary is the gross salary.
	Salary float64 `json:"salary"`

	// StartDate is a YYYY-MM-DD string stored verbatim.
	StartDate string `json:"startDate"`

	// Notes is free text.
	Notes string `json:"notes"`

	// ProfilePic is the avatar URL computed from Name when the record was created.
	// It is not refreshed when Name changes.
	ProfilePic string `json:"profilePic"`
}

// Clone returns a deep copy of the employee.
func (e Employee) Clone() Employee {
	c := e
	if e.Department != nil {
		c.Department = make(Departments, len(e.Department))
		copy(c.Department, e.Department)
	}
	return c
}

// Departments is an ordered set of department tags.
//
// Collections written by older versions stored a single selection as a bare
// string, so unmarshalling accepts a string, an array of strings, or null.
// It always marshals as an array.
type Departments []string

// MarshalJSON implements json.Marshaler.
func (d Departments) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(d))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Departments) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*d = Departments{}
	case string:
		*d = Departments{v}
	case []any:
		out := make(Departments, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("department entries must be strings, got %T", item)
			}
			out = append(out, s)
		}
		*d = out
	default:
		return fmt.Errorf("department must be a string or an array, got %T", raw)
	}
	return nil
}

// EmployeeView is an employee enriched with derived payroll figures.
// Views are computed on every read and never persisted.
type EmployeeView struct {
	Employee

	// Tax is Salary * TaxRate.
	Tax float64 `json:"tax"`

	// NetSalary is Salary - Tax.
	NetSalary float64 `json:"netSalary"`
}

// Field names an employee input field.
type Field string

// Employee input fields.
const (
	FieldName       Field = "name"
	FieldGender     Field = "gender"
	FieldDepartment Field = "department"
	FieldSalary     Field = "salary"
	FieldStartDate  Field = "startDate"
	FieldNotes      Field = "notes"
)

// AllFields lists every field an employee form can submit.
var AllFields = []Field{FieldName, FieldGender, FieldDepartment, FieldSalary, FieldStartDate, FieldNotes}

// EmployeeInput is a form submission before coercion.
// Callers pass values exactly as received; the payroll service owns
// trimming, numeric coercion, and department normalisation.
type EmployeeInput struct {
	Name       string
	Gender     string
	Department []string
	Salary     string
	StartDate  string
	Notes      string

	// Submitted records which fields were present in the submission.
	// A nil map means every field was submitted.
	Submitted map[Field]bool
}

// Has reports whether the field was part of the submission.
func (in EmployeeInput) Has(f Field) bool {
	if in.Submitted == nil {
		return true
	}
	return in.Submitted[f]
}

// Mark records a field as submitted and returns the input for chaining.
func (in *EmployeeInput) Mark(fields ...Field) *EmployeeInput {
	if in.Submitted == nil {
		in.Submitted = make(map[Field]bool, len(fields))
	}
	for _, f := range fields {
		in.Submitted[f] = true
	}
	return in
}
