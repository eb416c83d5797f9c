package mcp

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/payroll/internal/core/domain"
)

// EmployeeOutput is an employee as returned to MCP clients.
type EmployeeOutput struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Gender     string   `json:"gender,omitempty"`
	Department []string `json:"department"`
	Salary     float64  `json:"salary"`
	Tax        float64  `json:"tax"`
	NetSalary  float64  `json:"net_salary"`
	StartDate  string   `json:"start_date,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	ProfilePic string   `json:"profile_pic,omitempty"`
}

func toOutput(v domain.EmployeeView) EmployeeOutput {
	department := []string(v.Department)
	if department == nil {
		department = []string{}
	}
	return EmployeeOutput{
		ID:         domain.FormatID(v.ID),
		Name:       v.Name,
		Gender:     v.Gender,
		Department: department,
		Salary:     v.Salary,
		Tax:        v.Tax,
		NetSalary:  v.NetSalary,
		StartDate:  v.StartDate,
		Notes:      v.Notes,
		ProfilePic: v.ProfilePic,
	}
}

// ListInput is the input schema for the list_employees tool.
type ListInput struct{}

// ListOutput is the output schema for the list_employees tool.
type ListOutput struct {
	Employees []EmployeeOutput `json:"employees"`
	Count     int              `json:"count"`
	TotalNet  float64          `json:"total_net"`
	TotalTax  float64          `json:"total_tax"`
}

// IDInput identifies one employee.
type IDInput struct {
	ID string `json:"id" jsonschema:"the employee id"`
}

// GetOutput is the output schema for the get_employee tool.
type GetOutput struct {
	Found    bool            `json:"found"`
	Employee *EmployeeOutput `json:"employee,omitempty"`
}

// AddInput is the input schema for the add_employee tool.
type AddInput struct {
	Name       string   `json:"name" jsonschema:"full name, required"`
	Gender     string   `json:"gender,omitempty"`
	Department []string `json:"department,omitempty" jsonschema:"zero or more department tags"`
	Salary     *float64 `json:"salary" jsonschema:"gross salary, must not be negative"`
	StartDate  string   `json:"start_date,omitempty" jsonschema:"YYYY-MM-DD"`
	Notes      string   `json:"notes,omitempty"`
}

// UpdateInput is the input schema for the update_employee tool.
// Omitted fields keep their current values.
type UpdateInput struct {
	ID         string   `json:"id" jsonschema:"the employee id"`
	Name       *string  `json:"name,omitempty"`
	Gender     *string  `json:"gender,omitempty"`
	Department []string `json:"department,omitempty" jsonschema:"replaces all department tags"`
	Salary     *float64 `json:"salary,omitempty"`
	StartDate  *string  `json:"start_date,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

// ChangeOutput reports whether an update or delete found its target.
type ChangeOutput struct {
	ID    string `json:"id"`
	Found bool   `json:"found"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_employees",
		Description: "List all employees with tax and net salary",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_employee",
		Description: "Get a single employee by id",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_employee",
		Description: "Add an employee. Name and a non-negative salary are required",
	}, s.handleAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_employee",
		Description: "Change fields of an existing employee; omitted fields are kept",
	}, s.handleUpdate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_employee",
		Description: "Delete an employee by id",
	}, s.handleDelete)
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	views, err := s.ports.Payroll.List(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}

	totals := domain.Totals(views)
	output := ListOutput{
		Employees: make([]EmployeeOutput, len(views)),
		Count:     totals.Headcount,
		TotalNet:  totals.Net,
		TotalTax:  totals.Tax,
	}
	for i := range views {
		output.Employees[i] = toOutput(views[i])
	}
	return nil, output, nil
}

func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IDInput,
) (*mcp.CallToolResult, GetOutput, error) {
	e, err := s.ports.Payroll.Get(ctx, input.ID)
	if err != nil {
		return nil, GetOutput{}, err
	}
	if e == nil {
		return nil, GetOutput{Found: false}, nil
	}
	out := toOutput(domain.ComputePayroll(*e))
	return nil, GetOutput{Found: true, Employee: &out}, nil
}

func (s *Server) handleAdd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddInput,
) (*mcp.CallToolResult, EmployeeOutput, error) {
	in := domain.EmployeeInput{
		Name:       input.Name,
		Gender:     input.Gender,
		Department: input.Department,
		StartDate:  input.StartDate,
		Notes:      input.Notes,
	}
	if input.Salary != nil {
		in.Salary = formatSalary(*input.Salary)
	}

	e, err := s.ports.Payroll.Create(ctx, in)
	if err != nil {
		return nil, EmployeeOutput{}, err
	}
	return nil, toOutput(domain.ComputePayroll(*e)), nil
}

func (s *Server) handleUpdate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	in := domain.EmployeeInput{Submitted: map[domain.Field]bool{}}
	if input.Name != nil {
		in.Name = *input.Name
		in.Mark(domain.FieldName)
	}
	if input.Gender != nil {
		in.Gender = *input.Gender
		in.Mark(domain.FieldGender)
	}
	if input.Department != nil {
		in.Department = input.Department
		in.Mark(domain.FieldDepartment)
	}
	if input.Salary != nil {
		in.Salary = formatSalary(*input.Salary)
		in.Mark(domain.FieldSalary)
	}
	if input.StartDate != nil {
		in.StartDate = *input.StartDate
		in.Mark(domain.FieldStartDate)
	}
	if input.Notes != nil {
		in.Notes = *input.Notes
		in.Mark(domain.FieldNotes)
	}

	if mr, ok := s.ports.Payroll.(matchReporter); ok {
		found, err := mr.UpdateMatched(ctx, input.ID, in)
		if err != nil {
			return nil, ChangeOutput{}, err
		}
		return nil, ChangeOutput{ID: input.ID, Found: found}, nil
	}

	// Without match reporting, found reflects a lookup made just before the
	// update; a concurrent delete in between still reports true.
	found, err := s.exists(ctx, input.ID)
	if err != nil || !found {
		return nil, ChangeOutput{ID: input.ID}, err
	}
	if err := s.ports.Payroll.Update(ctx, input.ID, in); err != nil {
		return nil, ChangeOutput{}, err
	}
	return nil, ChangeOutput{ID: input.ID, Found: true}, nil
}

func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IDInput,
) (*mcp.CallToolResult, ChangeOutput, error) {
	if mr, ok := s.ports.Payroll.(matchReporter); ok {
		removed, err := mr.DeleteMatched(ctx, input.ID)
		if err != nil {
			return nil, ChangeOutput{}, err
		}
		return nil, ChangeOutput{ID: input.ID, Found: removed > 0}, nil
	}

	found, err := s.exists(ctx, input.ID)
	if err != nil || !found {
		return nil, ChangeOutput{ID: input.ID}, err
	}
	if err := s.ports.Payroll.Delete(ctx, input.ID); err != nil {
		return nil, ChangeOutput{}, err
	}
	return nil, ChangeOutput{ID: input.ID, Found: true}, nil
}

func (s *Server) exists(ctx context.Context, id string) (bool, error) {
	e, err := s.ports.Payroll.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return e != nil, nil
}

func formatSalary(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
