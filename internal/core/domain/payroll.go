package domain

// TaxRate is the flat income tax rate applied to gross salary.
const TaxRate = 0.12

// ComputePayroll derives tax and net salary for an employee.
func ComputePayroll(e Employee) EmployeeView {
	tax := e.Salary * TaxRate
	return EmployeeView{
		Employee:  e,
		Tax:       tax,
		NetSalary: e.Salary - tax,
	}
}

// PayrollTotals sums payroll figures over a set of views.
type PayrollTotals struct {
	Headcount int     `json:"headcount"`
	Gross     float64 `json:"gross"`
	Tax       float64 `json:"tax"`
	Net       float64 `json:"net"`
}

// Totals aggregates the given views.
func Totals(views []EmployeeView) PayrollTotals {
	t := PayrollTotals{Headcount: len(views)}
	for i := range views {
		t.Gross += views[i].Salary
		t.Tax += views[i].Tax
		t.Net += views[i].NetSalary
	}
	return t
}
