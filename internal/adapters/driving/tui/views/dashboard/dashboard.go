// Package dashboard renders the employee payroll table.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/payroll/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/payroll/internal/core/domain"
)

// chrome is the number of lines used around the table: title, blank, totals, prompt, status.
const chrome = 6

var columns = []table.Column{
	{Title: "ID", Width: 14},
	{Title: "Name", Width: 20},
	{Title: "Department", Width: 18},
	{Title: "Salary", Width: 12},
	{Title: "Tax", Width: 10},
	{Title: "Net", Width: 12},
	{Title: "Start", Width: 10},
}

// View shows employees with their derived payroll figures.
type View struct {
	styles *styles.Styles
	table  table.Model
	views  []domain.EmployeeView
	totals domain.PayrollTotals
	width  int
	height int
}

// NewView creates a dashboard with an empty table.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(s.Table())
	return &View{styles: s, table: t}
}

// SetEmployees replaces the table contents, keeping the cursor in range.
func (v *View) SetEmployees(views []domain.EmployeeView) {
	v.views = views
	v.totals = domain.Totals(views)

	rows := make([]table.Row, 0, len(views))
	for i := range views {
		rows = append(rows, row(views[i]))
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

func row(e domain.EmployeeView) table.Row {
	return table.Row{
		domain.FormatID(e.ID),
		e.Name,
		strings.Join(e.Department, ", "),
		money(e.Salary),
		money(e.Tax),
		money(e.NetSalary),
		e.StartDate,
	}
}

func money(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// Employees returns the rows currently displayed.
func (v *View) Employees() []domain.EmployeeView {
	return v.views
}

// Totals returns the aggregate of the displayed rows.
func (v *View) Totals() domain.PayrollTotals {
	return v.totals
}

// Selected returns the employee under the cursor.
func (v *View) Selected() (domain.EmployeeView, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.views) {
		return domain.EmployeeView{}, false
	}
	return v.views[i], true
}

// Cursor returns the selected row index.
func (v *View) Cursor() int {
	return v.table.Cursor()
}

// SetDimensions sizes the table to the terminal.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.table.SetWidth(width)
	v.table.SetHeight(max(height-chrome, 3))
}

// Update forwards navigation keys to the table.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View renders the title, table and totals line.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Payroll"))
	b.WriteString("\n\n")
	if len(v.views) == 0 {
		b.WriteString(v.styles.Muted.Render("No employees yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.View())
		b.WriteString("\n")
	}
	b.WriteString(v.renderTotals())
	return b.String()
}

func (v *View) renderTotals() string {
	t := v.totals
	return fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		v.styles.Muted.Render("Headcount"), v.styles.Figure.Render(fmt.Sprint(t.Headcount)),
		v.styles.Muted.Render("Gross"), v.styles.Figure.Render(money(t.Gross)),
		v.styles.Muted.Render("Tax"), v.styles.Figure.Render(money(t.Tax)),
		v.styles.Muted.Render("Net"), v.styles.Figure.Render(money(t.Net)),
	)
}
