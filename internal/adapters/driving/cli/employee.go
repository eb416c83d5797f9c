package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/payroll/internal/core/domain"
)

// isTerminal reports whether stdin is interactive. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var errNothingToChange = errors.New("nothing to change: pass at least one field flag")

// flagFields maps form flags to the employee fields they submit.
var flagFields = []struct {
	flag  string
	field domain.Field
}{
	{"name", domain.FieldName},
	{"gender", domain.FieldGender},
	{"department", domain.FieldDepartment},
	{"salary", domain.FieldSalary},
	{"start-date", domain.FieldStartDate},
	{"notes", domain.FieldNotes},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List employees with payroll figures",
	Long: `List every employee with tax (12% of salary) and net salary computed.
A totals line summarises headcount, gross, tax and net.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a single employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an employee",
	Long: `Add an employee. Name and salary are required; salary must be a
non-negative number. Repeat --department to assign several departments.

Example:
  payroll add --name Ann --salary 5000 --department hr --department ops`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an employee",
	Long: `Edit an employee. Only the flags you pass are changed; every other
field keeps its current value. The id and profile picture never change.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var deleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete an employee",
	Long: `Delete an employee. When stdin is a terminal you are asked to confirm
unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	listCmd.Flags().Bool("json", false, "output as JSON")
	getCmd.Flags().Bool("json", false, "output as JSON")
	addFormFlags(addCmd)
	addFormFlags(editCmd)
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "employee name")
	cmd.Flags().String("gender", "", "gender")
	cmd.Flags().StringArray("department", nil, "department (repeatable)")
	cmd.Flags().String("salary", "", "gross salary")
	cmd.Flags().String("start-date", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("notes", "", "notes")
}

// inputFromFlags builds an input marking only the flags set on the command line.
func inputFromFlags(cmd *cobra.Command) (domain.EmployeeInput, error) {
	flags := cmd.Flags()
	var in domain.EmployeeInput
	var err error

	if in.Name, err = flags.GetString("name"); err != nil {
		return in, err
	}
	if in.Gender, err = flags.GetString("gender"); err != nil {
		return in, err
	}
	if in.Department, err = flags.GetStringArray("department"); err != nil {
		return in, err
	}
	if in.Salary, err = flags.GetString("salary"); err != nil {
		return in, err
	}
	if in.StartDate, err = flags.GetString("start-date"); err != nil {
		return in, err
	}
	if in.Notes, err = flags.GetString("notes"); err != nil {
		return in, err
	}

	in.Submitted = map[domain.Field]bool{}
	for _, ff := range flagFields {
		if flags.Changed(ff.flag) {
			in.Mark(ff.field)
		}
	}
	return in, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if payrollService == nil {
		return errPayrollNotConfigured
	}

	views, err := payrollService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(cmd, struct {
			Employees []domain.EmployeeView `json:"employees"`
			Totals    domain.PayrollTotals  `json:"totals"`
		}{views, domain.Totals(views)})
	}

	if len(views) == 0 {
		cmd.Println("No employees found.")
		return nil
	}

	cmd.Println(renderTable(views))
	t := domain.Totals(views)
	cmd.Printf("%d employees  gross %s  tax %s  net %s\n",
		t.Headcount, money(t.Gross), money(t.Tax), money(t.Net))
	return nil
}

func renderTable(views []domain.EmployeeView) string {
	rows := make([][]string, 0, len(views))
	for i := range views {
		v := views[i]
		rows = append(rows, []string{
			domain.FormatID(v.ID),
			v.Name,
			strings.Join(v.Department, ", "),
			money(v.Salary),
			money(v.Tax),
			money(v.NetSalary),
			v.StartDate,
		})
	}

	right := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	left := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "DEPARTMENT", "SALARY", "TAX", "NET", "START").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row != table.HeaderRow && col >= 3 && col <= 5 {
				return right
			}
			return left
		}).
		String()
}

func runGet(cmd *cobra.Command, args []string) error {
	if payrollService == nil {
		return errPayrollNotConfigured
	}

	e, err := payrollService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if e == nil {
		return fmt.Errorf("employee %s not found", args[0])
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(cmd, e)
	}
	printEmployee(cmd, e)
	return nil
}

func printEmployee(cmd *cobra.Command, e *domain.Employee) {
	v := domain.ComputePayroll(*e)
	cmd.Printf("ID:          %s\n", domain.FormatID(v.ID))
	cmd.Printf("Name:        %s\n", v.Name)
	cmd.Printf("Gender:      %s\n", v.Gender)
	cmd.Printf("Department:  %s\n", strings.Join(v.Department, ", "))
	cmd.Printf("Salary:      %s\n", money(v.Salary))
	cmd.Printf("Tax:         %s\n", money(v.Tax))
	cmd.Printf("Net salary:  %s\n", money(v.NetSalary))
	cmd.Printf("Start date:  %s\n", v.StartDate)
	if v.Notes != "" {
		cmd.Printf("Notes:       %s\n", v.Notes)
	}
	cmd.Printf("Picture:     %s\n", v.ProfilePic)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	if payrollService == nil {
		return errPayrollNotConfigured
	}

	in, err := inputFromFlags(cmd)
	if err != nil {
		return err
	}
	e, err := payrollService.Create(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("failed to add employee: %w", err)
	}

	cmd.Printf("Added %s (%s)\n", e.Name, domain.FormatID(e.ID))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	if payrollService == nil {
		return errPayrollNotConfigured
	}

	in, err := inputFromFlags(cmd)
	if err != nil {
		return err
	}
	if len(in.Submitted) == 0 {
		return errNothingToChange
	}

	existing, err := payrollService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if existing == nil {
		cmd.Printf("No employee with id %s\n", args[0])
		return nil
	}

	if err := payrollService.Update(cmd.Context(), args[0], in); err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	cmd.Printf("Updated %s\n", domain.FormatID(existing.ID))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if payrollService == nil {
		return errPayrollNotConfigured
	}

	existing, err := payrollService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if existing == nil {
		cmd.Printf("No employee with id %s\n", args[0])
		return nil
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && isTerminal() {
		cmd.Printf("Delete %s (%s)? [y/N]: ", existing.Name, domain.FormatID(existing.ID))
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := payrollService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	cmd.Printf("Deleted %s\n", domain.FormatID(existing.ID))
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func money(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
