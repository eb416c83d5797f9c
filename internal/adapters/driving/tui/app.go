package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/payroll/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/payroll/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/payroll/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/payroll/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/payroll/internal/adapters/driving/tui/views/dashboard"
	"github.com/custodia-labs/payroll/internal/core/domain"
)

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	dashboard *dashboard.View
	statusBar *status.Bar

	currentView messages.ViewType

	// pending is the employee awaiting delete confirmation.
	pending *domain.EmployeeView

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		dashboard:   dashboard.NewView(s),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewDashboard,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("payroll"),
		a.loadEmployees(),
		a.waitForChange(),
	)
}

// loadEmployees lists the collection in the background.
func (a *App) loadEmployees() tea.Cmd {
	payroll := a.ports.Payroll
	ctx := a.ctx
	return func() tea.Msg {
		views, err := payroll.List(ctx)
		return messages.EmployeesLoaded{Views: views, Err: err}
	}
}

// deleteEmployee removes the given employee in the background.
func (a *App) deleteEmployee(id int64) tea.Cmd {
	payroll := a.ports.Payroll
	ctx := a.ctx
	return func() tea.Msg {
		err := payroll.Delete(ctx, domain.FormatID(id))
		return messages.EmployeeDeleted{ID: id, Err: err}
	}
}

// waitForChange blocks until the medium reports a change. A closed channel ends the loop.
func (a *App) waitForChange() tea.Cmd {
	changes := a.ports.Changes
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return messages.DataChanged{}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.EmployeesLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.dashboard.SetEmployees(msg.Views)
		a.statusBar.SetHeadcount(len(msg.Views))
		if a.currentView == messages.ViewDashboard {
			a.statusBar.SetState(status.StateReady)
		}
		return a, nil

	case messages.EmployeeDeleted:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage(fmt.Sprintf("Deleted %s", domain.FormatID(msg.ID)))
		return a, a.loadEmployees()

	case messages.DataChanged:
		return a, tea.Batch(a.loadEmployees(), a.waitForChange())
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewConfirmDelete:
		switch {
		case keymap.Matches(k, a.keymap.Confirm):
			target := a.pending
			a.pending = nil
			a.currentView = messages.ViewDashboard
			a.statusBar.SetState(status.StateLoading)
			a.statusBar.SetMessage("")
			return a, a.deleteEmployee(target.ID)
		case keymap.Matches(k, a.keymap.Cancel):
			a.pending = nil
			a.currentView = messages.ViewDashboard
			a.statusBar.Clear()
		}
		return a, nil

	case messages.ViewHelp:
		if keymap.Matches(k, a.keymap.Quit) {
			return a, tea.Quit
		}
		a.currentView = messages.ViewDashboard
		a.statusBar.Clear()
		return a, nil
	}

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(k, a.keymap.Help):
		a.currentView = messages.ViewHelp
		a.statusBar.SetState(status.StateHelp)
		return a, nil
	case keymap.Matches(k, a.keymap.Reload):
		a.statusBar.SetState(status.StateLoading)
		a.statusBar.SetMessage("")
		return a, a.loadEmployees()
	case keymap.Matches(k, a.keymap.Delete):
		selected, ok := a.dashboard.Selected()
		if !ok {
			return a, nil
		}
		a.pending = &selected
		a.currentView = messages.ViewConfirmDelete
		a.statusBar.SetState(status.StateConfirm)
		a.statusBar.SetMessage(fmt.Sprintf("Delete %s (%s)?", selected.Name, domain.FormatID(selected.ID)))
		return a, nil
	}

	var cmd tea.Cmd
	a.dashboard, cmd = a.dashboard.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewHelp {
		return a.viewHelp() + "\n" + a.statusBar.View()
	}
	return a.dashboard.View() + "\n\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-8s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("press any key to return"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Employees returns the rows shown on the dashboard.
func (a *App) Employees() []domain.EmployeeView {
	return a.dashboard.Employees()
}

// Pending returns the employee awaiting delete confirmation, if any.
func (a *App) Pending() *domain.EmployeeView {
	return a.pending
}

// StatusBar returns the status bar component.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.dashboard.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}
