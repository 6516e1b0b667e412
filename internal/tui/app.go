package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pwpm/internal/history"
	"pwpm/pkg/manager/catalog"
)

// Messages for async operations
type (
	reportsLoadedMsg struct {
		reports []catalog.Report
		err     error
	}

	historyLoadedMsg struct {
		entries []history.Entry
		err     error
	}
)

// App wraps the Model with bubbletea components
type App struct {
	*Model
	spinner   spinner.Model
	textInput textinput.Model
}

// NewApp creates a new TUI application
func NewApp(load Loader, loadHistory HistoryLoader) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name, alias, category or status"
	ti.CharLimit = 64
	ti.Width = 40

	return &App{
		Model:     NewModel(load, loadHistory),
		spinner:   sp,
		textInput: ti,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.loading = true
	return tea.Batch(
		a.spinner.Tick,
		a.loadReports(),
		a.loadEntries(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		a.ready = true

	case tea.KeyMsg:
		if a.filtering {
			return a, a.updateFilter(msg)
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit

		case key.Matches(msg, a.keys.Help):
			a.ToggleHelp()

		case key.Matches(msg, a.keys.Tab1):
			a.SetTab(0)
		case key.Matches(msg, a.keys.Tab2):
			a.SetTab(1)
		case key.Matches(msg, a.keys.Left):
			a.PrevTab()
		case key.Matches(msg, a.keys.Right):
			a.NextTab()

		case key.Matches(msg, a.keys.Up):
			a.MoveCursor(-1)
		case key.Matches(msg, a.keys.Down):
			a.MoveCursor(1)
		case key.Matches(msg, a.keys.PageUp):
			a.MoveCursor(-a.VisibleHeight())
		case key.Matches(msg, a.keys.PageDown):
			a.MoveCursor(a.VisibleHeight())
		case key.Matches(msg, a.keys.Home):
			a.GoToTop()
		case key.Matches(msg, a.keys.End):
			a.GoToBottom()

		case key.Matches(msg, a.keys.Details):
			a.ToggleDetails()

		case key.Matches(msg, a.keys.Filter):
			if a.activeView == ViewBackends {
				a.filtering = true
				a.textInput.SetValue(a.filterText)
				cmds = append(cmds, a.textInput.Focus())
			}

		case key.Matches(msg, a.keys.Refresh):
			if !a.loading {
				a.loading = true
				cmds = append(cmds, a.spinner.Tick, a.loadReports(), a.loadEntries())
			}

		case key.Matches(msg, a.keys.Cancel):
			switch {
			case a.activeView == ViewHelp:
				a.ToggleHelp()
			case a.showDetails:
				a.showDetails = false
			default:
				a.SetFilter("")
				a.errorMsg = ""
			}
		}

	case reportsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			a.errorMsg = msg.err.Error()
		} else {
			a.SetReports(msg.reports)
		}

	case historyLoadedMsg:
		if msg.err != nil {
			a.errorMsg = msg.err.Error()
		} else {
			a.entries = msg.entries
		}

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// updateFilter feeds a key to the filter input. Enter keeps the filter,
// esc clears it.
func (a *App) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		a.filtering = false
		a.textInput.Blur()
		return nil
	case tea.KeyEsc:
		a.filtering = false
		a.textInput.Blur()
		a.textInput.SetValue("")
		a.SetFilter("")
		return nil
	}

	var cmd tea.Cmd
	a.textInput, cmd = a.textInput.Update(msg)
	a.SetFilter(a.textInput.Value())
	return cmd
}

// View implements tea.Model
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n")
	b.WriteString(a.renderContent())
	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) renderHeader() string {
	title := a.styles.Header.Render(" pwpm - package manager backends ")

	var right string
	switch {
	case a.loading:
		right = a.spinner.View() + " Checking backends..."
	case a.errorMsg != "":
		right = a.styles.Error.Render(a.errorMsg)
	default:
		usable, installable, unusable := a.Counts()
		right = fmt.Sprintf("%s  %s  %s",
			a.styles.Success.Render(fmt.Sprintf("%d usable", usable)),
			a.styles.Warning.Render(fmt.Sprintf("%d installable", installable)),
			a.styles.Muted.Render(fmt.Sprintf("%d unusable", unusable)))
	}

	padding := max(a.width-lipgloss.Width(title)-lipgloss.Width(right)-2, 0)
	return title + strings.Repeat(" ", padding) + right
}

func (a *App) renderTabs() string {
	var tabs []string
	for i, tab := range a.tabs {
		style := a.styles.TabInactive
		if i == a.activeTab && a.activeView != ViewHelp {
			style = a.styles.TabActive
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("[%d] %s", i+1, tab.Name)))
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Background(ColorBgAlt).
		Padding(0, 1).
		Render(strings.Join(tabs, " "))
}

func (a *App) renderContent() string {
	var content string
	switch a.activeView {
	case ViewBackends:
		content = a.renderBackends()
	case ViewHistory:
		content = a.renderHistory()
	case ViewHelp:
		content = a.renderHelp()
	}

	return lipgloss.NewStyle().
		Height(max(a.height-4, 1)).
		Padding(0, 1).
		Render(content)
}

func (a *App) renderBackends() string {
	var b strings.Builder

	if a.filtering || a.filterText != "" {
		b.WriteString(a.styles.InputPrompt.Render("Filter: "))
		if a.filtering {
			b.WriteString(a.textInput.View())
		} else {
			b.WriteString(a.filterText)
		}
		b.WriteString("\n\n")
	}

	visible := a.Visible()
	if len(visible) == 0 && !a.loading {
		b.WriteString(a.styles.Muted.Render("No backends match"))
		return b.String()
	}

	start := a.Scroll()
	end := min(start+a.VisibleHeight(), len(visible))
	for i := start; i < end; i++ {
		b.WriteString(a.renderBackendLine(visible[i], i == a.Cursor()))
		b.WriteString("\n")
	}

	list := b.String()
	if !a.showDetails {
		return list
	}
	if r, ok := a.Selected(); ok {
		return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", a.renderDetails(r))
	}
	return list
}

func (a *App) renderBackendLine(r catalog.Report, selected bool) string {
	cursor := "  "
	if selected {
		cursor = a.styles.ListItemSelected.Render("> ")
	}

	name := BackendStyle(r.Name).Render(fmt.Sprintf("%-11s", r.Name))
	status := a.styles.StatusStyle(r.Status).Render(fmt.Sprintf("%-12s", r.Status))
	category := a.styles.Muted.Render(fmt.Sprintf("%-15s", r.Capability.Category))

	line := cursor + name + " " + status + " " + category
	if detail := r.Detail(); detail != "" {
		line += " " + a.styles.Muted.Render(detail)
	}
	return line
}

func (a *App) renderDetails(r catalog.Report) string {
	field := func(label, value string) string {
		return a.styles.Label.Render(fmt.Sprintf("%-11s", label)) + " " + value + "\n"
	}

	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render(r.Capability.DisplayName))
	b.WriteString("\n\n")
	b.WriteString(field("Name", r.Name))
	b.WriteString(field("Aliases", strings.Join(r.Aliases, ", ")))
	b.WriteString(field("Category", string(r.Capability.Category)))
	b.WriteString(field("Platforms", strings.Join(r.Platforms(), ", ")))
	b.WriteString(field("Privileges", r.Privileges()))
	if !r.Capability.SupportsWSL() {
		b.WriteString(field("WSL", "not supported"))
	}
	requires := make([]string, len(r.Capability.Requires))
	for i, g := range r.Capability.Requires {
		requires[i] = g.String()
	}
	b.WriteString(field("Requires", strings.Join(requires, " ")))
	b.WriteString(field("Status", a.styles.StatusStyle(r.Status).Render(r.Status.String())))
	if detail := r.Detail(); detail != "" {
		b.WriteString(field("Reason", detail))
	}

	return a.styles.Details.Render(strings.TrimRight(b.String(), "\n"))
}

func (a *App) renderHistory() string {
	if len(a.entries) == 0 {
		return a.styles.Muted.Render("No operations recorded yet")
	}

	var b strings.Builder
	start := a.Scroll()
	end := min(start+a.VisibleHeight(), len(a.entries))
	for i := start; i < end; i++ {
		e := a.entries[i]
		cursor := "  "
		if i == a.Cursor() {
			cursor = a.styles.ListItemSelected.Render("> ")
		}

		style := a.styles.Success
		if !e.Success {
			style = a.styles.Error
		}
		b.WriteString(cursor + style.Render(e.Summary()))
		if e.Error != "" && i == a.Cursor() {
			b.WriteString("\n    " + a.styles.Muted.Render(e.Error))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n")
	for _, group := range a.keys.FullHelp() {
		for _, k := range group {
			h := k.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				a.styles.Label.Render(fmt.Sprintf("%-8s", h.Key)), h.Desc))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderFooter() string {
	var hints []string
	for _, k := range a.keys.ShortHelp() {
		h := k.Help()
		hints = append(hints, h.Key+":"+h.Desc)
	}

	return a.styles.Footer.
		Width(a.width).
		Render(strings.Join(hints, "  "))
}

// Async commands

func (a *App) loadReports() tea.Cmd {
	load := a.load
	return func() tea.Msg {
		if load == nil {
			return reportsLoadedMsg{}
		}
		reports, err := load()
		return reportsLoadedMsg{reports: reports, err: err}
	}
}

func (a *App) loadEntries() tea.Cmd {
	load := a.loadHistory
	return func() tea.Msg {
		if load == nil {
			return historyLoadedMsg{}
		}
		entries, err := load()
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// Run starts the backend browser.
func Run(load Loader, loadHistory HistoryLoader) error {
	p := tea.NewProgram(NewApp(load, loadHistory), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
