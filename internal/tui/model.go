package tui

import (
	"strings"

	"pwpm/internal/history"
	"pwpm/pkg/manager/catalog"
)

// View represents different views in the TUI
type View int

const (
	ViewBackends View = iota
	ViewHistory
	ViewHelp
)

// Tab represents a navigable tab
type Tab struct {
	Name string
	View View
}

// DefaultTabs returns the default tab configuration
func DefaultTabs() []Tab {
	return []Tab{
		{Name: "Backends", View: ViewBackends},
		{Name: "History", View: ViewHistory},
	}
}

// Loader checks every catalogued backend against the host. It runs off
// the UI goroutine.
type Loader func() ([]catalog.Report, error)

// HistoryLoader returns recent journal entries, newest first.
type HistoryLoader func() ([]history.Entry, error)

// Model holds the application state
type Model struct {
	ready    bool
	quitting bool

	width  int
	height int

	tabs       []Tab
	activeTab  int
	activeView View
	prevView   View

	load        Loader
	loadHistory HistoryLoader

	reports []catalog.Report
	// visible indexes reports matching the filter.
	visible []int
	entries []history.Entry

	loading     bool
	errorMsg    string
	filterText  string
	filtering   bool
	showDetails bool

	cursors map[View]int
	scrolls map[View]int

	styles *Styles
	keys   KeyMap
}

// NewModel creates a new TUI model
func NewModel(load Loader, loadHistory HistoryLoader) *Model {
	return &Model{
		tabs:        DefaultTabs(),
		activeView:  ViewBackends,
		load:        load,
		loadHistory: loadHistory,
		cursors:     make(map[View]int),
		scrolls:     make(map[View]int),
		styles:      DefaultStyles(),
		keys:        DefaultKeyMap(),
	}
}

// SetSize sets the terminal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetReports replaces the backend reports and reapplies the filter.
func (m *Model) SetReports(reports []catalog.Report) {
	m.reports = reports
	m.applyFilter()
}

// SetFilter narrows the backend list to entries matching text.
func (m *Model) SetFilter(text string) {
	m.filterText = text
	m.applyFilter()
	m.GoToTop()
}

func (m *Model) applyFilter() {
	m.visible = m.visible[:0]
	for i, r := range m.reports {
		if matches(r, m.filterText) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursors[ViewBackends] >= len(m.visible) {
		m.cursors[ViewBackends] = max(len(m.visible)-1, 0)
	}
}

// matches reports whether filter occurs in the backend's name, aliases,
// display name, category or status.
func matches(r catalog.Report, filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return true
	}
	fields := append([]string{
		r.Name,
		r.Capability.DisplayName,
		string(r.Capability.Category),
		r.Status.String(),
	}, r.Aliases...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), filter) {
			return true
		}
	}
	return false
}

// Visible returns the backends shown after filtering.
func (m *Model) Visible() []catalog.Report {
	out := make([]catalog.Report, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.reports[idx]
	}
	return out
}

// Counts returns how many backends are usable, installable and unusable.
func (m *Model) Counts() (usable, installable, unusable int) {
	for _, r := range m.reports {
		switch r.Status {
		case catalog.StatusUsable:
			usable++
		case catalog.StatusInstallable:
			installable++
		default:
			unusable++
		}
	}
	return usable, installable, unusable
}

// Selected returns the backend under the cursor.
func (m *Model) Selected() (catalog.Report, bool) {
	c := m.cursors[ViewBackends]
	if c < 0 || c >= len(m.visible) {
		return catalog.Report{}, false
	}
	return m.reports[m.visible[c]], true
}

func (m *Model) itemCount() int {
	switch m.activeView {
	case ViewBackends:
		return len(m.visible)
	case ViewHistory:
		return len(m.entries)
	}
	return 0
}

// Cursor returns the cursor position of the active view.
func (m *Model) Cursor() int {
	return m.cursors[m.activeView]
}

// Scroll returns the scroll offset of the active view.
func (m *Model) Scroll() int {
	return m.scrolls[m.activeView]
}

// VisibleHeight returns the number of list rows that fit on screen.
func (m *Model) VisibleHeight() int {
	h := m.height - 8
	if h < 1 {
		return 1
	}
	return h
}

// MoveCursor moves the cursor by delta, clamping to valid range
func (m *Model) MoveCursor(delta int) {
	n := m.itemCount()
	if n == 0 {
		return
	}

	pos := min(max(m.Cursor()+delta, 0), n-1)
	m.cursors[m.activeView] = pos

	visibleHeight := m.VisibleHeight()
	scroll := m.Scroll()
	if pos < scroll {
		m.scrolls[m.activeView] = pos
	} else if pos >= scroll+visibleHeight {
		m.scrolls[m.activeView] = pos - visibleHeight + 1
	}
}

// GoToTop moves cursor to the top
func (m *Model) GoToTop() {
	m.cursors[m.activeView] = 0
	m.scrolls[m.activeView] = 0
}

// GoToBottom moves cursor to the bottom
func (m *Model) GoToBottom() {
	n := m.itemCount()
	if n == 0 {
		return
	}
	m.cursors[m.activeView] = n - 1
	if visibleHeight := m.VisibleHeight(); n > visibleHeight {
		m.scrolls[m.activeView] = n - visibleHeight
	}
}

// NextTab switches to the next tab
func (m *Model) NextTab() {
	m.SetTab((m.activeTab + 1) % len(m.tabs))
}

// PrevTab switches to the previous tab
func (m *Model) PrevTab() {
	m.SetTab((m.activeTab - 1 + len(m.tabs)) % len(m.tabs))
}

// SetTab switches to a specific tab by index
func (m *Model) SetTab(index int) {
	if index >= 0 && index < len(m.tabs) {
		m.activeTab = index
		m.activeView = m.tabs[m.activeTab].View
	}
}

// ToggleHelp shows or hides the help view.
func (m *Model) ToggleHelp() {
	if m.activeView == ViewHelp {
		m.activeView = m.prevView
		return
	}
	m.prevView = m.activeView
	m.activeView = ViewHelp
}

// ToggleDetails shows or hides the details pane.
func (m *Model) ToggleDetails() {
	if m.activeView != ViewBackends {
		return
	}
	if _, ok := m.Selected(); ok {
		m.showDetails = !m.showDetails
	}
}
