package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"procview/internal/app"
	"procview/internal/table"
)

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Status() (app.DaemonStatus, error)
	View(context.Context, table.Options) (table.View, error)
}

// Model represents the Bubble Tea state.
type Model struct {
	controller Controller

	table    btable.Model
	opts     table.Options
	interval time.Duration
	rows     int

	daemonStatus app.DaemonStatus
	err          error
	loading      bool

	// seq identifies the most recent load; replies to older loads are stale.
	seq uint64

	width  int
	height int

	lastUpdated time.Time
}

// New constructs a TUI model refreshing every interval.
func New(ctrl Controller, opts table.Options, interval time.Duration) *Model {
	if opts.SortBy == "" {
		opts.SortBy = table.DefaultSortBy
	}
	if interval <= 0 {
		interval = time.Second
	}
	tbl := btable.New(btable.WithFocused(true))
	styles := btable.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	tbl.SetStyles(styles)

	return &Model{
		controller: ctrl,
		table:      tbl,
		opts:       opts,
		interval:   interval,
		loading:    true,
	}
}

// Run spins up the Bubble Tea program with sensible defaults.
func Run(ctrl Controller, opts table.Options, interval time.Duration) error {
	m := New(ctrl, opts, interval)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(checkDaemonStatusCmd(m.controller), m.load(true))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 4 {
			m.table.SetHeight(msg.Height - 4)
		}
		m.table.SetWidth(msg.Width)

	case daemonStatusMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.daemonStatus = msg.status

	case viewLoadedMsg:
		if msg.seq != m.seq {
			return m, m.rearm(msg.scheduled)
		}
		m.loading = false
		m.err = nil
		m.setView(msg.view)
		m.lastUpdated = time.Now()
		return m, m.rearm(msg.scheduled)

	case errMsg:
		if msg.seq != m.seq {
			return m, m.rearm(msg.scheduled)
		}
		m.loading = false
		m.err = msg.err
		return m, m.rearm(msg.scheduled)

	case tickMsg:
		return m, m.load(true)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.load(false)
		case "s":
			m.opts.SortBy = nextSortColumn(m.opts.SortBy)
			return m, m.load(false)
		case "d":
			m.opts.Descending = !m.opts.Descending
			return m, m.load(false)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	direction := "asc"
	if m.opts.Descending {
		direction = "desc"
	}
	status := fmt.Sprintf("%d processes • sorted by %s (%s)", m.rows, m.opts.SortBy, direction)
	if m.daemonStatus.Running {
		status += fmt.Sprintf(" • daemon pid %d", m.daemonStatus.PID)
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Render(status))
	b.WriteByte('\n')

	if m.loading && m.rows == 0 {
		b.WriteString("Loading processes…\n")
	} else if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	b.WriteString(m.table.View())
	b.WriteByte('\n')

	help := "Commands: q quit • r refresh • s next sort column • d toggle direction"
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last update %s", m.lastUpdated.Format(time.TimeOnly))
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// load starts a view load for the current options and makes it the only one
// whose reply is applied.
func (m *Model) load(scheduled bool) tea.Cmd {
	m.seq++
	return loadViewCmd(m.controller, m.opts, m.seq, scheduled)
}

// rearm keeps the refresh loop alive after a scheduled load, stale or not.
func (m *Model) rearm(scheduled bool) tea.Cmd {
	if !scheduled {
		return nil
	}
	return tickCmd(m.interval)
}

func (m *Model) setView(v table.View) {
	titles := make([]string, 0, len(v.Columns)+1)
	titles = append(titles, string(table.ColumnPID))
	for _, c := range v.Columns {
		titles = append(titles, string(c))
	}
	widths := make([]int, len(titles))
	for i, t := range titles {
		widths[i] = lipgloss.Width(t)
	}

	rows := make([]btable.Row, 0, len(v.Rows))
	for _, r := range v.Rows {
		row := make(btable.Row, 0, len(r.Cells)+1)
		row = append(row, fmt.Sprint(r.PID))
		row = append(row, r.Cells...)
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
		rows = append(rows, row)
	}

	cols := make([]btable.Column, len(titles))
	for i, t := range titles {
		cols[i] = btable.Column{Title: t, Width: widths[i]}
	}
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.rows = len(rows)
}

// nextSortColumn cycles through every sortable column.
func nextSortColumn(cur table.Column) table.Column {
	i := slices.Index(table.AllColumns, cur)
	return table.AllColumns[(i+1)%len(table.AllColumns)]
}

type daemonStatusMsg struct {
	status app.DaemonStatus
	err    error
}

type viewLoadedMsg struct {
	view      table.View
	seq       uint64
	scheduled bool
}

type tickMsg time.Time

type errMsg struct {
	err       error
	seq       uint64
	scheduled bool
}

func (e errMsg) Error() string { return e.err.Error() }

func checkDaemonStatusCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		status, err := ctrl.Status()
		if err != nil {
			return daemonStatusMsg{err: err}
		}
		return daemonStatusMsg{status: status}
	}
}

// loadViewCmd builds a fresh view. Only scheduled loads re-arm the tick, so
// manual refreshes never start a second refresh loop.
func loadViewCmd(ctrl Controller, opts table.Options, seq uint64, scheduled bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		view, err := ctrl.View(ctx, opts)
		if err != nil {
			return errMsg{err: err, seq: seq, scheduled: scheduled}
		}
		return viewLoadedMsg{view: view, seq: seq, scheduled: scheduled}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}
