// Package ui provides terminal user interface components for the rutina app.
// This file contains the main App model which coordinates all panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"rutina/internal/config"
	"rutina/internal/dailysync"
	"rutina/internal/progress"
	"rutina/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PanePrograms PaneID = iota
	PaneCalendar
	PaneTodos
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows all three panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
}

// App is the main application model that coordinates all panes.
type App struct {
	storage      *storage.Storage
	engine       *progress.Engine
	syncRunner   *dailysync.Runner
	styles       *Styles
	config       *AppConfig
	programsPane *ProgramsPane
	calendarPane *CalendarPane
	todoPane     *TodoPane
	helpOverlay  *HelpOverlay
	confirm      *confirmState
	activePane   PaneID
	layoutMode   LayoutMode
	showHelp     bool
	showWelcome  bool
	width        int
	height       int
	status       string
	statusErr    bool
	statusUntil  time.Time
	quitting     bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap
}

// confirmState is a modal yes/no prompt guarding a destructive command.
type confirmState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application. Data loading is deferred to Init()
// to keep the constructor non-blocking.
func NewApp(store *storage.Storage, engine *progress.Engine, styles *Styles, cfg *AppConfig) *App {
	// Use default config if nil
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	// Create panes with config-aware key bindings
	programsPane := NewProgramsPaneWithKeys(store, engine, styles, cfg.Keys)
	calendarPane := NewCalendarPaneWithKeys(store, engine, styles, cfg.Keys)
	todoPane := NewTodoPaneWithKeys(store, styles, cfg.Keys)
	helpOverlay := NewHelpOverlay(styles)

	// Determine if we should show welcome screen
	showWelcome := cfg.ShowOnboarding && isFirstRun(store)

	app := &App{
		storage:      store,
		engine:       engine,
		styles:       styles,
		config:       cfg,
		programsPane: programsPane,
		calendarPane: calendarPane,
		todoPane:     todoPane,
		helpOverlay:  helpOverlay,
		activePane:   PanePrograms,
		showHelp:     false,
		showWelcome:  showWelcome,
		keys:         NewGlobalKeyMap(cfg.Keys),
		helpKeys:     DefaultHelpKeyMap(),
	}

	// Set initial focus
	programsPane.SetFocused(true)
	calendarPane.SetFocused(false)
	todoPane.SetFocused(false)

	return app
}

// SetSyncRunner wires in the daily sync pass, which then runs during Init.
func (a *App) SetSyncRunner(runner *dailysync.Runner) {
	a.syncRunner = runner
}

// isFirstRun checks if this appears to be the first time running the app.
// We detect this by checking if data files exist and are empty.
func isFirstRun(store *storage.Storage) bool {
	programs, err := store.LoadPrograms()
	if err != nil {
		return false
	}
	if len(programs.Programs) > 0 {
		return false
	}

	todos, err := store.LoadTodos()
	if err != nil {
		return false
	}
	return len(todos) == 0
}

// tickMsg is sent periodically for time updates.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the app and loads all data asynchronously.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		a.programsPane.LoadProgramsCmd(),
		a.todoPane.LoadTodosCmd(),
	}
	if a.syncRunner != nil {
		cmds = append(cmds, runSyncCmd(a.syncRunner))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Route async messages to the interested panes first (before key
	// handling). This ensures storage operation results are processed
	// regardless of which pane is active.
	switch msg := msg.(type) {
	case programsLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Programs: "+msg.err.Error(), true)
		}
		// Both the programs pane and the calendar render program state.
		cmd := a.programsPane.Update(msg)
		a.calendarPane.Update(msg)
		return a, cmd

	case programStartedMsg:
		if msg.err != nil {
			a.SetStatus("Start program: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Started "+a.programTitle(msg.key), false)
		}
		cmd := a.programsPane.Update(msg)
		return a, cmd

	case programResetMsg:
		if msg.err != nil {
			a.SetStatus("Reset program: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Reset "+a.programTitle(msg.key)+" to day one", false)
		}
		cmd := a.programsPane.Update(msg)
		return a, cmd

	case taskToggledMsg:
		if msg.err != nil {
			a.SetStatus("Toggle task: "+msg.err.Error(), true)
		}
		cmd := a.programsPane.Update(msg)
		return a, cmd

	case dayMarkedMsg:
		if msg.err != nil {
			a.SetStatus("Mark day: "+msg.err.Error(), true)
		}
		cmd := a.programsPane.Update(msg)
		return a, cmd

	case todosLoadedMsg:
		if msg.err != nil {
			a.SetStatus("To-dos: "+msg.err.Error(), true)
		}
		cmd := a.todoPane.Update(msg)
		return a, cmd

	case todoAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add to-do: "+msg.err.Error(), true)
		}
		cmd := a.todoPane.Update(msg)
		return a, cmd

	case todoToggledMsg:
		if msg.err != nil {
			a.SetStatus("Toggle to-do: "+msg.err.Error(), true)
		}
		cmd := a.todoPane.Update(msg)
		return a, cmd

	case todoDeletedMsg:
		if msg.err != nil {
			a.SetStatus("Delete to-do: "+msg.err.Error(), true)
		}
		cmd := a.todoPane.Update(msg)
		return a, cmd

	case syncRanMsg:
		if msg.err != nil {
			a.SetStatus("Daily sync: "+msg.err.Error(), true)
		} else if msg.created > 0 {
			a.SetStatus(fmt.Sprintf("Added %d program entries for today", msg.created), false)
		}
		return a, a.todoPane.LoadTodosCmd()

	case dataChangedMsg:
		// Another process wrote the data files; reload everything.
		return a, tea.Batch(
			a.programsPane.LoadProgramsCmd(),
			a.todoPane.LoadTodosCmd(),
		)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.showWelcome {
			a.showWelcome = false
			return a, nil
		}

		if a.confirm != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				cmd := a.confirm.cmd
				a.confirm = nil
				return a, cmd
			case "n", "N", "esc":
				a.confirm = nil
				a.SetStatus("Canceled", false)
				return a, nil
			default:
				return a, nil
			}
		}

		// Help overlay takes priority
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
				return a, nil
			}
			return a, nil
		}

		// Check if any pane is in input mode
		inInputMode := a.todoPane.IsAdding()

		if !inInputMode {
			// Destructive actions go through the confirm overlay when enabled.
			if a.config.ConfirmDeletions {
				if cmd, handled := a.maybeConfirm(msg); handled {
					return a, cmd
				}
			}

			// Global keys only when not in input mode
			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.NextPane):
				a.switchPane()
				return a, nil

			case key.Matches(msg, a.keys.Pane1):
				a.setActivePane(PanePrograms)
				return a, nil

			case key.Matches(msg, a.keys.Pane2):
				a.setActivePane(PaneCalendar)
				return a, nil

			case key.Matches(msg, a.keys.Pane3):
				a.setActivePane(PaneTodos)
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()
	}

	// Forward to active pane (only if help is not shown)
	if !a.showHelp {
		switch a.activePane {
		case PanePrograms:
			cmd := a.programsPane.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		case PaneCalendar:
			cmd := a.calendarPane.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		case PaneTodos:
			cmd := a.todoPane.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return a, tea.Batch(cmds...)
}

// maybeConfirm intercepts destructive key presses and raises the confirm
// overlay instead. Reports whether the key was handled.
func (a *App) maybeConfirm(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch a.activePane {
	case PaneTodos:
		if key.Matches(msg, a.todoPane.keys.Delete) {
			if len(a.todoPane.todos) == 0 || a.todoPane.cursor < 0 || a.todoPane.cursor >= len(a.todoPane.todos) {
				a.SetStatus("No to-do selected", true)
				return nil, true
			}
			todo := a.todoPane.todos[a.todoPane.cursor]
			a.confirm = &confirmState{
				title: "Delete to-do?",
				body:  truncateText(todo.Text, 60),
				cmd:   deleteTodoCmd(a.storage, todo.ID),
			}
			return nil, true
		}

	case PanePrograms:
		if key.Matches(msg, a.programsPane.keys.Reset) {
			row := a.programsPane.selectedRow()
			if row == nil || row.kind != rowProgram || !a.programsPane.isStarted(row.key) {
				a.SetStatus("No active program selected", true)
				return nil, true
			}
			a.confirm = &confirmState{
				title: "Reset program?",
				body:  a.programTitle(row.key) + " restarts from day one and loses all progress.",
				cmd:   resetProgramCmd(a.storage, row.key),
			}
			return nil, true
		}
	}
	return nil, false
}

// programTitle resolves a program key to its display title.
func (a *App) programTitle(key string) string {
	prog, err := a.storage.Catalog().Get(key)
	if err != nil {
		return key
	}
	return prog.Title
}

// switchPane cycles through panes.
func (a *App) switchPane() {
	switch a.activePane {
	case PanePrograms:
		a.setActivePane(PaneCalendar)
	case PaneCalendar:
		a.setActivePane(PaneTodos)
	case PaneTodos:
		a.setActivePane(PanePrograms)
	}
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane

	a.programsPane.SetFocused(pane == PanePrograms)
	a.calendarPane.SetFocused(pane == PaneCalendar)
	a.todoPane.SetFocused(pane == PaneTodos)
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar (2) and help bar (1)
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}

	// Update help overlay size
	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4

	// Determine layout mode based on configured threshold
	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80 // Default threshold
	}

	if a.width < threshold {
		// Narrow mode: single focused pane with tab bar
		a.layoutMode = LayoutNarrow

		// In narrow mode, leave room for tab bar (1 line)
		narrowHeight := contentHeight - 1
		if narrowHeight < 8 {
			narrowHeight = 8
		}

		// Give full width to all panes (only focused one will be shown)
		paneWidth := totalWidth
		if paneWidth < 20 {
			paneWidth = 20
		}

		a.programsPane.SetSize(paneWidth, narrowHeight)
		a.calendarPane.SetSize(paneWidth, narrowHeight)
		a.todoPane.SetSize(paneWidth, narrowHeight)
	} else {
		// Wide mode: three panes side-by-side
		a.layoutMode = LayoutWide

		var programsWidth, calendarWidth, todosWidth int
		if totalWidth < 120 {
			// Medium: balanced three-column
			programsWidth = (totalWidth * 38) / 100
			calendarWidth = (totalWidth * 30) / 100
			todosWidth = totalWidth - programsWidth - calendarWidth - 2
		} else {
			// Wide: comfortable three-column with max widths
			programsWidth = min((totalWidth*40)/100, 55)
			calendarWidth = min((totalWidth*28)/100, 36)
			todosWidth = min(totalWidth-programsWidth-calendarWidth-2, 50)
		}

		a.programsPane.SetSize(programsWidth, contentHeight)
		a.calendarPane.SetSize(calendarWidth, contentHeight)
		a.todoPane.SetSize(todosWidth, contentHeight)
	}
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.showWelcome {
		return a.renderWelcome()
	}

	if a.confirm != nil {
		return a.renderConfirm()
	}

	// Show help overlay if active
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	// Title bar
	titleBar := a.renderTitleBar()
	b.WriteString(titleBar)
	b.WriteString("\n")

	// Main content - switch based on layout mode
	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	// Help bar
	helpBar := a.renderHelpBar()
	b.WriteString(helpBar)

	return b.String()
}

func (a *App) renderWelcome() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorPrimary).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to rutina"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Tab switches panes. ? opens help.\n"))
	b.WriteString(bodyStyle.Render("Pick a program and press 's' to start it.\n"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) renderConfirm() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirm.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirm.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] confirm    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderWideContent renders all three panes side by side.
func (a *App) renderWideContent() string {
	programsView := a.programsPane.View()
	calendarView := a.calendarPane.View()
	todosView := a.todoPane.View()

	return lipgloss.JoinHorizontal(lipgloss.Top, programsView, " ", calendarView, " ", todosView)
}

// renderNarrowContent renders the focused pane with a tab bar.
func (a *App) renderNarrowContent() string {
	var b strings.Builder

	// Tab bar at top
	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	// Only render the active pane
	switch a.activePane {
	case PanePrograms:
		b.WriteString(a.programsPane.View())
	case PaneCalendar:
		b.WriteString(a.calendarPane.View())
	case PaneTodos:
		b.WriteString(a.todoPane.View())
	}

	return b.String()
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	// Tab labels
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PanePrograms, "Programs"},
		{PaneCalendar, "Calendar"},
		{PaneTodos, "To-dos"},
	}

	// Create tab styles
	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		label := tab.label
		if tab.id == a.activePane {
			// Active tab: highlighted with brackets
			label = activeTabStyle.Render("[" + label + "]")
		} else {
			// Inactive tab: muted
			label = inactiveTabStyle.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}

	// Center the tabs
	tabBar := strings.Join(parts, "  ")
	padding := (a.width - lipgloss.Width(tabBar)) / 2
	if padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}

	return tabBar
}

// renderGoodbye shows a nice exit message with session summary.
func (a *App) renderGoodbye() string {
	tasksDone, tasksTotal := a.programsPane.TodayStats()
	todosDone, todosTotal := a.todoPane.Stats()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you tomorrow!\n")
	b.WriteString("\n")

	if tasksTotal > 0 || todosTotal > 0 {
		b.WriteString("  Today's progress:\n")
		if tasksTotal > 0 {
			pct := (tasksDone * 100) / tasksTotal
			b.WriteString(fmt.Sprintf("     Program tasks: %d/%d (%d%%)\n", tasksDone, tasksTotal, pct))
		}
		if todosTotal > 0 {
			pct := (todosDone * 100) / todosTotal
			b.WriteString(fmt.Sprintf("     To-dos:        %d/%d (%d%%)\n", todosDone, todosTotal, pct))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderTitleBar creates the top title bar with stats and the current date.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" rutina ")

	// Stats summary
	tasksDone, tasksTotal := a.programsPane.TodayStats()
	todosDone, todosTotal := a.todoPane.Stats()

	var statsItems []string
	if tasksTotal > 0 {
		statsItems = append(statsItems, fmt.Sprintf("Today: %d/%d", tasksDone, tasksTotal))
	}
	if todosTotal > 0 {
		statsItems = append(statsItems, fmt.Sprintf("To-dos: %d/%d", todosDone, todosTotal))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(statsItems, "  "))

	// Current date
	dateStr := a.storage.Now().Format("Mon Jan 2")
	date := a.styles.DateStyle.Render(dateStr)

	// Calculate spacing
	titleWidth := lipgloss.Width(title)
	statsWidth := lipgloss.Width(stats)
	dateWidth := lipgloss.Width(date)

	usedWidth := titleWidth + statsWidth + dateWidth
	spacerWidth := a.width - usedWidth - 4
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	var parts []string
	parts = append(parts, title)
	if stats != "" {
		parts = append(parts, "  "+stats)
	}
	parts = append(parts, strings.Repeat(" ", spacerWidth))
	parts = append(parts, date)

	return strings.Join(parts, "")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	// Input mode help
	if a.todoPane.IsAdding() {
		return a.styles.RenderHelp(
			"enter", "save",
			"esc", "cancel",
		)
	}

	// Normal mode help based on active pane
	switch a.activePane {
	case PanePrograms:
		return a.styles.RenderHelp(
			"s", "start",
			"space", "toggle",
			"m", "mark day",
			"j/k", "nav",
			"tab", "pane",
			"?", "help",
		)
	case PaneCalendar:
		return a.styles.RenderHelp(
			"h/l", "month",
			"tab", "pane",
			"?", "help",
		)
	case PaneTodos:
		return a.styles.RenderHelp(
			"a", "add",
			"d", "done",
			"x", "del",
			"j/k", "nav",
			"tab", "pane",
			"?", "help",
		)
	}

	return ""
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// truncateText shortens text to at most n runes, appending an ellipsis.
func truncateText(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n-1]) + "…"
}

// Run starts the Bubble Tea program with the given storage backend, engine,
// sync runner, styles, and config. The data directory is watched so that
// edits from other processes show up live.
func Run(store *storage.Storage, engine *progress.Engine, runner *dailysync.Runner, styles *Styles, cfg *AppConfig) error {
	app := NewApp(store, engine, styles, cfg)
	app.SetSyncRunner(runner)

	p := tea.NewProgram(app, tea.WithAltScreen())

	cleanup, err := StartWatcher(store.GetDataDir(), p)
	if err == nil {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}
