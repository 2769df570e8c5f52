// Package ui provides terminal user interface components for the rutina app.
package ui

import (
	"fmt"
	"strings"

	"rutina/internal/config"
	"rutina/internal/progress"
	"rutina/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// rowKind distinguishes the two row types in the flattened program list.
type rowKind int

const (
	rowProgram rowKind = iota
	rowTask
)

// programRow is one selectable line in the pane: either a program header or
// one of today's tasks for an active program.
type programRow struct {
	kind      rowKind
	key       string
	taskIndex int
}

// ProgramsPane shows the catalog with per-program progress and today's
// checkable tasks for every active program.
type ProgramsPane struct {
	progStore *storage.ProgramsStore
	rows      []programRow
	cursor    int
	focused   bool
	width     int
	height    int
	storage   *storage.Storage
	engine    *progress.Engine
	styles    *Styles

	// Key bindings
	keys ProgramKeyMap
}

// NewProgramsPane creates a new programs pane.
func NewProgramsPane(store *storage.Storage, engine *progress.Engine, styles *Styles) *ProgramsPane {
	return NewProgramsPaneWithKeys(store, engine, styles, &config.KeysConfig{})
}

// NewProgramsPaneWithKeys creates a new programs pane with custom key bindings.
func NewProgramsPaneWithKeys(store *storage.Storage, engine *progress.Engine, styles *Styles, keyCfg *config.KeysConfig) *ProgramsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	return &ProgramsPane{
		storage: store,
		engine:  engine,
		styles:  styles,
		focused: true,
		keys:    NewProgramKeyMap(keyCfg),
	}
}

// LoadProgramsCmd returns a command that loads program state asynchronously.
func (p *ProgramsPane) LoadProgramsCmd() tea.Cmd {
	return loadProgramsCmd(p.storage)
}

// setProgramsStore swaps in a freshly loaded store and rebuilds the rows.
func (p *ProgramsPane) setProgramsStore(ps *storage.ProgramsStore) {
	p.progStore = ps
	p.rebuildRows()
}

// rebuildRows flattens the catalog into selectable rows: a header per
// program, plus today's tasks for programs whose current day is in range.
func (p *ProgramsPane) rebuildRows() {
	p.rows = p.rows[:0]
	today := p.storage.TodayKey()

	for _, prog := range p.storage.Catalog().List() {
		p.rows = append(p.rows, programRow{kind: rowProgram, key: prog.Key})

		if p.progStore == nil || p.progStore.Programs[prog.Key] == nil {
			continue
		}
		rel := p.engine.RelativeDayIndex(p.progStore, prog.Key, today)
		if rel < 1 {
			continue
		}
		for i := 0; i < prog.TaskCount(rel); i++ {
			p.rows = append(p.rows, programRow{kind: rowTask, key: prog.Key, taskIndex: i})
		}
	}

	if p.cursor >= len(p.rows) {
		p.cursor = max(0, len(p.rows)-1)
	}
}

// SetSize sets the pane dimensions.
func (p *ProgramsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *ProgramsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *ProgramsPane) IsFocused() bool {
	return p.focused
}

// selectedRow returns the row under the cursor, or nil if the list is empty.
func (p *ProgramsPane) selectedRow() *programRow {
	if len(p.rows) == 0 || p.cursor < 0 || p.cursor >= len(p.rows) {
		return nil
	}
	return &p.rows[p.cursor]
}

// isStarted reports whether the program under key has persisted state.
func (p *ProgramsPane) isStarted(key string) bool {
	return p.progStore != nil && p.progStore.Programs[key] != nil
}

// Update handles messages for the programs pane.
func (p *ProgramsPane) Update(msg tea.Msg) tea.Cmd {
	// Handle async messages first
	switch msg := msg.(type) {
	case programsLoadedMsg:
		if msg.store != nil {
			p.setProgramsStore(msg.store)
		}
		return nil

	case programStartedMsg, programResetMsg, taskToggledMsg, dayMarkedMsg:
		// Reload to refresh progress state
		return p.LoadProgramsCmd()
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.rows) > 0 {
				p.cursor = min(p.cursor+1, len(p.rows)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.rows) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.rows) > 0 {
				p.cursor = len(p.rows) - 1
			}

		case key.Matches(msg, p.keys.Start):
			if row := p.selectedRow(); row != nil && row.kind == rowProgram && !p.isStarted(row.key) {
				return startProgramCmd(p.storage, row.key)
			}

		case key.Matches(msg, p.keys.Reset):
			// The app intercepts this for confirmation when enabled; reaching
			// here means confirmations are off.
			if row := p.selectedRow(); row != nil && row.kind == rowProgram && p.isStarted(row.key) {
				return resetProgramCmd(p.storage, row.key)
			}

		case key.Matches(msg, p.keys.MarkDay):
			if row := p.selectedRow(); row != nil && p.isStarted(row.key) {
				return markDayCmd(p.engine, row.key, p.storage.TodayKey())
			}

		case key.Matches(msg, p.keys.Toggle):
			if row := p.selectedRow(); row != nil && row.kind == rowTask {
				return toggleTaskCmd(p.engine, row.key, p.storage.TodayKey(), row.taskIndex)
			}
		}
	}

	return nil
}

// View renders the programs pane.
func (p *ProgramsPane) View() string {
	var b strings.Builder

	title := p.styles.PaneTitleStyle.Render("📋 PROGRAMS")
	b.WriteString(title)
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	today := p.storage.TodayKey()

	// Window the rows to the available height.
	maxRows := p.height - 4
	if maxRows < 3 {
		maxRows = 5
	}
	startIdx := 0
	if p.cursor >= maxRows {
		startIdx = p.cursor - maxRows + 1
	}

	for i, row := range p.rows {
		if i < startIdx || i >= startIdx+maxRows {
			continue
		}

		var line string
		switch row.kind {
		case rowProgram:
			line = p.renderProgramRow(row.key, today)
		case rowTask:
			line = p.renderTaskRow(row.key, row.taskIndex, today)
		}

		if i == p.cursor && p.focused {
			line = p.styles.ProgramSelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(content)
}

// renderProgramRow formats a program header with its progress summary.
func (p *ProgramsPane) renderProgramRow(key, today string) string {
	prog, err := p.storage.Catalog().Get(key)
	if err != nil {
		return ""
	}

	if !p.isStarted(key) {
		label := fmt.Sprintf(" %s %s (%d days)", prog.Icon, prog.Title, prog.Duration())
		return p.styles.ProgramInactiveStyle.Render(label)
	}

	nowTime := p.engine.Now()
	pct := p.engine.Percent(p.progStore, key, nowTime)
	streak := p.engine.Streak(p.progStore, key, nowTime)
	rel := p.engine.RelativeDayIndex(p.progStore, key, today)

	title := p.styles.ProgramTitleStyle.Render(fmt.Sprintf("%s %s", prog.Icon, prog.Title))

	var status string
	if rel >= 1 {
		status = fmt.Sprintf("day %d/%d", rel, prog.Duration())
	} else if pct >= 100 {
		status = "finished"
	} else {
		status = "ended"
	}

	summary := p.styles.StatLabelStyle.Render(status) +
		" " + p.styles.PercentStyle.Render(fmt.Sprintf("%d%%", pct))
	if streak > 0 {
		summary += " " + p.styles.StreakStyle.Render(fmt.Sprintf("🔥%d", streak))
	}

	return " " + title + "  " + summary
}

// renderTaskRow formats one of today's tasks for an active program.
func (p *ProgramsPane) renderTaskRow(key string, index int, today string) string {
	tasks, done := p.engine.TasksForDate(p.progStore, key, today)
	if index < 0 || index >= len(tasks) {
		return ""
	}

	checkbox := p.styles.CheckboxPending
	textStyle := p.styles.TodoPendingStyle
	if done[index] {
		checkbox = p.styles.CheckboxDone
		textStyle = p.styles.TodoDoneStyle
	}
	return "   " + checkbox + " " + textStyle.Render(tasks[index].Label)
}

// TodayStats returns completed and total task counts for today across all
// active programs.
func (p *ProgramsPane) TodayStats() (done, total int) {
	if p.progStore == nil {
		return 0, 0
	}
	today := p.storage.TodayKey()
	for _, prog := range p.storage.Catalog().List() {
		if p.progStore.Programs[prog.Key] == nil {
			continue
		}
		tasks, doneSet := p.engine.TasksForDate(p.progStore, prog.Key, today)
		total += len(tasks)
		done += len(doneSet)
	}
	return done, total
}
