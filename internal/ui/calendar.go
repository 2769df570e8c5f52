// Package ui provides terminal user interface components for the rutina app.
package ui

import (
	"fmt"
	"strings"
	"time"

	"rutina/internal/config"
	"rutina/internal/dateutil"
	"rutina/internal/progress"
	"rutina/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CalendarPane renders a month grid where each day is colored by the
// aggregate completion status across all active programs.
type CalendarPane struct {
	progStore *storage.ProgramsStore
	year      int
	month     time.Month
	focused   bool
	width     int
	height    int
	storage   *storage.Storage
	engine    *progress.Engine
	styles    *Styles

	// Key bindings
	keys CalendarKeyMap
}

// NewCalendarPane creates a new calendar pane showing the current month.
func NewCalendarPane(store *storage.Storage, engine *progress.Engine, styles *Styles) *CalendarPane {
	return NewCalendarPaneWithKeys(store, engine, styles, &config.KeysConfig{})
}

// NewCalendarPaneWithKeys creates a new calendar pane with custom key bindings.
func NewCalendarPaneWithKeys(store *storage.Storage, engine *progress.Engine, styles *Styles, keyCfg *config.KeysConfig) *CalendarPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	now := store.Now()
	return &CalendarPane{
		storage: store,
		engine:  engine,
		styles:  styles,
		year:    now.Year(),
		month:   now.Month(),
		keys:    NewCalendarKeyMap(keyCfg),
	}
}

// LoadProgramsCmd returns a command that loads program state asynchronously.
func (p *CalendarPane) LoadProgramsCmd() tea.Cmd {
	return loadProgramsCmd(p.storage)
}

// SetSize sets the pane dimensions.
func (p *CalendarPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *CalendarPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *CalendarPane) IsFocused() bool {
	return p.focused
}

// Month returns the displayed year and month.
func (p *CalendarPane) Month() (int, time.Month) {
	return p.year, p.month
}

// prevMonth moves the view one month back.
func (p *CalendarPane) prevMonth() {
	p.month--
	if p.month < time.January {
		p.month = time.December
		p.year--
	}
}

// nextMonth moves the view one month forward.
func (p *CalendarPane) nextMonth() {
	p.month++
	if p.month > time.December {
		p.month = time.January
		p.year++
	}
}

// Update handles messages for the calendar pane.
func (p *CalendarPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case programsLoadedMsg:
		if msg.store != nil {
			p.progStore = msg.store
		}
		return nil
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.PrevMonth):
			p.prevMonth()
		case key.Matches(msg, p.keys.NextMonth):
			p.nextMonth()
		}
	}

	return nil
}

// View renders the calendar pane.
func (p *CalendarPane) View() string {
	var b strings.Builder

	title := p.styles.PaneTitleStyle.Render("📅 CALENDAR")
	b.WriteString(title)
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	// Month heading
	monthLabel := fmt.Sprintf("%s %d", p.month.String(), p.year)
	b.WriteString(" " + p.styles.StatValueStyle.Render(monthLabel))
	b.WriteString("\n\n")

	// Weekday header, Sunday first
	b.WriteString(" " + p.styles.StatLabelStyle.Render("Su Mo Tu We Th Fr Sa"))
	b.WriteString("\n")

	b.WriteString(p.renderGrid())
	b.WriteString("\n")

	// Legend
	legend := " " +
		p.styles.DayAllStyle.Render("■") + p.styles.StatLabelStyle.Render(" all ") +
		p.styles.DaySomeStyle.Render("■") + p.styles.StatLabelStyle.Render(" some ") +
		p.styles.DayNoneStyle.Render("■") + p.styles.StatLabelStyle.Render(" missed")
	b.WriteString(legend)
	b.WriteString("\n")

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(content)
}

// renderGrid lays out the day cells week by week.
func (p *CalendarPane) renderGrid() string {
	var b strings.Builder

	now := p.engine.Now()
	todayKey := dateutil.Key(now)
	days := dateutil.DaysInMonth(p.year, p.month)
	firstWeekday := int(time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.Local).Weekday())

	b.WriteString(" ")
	b.WriteString(strings.Repeat("   ", firstWeekday))

	col := firstWeekday
	for day := 1; day <= days; day++ {
		dateKey := fmt.Sprintf("%04d-%02d-%02d", p.year, p.month, day)
		b.WriteString(p.renderDayCell(day, dateKey, todayKey, now))

		col++
		if col == 7 && day < days {
			b.WriteString("\n ")
			col = 0
		} else if day < days {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n")

	return b.String()
}

// renderDayCell styles one day number by its aggregate status. Today is
// always highlighted regardless of status.
func (p *CalendarPane) renderDayCell(day int, dateKey, todayKey string, now time.Time) string {
	cell := fmt.Sprintf("%2d", day)

	if dateKey == todayKey {
		return p.styles.DayTodayStyle.Render(cell)
	}

	status := progress.DayEmpty
	if p.progStore != nil {
		status = p.engine.DayStatus(p.progStore, dateKey, now)
	}

	switch status {
	case progress.DayAll:
		return p.styles.DayAllStyle.Render(cell)
	case progress.DaySome:
		return p.styles.DaySomeStyle.Render(cell)
	case progress.DayNone:
		return p.styles.DayNoneStyle.Render(cell)
	default:
		return p.styles.DayEmptyStyle.Render(cell)
	}
}
