// Package ui provides terminal user interface components for the rutina app.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"rutina/internal/config"
	"rutina/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TodoPane handles the to-do list display and interactions. Program-derived
// entries are shown alongside user entries; the daily sync keeps them fresh.
type TodoPane struct {
	todos   []storage.Todo
	cursor  int
	focused bool
	width   int
	height  int
	adding  bool
	input   textinput.Model
	storage *storage.Storage
	styles  *Styles

	// Key bindings
	keys      TodoKeyMap
	inputKeys InputKeyMap
}

// NewTodoPane creates a new to-do pane.
func NewTodoPane(store *storage.Storage, styles *Styles) *TodoPane {
	return NewTodoPaneWithKeys(store, styles, &config.KeysConfig{})
}

// NewTodoPaneWithKeys creates a new to-do pane with custom key bindings.
func NewTodoPaneWithKeys(store *storage.Storage, styles *Styles, keyCfg *config.KeysConfig) *TodoPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200
	ti.Width = 40

	return &TodoPane{
		todos:     []storage.Todo{},
		cursor:    0,
		focused:   false,
		input:     ti,
		storage:   store,
		styles:    styles,
		keys:      NewTodoKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// LoadTodosCmd returns a command that loads to-dos asynchronously.
func (p *TodoPane) LoadTodosCmd() tea.Cmd {
	return loadTodosCmd(p.storage)
}

// setTodos updates the list, sorts pending before done, and adjusts the
// cursor bounds. Relative order within each group is preserved.
func (p *TodoPane) setTodos(todos []storage.Todo) {
	sorted := make([]storage.Todo, len(todos))
	copy(sorted, todos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return !sorted[i].Done && sorted[j].Done
	})
	p.todos = sorted
	if p.cursor >= len(p.todos) {
		p.cursor = max(0, len(p.todos)-1)
	}
}

// SetSize sets the pane dimensions.
func (p *TodoPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-4)
}

// SetFocused sets whether this pane is focused.
func (p *TodoPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TodoPane) IsFocused() bool {
	return p.focused
}

// IsAdding returns whether we're in add mode.
func (p *TodoPane) IsAdding() bool {
	return p.adding
}

// Update handles messages for the to-do pane.
func (p *TodoPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	// Handle async messages first
	switch msg := msg.(type) {
	case todosLoadedMsg:
		if msg.todos != nil {
			p.setTodos(msg.todos)
		}
		return nil

	case todoAddedMsg:
		if msg.err == nil {
			return p.LoadTodosCmd()
		}
		return nil

	case todoToggledMsg, todoDeletedMsg:
		return p.LoadTodosCmd()
	}

	// If we're adding a to-do, handle input
	if p.adding {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				text := strings.TrimSpace(p.input.Value())
				p.adding = false
				p.input.Reset()
				if text != "" {
					return addTodoCmd(p.storage, text)
				}
				return nil

			case key.Matches(msg, p.inputKeys.Cancel):
				p.adding = false
				p.input.Reset()
				return nil
			}
		}

		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	// Normal mode
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.todos) > 0 {
				p.cursor = min(p.cursor+1, len(p.todos)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.todos) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.todos) > 0 {
				p.cursor = len(p.todos) - 1
			}

		case key.Matches(msg, p.keys.Add):
			p.adding = true
			p.input.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.Toggle):
			if len(p.todos) > 0 && p.cursor < len(p.todos) {
				return toggleTodoCmd(p.storage, p.todos[p.cursor].ID)
			}

		case key.Matches(msg, p.keys.Delete):
			if len(p.todos) > 0 && p.cursor < len(p.todos) {
				return deleteTodoCmd(p.storage, p.todos[p.cursor].ID)
			}
		}
	}

	return nil
}

// View renders the to-do pane.
func (p *TodoPane) View() string {
	var b strings.Builder

	title := p.styles.PaneTitleStyle.Render("✅ TO-DOS")
	b.WriteString(title)
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.todos) == 0 && !p.adding {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  Nothing here. Press 'a' to add a to-do."))
		b.WriteString("\n")
	} else {
		maxTodos := p.height - 6
		if maxTodos < 3 {
			maxTodos = 5
		}

		startIdx := 0
		if p.cursor >= maxTodos {
			startIdx = p.cursor - maxTodos + 1
		}

		doneCount := 0
		for i, todo := range p.todos {
			if todo.Done {
				doneCount++
			}

			if i < startIdx || i >= startIdx+maxTodos {
				continue
			}

			var checkbox string
			if todo.Done {
				checkbox = p.styles.CheckboxDone
			} else {
				checkbox = p.styles.CheckboxPending
			}

			availableTextWidth := p.width - 10
			if availableTextWidth < 5 {
				availableTextWidth = 5
			}
			text := runewidth.Truncate(todo.Text, availableTextWidth, "..")

			var line string
			if i == p.cursor && p.focused && !p.adding {
				line = p.styles.TodoSelectedStyle.Render(" " + checkbox + " " + text + " ")
			} else {
				var styledText string
				if todo.Done {
					styledText = p.styles.TodoDoneStyle.Render(text)
				} else {
					styledText = p.styles.TodoPendingStyle.Render(text)
				}
				line = " " + checkbox + " " + styledText
			}

			b.WriteString(line)
			b.WriteString("\n")
		}

		// Stats
		b.WriteString("\n")
		stats := p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d complete", doneCount, len(p.todos)))
		b.WriteString("  " + stats)
		b.WriteString("\n")
	}

	// Input field when adding
	if p.adding {
		b.WriteString("\n")
		prompt := p.styles.InputPromptStyle.Render("+ ")
		b.WriteString(prompt + p.input.View())
		b.WriteString("\n")
	}

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(content)
}

// Stats returns to-do statistics.
func (p *TodoPane) Stats() (done, total int) {
	for _, todo := range p.todos {
		if todo.Done {
			done++
		}
	}
	return done, len(p.todos)
}
