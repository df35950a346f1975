package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/josuanbn/bl2u1/internal/filament"
)

// Row is one editable filament line.
type Row struct {
	ID    string
	Color string
	Type  string
	Keep  bool
}

// Editor is the interactive filament editor. The user toggles which
// filaments to keep, recolors them, and cycles their type through the
// catalog before confirming the conversion.
type Editor struct {
	Rows      []Row
	Types     []string
	Cursor    int
	Keys      KeyMap
	Input     textinput.Model
	Editing   bool
	Confirmed bool
	Width     int
}

// NewEditor creates an editor with one row per filament, all kept.
func NewEditor(fils []filament.Filament, types []string) Editor {
	rows := make([]Row, len(fils))
	for i, f := range fils {
		rows[i] = Row{ID: f.ID, Color: f.Color, Type: f.Type, Keep: true}
	}

	ti := textinput.New()
	ti.Prompt = "color: "
	ti.Placeholder = "#RRGGBB"
	ti.CharLimit = 9

	return Editor{Rows: rows, Types: types, Keys: DefaultKeyMap(), Input: ti}
}

// Init implements tea.Model. The editor issues no initial command.
func (e Editor) Init() tea.Cmd { return nil }

// Update handles all messages.
func (e Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.Width = msg.Width
	case tea.KeyMsg:
		if e.Editing {
			return e.handleInputKey(msg)
		}
		return e.handleKey(msg)
	}
	return e, nil
}

func (e Editor) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, e.Keys.Quit):
		return e, tea.Quit

	case key.Matches(msg, e.Keys.Confirm):
		e.Confirmed = true
		return e, tea.Quit

	case key.Matches(msg, e.Keys.Up):
		e.moveUp()

	case key.Matches(msg, e.Keys.Down):
		e.moveDown()

	case key.Matches(msg, e.Keys.Toggle):
		e.toggleKeep()

	case key.Matches(msg, e.Keys.Color):
		if len(e.Rows) > 0 {
			e.Editing = true
			e.Input.SetValue(e.Rows[e.Cursor].Color)
			e.Input.CursorEnd()
			return e, e.Input.Focus()
		}

	case key.Matches(msg, e.Keys.Type):
		e.cycleType()
	}
	return e, nil
}

// handleInputKey routes keys to the color input while it is focused.
// Enter commits the normalized color, esc abandons the edit.
func (e Editor) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if val := strings.TrimSpace(e.Input.Value()); val != "" {
			e.Rows[e.Cursor].Color = filament.NormalizeColor(val)
		}
		e.Editing = false
		e.Input.Blur()
		return e, nil
	case tea.KeyEsc:
		e.Editing = false
		e.Input.Blur()
		return e, nil
	}

	var cmd tea.Cmd
	e.Input, cmd = e.Input.Update(msg)
	return e, cmd
}

// moveUp moves the cursor up, wrapping at the top.
func (e *Editor) moveUp() {
	if len(e.Rows) == 0 {
		return
	}
	e.Cursor--
	if e.Cursor < 0 {
		e.Cursor = len(e.Rows) - 1
	}
}

// moveDown moves the cursor down, wrapping at the bottom.
func (e *Editor) moveDown() {
	if len(e.Rows) == 0 {
		return
	}
	e.Cursor++
	if e.Cursor >= len(e.Rows) {
		e.Cursor = 0
	}
}

func (e *Editor) toggleKeep() {
	if len(e.Rows) == 0 {
		return
	}
	e.Rows[e.Cursor].Keep = !e.Rows[e.Cursor].Keep
}

// cycleType advances the row's type through the catalog types, wrapping.
// A type not in the catalog snaps to the first entry.
func (e *Editor) cycleType() {
	if len(e.Rows) == 0 || len(e.Types) == 0 {
		return
	}
	row := &e.Rows[e.Cursor]
	next := 0
	for i, typ := range e.Types {
		if typ == row.Type {
			next = (i + 1) % len(e.Types)
			break
		}
	}
	row.Type = e.Types[next]
}

// Edits returns the edit set for the kept rows and whether the user
// confirmed the conversion.
func (e Editor) Edits() (map[string]filament.Edit, bool) {
	if !e.Confirmed {
		return nil, false
	}
	edits := make(map[string]filament.Edit, len(e.Rows))
	for _, r := range e.Rows {
		if !r.Keep {
			continue
		}
		edits[r.ID] = filament.Edit{Color: r.Color, Type: r.Type}
	}
	return edits, true
}

// View renders the editor table, the color input when active, and the
// keybinding footer.
func (e Editor) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("bl2u1 filament editor"))
	b.WriteString("\n\n")
	b.WriteString(styleHeader.Render("  ID      COLOR      TYPE     KEEP"))
	b.WriteString("\n")

	for i, r := range e.Rows {
		indicator := "  "
		rowStyle := styleRowNormal
		if i == e.Cursor {
			indicator = styleSelectionIndicator.Render(selectionIndicator) + " "
			rowStyle = styleRowSelected
		}
		if !r.Keep {
			rowStyle = styleRowDropped
		}

		icon := styleKeep.Render(iconKeep)
		if !r.Keep {
			icon = styleDrop.Render(iconDrop)
		}

		b.WriteString(indicator)
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-4s", r.ID)))
		b.WriteString(swatch(r.Color))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %-9s %-8s ", r.Color, r.Type)))
		b.WriteString(icon)
		b.WriteString("\n")
	}

	if e.Editing {
		b.WriteString("\n")
		b.WriteString(e.Input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(e.footerView())
	return b.String()
}

// swatch renders a two-cell block in the filament's actual color.
func swatch(color string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

func (e Editor) footerView() string {
	bindings := []key.Binding{
		e.Keys.Up, e.Keys.Down, e.Keys.Toggle,
		e.Keys.Color, e.Keys.Type, e.Keys.Confirm, e.Keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, styleFooterKey.Render(h.Key)+" "+styleFooterDesc.Render(h.Desc))
	}
	return strings.Join(parts, styleFooterSep.Render(" · "))
}
