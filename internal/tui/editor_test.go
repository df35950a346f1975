package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/josuanbn/bl2u1/internal/filament"
)

func testEditor() Editor {
	return NewEditor([]filament.Filament{
		{ID: "1", Color: "#FFAA00", Type: "PLA"},
		{ID: "2", Color: "#00FF00", Type: "PETG"},
		{ID: "3", Color: "#0000FF", Type: "ABS"},
	}, []string{"PLA", "PETG", "ABS", "TPU"})
}

// press runs one message through Update and returns the resulting editor.
func press(t *testing.T, e Editor, msg tea.Msg) Editor {
	t.Helper()
	m, _ := e.Update(msg)
	ed, ok := m.(Editor)
	if !ok {
		t.Fatalf("Update returned %T, want Editor", m)
	}
	return ed
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewEditor(t *testing.T) {
	t.Parallel()

	e := testEditor()
	if len(e.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(e.Rows))
	}
	for i, r := range e.Rows {
		if !r.Keep {
			t.Errorf("Rows[%d].Keep = false, want true", i)
		}
	}
	if e.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", e.Cursor)
	}
	if e.Confirmed {
		t.Error("Confirmed should start false")
	}
}

func TestNavigation(t *testing.T) {
	t.Parallel()

	t.Run("down advances the cursor", func(t *testing.T) {
		t.Parallel()
		e := press(t, testEditor(), tea.KeyMsg{Type: tea.KeyDown})
		if e.Cursor != 1 {
			t.Errorf("Cursor = %d, want 1", e.Cursor)
		}
	})

	t.Run("up from the top wraps to the bottom", func(t *testing.T) {
		t.Parallel()
		e := press(t, testEditor(), tea.KeyMsg{Type: tea.KeyUp})
		if e.Cursor != 2 {
			t.Errorf("Cursor = %d, want 2", e.Cursor)
		}
	})

	t.Run("down from the bottom wraps to the top", func(t *testing.T) {
		t.Parallel()
		e := testEditor()
		e.Cursor = 2
		e = press(t, e, tea.KeyMsg{Type: tea.KeyDown})
		if e.Cursor != 0 {
			t.Errorf("Cursor = %d, want 0", e.Cursor)
		}
	})

	t.Run("j and k also navigate", func(t *testing.T) {
		t.Parallel()
		e := press(t, testEditor(), runeKey('j'))
		if e.Cursor != 1 {
			t.Fatalf("Cursor after j = %d, want 1", e.Cursor)
		}
		e = press(t, e, runeKey('k'))
		if e.Cursor != 0 {
			t.Errorf("Cursor after k = %d, want 0", e.Cursor)
		}
	})
}

func TestToggleKeep(t *testing.T) {
	t.Parallel()

	e := press(t, testEditor(), tea.KeyMsg{Type: tea.KeySpace})
	if e.Rows[0].Keep {
		t.Fatal("Rows[0].Keep = true after toggle, want false")
	}
	e = press(t, e, tea.KeyMsg{Type: tea.KeySpace})
	if !e.Rows[0].Keep {
		t.Error("Rows[0].Keep = false after second toggle, want true")
	}
}

func TestCycleType(t *testing.T) {
	t.Parallel()

	t.Run("cycles through the catalog with wraparound", func(t *testing.T) {
		t.Parallel()
		e := testEditor()
		for _, want := range []string{"PETG", "ABS", "TPU", "PLA"} {
			e = press(t, e, runeKey('t'))
			if got := e.Rows[0].Type; got != want {
				t.Fatalf("Rows[0].Type = %q, want %q", got, want)
			}
		}
	})

	t.Run("unknown type snaps to the first entry", func(t *testing.T) {
		t.Parallel()
		e := NewEditor([]filament.Filament{{ID: "1", Color: "#FFFFFF", Type: "SILK"}},
			[]string{"PLA", "PETG"})
		e = press(t, e, runeKey('t'))
		if got := e.Rows[0].Type; got != "PLA" {
			t.Errorf("Rows[0].Type = %q, want PLA", got)
		}
	})

	t.Run("no-op without catalog types", func(t *testing.T) {
		t.Parallel()
		e := NewEditor([]filament.Filament{{ID: "1", Color: "#FFFFFF", Type: "PLA"}}, nil)
		e = press(t, e, runeKey('t'))
		if got := e.Rows[0].Type; got != "PLA" {
			t.Errorf("Rows[0].Type = %q, want PLA", got)
		}
	})
}

func TestColorEditing(t *testing.T) {
	t.Parallel()

	t.Run("c opens the input prefilled with the current color", func(t *testing.T) {
		t.Parallel()
		e := press(t, testEditor(), runeKey('c'))
		if !e.Editing {
			t.Fatal("Editing = false after c, want true")
		}
		if got := e.Input.Value(); got != "#FFAA00" {
			t.Errorf("Input.Value() = %q, want %q", got, "#FFAA00")
		}
	})

	t.Run("enter commits the normalized color", func(t *testing.T) {
		t.Parallel()
		e := press(t, testEditor(), runeKey('c'))
		e.Input.SetValue("ff0000")
		e = press(t, e, tea.KeyMsg{Type: tea.KeyEnter})
		if e.Editing {
			t.Fatal("Editing = true after enter, want false")
		}
		if got := e.Rows[0].Color; got != "#FF0000" {
			t.Errorf("Rows[0].Color = %q, want #FF0000", got)
		}
	})

	t.Run("esc abandons the edit", func(t *testing.T) {
		t.Parallel()
		e := press(t, testEditor(), runeKey('c'))
		e.Input.SetValue("123456")
		e = press(t, e, tea.KeyMsg{Type: tea.KeyEscape})
		if e.Editing {
			t.Fatal("Editing = true after esc, want false")
		}
		if got := e.Rows[0].Color; got != "#FFAA00" {
			t.Errorf("Rows[0].Color = %q, want unchanged #FFAA00", got)
		}
	})

	t.Run("empty input keeps the current color", func(t *testing.T) {
		t.Parallel()
		e := press(t, testEditor(), runeKey('c'))
		e.Input.SetValue("")
		e = press(t, e, tea.KeyMsg{Type: tea.KeyEnter})
		if got := e.Rows[0].Color; got != "#FFAA00" {
			t.Errorf("Rows[0].Color = %q, want unchanged #FFAA00", got)
		}
	})

	t.Run("typed runes flow into the input, not the table", func(t *testing.T) {
		t.Parallel()
		e := press(t, testEditor(), runeKey('c'))
		e.Input.SetValue("")
		e = press(t, e, runeKey('t'))
		if got := e.Input.Value(); got != "t" {
			t.Errorf("Input.Value() = %q, want %q", got, "t")
		}
		if got := e.Rows[0].Type; got != "PLA" {
			t.Errorf("Rows[0].Type = %q, type cycling should be suspended", got)
		}
	})
}

func TestConfirmAndQuit(t *testing.T) {
	t.Parallel()

	t.Run("enter confirms and quits", func(t *testing.T) {
		t.Parallel()
		m, cmd := testEditor().Update(tea.KeyMsg{Type: tea.KeyEnter})
		e := m.(Editor)
		if !e.Confirmed {
			t.Error("Confirmed = false after enter, want true")
		}
		if cmd == nil {
			t.Fatal("expected a quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg, got %T", cmd())
		}
	})

	t.Run("q quits without confirming", func(t *testing.T) {
		t.Parallel()
		m, cmd := testEditor().Update(runeKey('q'))
		e := m.(Editor)
		if e.Confirmed {
			t.Error("Confirmed = true after q, want false")
		}
		if cmd == nil {
			t.Fatal("expected a quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg, got %T", cmd())
		}
	})
}

func TestEdits(t *testing.T) {
	t.Parallel()

	t.Run("cancelled editor returns nothing", func(t *testing.T) {
		t.Parallel()
		edits, ok := testEditor().Edits()
		if ok {
			t.Error("ok = true for unconfirmed editor, want false")
		}
		if edits != nil {
			t.Errorf("edits = %v, want nil", edits)
		}
	})

	t.Run("confirmed editor returns the kept rows", func(t *testing.T) {
		t.Parallel()
		e := testEditor()
		e.Rows[1].Keep = false
		e.Rows[2].Color = "#ABCDEF"
		e.Confirmed = true

		edits, ok := e.Edits()
		if !ok {
			t.Fatal("ok = false for confirmed editor, want true")
		}
		want := map[string]filament.Edit{
			"1": {Color: "#FFAA00", Type: "PLA"},
			"3": {Color: "#ABCDEF", Type: "ABS"},
		}
		if diff := cmp.Diff(want, edits); diff != "" {
			t.Errorf("edits mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestView(t *testing.T) {
	t.Parallel()

	t.Run("lists every filament with the footer hints", func(t *testing.T) {
		t.Parallel()
		view := testEditor().View()
		for _, substr := range []string{"#FFAA00", "#00FF00", "#0000FF", "PLA", "PETG", "ABS", "space", "enter"} {
			if !strings.Contains(view, substr) {
				t.Errorf("view missing %q:\n%s", substr, view)
			}
		}
	})

	t.Run("dropped rows show the drop icon", func(t *testing.T) {
		t.Parallel()
		e := testEditor()
		e.Rows[1].Keep = false
		view := e.View()
		if !strings.Contains(view, iconDrop) {
			t.Errorf("view missing drop icon:\n%s", view)
		}
	})

	t.Run("active color input appears in the view", func(t *testing.T) {
		t.Parallel()
		e := press(t, testEditor(), runeKey('c'))
		if view := e.View(); !strings.Contains(view, "color: ") {
			t.Errorf("view missing input prompt:\n%s", view)
		}
	})
}
