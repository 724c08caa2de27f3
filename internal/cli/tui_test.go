package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/editor"
	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to m and returns the resulting model.
func press(t *testing.T, m EditorModel, keys ...tea.KeyMsg) EditorModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		em, ok := next.(EditorModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = em
	}
	return m
}

func newTestEditor(t *testing.T) (EditorModel, *editor.Store, string) {
	t.Helper()
	store := editor.NewStore()
	path := filepath.Join(t.TempDir(), "screen.json")
	m := NewEditorModel(context.Background(), store, nil, anchor.Default(), element.WhiteDisplay, path)
	return m, store, path
}

func TestEditorAddAndSelect(t *testing.T) {
	m, store, _ := newTestEditor(t)
	m = press(t, m, runeKey("t"), runeKey("b"), runeKey("i"))

	st := store.State()
	if st.Len() != 3 {
		t.Fatalf("got %d elements, want 3", st.Len())
	}
	if st.Selected != 3 {
		t.Errorf("selected = %d, want the last added element", st.Selected)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := store.State().Selected; got != 1 {
		t.Errorf("tab wraps to %d, want 1", got)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := store.State().Selected; got != 3 {
		t.Errorf("shift+tab wraps to %d, want 3", got)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := store.State().Selected; got != 0 {
		t.Errorf("esc left selection %d", got)
	}
}

func TestEditorEditsSelected(t *testing.T) {
	m, store, _ := newTestEditor(t)
	press(t, m,
		runeKey("b"),
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyShiftDown},
		runeKey("a"),
		runeKey("l"),
		runeKey("f"),
	)

	e, ok := store.State().SelectedElement()
	if !ok {
		t.Fatal("no selection after add")
	}
	if e.X != element.DefaultX+moveStep || e.Y != element.DefaultY+moveStepFast {
		t.Errorf("moved to %v,%v", e.X, e.Y)
	}
	if e.Anchor != anchor.TopMiddle {
		t.Errorf("anchor = %s, want tm", e.Anchor)
	}
	if e.Level != 2 {
		t.Errorf("level = %d, want 2", e.Level)
	}
	if e.IsFilled() {
		t.Error("f should make the button outlined")
	}
}

func TestEditorLevelWraps(t *testing.T) {
	m, store, _ := newTestEditor(t)
	press(t, m, runeKey("t"), runeKey("l"), runeKey("l"), runeKey("l"), runeKey("l"))

	e, _ := store.State().SelectedElement()
	if e.Level != 1 {
		t.Errorf("level = %d after a full cycle, want 1", e.Level)
	}
}

func TestEditorDeleteKeepsCounter(t *testing.T) {
	m, store, _ := newTestEditor(t)
	m = press(t, m, runeKey("t"), runeKey("t"), runeKey("d"))

	st := store.State()
	if st.Len() != 1 || st.Selected != 0 {
		t.Fatalf("after delete: %d elements, selected %d", st.Len(), st.Selected)
	}

	press(t, m, runeKey("i"))
	if got := store.State().Selected; got != 3 {
		t.Errorf("new element got id %d, want 3", got)
	}
}

func TestEditorSaveWorkspace(t *testing.T) {
	m, _, path := newTestEditor(t)
	m = press(t, m, runeKey("t"), runeKey("b"), runeKey("s"))

	if m.statusErr {
		t.Fatalf("save failed: %s", m.status)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	els, err := layoutio.ReadElements(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(els) != 2 || els[1].Kind != element.KindButton {
		t.Errorf("saved %v", els)
	}
}

func TestEditorWithoutClientIgnoresPublish(t *testing.T) {
	m, _, _ := newTestEditor(t)
	next, cmd := m.Update(runeKey("p"))
	if cmd != nil {
		t.Error("publish without a client should not start a command")
	}
	if next.(EditorModel).busy {
		t.Error("editor marked busy without a client")
	}
}

func TestEditorView(t *testing.T) {
	m, _, _ := newTestEditor(t)

	view := m.View()
	if !strings.Contains(view, "empty layout") {
		t.Errorf("empty view:\n%s", view)
	}

	m = press(t, m, runeKey("t"))
	view = m.View()
	for _, want := range []string{"text#1", "#", "Sample Text"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "p publish") {
		t.Error("publish help shown without a client")
	}
}

func TestEditorQuit(t *testing.T) {
	m, _, _ := newTestEditor(t)
	_, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
