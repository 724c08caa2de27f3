package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/api"
	"github.com/matzehuels/einkplacer/pkg/client"
	"github.com/matzehuels/einkplacer/pkg/editor"
	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

// Editor styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	canvasStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// Canvas preview size in terminal cells.
const (
	previewCols = 63
	previewRows = 18
)

// Movement steps in display pixels.
const (
	moveStep     = 1.0
	moveStepFast = 10.0
)

// =============================================================================
// EditorModel - Interactive layout editor
// =============================================================================

// publishedMsg reports the result of uploading the layout.
type publishedMsg struct {
	resp *api.SaveResponse
	err  error
}

// reloadedMsg reports the result of fetching the server layout.
type reloadedMsg struct{ err error }

// EditorModel is the bubbletea model for the terminal layout editor.
// All changes go through the editor store.
type EditorModel struct {
	ctx       context.Context
	store     *editor.Store
	client    *client.Client
	transform anchor.Transform
	palette   element.Palette
	path      string

	status    string
	statusErr bool
	busy      bool
}

// NewEditorModel creates an editor over store. cl may be nil, in which case
// publishing and reloading are unavailable.
func NewEditorModel(ctx context.Context, store *editor.Store, cl *client.Client, t anchor.Transform, p element.Palette, path string) EditorModel {
	return EditorModel{
		ctx:       ctx,
		store:     store,
		client:    cl,
		transform: t,
		palette:   p,
		path:      path,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case publishedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError("publish failed: %v", msg.err)
		} else {
			m.setStatus("%s (%s)", msg.resp.Message, msg.resp.Filename)
		}
	case reloadedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError("reload failed: %v", msg.err)
		} else {
			m.setStatus("loaded %s from %s", plural(m.store.State().Len(), "element"), m.client.BaseURL())
		}
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.store.State()
	sel, hasSel := st.SelectedElement()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "t":
		m.add(element.KindText)
	case "b":
		m.add(element.KindButton)
	case "i":
		m.add(element.KindImage)
	case "tab":
		m.cycleSelection(st, 1)
	case "shift+tab":
		m.cycleSelection(st, -1)
	case "esc":
		m.store.Dispatch(m.ctx, editor.Deselect{})
	case "up", "down", "left", "right":
		if hasSel {
			m.move(sel, msg.String(), moveStep)
		}
	case "shift+up", "shift+down", "shift+left", "shift+right":
		if hasSel {
			m.move(sel, strings.TrimPrefix(msg.String(), "shift+"), moveStepFast)
		}
	case "a":
		if hasSel {
			next := sel.Anchor.Next()
			m.store.Dispatch(m.ctx, editor.Update{ID: sel.ID, Patch: editor.Patch{Anchor: &next}})
			m.setStatus("%s anchored %s", sel, next.Label())
		}
	case "l":
		if hasSel && sel.Kind.HasLevel() {
			level := sel.Level%element.MaxLevel + 1
			m.store.Dispatch(m.ctx, editor.Update{ID: sel.ID, Patch: editor.Patch{Level: &level}})
		}
	case "f":
		if hasSel && sel.Kind == element.KindButton {
			m.store.Dispatch(m.ctx, editor.Update{ID: sel.ID, Patch: editor.Patch{Filled: element.Bool(!sel.IsFilled())}})
		}
	case "d", "delete", "backspace":
		if hasSel {
			m.store.Dispatch(m.ctx, editor.Delete{ID: sel.ID})
			m.setStatus("deleted %s", sel)
		}
	case "C":
		m.store.Dispatch(m.ctx, editor.Clear{})
		m.setStatus("cleared")
	case "s":
		m.saveWorkspace()
	case "p":
		if m.client == nil || m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus("publishing to %s", m.client.BaseURL())
		return m, m.publish(st.Elements)
	case "r":
		if m.client == nil || m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus("fetching from %s", m.client.BaseURL())
		return m, m.reload()
	}
	return m, nil
}

func (m *EditorModel) add(kind element.Kind) {
	e := m.store.Add(m.ctx, element.New(kind, anchor.TopLeft, element.DefaultLevel))
	m.store.Dispatch(m.ctx, editor.Select{ID: e.ID})
	m.setStatus("added %s", e)
}

func (m *EditorModel) cycleSelection(st editor.State, dir int) {
	n := st.Len()
	if n == 0 {
		return
	}
	idx := -1
	for i, e := range st.Elements {
		if e.ID == st.Selected {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && dir < 0:
		idx = n - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + dir + n) % n
	}
	m.store.Dispatch(m.ctx, editor.Select{ID: st.Elements[idx].ID})
}

func (m *EditorModel) move(e element.Element, dir string, step float64) {
	p := e.Position()
	switch dir {
	case "up":
		p.Y -= step
	case "down":
		p.Y += step
	case "left":
		p.X -= step
	case "right":
		p.X += step
	}
	m.store.Dispatch(m.ctx, editor.Move{ID: e.ID, To: p})
}

func (m *EditorModel) saveWorkspace() {
	f, err := os.Create(m.path)
	if err != nil {
		m.setError("save: %v", err)
		return
	}
	err = layoutio.WriteElements(f, m.store.Elements())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.setError("save: %v", err)
		return
	}
	m.setStatus("saved %s", m.path)
}

func (m EditorModel) publish(elements []element.Element) tea.Cmd {
	ctx, cl := m.ctx, m.client
	return func() tea.Msg {
		resp, err := cl.Save(ctx, elements)
		return publishedMsg{resp: resp, err: err}
	}
}

func (m EditorModel) reload() tea.Cmd {
	ctx, cl, store := m.ctx, m.client, m.store
	return func() tea.Msg {
		return reloadedMsg{err: cl.FetchInto(ctx, store)}
	}
}

func (m *EditorModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *EditorModel) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m EditorModel) View() string {
	st := m.store.State()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("einkplacer"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.path))
	b.WriteString("\n")
	help := "t/b/i add  tab select  ←↑↓→ move (shift ×10)  a anchor  l level  f fill  d delete  s save"
	if m.client != nil {
		help += "  p publish  r reload"
	}
	b.WriteString(listDimStyle.Render(help + "  q quit"))
	b.WriteString("\n")

	b.WriteString(canvasStyle.Render(m.preview(st)))
	b.WriteString("\n")

	if st.Len() > 0 {
		b.WriteString(elementsTable(st.Elements, m.transform, m.palette))
		b.WriteString("\n")
	} else {
		b.WriteString(listDimStyle.Render("  empty layout, press t, b or i to add an element"))
		b.WriteString("\n")
	}

	if sel, ok := st.SelectedElement(); ok {
		ap := sel.AnchorPosition(m.transform)
		b.WriteString(listSelectedStyle.Render(fmt.Sprintf("▸ %s", sel)))
		b.WriteString(listNormalStyle.Render(fmt.Sprintf("  display %.0f,%.0f  device %.0f,%.0f  %s",
			sel.X, sel.Y, ap.X, ap.Y, sel.Anchor.Label())))
		b.WriteString("\n")
	}

	if m.status != "" {
		if m.statusErr {
			b.WriteString(styleIconError.Render(iconError) + " " + m.status)
		} else {
			b.WriteString(styleIconInfo.Render(iconInfo) + " " + listDimStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// preview draws the elements as filled boxes on a coarse character grid of
// the display canvas. The selected element is drawn with '#'.
func (m EditorModel) preview(st editor.State) string {
	grid := make([][]rune, previewRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", previewCols))
	}

	d := m.transform.Display()
	cellW := d.Width / previewCols
	cellH := d.Height / previewRows

	for _, e := range st.Elements {
		mark := []rune(strings.ToUpper(string(e.Kind)[:1]))[0]
		if e.ID == st.Selected {
			mark = '#'
		}
		c0, r0 := int(e.X/cellW), int(e.Y/cellH)
		c1 := int((e.X+e.Width)/cellW) - 1
		r1 := int((e.Y+e.Height)/cellH) - 1
		for r := max(r0, 0); r <= min(max(r1, r0), previewRows-1); r++ {
			for c := max(c0, 0); c <= min(max(c1, c0), previewCols-1); c++ {
				grid[r][c] = mark
			}
		}
	}

	lines := make([]string, previewRows)
	for r, row := range grid {
		lines[r] = string(row)
	}
	return strings.Join(lines, "\n")
}
