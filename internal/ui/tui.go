// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist-go/internal/locale"
	"github.com/nibzard/tasklist-go/internal/session"
)

// RunTUI runs the interactive UI until the user quits or ctx is done.
// The first refresh is issued on start.
func RunTUI(ctx context.Context, ctrl *session.Controller, msgs locale.Messages) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := NewModel(ctx, ctrl, msgs)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

type focus int

const (
	focusInput focus = iota
	focusList
)

// changedMsg reports a controller state transition.
type changedMsg struct{}

// opDoneMsg reports that a controller operation returned.
type opDoneMsg struct {
	op  session.Op
	err error
}

// Model is the bubbletea model for the task list.
type Model struct {
	ctx  context.Context
	ctrl *session.Controller
	msgs locale.Messages

	keys    keyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model

	focus  focus
	cursor int
	snap   session.Snapshot
}

// NewModel returns a model bound to ctrl with the input focused.
func NewModel(ctx context.Context, ctrl *session.Controller, msgs locale.Messages) *Model {
	input := textinput.New()
	input.Placeholder = msgs.Placeholder
	input.CharLimit = 200
	input.Width = 48
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &Model{
		ctx:     ctx,
		ctrl:    ctrl,
		msgs:    msgs,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   input,
		spinner: s,
		snap:    ctrl.Snapshot(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForChange(m.ctrl.Changes()),
		m.runOp(session.OpRefresh),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case changedMsg:
		m.sync()
		return m, waitForChange(m.ctrl.Changes())
	case opDoneMsg:
		m.sync()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// A visible notice is modal.
	if _, ok := m.snap.Notice(); ok {
		if key.Matches(msg, m.keys.Dismiss) {
			m.ctrl.Dismiss()
			m.sync()
		}
		return m, nil
	}

	// The form and list are disabled while a storage call is outstanding.
	if m.snap.Loading() {
		return m, nil
	}

	if key.Matches(msg, m.keys.Focus) {
		m.switchFocus()
		return m, nil
	}

	if m.focus == focusInput {
		if key.Matches(msg, m.keys.Submit) {
			return m, m.runOp(session.OpAdd)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.ctrl.SetInput(m.input.Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		return m, m.runOp(session.OpToggle)
	case key.Matches(msg, m.keys.Delete):
		return m, m.runOp(session.OpDelete)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.runOp(session.OpRefresh)
	}
	return m, nil
}

func (m *Model) switchFocus() {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

// runOp returns a command running op against the selected task. It returns
// nil when op needs a selection and the list is empty.
func (m *Model) runOp(op session.Op) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	var id int64
	if op == session.OpToggle || op == session.OpDelete {
		if len(m.snap.Tasks) == 0 {
			return nil
		}
		id = m.snap.Tasks[m.cursor].ID
	}

	return func() tea.Msg {
		var err error
		switch op {
		case session.OpRefresh:
			err = ctrl.Refresh(ctx)
		case session.OpAdd:
			err = ctrl.Add(ctx)
		case session.OpToggle:
			err = ctrl.Toggle(ctx, id)
		case session.OpDelete:
			err = ctrl.Delete(ctx, id)
		}
		return opDoneMsg{op: op, err: err}
	}
}

// sync copies controller state into the view.
func (m *Model) sync() {
	m.snap = m.ctrl.Snapshot()
	if m.input.Value() != m.snap.Input {
		m.input.SetValue(m.snap.Input)
	}
	if m.cursor >= len(m.snap.Tasks) {
		m.cursor = len(m.snap.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m *Model) View() string {
	var b strings.Builder

	title := titleStyle.Render(m.msgs.Title)
	if m.snap.Loading() && !m.snap.ShowSpinner() {
		title += " " + m.spinner.View()
	}
	b.WriteString(title + "\n")
	b.WriteString(subtitleStyle.Render(m.msgs.Subtitle) + "\n\n")

	b.WriteString(m.input.View() + " " + labelStyle.Render(m.msgs.AddLabel) + "\n")

	if n, ok := m.snap.Notice(); ok {
		b.WriteString(m.renderNotice(n) + "\n")
	}

	switch {
	case m.snap.ShowSpinner():
		b.WriteString("\n" + m.spinner.View() + " " + m.msgs.Loading + "\n")
	case m.snap.ShowEmpty():
		b.WriteString(emptyStyle.Render(m.msgs.EmptyTitle) + "\n")
		b.WriteString(subtitleStyle.Render(m.msgs.EmptyHint) + "\n")
	default:
		b.WriteString("\n")
		for i, t := range m.snap.Tasks {
			b.WriteString(m.renderRow(i, t.Title, t.Completed, t.CreatedAt.Local().Format("2006-01-02")) + "\n")
		}
		b.WriteString(footerStyle.Render(m.msgs.Footer(m.snap.Counts())) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderRow(i int, title string, completed bool, date string) string {
	pointer := "  "
	if m.focus == focusList && i == m.cursor {
		pointer = cursorStyle.Render("> ")
	}
	box := "[ ]"
	if completed {
		box = "[x]"
		title = doneStyle.Render(title)
	}
	return fmt.Sprintf("%s%s %s  %s", pointer, box, title, dateStyle.Render(date))
}

func (m *Model) renderNotice(n session.Notice) string {
	body := noticeIcons[n.Kind] + " " + n.Message + "\n" + subtitleStyle.Render("enter: "+m.msgs.DismissHint)
	return noticeStyle(n.Kind).Render(body)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
