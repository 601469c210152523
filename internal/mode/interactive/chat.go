// ABOUTME: Bubble Tea chat model over a session controller: prompt input, answer inputs, skip/submit
// ABOUTME: Controller events arrive through an eventbus channel; locked turns render read-only

package interactive

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/mauromedda/unpack/internal/commands"
	"github.com/mauromedda/unpack/internal/session"
)

// promptFocus marks the prompt line as the focused input.
const promptFocus = -1

type eventMsg session.Event

type sendDoneMsg struct{ err error }

type actionErrMsg struct{ err error }

// Options configure the chat.
type Options struct {
	Server        string // shown in the header
	MarkdownStyle string // glamour style; "" picks one from the terminal
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	ctrl   *session.Controller
	events <-chan session.Event
	cancel func()
	opts   Options

	input   []rune
	focus   int
	active  *session.ClarifyTurn
	sending bool
	pending map[string]bool
	status  string
	notice  string
	width   int

	commands *commands.Registry

	md     *markdownRenderer
	styles styles
}

// NewModel subscribes to ctrl's events. Call Close when done.
func NewModel(ctx context.Context, ctrl *session.Controller, opts Options) *Model {
	events, cancel := ctrl.Events().Channel(64)
	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		events:   events,
		cancel:   cancel,
		opts:     opts,
		focus:    promptFocus,
		pending:  make(map[string]bool),
		width:    80,
		commands: commands.NewRegistry(),
		md:       newMarkdownRenderer(opts.MarkdownStyle),
		styles:   defaultStyles(),
	}
}

// Close drops the event subscription.
func (m *Model) Close() {
	m.cancel()
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, ctrl *session.Controller, opts Options, progOpts ...tea.ProgramOption) error {
	m := NewModel(ctx, ctrl, opts)
	defer m.Close()

	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		return fmt.Errorf("bubble tea: %w", err)
	}
	ctrl.Wait()
	return nil
}

// Init starts listening for controller events.
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	events, done := m.events, m.ctx.Done()
	return func() tea.Msg {
		select {
		case ev := <-events:
			return eventMsg(ev)
		case <-done:
			return nil
		}
	}
}

// Update handles keys, window size and controller events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case eventMsg:
		m.applyEvent(session.Event(msg))
		return m, m.waitForEvent()

	case sendDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, nil

	case actionErrMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applyEvent(ev session.Event) {
	switch ev.Kind {
	case session.EventLoading:
		if ev.TurnID != "" {
			m.pending[ev.TurnID] = true
		}
	case session.EventLoaded:
		delete(m.pending, ev.TurnID)
	case session.EventTurnAdded:
		if ev.Turn.Kind == session.KindClarify && ev.Turn.Clarify != nil {
			m.active = ev.Turn.Clarify
			m.focus = 0
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil
	case "ctrl+k":
		return m, m.closeActive(false)
	case "enter":
		if m.focus == promptFocus || !m.answerable() {
			m.focus = promptFocus
			return m, m.send()
		}
		return m, m.closeActive(true)
	case "backspace":
		m.editFocused(func(r []rune) []rune {
			if len(r) == 0 {
				return r
			}
			return r[:len(r)-1]
		})
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		runes := msg.Runes
		if msg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		m.editFocused(func(r []rune) []rune { return append(r, runes...) })
	}
	return m, nil
}

// answerable reports whether the active turn still accepts answers.
func (m *Model) answerable() bool {
	return m.active != nil && !m.active.Locked()
}

func (m *Model) cycleFocus(step int) {
	if !m.answerable() {
		m.focus = promptFocus
		return
	}
	// Positions: prompt, then each question.
	n := len(m.active.Questions) + 1
	pos := (m.focus + 1 + step + n) % n
	m.focus = pos - 1
}

func (m *Model) editFocused(edit func([]rune) []rune) {
	m.status = ""
	if m.focus == promptFocus || !m.answerable() {
		m.focus = promptFocus
		m.input = edit(m.input)
		return
	}
	answers := m.active.Answers()
	next := string(edit([]rune(answers[m.focus])))
	if err := m.active.SetAnswer(m.focus, next); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) send() tea.Cmd {
	prompt := strings.TrimSpace(string(m.input))
	if prompt == "" || m.sending {
		return nil
	}
	m.input = nil
	m.notice = ""
	if commands.IsCommand(prompt) {
		return m.runCommand(prompt)
	}
	m.sending = true
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		_, err := ctrl.Send(ctx, prompt)
		return sendDoneMsg{err: err}
	}
}

// runCommand executes a slash command; its output replaces the notice line.
func (m *Model) runCommand(input string) tea.Cmd {
	quit := false
	ctx := &commands.CommandContext{
		Server:       m.opts.Server,
		Turns:        m.ctrl.Conversation().Len(),
		Overrides:    m.ctrl.Overrides(),
		SetOverrides: m.ctrl.SetOverrides,
		ExitFn:       func() { quit = true },
	}
	out, err := m.commands.Dispatch(ctx, input)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.notice = out
	if quit {
		return tea.Quit
	}
	return nil
}

// closeActive locks the active turn right away; the final request runs in the
// controller and reports back through events.
func (m *Model) closeActive(submit bool) tea.Cmd {
	if !m.answerable() {
		return nil
	}
	id := m.active.ID
	var err error
	if submit {
		err = m.ctrl.Submit(m.ctx, id)
	} else {
		err = m.ctrl.Skip(m.ctx, id)
	}
	m.focus = promptFocus
	if err != nil {
		return func() tea.Msg { return actionErrMsg{err: err} }
	}
	return nil
}

// View renders the transcript and the input line.
func (m *Model) View() string {
	var b strings.Builder
	header := "unpack"
	if m.opts.Server != "" {
		header += " · " + m.opts.Server
	}
	b.WriteString(m.styles.header.Render(header))
	b.WriteString("\n\n")

	for _, t := range m.ctrl.Conversation().Turns() {
		b.WriteString(m.renderTurn(t))
		b.WriteString("\n\n")
	}

	if m.sending {
		b.WriteString(m.styles.muted.Render("thinking…"))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.muted.Render(m.notice))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.styles.errorMsg.Render(m.status))
		b.WriteString("\n")
	}

	cursor := " "
	if m.focus == promptFocus {
		cursor = "█"
	}
	b.WriteString(m.styles.focused.Render("❯ "))
	b.WriteString(string(m.input) + cursor)
	b.WriteString("\n")
	b.WriteString(m.styles.hint.Render("enter: send/add context · tab: next field · ctrl+k: skip & continue · /help · esc: quit"))
	return b.String()
}

func (m *Model) contentWidth() int {
	return max(m.width-4, 20)
}

func (m *Model) renderTurn(t session.Turn) string {
	switch t.Kind {
	case session.KindUser:
		return m.styles.user.Render("› ") + t.Text
	case session.KindAnswer:
		return m.md.Render(t.Text, m.contentWidth())
	case session.KindError:
		return m.styles.errorMsg.Render(t.Text)
	case session.KindClarify:
		return m.renderClarify(t.Clarify)
	}
	return t.Text
}

func (m *Model) renderClarify(ct *session.ClarifyTurn) string {
	w := m.contentWidth() - 4
	locked := ct.Locked()
	isActive := ct == m.active && !locked
	answers := ct.Answers()

	var b strings.Builder
	b.WriteString(m.styles.message.Width(w).Render(ct.Message))
	for i, q := range ct.Questions {
		b.WriteString("\n\n")
		label := runewidth.Truncate(fmt.Sprintf("%d. %s", i+1, q), w, "…")
		answer := answers[i]
		switch {
		case locked:
			b.WriteString(m.styles.muted.Render(label))
			if strings.TrimSpace(answer) != "" {
				b.WriteString("\n" + m.styles.muted.Render("  "+answer))
			}
		case isActive && m.focus == i:
			b.WriteString(m.styles.focused.Render(label))
			b.WriteString("\n  " + m.styles.answer.Render(answer) + "█")
		default:
			b.WriteString(m.styles.question.Render(label))
			b.WriteString("\n  " + m.styles.answer.Render(answer))
		}
	}

	b.WriteString("\n\n")
	switch {
	case m.pending[ct.ID]:
		b.WriteString(m.styles.muted.Render("generating answer…"))
	case locked:
		b.WriteString(m.styles.summary.Render(ct.Summary()))
	default:
		b.WriteString(m.styles.hint.Render("enter: add context · ctrl+k: skip & continue"))
	}

	if locked {
		return m.styles.locked.Width(w + 2).Render(b.String())
	}
	return m.styles.card.Width(w + 2).Render(b.String())
}
