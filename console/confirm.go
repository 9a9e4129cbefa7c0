package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmKeys struct {
	Submit    key.Binding
	Cancel    key.Binding
	Backspace key.Binding
}

// ctrl+j is a bare line feed, which is what piped input ends lines with.
var defaultConfirmKeys = confirmKeys{
	Submit:    key.NewBinding(key.WithKeys("enter", "ctrl+j")),
	Cancel:    key.NewBinding(key.WithKeys("esc", "ctrl+c", "ctrl+d")),
	Backspace: key.NewBinding(key.WithKeys("backspace")),
}

// ErrInputClosed is returned when the input ends before any answer was typed.
var ErrInputClosed = errors.New("input closed before an answer was given")

// inputClosedMsg is sent once the input reader reaches EOF.
type inputClosedMsg struct{}

// confirmModel reads one line. Only "y" (any case, surrounding blanks
// ignored) confirms.
type confirmModel struct {
	question string
	keys     confirmKeys
	input    []rune
	accepted bool
	done     bool
	closed   bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question, keys: defaultConfirmKeys}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}
	switch msg := msg.(type) {
	case inputClosedMsg:
		// A partial line still counts as the answer.
		if len(m.input) > 0 {
			return m.submit()
		}
		m.closed, m.done = true, true
		return m, tea.Quit
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.Cancel):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Backspace):
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
			m.input = append(m.input, msg.Runes...)
		}
	}
	return m, nil
}

func (m confirmModel) submit() (tea.Model, tea.Cmd) {
	m.accepted = strings.ToLower(strings.TrimSpace(string(m.input))) == "y"
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	line := questionStyle.Render(m.question) + " " + string(m.input)
	if m.done {
		return line + "\n"
	}
	return line
}

// Confirmer asks yes/no questions on a terminal. Each call blocks until the
// operator answers; there is no timeout.
type Confirmer struct {
	in  io.Reader
	out io.Writer
}

func NewConfirmer(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: in, out: out}
}

func (c *Confirmer) Confirm(ctx context.Context, question string) (bool, error) {
	in := &eofNotifier{r: c.in}
	p := tea.NewProgram(newConfirmModel(question),
		tea.WithInput(in),
		tea.WithOutput(c.out),
		tea.WithContext(ctx),
	)
	in.onEOF = func() { p.Send(inputClosedMsg{}) }
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model %T", final)
	}
	if m.closed {
		return false, ErrInputClosed
	}
	return m.accepted, nil
}

// eofNotifier calls onEOF the first time the wrapped reader reports io.EOF.
// Bytes read together with EOF are returned first and EOF is reported on
// the next call.
type eofNotifier struct {
	r       io.Reader
	onEOF   func()
	once    sync.Once
	pending bool
}

func (e *eofNotifier) Read(p []byte) (int, error) {
	if e.pending {
		return 0, e.eof()
	}
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) {
		if n > 0 {
			e.pending = true
			return n, nil
		}
		return 0, e.eof()
	}
	return n, err
}

func (e *eofNotifier) eof() error {
	if e.onEOF != nil {
		e.once.Do(e.onEOF)
	}
	return io.EOF
}
