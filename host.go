package forme

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap holds the host-level bindings. Everything else goes to the
// focused control.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

// DefaultKeyMap binds Tab/Shift-Tab, Ctrl+S and Esc/Ctrl+C.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// Host runs a form inside a bubbletea program. The program's update loop is
// the form's main execution context: queued validation work is pulled into
// it as messages and drained there.
//
// usage:
//
//	host := NewHost(root, HostTitle("Sign up"), HostOnSubmit(save))
//	tea.NewProgram(host).Run()
type Host struct {
	ctrl     *Controller
	queue    *Queue
	keys     KeyMap
	title    string
	status   string
	theme    Theme
	onSubmit func(Result)
	busy     bool
}

// HostOption configures a Host.
type HostOption func(*Host)

func HostTitle(t string) HostOption { return func(h *Host) { h.title = t } }
func HostKeys(k KeyMap) HostOption  { return func(h *Host) { h.keys = k } }
func HostTheme(t Theme) HostOption  { return func(h *Host) { h.theme = t } }
func HostOnSubmit(fn func(Result)) HostOption {
	return func(h *Host) { h.onSubmit = fn }
}

type drainMsg struct{}

// NewHost renders root and focuses its first control.
func NewHost(root Element, opts ...HostOption) *Host {
	h := &Host{
		queue: NewQueue(),
		keys:  DefaultKeyMap(),
		theme: ThemeDark,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.ctrl = NewController(root, WithDispatcher(h.queue))
	h.ctrl.Reload()
	h.ctrl.FocusFirst()
	return h
}

// Controller returns the hosted controller.
func (h *Host) Controller() *Controller { return h.ctrl }

// Queue returns the host's main queue.
func (h *Host) Queue() *Queue { return h.queue }

// Status returns the status line text.
func (h *Host) Status() string { return h.status }

func (h *Host) waitForWork() tea.Cmd {
	return func() tea.Msg {
		<-h.queue.Ready()
		return drainMsg{}
	}
}

func (h *Host) Init() tea.Cmd {
	return h.waitForWork()
}

func (h *Host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case drainMsg:
		h.queue.Drain()
		return h, h.waitForWork()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, h.keys.Quit):
			return h, tea.Quit
		case key.Matches(msg, h.keys.Next):
			h.ctrl.FocusNext()
		case key.Matches(msg, h.keys.Prev):
			h.ctrl.FocusPrev()
		case key.Matches(msg, h.keys.Submit):
			h.submit()
		default:
			h.ctrl.HandleKey(msg)
		}
	}
	return h, nil
}

func (h *Host) submit() {
	if h.busy {
		return
	}
	// end editing so the field being typed in is committed before validation
	if f, ok := h.ctrl.Focused().(FocusableView); ok {
		f.ResignFocus()
		f.BecomeFocused()
	}
	h.busy = true
	h.status = "validating…"
	h.ctrl.Validate(func(r Result) {
		h.busy = false
		switch r.Kind {
		case ResultValid:
			h.status = "submitted"
		case ResultInvalid:
			h.status = "please fix the errors above"
		case ResultCancelled:
			h.status = ""
		}
		if h.onSubmit != nil {
			h.onSubmit(r)
		}
	})
}

func (h *Host) View() string {
	var b strings.Builder
	if h.title != "" {
		b.WriteString(h.theme.Accent.Render(h.title))
		b.WriteString("\n\n")
	}
	if v := h.ctrl.View(); v != nil {
		b.WriteString(v.Render())
		b.WriteString("\n")
	}
	if h.status != "" {
		b.WriteString("\n")
		b.WriteString(h.theme.Base.Render(h.status))
	}
	b.WriteString("\n")
	b.WriteString(h.help())
	return b.String()
}

func (h *Host) help() string {
	var parts []string
	for _, k := range []key.Binding{h.keys.Next, h.keys.Prev, h.keys.Submit, h.keys.Quit} {
		hp := k.Help()
		parts = append(parts, hp.Key+" "+hp.Desc)
	}
	return lipgloss.NewStyle().Inherit(h.theme.Muted).Render(strings.Join(parts, " • "))
}
