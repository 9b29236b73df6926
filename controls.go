package forme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Bound controls subscribe to their Observable when created and write user
// edits back. The syncing flag is held only for the duration of a single
// view-to-value write so the echo from the Observable is ignored.

// SwitchView is a boolean toggle bound to an Observable[bool].
type SwitchView struct {
	FocusLink
	title   string
	on      bool
	value   *Observable[bool]
	token   Token
	syncing bool
	theme   Theme
}

func newSwitchView(title string, value *Observable[bool], theme Theme) *SwitchView {
	v := &SwitchView{title: title, on: value.Get(), value: value, theme: theme}
	v.token = value.Subscribe(func(b bool) {
		if v.syncing {
			return
		}
		v.on = b
	})
	return v
}

// On reports the displayed state.
func (v *SwitchView) On() bool { return v.on }

// Toggle flips the switch and writes the new state to the bound value.
func (v *SwitchView) Toggle() {
	v.on = !v.on
	v.syncing = true
	defer func() { v.syncing = false }()
	v.value.Set(v.on)
}

func (v *SwitchView) CanReceiveFocus() bool { return true }
func (v *SwitchView) BecomeFocused() bool   { v.focused = true; return true }
func (v *SwitchView) ResignFocus()          { v.focused = false }

// HandleKey toggles on space or enter.
func (v *SwitchView) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case " ", "space", "enter", "x":
		v.Toggle()
		return true
	}
	return false
}

func (v *SwitchView) Render() string {
	box := "[ ]"
	if v.on {
		box = "[x]"
	}
	st := v.theme.Base
	if v.focused {
		st = v.theme.Accent
	}
	return st.Render(box + " " + v.title)
}

func (v *SwitchView) Dispose() { v.value.Unsubscribe(v.token) }

// SegmentView is a single choice among a fixed set of options.
type SegmentView[T comparable] struct {
	FocusLink
	title   string
	items   []SegmentItem[T]
	index   int
	value   *Observable[T]
	token   Token
	syncing bool
	theme   Theme
}

func newSegmentView[T comparable](title string, items []SegmentItem[T], value *Observable[T], theme Theme) *SegmentView[T] {
	v := &SegmentView[T]{title: title, items: items, value: value, theme: theme}
	v.index = v.indexOf(value.Get())
	v.token = value.Subscribe(func(x T) {
		if v.syncing {
			return
		}
		v.index = v.indexOf(x)
	})
	return v
}

// indexOf panics when x is not one of the declared options: the form was
// built with a value it cannot display.
func (v *SegmentView[T]) indexOf(x T) int {
	for i, it := range v.items {
		if it.Value == x {
			return i
		}
	}
	panic(fmt.Sprintf("forme: segment %q: value %v is not among its options", v.title, x))
}

// Selected returns the index of the displayed option.
func (v *SegmentView[T]) Selected() int { return v.index }

// Select moves the selection to option i and writes its value.
func (v *SegmentView[T]) Select(i int) {
	if i < 0 || i >= len(v.items) || i == v.index {
		return
	}
	v.index = i
	v.syncing = true
	defer func() { v.syncing = false }()
	v.value.Set(v.items[i].Value)
}

func (v *SegmentView[T]) CanReceiveFocus() bool { return true }
func (v *SegmentView[T]) BecomeFocused() bool   { v.focused = true; return true }
func (v *SegmentView[T]) ResignFocus()          { v.focused = false }

// HandleKey moves the selection with left/right or h/l.
func (v *SegmentView[T]) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left", "h":
		v.Select(v.index - 1)
		return true
	case "right", "l":
		v.Select(v.index + 1)
		return true
	}
	return false
}

func (v *SegmentView[T]) Render() string {
	parts := make([]string, len(v.items))
	for i, it := range v.items {
		if i == v.index {
			parts[i] = v.theme.Accent.Reverse(true).Render(" " + it.Title + " ")
		} else {
			parts[i] = v.theme.Muted.Render(" " + it.Title + " ")
		}
	}
	title := v.theme.Base
	if v.focused {
		title = v.theme.Accent
	}
	line := strings.Join(parts, "|")
	if v.title == "" {
		return line
	}
	return title.Render(v.title) + " " + line
}

func (v *SegmentView[T]) Dispose() { v.value.Unsubscribe(v.token) }

// TextFieldView is an editable line of text backed by a bubbles textinput.
type TextFieldView struct {
	FocusLink
	title      string
	input      textinput.Model
	value      *Observable[string]
	continuous bool
	formatter  func(string) string
	token      Token
	syncing    bool
	theme      Theme
}

func newTextFieldView(title string, value *Observable[string], cfg TextConfig, theme Theme) *TextFieldView {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = cfg.Placeholder
	in.PlaceholderStyle = theme.Muted
	in.TextStyle = theme.Base
	if cfg.CharLimit > 0 {
		in.CharLimit = cfg.CharLimit
	}
	if cfg.Secure {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	in.SetValue(value.Get())

	v := &TextFieldView{
		title:      title,
		input:      in,
		value:      value,
		continuous: cfg.Continuous,
		formatter:  cfg.Formatter,
		theme:      theme,
	}
	v.token = value.Subscribe(func(s string) {
		if v.syncing {
			return
		}
		v.input.SetValue(s)
	})
	return v
}

// Text returns the text currently in the field, committed or not.
func (v *TextFieldView) Text() string { return v.input.Value() }

// SetText replaces the field's text as if typed, then commits it when the
// field updates continuously.
func (v *TextFieldView) SetText(s string) {
	v.input.SetValue(s)
	if v.continuous {
		v.commit()
	}
}

// commit runs the formatter and writes the text to the bound value.
func (v *TextFieldView) commit() {
	s := v.input.Value()
	if v.formatter != nil {
		if f := v.formatter(s); f != s {
			s = f
			v.input.SetValue(s)
		}
	}
	v.syncing = true
	defer func() { v.syncing = false }()
	v.value.Set(s)
}

func (v *TextFieldView) CanReceiveFocus() bool { return true }

func (v *TextFieldView) BecomeFocused() bool {
	v.focused = true
	v.input.Focus()
	return true
}

// ResignFocus ends editing; end-of-editing fields commit here.
func (v *TextFieldView) ResignFocus() {
	v.focused = false
	v.input.Blur()
	if !v.continuous {
		v.commit()
	}
}

// HandleKey feeds the key to the input. Enter commits.
func (v *TextFieldView) HandleKey(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEnter {
		v.commit()
		return true
	}
	v.input, _ = v.input.Update(msg)
	if v.continuous {
		v.commit()
	}
	return true
}

func (v *TextFieldView) Render() string {
	title := v.theme.Base
	if v.focused {
		title = v.theme.Accent
	}
	if v.title == "" {
		return v.input.View()
	}
	return title.Render(v.title+":") + " " + v.input.View()
}

func (v *TextFieldView) Dispose() { v.value.Unsubscribe(v.token) }

// SegueView is a navigation row that fires an action on Enter.
type SegueView struct {
	FocusLink
	title  string
	detail string
	action func()
	theme  Theme
}

func (v *SegueView) CanReceiveFocus() bool { return true }
func (v *SegueView) BecomeFocused() bool   { v.focused = true; return true }
func (v *SegueView) ResignFocus()          { v.focused = false }

// HandleKey runs the action on enter.
func (v *SegueView) HandleKey(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyEnter || v.action == nil {
		return false
	}
	v.action()
	return true
}

func (v *SegueView) Render() string {
	st := v.theme.Base
	if v.focused {
		st = v.theme.Accent
	}
	out := st.Render(v.title)
	if v.detail != "" {
		out += " " + v.theme.Muted.Render(v.detail)
	}
	return out + " " + v.theme.Muted.Render("›")
}
