package forme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// fakeElement resolves validation with a fixed result.
type fakeElement struct {
	ValidationMemo
	name   string
	result Result
	calls  int
}

func (f *fakeElement) Render() View {
	return NewLabel(f.name, lipgloss.NewStyle())
}

func (f *fakeElement) Validate(d Dispatcher, done func(Result)) {
	f.calls++
	done(f.result)
}

// focusView is a minimal focusable control.
type focusView struct {
	FocusLink
	name string
}

func (v *focusView) Render() string        { return v.name }
func (v *focusView) CanReceiveFocus() bool { return true }
func (v *focusView) BecomeFocused() bool   { v.focused = true; return true }
func (v *focusView) ResignFocus()          { v.focused = false }

// focusElement renders a fresh focusView each time and remembers the last one.
type focusElement struct {
	name string
	last *focusView
}

func (e *focusElement) Render() View {
	e.last = &focusView{name: e.name}
	return e.last
}

// errView marks error decorations in slot listings.
type errView struct{ msg string }

func (v *errView) Render() string { return v.msg }

// testConfig separates every slot so tests can read the layout back.
func testConfig() Configuration {
	cfg := DefaultConfiguration()
	cfg.Separator = func(_ GroupStyle, isBorder bool) View {
		return &SeparatorView{Border: isBorder}
	}
	cfg.ErrorView = func(msg string) View { return &errView{msg: msg} }
	return cfg
}

// slots describes a stack's subviews: "border", "divider", "error:<msg>",
// or the rendered text of anything else.
func slots(v View) []string {
	s, ok := v.(*StackView)
	if !ok {
		panic(fmt.Sprintf("expected *StackView, got %T", v))
	}
	out := make([]string, 0, len(s.Subviews()))
	for _, sv := range s.Subviews() {
		switch sv := sv.(type) {
		case *SeparatorView:
			if sv.Border {
				out = append(out, "border")
			} else {
				out = append(out, "divider")
			}
		case *errView:
			out = append(out, "error:"+sv.msg)
		case *StackView:
			out = append(out, "group")
		default:
			out = append(out, sv.Render())
		}
	}
	return out
}
