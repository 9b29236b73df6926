package forme

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View is a rendered piece of a form. Elements produce a fresh View on every
// render; the tree of views is what a host draws.
//
// Views are compared by identity when the focus chain is walked, so every
// implementation must be a pointer type (or another comparable type).
// A non-comparable view such as a struct holding a slice panics there.
type View interface {
	Render() string
}

// FocusableView is implemented by views that can take keyboard focus.
// NextFocusable is a plain back-reference used to walk the focus chain; it
// does not own the view it points at.
type FocusableView interface {
	View
	CanReceiveFocus() bool
	BecomeFocused() bool
	ResignFocus()
	Focused() bool
	NextFocusable() View
	SetNextFocusable(View)
}

// KeyHandler is implemented by views that consume keys while focused.
type KeyHandler interface {
	HandleKey(msg tea.KeyMsg) bool
}

// Disposer is implemented by views holding subscriptions.
type Disposer interface {
	Dispose()
}

// Stretcher is implemented by full-bleed views that size to their container.
type Stretcher interface {
	RenderWidth(width int) string
}

// FocusLink stores a view's focus state and its successor in the chain.
// Embed it in focusable views.
type FocusLink struct {
	next    View
	focused bool
}

func (f *FocusLink) NextFocusable() View     { return f.next }
func (f *FocusLink) SetNextFocusable(v View) { f.next = v }
func (f *FocusLink) Focused() bool           { return f.focused }

// dispose releases v's subscriptions, if it holds any.
func dispose(v View) {
	if d, ok := v.(Disposer); ok {
		d.Dispose()
	}
}

// ============================================================================
// Static views
// ============================================================================

// Label renders a single styled string.
type Label struct {
	Text  string
	Style lipgloss.Style
}

// NewLabel creates a label.
func NewLabel(text string, style lipgloss.Style) *Label {
	return &Label{Text: text, Style: style}
}

func (l *Label) Render() string {
	return l.Style.Render(l.Text)
}

// SeparatorView is a horizontal rule. Border separators run full width;
// dividers are indented.
type SeparatorView struct {
	Border bool
	Indent int
	Char   string
	Style  lipgloss.Style
}

const defaultSeparatorWidth = 24

func (s *SeparatorView) Render() string {
	return s.RenderWidth(defaultSeparatorWidth)
}

// RenderWidth implements Stretcher.
func (s *SeparatorView) RenderWidth(width int) string {
	ch := s.Char
	if ch == "" {
		ch = "─"
	}
	indent := 0
	if !s.Border {
		indent = min(s.Indent, width)
	}
	return strings.Repeat(" ", indent) + s.Style.Render(strings.Repeat(ch, width-indent))
}

// SpacerView is vertical empty space.
type SpacerView struct {
	Height int
}

func (s *SpacerView) Render() string {
	if s.Height <= 1 {
		return ""
	}
	return strings.Repeat("\n", s.Height-1)
}

// FixedHeightView pads or clips its child to exactly Height lines.
type FixedHeightView struct {
	Child  View
	Height int
}

func (f *FixedHeightView) Render() string {
	return lipgloss.NewStyle().Height(f.Height).MaxHeight(f.Height).Render(f.Child.Render())
}

func (f *FixedHeightView) Dispose() { dispose(f.Child) }

// Insets are edge paddings in cells.
type Insets struct {
	Top, Right, Bottom, Left int
}

// IsZero reports whether all insets are zero.
func (i Insets) IsZero() bool {
	return i == Insets{}
}

// InsetView hugs its child with padding.
type InsetView struct {
	Child      View
	Insets     Insets
	Background lipgloss.Color
}

func (v *InsetView) Render() string {
	st := lipgloss.NewStyle().Padding(v.Insets.Top, v.Insets.Right, v.Insets.Bottom, v.Insets.Left)
	if v.Background != "" {
		st = st.Background(v.Background)
	}
	return st.Render(v.Child.Render())
}

func (v *InsetView) Dispose() { dispose(v.Child) }

// ============================================================================
// Stack
// ============================================================================

// StackView is the container a group renders into. It stacks its subviews
// vertically and stands in for its focusable descendants: focusing the stack
// focuses the first of them.
type StackView struct {
	FocusLink
	subviews   []View
	focusables []View
	background lipgloss.Color
}

// Subviews returns the arranged views in order.
func (s *StackView) Subviews() []View { return s.subviews }

// Focusables returns the directly recorded focus-capable views in order.
func (s *StackView) Focusables() []View { return s.focusables }

// CanReceiveFocus reports whether any descendant can take focus.
func (s *StackView) CanReceiveFocus() bool {
	return len(s.focusables) > 0
}

// BecomeFocused forwards to the first focusable descendant.
// Nested stacks forward again until a control is reached.
func (s *StackView) BecomeFocused() bool {
	if len(s.focusables) == 0 {
		return false
	}
	fv, ok := s.focusables[0].(FocusableView)
	if !ok {
		return false
	}
	return fv.BecomeFocused()
}

func (s *StackView) ResignFocus() {}

func (s *StackView) Focused() bool { return false }

func (s *StackView) Render() string {
	return s.RenderWidth(0)
}

// RenderWidth lays out the stack at least width cells wide. Stretchers fill
// the widest fixed subview.
func (s *StackView) RenderWidth(width int) string {
	rendered := make([]string, len(s.subviews))
	for i, v := range s.subviews {
		if _, ok := v.(Stretcher); ok {
			if _, nested := v.(*StackView); !nested {
				continue
			}
		}
		rendered[i] = v.Render()
		width = max(width, lipgloss.Width(rendered[i]))
	}
	if width == 0 {
		width = defaultSeparatorWidth
	}
	for i, v := range s.subviews {
		if st, ok := v.(Stretcher); ok {
			rendered[i] = st.RenderWidth(width)
		}
	}

	out := lipgloss.JoinVertical(lipgloss.Left, rendered...)
	if s.background != "" {
		out = lipgloss.NewStyle().Background(s.background).Width(width).Render(out)
	}
	return out
}

// Dispose releases every subview.
func (s *StackView) Dispose() {
	for _, v := range s.subviews {
		dispose(v)
	}
}
