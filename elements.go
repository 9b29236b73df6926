package forme

import "github.com/charmbracelet/lipgloss"

// Element describes one piece of a form. Elements are configured when they
// are constructed; Render produces a fresh View each call and keeps no state
// between renders other than the Observables it closes over.
type Element interface {
	Render() View
}

// themed is implemented by elements whose views pick up the theme of the
// group rendering them.
type themed interface {
	renderThemed(Theme) View
}

func renderWith(e Element, theme Theme) View {
	if t, ok := e.(themed); ok {
		return t.renderThemed(theme)
	}
	return e.Render()
}

func mustObservable[T comparable](kind string, v *Observable[T]) *Observable[T] {
	if v == nil {
		panic("forme: " + kind + " requires a non-nil Observable")
	}
	return v
}

// ============================================================================
// Boolean
// ============================================================================

// BooleanElement is a toggle.
type BooleanElement struct {
	ValidationMemo
	title string
	value *Observable[bool]
	rules []Rule[bool]
}

// Boolean creates a toggle bound to value.
func Boolean(title string, value *Observable[bool], rules ...Rule[bool]) *BooleanElement {
	return &BooleanElement{
		title: title,
		value: mustObservable("Boolean", value),
		rules: UniqueRules(rules),
	}
}

func (e *BooleanElement) Render() View { return e.renderThemed(ThemeDark) }

func (e *BooleanElement) renderThemed(t Theme) View {
	return newSwitchView(e.title, e.value, t)
}

// Validate runs the element's rules against the current value.
func (e *BooleanElement) Validate(d Dispatcher, done func(Result)) {
	ValidateRules(d, e.rules, e.value.Get(), done)
}

// ============================================================================
// Segment
// ============================================================================

// SegmentItem is one option of a segment.
type SegmentItem[T comparable] struct {
	Title string
	Value T
}

// Item creates a segment option.
func Item[T comparable](title string, value T) SegmentItem[T] {
	return SegmentItem[T]{Title: title, Value: value}
}

// SegmentElement is a single choice among fixed options. The bound value
// must always be one of the options; rendering panics otherwise.
type SegmentElement[T comparable] struct {
	title string
	items []SegmentItem[T]
	value *Observable[T]
}

// Segment creates a choice bound to value.
func Segment[T comparable](title string, value *Observable[T], items ...SegmentItem[T]) *SegmentElement[T] {
	return &SegmentElement[T]{
		title: title,
		items: items,
		value: mustObservable("Segment", value),
	}
}

func (e *SegmentElement[T]) Render() View { return e.renderThemed(ThemeDark) }

func (e *SegmentElement[T]) renderThemed(t Theme) View {
	return newSegmentView(e.title, e.items, e.value, t)
}

// ============================================================================
// EditableText
// ============================================================================

// TextConfig configures an editable text element.
type TextConfig struct {
	Placeholder string
	Rules       []Rule[string]
	// Continuous writes the value on every keystroke instead of when
	// editing ends.
	Continuous bool
	Secure     bool
	CharLimit  int
	// Formatter rewrites the text before it is stored.
	Formatter func(string) string
}

// TextOption configures an EditableText.
type TextOption func(*TextConfig)

func Placeholder(p string) TextOption { return func(c *TextConfig) { c.Placeholder = p } }

func Rules(rules ...Rule[string]) TextOption {
	return func(c *TextConfig) { c.Rules = append(c.Rules, rules...) }
}

func Continuous() TextOption { return func(c *TextConfig) { c.Continuous = true } }

func Secure() TextOption { return func(c *TextConfig) { c.Secure = true } }

func CharLimit(n int) TextOption { return func(c *TextConfig) { c.CharLimit = n } }

func Formatter(fn func(string) string) TextOption {
	return func(c *TextConfig) { c.Formatter = fn }
}

// EditableTextElement is a single-line text field.
type EditableTextElement struct {
	ValidationMemo
	title string
	value *Observable[string]
	cfg   TextConfig
}

// EditableText creates a text field bound to value.
func EditableText(title string, value *Observable[string], opts ...TextOption) *EditableTextElement {
	var cfg TextConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.Rules = UniqueRules(cfg.Rules)
	return &EditableTextElement{
		title: title,
		value: mustObservable("EditableText", value),
		cfg:   cfg,
	}
}

func (e *EditableTextElement) Render() View { return e.renderThemed(ThemeDark) }

func (e *EditableTextElement) renderThemed(t Theme) View {
	return newTextFieldView(e.title, e.value, e.cfg, t)
}

// Validate runs the element's rules against the stored value.
func (e *EditableTextElement) Validate(d Dispatcher, done func(Result)) {
	ValidateRules(d, e.cfg.Rules, e.value.Get(), done)
}

// ============================================================================
// Static content
// ============================================================================

// StaticTextElement displays fixed text.
type StaticTextElement struct {
	text  string
	style *lipgloss.Style
}

// StaticText creates a text element. Without a style it uses the group
// theme's muted style.
func StaticText(text string) *StaticTextElement {
	return &StaticTextElement{text: text}
}

// StyledText creates a text element with an explicit style.
func StyledText(text string, style lipgloss.Style) *StaticTextElement {
	return &StaticTextElement{text: text, style: &style}
}

func (e *StaticTextElement) Render() View { return e.renderThemed(ThemeDark) }

func (e *StaticTextElement) renderThemed(t Theme) View {
	st := t.Muted
	if e.style != nil {
		st = *e.style
	}
	return NewLabel(e.text, st)
}

// SpacerElement is empty vertical space.
type SpacerElement struct {
	height int
}

// Spacer creates height lines of empty space.
func Spacer(height int) *SpacerElement {
	return &SpacerElement{height: height}
}

func (e *SpacerElement) Render() View { return &SpacerView{Height: e.height} }

// SegueElement is a row that navigates elsewhere when activated.
type SegueElement struct {
	title  string
	detail string
	action func()
}

// Segue creates a navigation row.
func Segue(title, detail string, action func()) *SegueElement {
	return &SegueElement{title: title, detail: detail, action: action}
}

func (e *SegueElement) Render() View { return e.renderThemed(ThemeDark) }

func (e *SegueElement) renderThemed(t Theme) View {
	return &SegueView{title: e.title, detail: e.detail, action: e.action, theme: t}
}

// CustomViewElement renders whatever its function builds.
type CustomViewElement struct {
	build func() View
}

// CustomView creates an element from a view constructor.
func CustomView(build func() View) *CustomViewElement {
	return &CustomViewElement{build: build}
}

func (e *CustomViewElement) Render() View { return e.build() }
