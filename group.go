package forme

// GroupStyle selects how a group is decorated.
type GroupStyle uint8

const (
	// GroupPlain has no background and no separators.
	GroupPlain GroupStyle = iota
	// GroupGrouped draws a background and separators between children.
	GroupGrouped
)

// LayoutMode controls how each child's view is sized.
type LayoutMode uint8

const (
	LayoutIntrinsic LayoutMode = iota
	LayoutConstantHeight
)

// SeparatorFactory builds the separator placed between children. isBorder is
// true at the outer edges of the group and around error views. Returning nil
// omits the separator.
type SeparatorFactory func(style GroupStyle, isBorder bool) View

// ErrorViewFactory builds the decoration shown under an invalid child.
// Returning nil omits it.
type ErrorViewFactory func(message string) View

// Configuration is the plain data a group renders with.
type Configuration struct {
	Style     GroupStyle
	Layout    LayoutMode
	RowHeight int // lines per child when Layout is LayoutConstantHeight
	Insets    Insets
	Separator SeparatorFactory
	ErrorView ErrorViewFactory
	Theme     Theme
}

// DefaultConfiguration is plain style, intrinsic layout, zero insets, and
// themed default factories.
func DefaultConfiguration() Configuration {
	return Configuration{
		Style:     GroupPlain,
		Layout:    LayoutIntrinsic,
		RowHeight: 1,
		Separator: ThemedSeparators(ThemeDark),
		ErrorView: ThemedErrorView(ThemeDark),
		Theme:     ThemeDark,
	}
}

// ThemedSeparators returns the default separator factory: nothing for plain
// groups, full-width borders and indented dividers for grouped ones.
func ThemedSeparators(t Theme) SeparatorFactory {
	return func(style GroupStyle, isBorder bool) View {
		if style == GroupPlain {
			return nil
		}
		return &SeparatorView{Border: isBorder, Indent: 2, Style: t.Border}
	}
}

// ThemedErrorView returns the default error factory: the message in a
// one-line strip.
func ThemedErrorView(t Theme) ErrorViewFactory {
	return func(message string) View {
		return &FixedHeightView{
			Child:  &InsetView{Child: NewLabel(message, t.Error), Insets: Insets{Left: 2}},
			Height: 1,
		}
	}
}

// resolved fills nil factories with defaults.
func (c Configuration) resolved() Configuration {
	if c.Separator == nil {
		c.Separator = ThemedSeparators(c.Theme)
	}
	if c.ErrorView == nil {
		c.ErrorView = ThemedErrorView(c.Theme)
	}
	if c.Layout == LayoutConstantHeight && c.RowHeight <= 0 {
		c.RowHeight = 1
	}
	return c
}

// GroupElement composes child elements into one stacked view, threads the
// focus chain through them, and validates them in order.
type GroupElement struct {
	ValidationMemo
	children []Element
	cfg      Configuration
}

// NewGroup creates a group with an explicit configuration.
func NewGroup(cfg Configuration, children ...Element) *GroupElement {
	return &GroupElement{children: children, cfg: cfg}
}

// Children returns the group's elements.
func (g *GroupElement) Children() []Element { return g.children }

// Configuration returns the group's configuration.
func (g *GroupElement) Configuration() Configuration { return g.cfg }

// Render builds the group's view.
//
// The output is framed by border separators. Each child is followed by a
// divider, except that an Invalid child (by its memoized result) is followed
// by a border, its error view and another border, and the last child is
// always followed by a border. Nested groups show their own errors.
func (g *GroupElement) Render() View {
	cfg := g.cfg.resolved()
	stack := &StackView{}
	if cfg.Style == GroupGrouped {
		stack.background = cfg.Theme.Background
	}

	addSeparator := func(border bool) {
		if v := cfg.Separator(cfg.Style, border); v != nil {
			stack.subviews = append(stack.subviews, v)
		}
	}

	addSeparator(true)
	var prev View
	errs := 0
	for i, child := range g.children {
		view := renderWith(child, cfg.Theme)

		if fv, ok := view.(FocusableView); ok && fv.CanReceiveFocus() {
			if prev != nil {
				linkFocus(prev, view)
			}
			prev = view
			stack.focusables = append(stack.focusables, view)
		}
		stack.subviews = append(stack.subviews, wrapChild(view, cfg))

		showedError := false
		if _, nested := child.(*GroupElement); !nested {
			if msg, ok := invalidMessage(child); ok {
				addSeparator(true)
				if ev := cfg.ErrorView(msg); ev != nil {
					stack.subviews = append(stack.subviews, ev)
				}
				showedError = true
				errs++
			}
		}

		addSeparator(showedError || i == len(g.children)-1)
	}
	if len(g.children) == 0 {
		addSeparator(true)
	}

	logger.Debug().
		Int("children", len(g.children)).
		Int("focusables", len(stack.focusables)).
		Int("errors", errs).
		Msg("rendered group")
	return stack
}

func wrapChild(v View, cfg Configuration) View {
	if cfg.Layout == LayoutConstantHeight {
		v = &FixedHeightView{Child: v, Height: cfg.RowHeight}
	}
	if !cfg.Insets.IsZero() {
		iv := &InsetView{Child: v, Insets: cfg.Insets}
		if cfg.Style == GroupGrouped {
			iv.Background = cfg.Theme.Background
		}
		v = iv
	}
	return v
}

// Validate validates the group's Validatable children in order, stopping at
// the first failure. Nested groups recurse through their own Validate.
func (g *GroupElement) Validate(d Dispatcher, done func(Result)) {
	var objects []Validatable
	for _, child := range g.children {
		if v, ok := child.(Validatable); ok {
			objects = append(objects, v)
		}
	}
	ValidateObjects(d, objects, done)
}

// ============================================================================
// Builder
// ============================================================================

// GroupFn is a configurable constructor for groups.
// Configure with methods, then call with children.
//
// usage:
//
//	Group.Grouped().Insets(0, 1, 0, 1)(
//	    EditableText("Name", name, Rules(Required())),
//	    Boolean("Subscribe", subscribe),
//	)
type GroupFn func(children ...Element) *GroupElement

// Group creates a group with the default configuration.
var Group GroupFn = func(children ...Element) *GroupElement {
	return NewGroup(DefaultConfiguration(), children...)
}

func (f GroupFn) with(fn func(*Configuration)) GroupFn {
	return func(children ...Element) *GroupElement {
		g := f(children...)
		fn(&g.cfg)
		return g
	}
}

// Grouped switches to the grouped style.
func (f GroupFn) Grouped() GroupFn {
	return f.with(func(c *Configuration) { c.Style = GroupGrouped })
}

// Plain switches to the plain style.
func (f GroupFn) Plain() GroupFn {
	return f.with(func(c *Configuration) { c.Style = GroupPlain })
}

// ConstantHeight gives every child exactly h lines.
func (f GroupFn) ConstantHeight(h int) GroupFn {
	return f.with(func(c *Configuration) {
		c.Layout = LayoutConstantHeight
		c.RowHeight = h
	})
}

// Insets pads every child.
func (f GroupFn) Insets(top, right, bottom, left int) GroupFn {
	return f.with(func(c *Configuration) { c.Insets = Insets{top, right, bottom, left} })
}

// Theme sets the theme and resets both factories to its defaults.
// Call SeparatorFactory or ErrorViewFactory afterwards to override them.
func (f GroupFn) Theme(t Theme) GroupFn {
	return f.with(func(c *Configuration) {
		c.Theme = t
		c.Separator = ThemedSeparators(t)
		c.ErrorView = ThemedErrorView(t)
	})
}

// SeparatorFactory replaces the separator factory.
func (f GroupFn) SeparatorFactory(fn SeparatorFactory) GroupFn {
	return f.with(func(c *Configuration) { c.Separator = fn })
}

// ErrorViewFactory replaces the error view factory.
func (f GroupFn) ErrorViewFactory(fn ErrorViewFactory) GroupFn {
	return f.with(func(c *Configuration) { c.ErrorView = fn })
}

// Configure applies an arbitrary change to the configuration.
func (f GroupFn) Configure(fn func(*Configuration)) GroupFn {
	return f.with(fn)
}
