package forme

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownElement = errors.New("forme: unknown element type")
	ErrUnknownRule    = errors.New("forme: unknown rule")
	ErrMissingBinding = errors.New("forme: element requires a bind key")
	ErrBindConflict   = errors.New("forme: bind key reused by an incompatible element")
)

// Document is a form loaded from YAML: its root group and the observables
// created for every bind key.
type Document struct {
	Root     *GroupElement
	Bindings *Bindings
}

// Bindings holds the observables a document's elements are bound to.
// Elements may share a key only when they hold the same kind of value;
// segments sharing a key must also declare the same options.
type Bindings struct {
	bools   map[string]*Observable[bool]
	strings map[string]*Observable[string]
	kinds   map[string]bindKind
	options map[string][]string
	order   []string
}

type bindKind uint8

const (
	bindBool bindKind = iota + 1
	bindText
	bindChoice
)

func (k bindKind) String() string {
	switch k {
	case bindBool:
		return "boolean"
	case bindText:
		return "text"
	case bindChoice:
		return "segment"
	}
	return "unknown"
}

func newBindings() *Bindings {
	return &Bindings{
		bools:   make(map[string]*Observable[bool]),
		strings: make(map[string]*Observable[string]),
		kinds:   make(map[string]bindKind),
		options: make(map[string][]string),
	}
}

// Bool returns the boolean observable bound to key, or nil.
func (b *Bindings) Bool(key string) *Observable[bool] { return b.bools[key] }

// String returns the string observable bound to key, or nil.
func (b *Bindings) String(key string) *Observable[string] { return b.strings[key] }

// Keys returns bind keys in document order.
func (b *Bindings) Keys() []string { return b.order }

// Values snapshots every bound value by key.
func (b *Bindings) Values() map[string]any {
	out := make(map[string]any, len(b.order))
	for _, k := range b.order {
		if o, ok := b.bools[k]; ok {
			out[k] = o.Get()
		} else if o, ok := b.strings[k]; ok {
			out[k] = o.Get()
		}
	}
	return out
}

// claim registers key for kind, reporting whether it was already bound.
func (b *Bindings) claim(key string, kind bindKind) (bool, error) {
	have, ok := b.kinds[key]
	if !ok {
		b.kinds[key] = kind
		b.order = append(b.order, key)
		return false, nil
	}
	if have != kind {
		return true, fmt.Errorf("%w: %q is bound to a %s, not a %s", ErrBindConflict, key, have, kind)
	}
	return true, nil
}

func (b *Bindings) boolFor(key string, def bool) (*Observable[bool], error) {
	exists, err := b.claim(key, bindBool)
	if err != nil {
		return nil, err
	}
	if !exists {
		b.bools[key] = NewObservable(def)
	}
	return b.bools[key], nil
}

func (b *Bindings) textFor(key, def string) (*Observable[string], error) {
	exists, err := b.claim(key, bindText)
	if err != nil {
		return nil, err
	}
	if !exists {
		b.strings[key] = NewObservable(def)
	}
	return b.strings[key], nil
}

// choiceFor binds a segment. A shared key keeps its current value, which
// must be among options.
func (b *Bindings) choiceFor(key, def string, options []string) (*Observable[string], error) {
	exists, err := b.claim(key, bindChoice)
	if err != nil {
		return nil, err
	}
	if !exists {
		b.strings[key] = NewObservable(def)
		b.options[key] = options
		return b.strings[key], nil
	}
	if !slices.Equal(b.options[key], options) {
		return nil, fmt.Errorf("%w: segments bound to %q declare different options", ErrBindConflict, key)
	}
	return b.strings[key], nil
}

// LoadOption configures LoadForm.
type LoadOption func(*loader)

// WithAction registers the function a segue's action key refers to.
func WithAction(name string, fn func()) LoadOption {
	return func(l *loader) { l.actions[name] = fn }
}

// WithFormatter registers a text formatter by name.
func WithFormatter(name string, fn func(string) string) LoadOption {
	return func(l *loader) { l.formatters[name] = fn }
}

type loader struct {
	bindings   *Bindings
	actions    map[string]func()
	formatters map[string]func(string) string
}

// node is one element in a form document.
type node struct {
	Type        string      `yaml:"type"`
	Title       string      `yaml:"title"`
	Bind        string      `yaml:"bind"`
	Text        string      `yaml:"text"`
	Detail      string      `yaml:"detail"`
	Action      string      `yaml:"action"`
	Placeholder string      `yaml:"placeholder"`
	Default     yaml.Node   `yaml:"default"`
	Options     []string    `yaml:"options"`
	Rules       []yaml.Node `yaml:"rules"`
	Continuous  bool        `yaml:"continuous"`
	Secure      bool        `yaml:"secure"`
	CharLimit   int         `yaml:"char_limit"`
	Formatter   string      `yaml:"formatter"`
	Height      int         `yaml:"height"`

	Style     string `yaml:"style"`
	Layout    string `yaml:"layout"`
	RowHeight int    `yaml:"row_height"`
	Insets    []int  `yaml:"insets"`
	Theme     string `yaml:"theme"`
	Children  []node `yaml:"children"`
}

// LoadForm builds an element tree from a YAML document. The top level is a
// group; its type may be omitted.
//
//	style: grouped
//	children:
//	  - type: text
//	    title: Email
//	    bind: email
//	    rules: [required, email, {max_length: 64}]
//	  - type: boolean
//	    title: Subscribe
//	    bind: subscribe
func LoadForm(data []byte, opts ...LoadOption) (*Document, error) {
	var root node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("forme: parse form: %w", err)
	}
	if root.Type == "" {
		root.Type = "group"
	}

	l := &loader{
		bindings:   newBindings(),
		actions:    make(map[string]func()),
		formatters: make(map[string]func(string) string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	el, err := l.element(root, "root")
	if err != nil {
		return nil, err
	}
	g, ok := el.(*GroupElement)
	if !ok {
		return nil, fmt.Errorf("forme: document root must be a group, got %q", root.Type)
	}
	return &Document{Root: g, Bindings: l.bindings}, nil
}

func (l *loader) element(n node, path string) (Element, error) {
	switch n.Type {
	case "group":
		return l.group(n, path)

	case "boolean":
		if n.Bind == "" {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingBinding)
		}
		var def bool
		if err := decodeDefault(n.Default, &def); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		var rules []Rule[bool]
		for _, rn := range n.Rules {
			name, _, err := ruleSpec(rn)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if name != "checked" {
				return nil, fmt.Errorf("%s: %w: %q on boolean", path, ErrUnknownRule, name)
			}
			rules = append(rules, Checked())
		}
		value, err := l.bindings.boolFor(n.Bind, def)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return Boolean(n.Title, value, rules...), nil

	case "segment":
		if n.Bind == "" {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingBinding)
		}
		if len(n.Options) == 0 {
			return nil, fmt.Errorf("%s: segment needs options", path)
		}
		def := n.Options[0]
		if err := decodeDefault(n.Default, &def); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		items := make([]SegmentItem[string], len(n.Options))
		found := false
		for i, o := range n.Options {
			items[i] = Item(o, o)
			found = found || o == def
		}
		if !found {
			return nil, fmt.Errorf("%s: default %q is not among the options", path, def)
		}
		value, err := l.bindings.choiceFor(n.Bind, def, n.Options)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return Segment(n.Title, value, items...), nil

	case "text":
		if n.Bind == "" {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingBinding)
		}
		var def string
		if err := decodeDefault(n.Default, &def); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		opts := []TextOption{Placeholder(n.Placeholder), CharLimit(n.CharLimit)}
		for _, rn := range n.Rules {
			r, err := stringRule(rn)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			opts = append(opts, Rules(r))
		}
		if n.Continuous {
			opts = append(opts, Continuous())
		}
		if n.Secure {
			opts = append(opts, Secure())
		}
		if n.Formatter != "" {
			fn, ok := l.formatters[n.Formatter]
			if !ok {
				return nil, fmt.Errorf("%s: unknown formatter %q", path, n.Formatter)
			}
			opts = append(opts, Formatter(fn))
		}
		value, err := l.bindings.textFor(n.Bind, def)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return EditableText(n.Title, value, opts...), nil

	case "static":
		return StaticText(n.Text), nil

	case "spacer":
		h := n.Height
		if h == 0 {
			h = 1
		}
		return Spacer(h), nil

	case "segue":
		var action func()
		if n.Action != "" {
			fn, ok := l.actions[n.Action]
			if !ok {
				return nil, fmt.Errorf("%s: unknown action %q", path, n.Action)
			}
			action = fn
		}
		return Segue(n.Title, n.Detail, action), nil
	}
	return nil, fmt.Errorf("%s: %w: %q", path, ErrUnknownElement, n.Type)
}

func (l *loader) group(n node, path string) (*GroupElement, error) {
	cfg := DefaultConfiguration()
	if n.Theme != "" {
		t, ok := ThemeByName(n.Theme)
		if !ok {
			return nil, fmt.Errorf("%s: unknown theme %q", path, n.Theme)
		}
		cfg.Theme = t
		cfg.Separator = ThemedSeparators(t)
		cfg.ErrorView = ThemedErrorView(t)
	}
	switch n.Style {
	case "", "plain":
	case "grouped":
		cfg.Style = GroupGrouped
	default:
		return nil, fmt.Errorf("%s: unknown group style %q", path, n.Style)
	}
	switch n.Layout {
	case "", "intrinsic":
	case "constant":
		cfg.Layout = LayoutConstantHeight
		if n.RowHeight > 0 {
			cfg.RowHeight = n.RowHeight
		}
	default:
		return nil, fmt.Errorf("%s: unknown layout %q", path, n.Layout)
	}
	switch len(n.Insets) {
	case 0:
	case 1:
		cfg.Insets = Insets{n.Insets[0], n.Insets[0], n.Insets[0], n.Insets[0]}
	case 2:
		cfg.Insets = Insets{n.Insets[0], n.Insets[1], n.Insets[0], n.Insets[1]}
	case 4:
		cfg.Insets = Insets{n.Insets[0], n.Insets[1], n.Insets[2], n.Insets[3]}
	default:
		return nil, fmt.Errorf("%s: insets take 1, 2 or 4 values", path)
	}

	children := make([]Element, 0, len(n.Children))
	for i, c := range n.Children {
		el, err := l.element(c, path+"."+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		children = append(children, el)
	}
	return NewGroup(cfg, children...), nil
}

func decodeDefault(n yaml.Node, out any) error {
	if n.Kind == 0 {
		return nil
	}
	if err := n.Decode(out); err != nil {
		return fmt.Errorf("default: %w", err)
	}
	return nil
}

// ruleSpec reads "name" or {name: arg}.
func ruleSpec(n yaml.Node) (name, arg string, err error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, "", nil
	case yaml.MappingNode:
		if len(n.Content) == 2 {
			return n.Content[0].Value, n.Content[1].Value, nil
		}
	}
	return "", "", fmt.Errorf("%w: expected a name or a single-key mapping at line %d", ErrUnknownRule, n.Line)
}

func stringRule(n yaml.Node) (Rule[string], error) {
	name, arg, err := ruleSpec(n)
	if err != nil {
		return nil, err
	}
	intArg := func() (int, error) {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return 0, fmt.Errorf("rule %s: %w", name, err)
		}
		return v, nil
	}
	switch name {
	case "required":
		return Required(), nil
	case "email":
		return Email(), nil
	case "luhn":
		return Luhn(), nil
	case "digits":
		return Digits(), nil
	case "charset":
		return CharacterSet(arg), nil
	case "match":
		if _, err := regexp.Compile(arg); err != nil {
			return nil, fmt.Errorf("rule match: %w", err)
		}
		return Match(arg, "Invalid format"), nil
	case "min_length":
		v, err := intArg()
		if err != nil {
			return nil, err
		}
		return MinLength(v), nil
	case "max_length":
		v, err := intArg()
		if err != nil {
			return nil, err
		}
		return MaxLength(v), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
}
