package forme

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const signupDoc = `
style: grouped
insets: [0, 1]
children:
  - type: text
    title: Name
    bind: name
    rules: [required, {max_length: 5}]
  - type: text
    title: Code
    bind: code
    default: abc
    formatter: upper
    continuous: true
  - type: segment
    title: Plan
    bind: plan
    options: [free, pro]
    default: pro
  - type: group
    children:
      - type: boolean
        title: Terms
        bind: terms
        rules: [checked]
      - type: static
        text: read them first
      - type: spacer
        height: 2
      - type: segue
        title: More
        action: more
`

func TestLoadForm(t *testing.T) {
	more := false
	doc, err := LoadForm([]byte(signupDoc),
		WithFormatter("upper", strings.ToUpper),
		WithAction("more", func() { more = true }),
	)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}

	cfg := doc.Root.Configuration()
	if cfg.Style != GroupGrouped {
		t.Error("expected grouped root")
	}
	if cfg.Insets != (Insets{0, 1, 0, 1}) {
		t.Errorf("unexpected insets %+v", cfg.Insets)
	}
	if len(doc.Root.Children()) != 4 {
		t.Fatalf("expected 4 children, got %d", len(doc.Root.Children()))
	}

	if diff := cmp.Diff([]string{"name", "code", "plan", "terms"}, doc.Bindings.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	want := map[string]any{"name": "", "code": "abc", "plan": "pro", "terms": false}
	if diff := cmp.Diff(want, doc.Bindings.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	nested := doc.Root.Children()[3].(*GroupElement)
	segue := nested.Children()[3].Render().(*SegueView)
	segue.action()
	if !more {
		t.Error("expected segue bound to the registered action")
	}
}

func TestLoadFormValidates(t *testing.T) {
	doc, err := LoadForm([]byte(signupDoc),
		WithFormatter("upper", strings.ToUpper),
		WithAction("more", func() {}),
	)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}

	doc.Bindings.String("name").Set("toolong")
	if r := validateGroup(t, doc.Root); !r.IsInvalid() || !strings.Contains(r.Message, "5") {
		t.Errorf("expected max length failure, got %v", r)
	}

	doc.Bindings.String("name").Set("ann")
	if r := validateGroup(t, doc.Root); r != Invalid("This must be checked") {
		t.Errorf("expected terms failure, got %v", r)
	}

	doc.Bindings.Bool("terms").Set(true)
	if r := validateGroup(t, doc.Root); r != Valid {
		t.Errorf("expected valid, got %v", r)
	}
}

func TestLoadFormErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
		msg  string
	}{
		{"unknown type", "children: [{type: slider}]", ErrUnknownElement, ""},
		{"missing bind", "children: [{type: text, title: x}]", ErrMissingBinding, ""},
		{"unknown rule", "children: [{type: text, bind: x, rules: [bogus]}]", ErrUnknownRule, ""},
		{"bool rule", "children: [{type: boolean, bind: x, rules: [email]}]", ErrUnknownRule, ""},
		{"bad length", "children: [{type: text, bind: x, rules: [{max_length: lots}]}]", nil, "max_length"},
		{"bad match", "children: [{type: text, bind: x, rules: [{match: '('}]}]", nil, "rule match"},
		{"bad default", "children: [{type: segment, bind: x, options: [a], default: b}]", nil, "not among"},
		{"no options", "children: [{type: segment, bind: x}]", nil, "needs options"},
		{"unknown formatter", "children: [{type: text, bind: x, formatter: nope}]", nil, "unknown formatter"},
		{"bad style", "style: fancy", nil, "unknown group style"},
		{"bad theme", "theme: neon", nil, "unknown theme"},
		{"bad insets", "insets: [1, 2, 3]", nil, "insets"},
		{"root not group", "type: static", nil, "must be a group"},
		{"bad yaml", "children: [", nil, "parse form"},
		{"unknown action", "children: [{type: segue, title: go, action: nope}]", nil, "unknown action"},
		{"text then segment", "children: [{type: text, bind: plan}, {type: segment, bind: plan, options: [free, pro]}]", ErrBindConflict, ""},
		{"bool then text", "children: [{type: boolean, bind: x}, {type: text, bind: x}]", ErrBindConflict, ""},
		{"segments disagree", "children: [{type: segment, bind: p, options: [a, b]}, {type: segment, bind: p, options: [a, c]}]", ErrBindConflict, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadForm([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("expected %q in %q", tt.msg, err.Error())
			}
		})
	}
}

func TestLoadFormSharedBindings(t *testing.T) {
	doc, err := LoadForm([]byte(`
children:
  - {type: text, title: First, bind: name, default: ann}
  - {type: text, title: Again, bind: name}
  - {type: segment, title: Plan, bind: plan, options: [free, pro], default: pro}
  - {type: segment, title: Plan again, bind: plan, options: [free, pro]}
  - {type: segue, title: Nowhere}
`))
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if diff := cmp.Diff([]string{"name", "plan"}, doc.Bindings.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Bindings.String("plan").Get(); got != "pro" {
		t.Errorf("expected the first segment's default to hold, got %q", got)
	}

	// every shared view must render against the shared value
	view := doc.Root.Render()
	defer dispose(view)
	if got := doc.Bindings.String("name").Len(); got != 2 {
		t.Errorf("expected both text fields bound to one value, got %d listeners", got)
	}
}
