package forme

import (
	"strings"
	"testing"
)

// resolve runs a rule chain to completion on a private queue.
func resolve[T any](t *testing.T, rules []Rule[T], v T) Result {
	t.Helper()
	q := NewQueue()
	var got *Result
	ValidateRules(q, rules, v, func(r Result) { got = &r })
	q.Drain()
	if got == nil {
		t.Fatal("validation never completed")
	}
	return *got
}

func TestValidateRulesEmptyIsValid(t *testing.T) {
	q := NewQueue()
	called := false
	ValidateRules[string](q, nil, "x", func(r Result) {
		called = true
		if r != Valid {
			t.Errorf("expected valid, got %v", r)
		}
	})
	if called {
		t.Fatal("completion ran before the queue was drained")
	}
	q.Drain()
	if !called {
		t.Fatal("completion never ran")
	}
}

func TestValidateRulesShortCircuit(t *testing.T) {
	secondRan := false
	rules := []Rule[string]{
		NewRule("first", func(string) Result { return Invalid("first failed") }),
		NewRule("second", func(string) Result { secondRan = true; return Valid }),
	}

	r := resolve(t, rules, "anything")

	if r != Invalid("first failed") {
		t.Errorf("expected invalid 'first failed', got %v", r)
	}
	if secondRan {
		t.Error("second rule should not run")
	}
}

func TestValidateRulesCancelledStops(t *testing.T) {
	secondRan := false
	rules := []Rule[string]{
		NewAsyncRule("confirm", func(_ string, done func(Result)) { done(Cancelled) }),
		NewRule("second", func(string) Result { secondRan = true; return Valid }),
	}

	r := resolve(t, rules, "x")

	if !r.IsCancelled() {
		t.Errorf("expected cancelled, got %v", r)
	}
	if r.Err() != nil {
		t.Errorf("cancelled should not be an error, got %v", r.Err())
	}
	if secondRan {
		t.Error("second rule should not run")
	}
}

func TestValidateRulesSerial(t *testing.T) {
	q := NewQueue()
	var order []string
	var pending func(Result)
	rules := []Rule[string]{
		NewAsyncRule("slow", func(_ string, done func(Result)) {
			order = append(order, "slow")
			pending = done
		}),
		NewRule("fast", func(string) Result {
			order = append(order, "fast")
			return Valid
		}),
	}

	var got *Result
	ValidateRules(q, rules, "x", func(r Result) { got = &r })
	q.Drain()

	if len(order) != 1 {
		t.Fatalf("expected only the first rule to have started, got %v", order)
	}
	pending(Valid)
	q.Drain()

	if len(order) != 2 || order[1] != "fast" {
		t.Errorf("expected [slow fast], got %v", order)
	}
	if got == nil || *got != Valid {
		t.Errorf("expected valid, got %v", got)
	}
}

func TestValidateRulesLongChain(t *testing.T) {
	rules := make([]Rule[int], 20000)
	for i := range rules {
		rules[i] = NewRule("pass", func(int) Result { return Valid })
	}
	if r := resolve(t, rules, 0); r != Valid {
		t.Errorf("expected valid, got %v", r)
	}
}

func TestValidateRulesDoubleCompletion(t *testing.T) {
	q := NewQueue()
	calls := 0
	rules := []Rule[string]{
		NewAsyncRule("twice", func(_ string, done func(Result)) {
			done(Invalid("a"))
			done(Invalid("b"))
		}),
	}
	var got Result
	ValidateRules(q, rules, "", func(r Result) { calls++; got = r })
	q.Drain()

	if calls != 1 {
		t.Errorf("expected 1 completion, got %d", calls)
	}
	if got != Invalid("a") {
		t.Errorf("expected first result to win, got %v", got)
	}
}

func TestUniqueRules(t *testing.T) {
	rules := UniqueRules([]Rule[string]{Required(), MaxLength(3), Required(), nil, MaxLength(4)})
	var ids []string
	for _, r := range rules {
		ids = append(ids, r.ID())
	}
	if strings.Join(ids, ",") != "required,max_length:3,max_length:4" {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestResultEquality(t *testing.T) {
	if Invalid("x") != Invalid("x") {
		t.Error("invalid results with the same message should be equal")
	}
	if Invalid("x") == Invalid("y") {
		t.Error("invalid results with different messages should differ")
	}
	if Valid == Cancelled {
		t.Error("valid and cancelled should differ")
	}
}

func TestBuiltinRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule[string]
		input string
		valid bool
	}{
		{"required empty", Required(), "", false},
		{"required filled", Required(), "a", true},
		{"email empty", Email(), "", true},
		{"email ok", Email(), "user@example.com", true},
		{"email sub", Email(), "first.last+tag@sub.example.co", true},
		{"email no at", Email(), "bad", false},
		{"email no user", Email(), "@example.com", false},
		{"email no tld", Email(), "user@example", false},
		{"email short tld", Email(), "user@example.c", false},
		{"max ok", MaxLength(5), "abcde", true},
		{"max over", MaxLength(5), "abcdef", false},
		{"max runes", MaxLength(2), "éé", true},
		{"min ok", MinLength(3), "abc", true},
		{"min under", MinLength(3), "ab", false},
		{"luhn visa", Luhn(), "4111111111111111", true},
		{"luhn bad", Luhn(), "4111111111111112", false},
		{"luhn mastercard", Luhn(), "5555555555554444", true},
		{"luhn non digit", Luhn(), "4111-1111-1111-1111", false},
		{"charset ok", CharacterSet("abc"), "cab", true},
		{"charset bad", CharacterSet("abc"), "abd", false},
		{"digits ok", Digits(), "0123", true},
		{"digits bad", Digits(), "12a", false},
		{"match ok", Match(`^[a-z]+$`, "lower only"), "abc", true},
		{"match bad", Match(`^[a-z]+$`, "lower only"), "ABC", false},
		{"match empty", Match(`^[a-z]+$`, "lower only"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resolve(t, []Rule[string]{tt.rule}, tt.input)
			if tt.valid && !r.IsValid() {
				t.Errorf("expected %q to be valid, got %v", tt.input, r)
			}
			if !tt.valid {
				if !r.IsInvalid() {
					t.Errorf("expected %q to be invalid, got %v", tt.input, r)
				} else if r.Message == "" {
					t.Errorf("expected a message for %q", tt.input)
				}
			}
		})
	}
}

func TestCharacterSetNamesCharacter(t *testing.T) {
	r := resolve(t, []Rule[string]{CharacterSet("abc")}, "abxyz")
	if !strings.Contains(r.Message, `'x'`) {
		t.Errorf("expected message to name 'x', got %q", r.Message)
	}
}

func TestChecked(t *testing.T) {
	if r := resolve(t, []Rule[bool]{Checked()}, true); !r.IsValid() {
		t.Errorf("expected valid, got %v", r)
	}
	if r := resolve(t, []Rule[bool]{Checked()}, false); !r.IsInvalid() {
		t.Errorf("expected invalid, got %v", r)
	}
}
