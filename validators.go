package forme

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"
)

// Rule validates a single value. Validate must call done exactly once, and
// may do so later (after presenting a confirmation, say). Rules must not
// mutate the value. ID identifies the rule for deduplication; it is not shown
// to users.
type Rule[T any] interface {
	ID() string
	Validate(value T, done func(Result))
}

type funcRule[T any] struct {
	id string
	fn func(T) Result
}

func (r funcRule[T]) ID() string                      { return r.id }
func (r funcRule[T]) Validate(v T, done func(Result)) { done(r.fn(v)) }

type asyncRule[T any] struct {
	id string
	fn func(T, func(Result))
}

func (r asyncRule[T]) ID() string                      { return r.id }
func (r asyncRule[T]) Validate(v T, done func(Result)) { r.fn(v, done) }

// NewRule wraps a synchronous predicate.
func NewRule[T any](id string, fn func(T) Result) Rule[T] {
	return funcRule[T]{id: id, fn: fn}
}

// NewAsyncRule wraps a predicate that resolves through a callback.
func NewAsyncRule[T any](id string, fn func(value T, done func(Result))) Rule[T] {
	return asyncRule[T]{id: id, fn: fn}
}

// ValidateRules runs rules in order against value, each one only after the
// previous has resolved. The first Invalid or Cancelled result stops the chain
// and is reported; otherwise the result is Valid. done always runs on d.
func ValidateRules[T any](d Dispatcher, rules []Rule[T], value T, done func(Result)) {
	d = dispatcherOr(d)
	done = once("rules", done)

	var step func(i int)
	step = func(i int) {
		if i == len(rules) {
			d.Dispatch(func() { done(Valid) })
			return
		}
		rule := rules[i]
		rule.Validate(value, once(rule.ID(), func(r Result) {
			if !r.IsValid() {
				logger.Debug().Str("rule", rule.ID()).Stringer("result", r).Msg("rule chain stopped")
				d.Dispatch(func() { done(r) })
				return
			}
			d.Dispatch(func() { step(i + 1) })
		}))
	}
	d.Dispatch(func() { step(0) })
}

// UniqueRules drops rules whose ID was already seen. Order is kept.
func UniqueRules[T any](rules []Rule[T]) []Rule[T] {
	seen := make(map[string]bool, len(rules))
	out := make([]Rule[T], 0, len(rules))
	for _, r := range rules {
		if r == nil || seen[r.ID()] {
			continue
		}
		seen[r.ID()] = true
		out = append(out, r)
	}
	return out
}

// once guards a completion against being invoked more than once.
func once(name string, done func(Result)) func(Result) {
	var called atomic.Bool
	return func(r Result) {
		if called.Swap(true) {
			logger.Warn().Str("source", name).Msg("completion called more than once")
			return
		}
		done(r)
	}
}

// ============================================================================
// Built-in rules
// ============================================================================

// Required rejects empty strings.
func Required() Rule[string] {
	return NewRule("required", func(s string) Result {
		if s == "" {
			return Invalid("This field is required")
		}
		return Valid
	})
}

var emailPattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Email rejects strings that don't look like email addresses.
// The empty string passes; combine with Required.
func Email() Rule[string] {
	return NewRule("email", func(s string) Result {
		if s == "" || emailPattern.MatchString(s) {
			return Valid
		}
		return Invalid("Please enter a valid email address")
	})
}

// Match rejects non-empty strings that don't match pattern.
func Match(pattern, msg string) Rule[string] {
	re := regexp.MustCompile(pattern)
	return NewRule("match:"+pattern, func(s string) Result {
		if s == "" || re.MatchString(s) {
			return Valid
		}
		return Invalid(msg)
	})
}

// CharacterSet rejects strings containing a rune not in allowed.
// The message names the first offending character.
func CharacterSet(allowed string) Rule[string] {
	return CharacterSetFunc("charset:"+allowed, func(r rune) bool {
		return strings.ContainsRune(allowed, r)
	})
}

// CharacterSetFunc is CharacterSet with a predicate.
func CharacterSetFunc(id string, allowed func(rune) bool) Rule[string] {
	return NewRule(id, func(s string) Result {
		for _, r := range s {
			if !allowed(r) {
				return Invalid(fmt.Sprintf("%q is not allowed", r))
			}
		}
		return Valid
	})
}

// Digits allows only decimal digits.
func Digits() Rule[string] {
	return CharacterSetFunc("digits", unicode.IsDigit)
}

// MaxLength rejects strings longer than n characters.
func MaxLength(n int) Rule[string] {
	return NewRule(fmt.Sprintf("max_length:%d", n), func(s string) Result {
		if utf8.RuneCountInString(s) > n {
			return Invalid(fmt.Sprintf("Must be at most %d characters", n))
		}
		return Valid
	})
}

// MinLength rejects strings shorter than n characters.
func MinLength(n int) Rule[string] {
	return NewRule(fmt.Sprintf("min_length:%d", n), func(s string) Result {
		if utf8.RuneCountInString(s) < n {
			return Invalid(fmt.Sprintf("Must be at least %d characters", n))
		}
		return Valid
	})
}

// Luhn checks a card-number checksum. Any non-digit fails immediately.
func Luhn() Rule[string] {
	return NewRule("luhn", func(s string) Result {
		if !luhnValid(s) {
			return Invalid("Please enter a valid card number")
		}
		return Valid
	})
}

func luhnValid(s string) bool {
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Checked rejects false.
func Checked() Rule[bool] {
	return NewRule("checked", func(b bool) Result {
		if !b {
			return Invalid("This must be checked")
		}
		return Valid
	})
}
