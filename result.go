package forme

import "errors"

// ResultKind tags a validation Result.
type ResultKind uint8

const (
	ResultValid ResultKind = iota
	ResultInvalid
	ResultCancelled
)

func (k ResultKind) String() string {
	switch k {
	case ResultValid:
		return "valid"
	case ResultInvalid:
		return "invalid"
	case ResultCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the outcome of a validation pass. Two results are equal when
// their kinds match and, for Invalid, their messages match.
type Result struct {
	Kind    ResultKind
	Message string // set only for Invalid
}

var (
	Valid     = Result{Kind: ResultValid}
	Cancelled = Result{Kind: ResultCancelled}
)

// Invalid returns a failing result carrying msg.
func Invalid(msg string) Result {
	return Result{Kind: ResultInvalid, Message: msg}
}

func (r Result) IsValid() bool     { return r.Kind == ResultValid }
func (r Result) IsInvalid() bool   { return r.Kind == ResultInvalid }
func (r Result) IsCancelled() bool { return r.Kind == ResultCancelled }

// Err returns the Invalid message as an error, nil otherwise.
// Cancelled is not an error.
func (r Result) Err() error {
	if r.Kind != ResultInvalid {
		return nil
	}
	return errors.New(r.Message)
}

func (r Result) String() string {
	if r.Kind == ResultInvalid {
		return "invalid: " + r.Message
	}
	return r.Kind.String()
}
