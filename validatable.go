package forme

// Validatable is implemented by elements that take part in a validation pass
// and remember their last result. Embed ValidationMemo to satisfy the
// memo half of the interface.
type Validatable interface {
	Validate(d Dispatcher, done func(Result))
	LastValidationResult() (Result, bool)
	storeValidationResult(Result)
}

// ValidationMemo holds the result of the most recent ValidateAndStore pass.
// It is written only by ValidateAndStore and read during render.
type ValidationMemo struct {
	last  Result
	valid bool // false until the first pass completes
}

// LastValidationResult returns the memoized result. ok is false if the
// element has never been through ValidateAndStore.
func (m *ValidationMemo) LastValidationResult() (r Result, ok bool) {
	return m.last, m.valid
}

func (m *ValidationMemo) storeValidationResult(r Result) {
	m.last = r
	m.valid = true
}

// ValidateAndStore validates v and stores the result on it before calling done.
func ValidateAndStore(v Validatable, d Dispatcher, done func(Result)) {
	v.Validate(dispatcherOr(d), func(r Result) {
		v.storeValidationResult(r)
		done(r)
	})
}

// ValidateObjects validates objects serially in list order through
// ValidateAndStore. The first Invalid or Cancelled result stops the pass and is
// reported; objects after it are not touched. Every step, including the empty
// case, is dispatched on d.
func ValidateObjects(d Dispatcher, objects []Validatable, done func(Result)) {
	d = dispatcherOr(d)
	done = once("objects", done)

	var step func(i int)
	step = func(i int) {
		if i == len(objects) {
			d.Dispatch(func() { done(Valid) })
			return
		}
		ValidateAndStore(objects[i], d, func(r Result) {
			logger.Debug().Int("index", i).Stringer("result", r).Msg("validated object")
			if !r.IsValid() {
				d.Dispatch(func() { done(r) })
				return
			}
			d.Dispatch(func() { step(i + 1) })
		})
	}
	d.Dispatch(func() { step(0) })
}

// invalidMessage reports the message of an element whose memoized result is
// Invalid. Cancelled and Valid results never produce an error decoration.
func invalidMessage(e Element) (string, bool) {
	v, ok := e.(Validatable)
	if !ok {
		return "", false
	}
	r, ok := v.LastValidationResult()
	if !ok || !r.IsInvalid() {
		return "", false
	}
	return r.Message, true
}
