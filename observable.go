package forme

// Observable is a mutable value cell that notifies subscribers on change.
// It separates data management from UI representation: elements render from
// it, views write back into it, and application code reads it at submit time.
//
// Setting a value equal to the current one is a no-op. A subscriber that sets
// a different value from inside its callback re-enters the notification chain:
// every subscriber is notified of the inner value first, and the subscribers
// still pending in the outer pass then receive the current value again, never
// the overwritten one.
type Observable[T comparable] struct {
	value     T
	listeners []listener[T]
	nextToken Token
}

// Token identifies a subscription for Unsubscribe.
type Token uint64

type listener[T comparable] struct {
	token Token
	fn    func(T)
}

// NewObservable creates an observable holding v.
func NewObservable[T comparable](v T) *Observable[T] {
	return &Observable[T]{value: v}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	return o.value
}

// Set stores v and notifies every subscriber in subscription order.
// The new value is stored before the first callback runs, and each callback
// receives the value current at the time it is called.
func (o *Observable[T]) Set(v T) {
	if o.value == v {
		return
	}
	o.value = v

	// snapshot so subscribe/unsubscribe inside a callback doesn't disturb this pass
	ls := make([]listener[T], len(o.listeners))
	copy(ls, o.listeners)
	for _, l := range ls {
		l.fn(o.value)
	}
}

// Subscribe adds a change listener and returns its token.
func (o *Observable[T]) Subscribe(fn func(T)) Token {
	o.nextToken++
	o.listeners = append(o.listeners, listener[T]{token: o.nextToken, fn: fn})
	return o.nextToken
}

// Unsubscribe removes the listener registered under tok.
// Reports whether a listener was removed.
func (o *Observable[T]) Unsubscribe(tok Token) bool {
	for i, l := range o.listeners {
		if l.token == tok {
			o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of live subscriptions.
func (o *Observable[T]) Len() int {
	return len(o.listeners)
}
