package forme

import tea "github.com/charmbracelet/bubbletea"

// Controller owns a root element and the view currently rendered from it.
// Validation only updates memoized results on elements; error decorations
// appear when Reload renders the tree again, which Validate does before
// reporting.
type Controller struct {
	root     Element
	queue    Dispatcher
	view     View
	focused  FocusableView
	onReload func(View)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithDispatcher sets the queue validation runs on. Defaults to DefaultQueue.
func WithDispatcher(d Dispatcher) ControllerOption {
	return func(c *Controller) { c.queue = d }
}

// OnReload registers a callback that receives each newly installed view.
func OnReload(fn func(View)) ControllerOption {
	return func(c *Controller) { c.onReload = fn }
}

// NewController creates a controller for root. Nothing is rendered until
// the first Reload.
func NewController(root Element, opts ...ControllerOption) *Controller {
	c := &Controller{root: root}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.queue = dispatcherOr(c.queue)
	return c
}

// Root returns the root element.
func (c *Controller) Root() Element { return c.root }

// View returns the installed view, nil before the first Reload.
func (c *Controller) View() View { return c.view }

// Dispatcher returns the queue validation runs on.
func (c *Controller) Dispatcher() Dispatcher { return c.queue }

// Reload discards the current view tree and renders the root again.
// Focus returns to the same position in the new chain when it still exists.
func (c *Controller) Reload() {
	pos := -1
	if c.view != nil {
		if c.focused != nil {
			for i, v := range FocusChain(c.view) {
				if v == View(c.focused) {
					pos = i
					break
				}
			}
			c.focused.ResignFocus()
			c.focused = nil
		}
		dispose(c.view)
	}

	c.view = c.root.Render()
	logger.Debug().Int("focus", pos).Msg("reloaded")

	if pos >= 0 {
		chain := FocusChain(c.view)
		if pos < len(chain) {
			c.focusOn(chain[pos])
		}
	}
	if c.onReload != nil {
		c.onReload(c.view)
	}
}

// Validate validates the root when it is Validatable, reloads so error views
// are visible, then reports the result. A root that isn't Validatable
// resolves Valid without reloading. done runs on the controller's dispatcher.
func (c *Controller) Validate(done func(Result)) {
	if done == nil {
		done = func(Result) {}
	}
	v, ok := c.root.(Validatable)
	if !ok {
		c.queue.Dispatch(func() { done(Valid) })
		return
	}
	ValidateAndStore(v, c.queue, func(r Result) {
		logger.Debug().Stringer("result", r).Msg("form validated")
		c.Reload()
		done(r)
	})
}

// Focused returns the focused control, or nil.
func (c *Controller) Focused() View {
	if c.focused == nil {
		return nil
	}
	return c.focused
}

// FocusFirst focuses the head of the chain.
func (c *Controller) FocusFirst() bool {
	chain := FocusChain(c.view)
	for _, v := range chain {
		if c.focusOn(v) {
			return true
		}
	}
	return false
}

// FocusNext moves focus along the chain, wrapping at the end.
func (c *Controller) FocusNext() bool {
	if c.focused == nil {
		return c.FocusFirst()
	}
	chain := FocusChain(c.view)
	next := c.focused.NextFocusable()
	for range chain {
		if next == nil {
			next = FocusHead(c.view)
		}
		if next == nil || next == View(c.focused) {
			return false
		}
		if c.focusOn(next) {
			return true
		}
		fv, ok := next.(FocusableView)
		if !ok {
			return false
		}
		next = fv.NextFocusable()
	}
	return false
}

// FocusPrev moves focus backwards, wrapping at the start. The chain is
// singly linked, so the predecessor is found by walking from the head.
func (c *Controller) FocusPrev() bool {
	chain := FocusChain(c.view)
	if len(chain) == 0 {
		return false
	}
	idx := 0
	for i, v := range chain {
		if c.focused != nil && v == View(c.focused) {
			idx = i
			break
		}
	}
	for n := 1; n < len(chain)+1; n++ {
		v := chain[(idx-n+len(chain))%len(chain)]
		if v == View(c.focused) {
			return false
		}
		if c.focusOn(v) {
			return true
		}
	}
	return false
}

// HandleKey routes a key to the focused control.
func (c *Controller) HandleKey(msg tea.KeyMsg) bool {
	if c.focused == nil {
		return false
	}
	h, ok := c.focused.(KeyHandler)
	if !ok {
		return false
	}
	return h.HandleKey(msg)
}

func (c *Controller) focusOn(v View) bool {
	fv, ok := v.(FocusableView)
	if !ok || !fv.CanReceiveFocus() {
		return false
	}
	prev := c.focused
	if prev != nil && prev != fv {
		prev.ResignFocus()
	}
	if !fv.BecomeFocused() {
		c.focused = nil
		return false
	}
	c.focused = fv
	return true
}
