package forme

// The focus chain is not stored anywhere: each render links every focusable
// view to its successor through SetNextFocusable, and a re-render builds a
// new chain from scratch. Links always join leaves. A nested stack resolves
// to its first leaf when it is the successor and to its last leaf when it is
// the predecessor, so walking the chain visits every focusable control once,
// in declaration order.

// firstLeaf descends through stacks to the first focusable control.
func firstLeaf(v View) View {
	for {
		s, ok := v.(*StackView)
		if !ok || len(s.focusables) == 0 {
			return v
		}
		v = s.focusables[0]
	}
}

// linkFocus points prev, and the last leaf under it, at next's first leaf.
func linkFocus(prev, next View) {
	target := firstLeaf(next)
	v := prev
	for {
		if fv, ok := v.(FocusableView); ok {
			fv.SetNextFocusable(target)
		}
		s, ok := v.(*StackView)
		if !ok || len(s.focusables) == 0 {
			return
		}
		v = s.focusables[len(s.focusables)-1]
	}
}

// FocusHead returns the first control in root's focus chain, or nil.
func FocusHead(root View) View {
	if root == nil {
		return nil
	}
	fv, ok := root.(FocusableView)
	if !ok || !fv.CanReceiveFocus() {
		return nil
	}
	return firstLeaf(root)
}

// FocusChain walks root's chain from its head and returns the controls in order.
func FocusChain(root View) []View {
	var out []View
	seen := make(map[View]bool)
	for v := FocusHead(root); v != nil && !seen[v]; {
		seen[v] = true
		out = append(out, v)
		fv, ok := v.(FocusableView)
		if !ok {
			break
		}
		v = fv.NextFocusable()
	}
	return out
}
