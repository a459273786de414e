package runtime

import "github.com/odvcencio/sniper/pkg/ui/terminal"

// KeyHandler is the application-level fallback consulted when no component
// in the focus chain claims a key.
type KeyHandler[M any] func(ev terminal.KeyEvent) (M, bool)

// Dispatch offers ev to each component of chain in order, most specific first.
//
// A component that consumes the key ends dispatch with no message and the
// fallback is never consulted. A component that emits a message ends dispatch
// with that message. Only when every component propagates does the fallback
// see the key; its result is the result of Dispatch.
//
// The chain is borrowed for this one call and must not be retained.
func Dispatch[M any](chain []Component[M], ev terminal.KeyEvent, fallback KeyHandler[M]) (M, bool) {
	var zero M
	for _, c := range chain {
		if c == nil {
			continue
		}
		out := c.HandleKey(ev)
		switch out.kind {
		case outcomeConsumed:
			return zero, false
		case outcomeMessage:
			return out.msg, true
		}
	}
	if fallback == nil {
		return zero, false
	}
	return fallback(ev)
}

// Offer gives child first refusal on ev inside a parent's HandleKey.
// It returns the child's outcome and whether the parent should stop.
func Offer[M any](child Component[M], ev terminal.KeyEvent) (Outcome[M], bool) {
	if child == nil {
		return Propagate[M](), false
	}
	out := child.HandleKey(ev)
	return out, !out.Propagated()
}
