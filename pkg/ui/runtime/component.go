// Package runtime drives an Elm-style terminal application: render the model,
// wait briefly for one input event, route it through the focus chain, and fold
// the resulting messages into the model before the next frame.
package runtime

import "github.com/odvcencio/sniper/pkg/ui/terminal"

// Component is a renderable, key-handling unit. Components may own nested
// components; ownership is a strict tree.
//
// M is the application's message type.
type Component[M any] interface {
	// Render draws the component into area. Render may update view-only
	// state such as a scroll offset.
	Render(f *Frame, area Rect)

	// HandleKey offers a key press to the component.
	HandleKey(ev terminal.KeyEvent) Outcome[M]
}

type outcomeKind uint8

const (
	outcomePropagate outcomeKind = iota
	outcomeConsumed
	outcomeMessage
)

// Outcome is the result of offering a key to a component: propagate it,
// consume it, or turn it into a message.
type Outcome[M any] struct {
	kind outcomeKind
	msg  M
}

// Propagate leaves the key for the next component in the chain.
func Propagate[M any]() Outcome[M] {
	return Outcome[M]{kind: outcomePropagate}
}

// Consumed stops the chain without producing a message.
func Consumed[M any]() Outcome[M] {
	return Outcome[M]{kind: outcomeConsumed}
}

// Emit stops the chain and hands msg to the update step.
func Emit[M any](msg M) Outcome[M] {
	return Outcome[M]{kind: outcomeMessage, msg: msg}
}

// Propagated reports whether the key was left unclaimed.
func (o Outcome[M]) Propagated() bool {
	return o.kind == outcomePropagate
}

// IsConsumed reports whether the key was swallowed without a message.
func (o Outcome[M]) IsConsumed() bool {
	return o.kind == outcomeConsumed
}

// Message returns the emitted message, if any.
func (o Outcome[M]) Message() (M, bool) {
	return o.msg, o.kind == outcomeMessage
}

func (o Outcome[M]) String() string {
	switch o.kind {
	case outcomeConsumed:
		return "consumed"
	case outcomeMessage:
		return "message"
	default:
		return "propagate"
	}
}
