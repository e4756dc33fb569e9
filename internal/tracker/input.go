package tracker

import "alignment-editor/pkg/geometry"

// Input events arrive from the capture layer already projected into
// world coordinates. The core consumes three kinds: pointer motion,
// pointer button, and the escape key.

// Modifiers carries the keyboard modifier flags of an input event.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

// MotionEvent is a pointer-motion sample.
type MotionEvent struct {
	Position geometry.Point3D
	Mods     Modifiers
}

// ButtonEvent is a pointer-button transition.
type ButtonEvent struct {
	Pressed  bool
	Position geometry.Point3D
	Mods     Modifiers
}

// Key identifies a key event consumed by the core.
type Key int

// KeyEscape cancels an in-progress drag.
const KeyEscape Key = iota

// KeyEvent is a key press.
type KeyEvent struct {
	Key Key
}

// Subscription is a handle for one registered set of event callbacks.
// Release unregisters it; releasing twice is a no-op.
type Subscription struct {
	d  *Dispatcher
	id int
}

// Release removes the subscription from its dispatcher.
func (s *Subscription) Release() {
	if s.d == nil {
		return
	}
	s.d.remove(s.id)
	s.d = nil
}

type subscriber struct {
	id       int
	onMotion func(MotionEvent)
	onButton func(ButtonEvent)
	onKey    func(KeyEvent)
}

// Dispatcher fans input events out to subscribed trackers. Unlike an
// ambient event-callback table, subscriptions are explicit handles the
// owning tracker releases in Finalize.
//
// Dispatch is synchronous and single-threaded: each event is fully
// handled before the next is accepted.
type Dispatcher struct {
	nextID int
	subs   []subscriber
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers callbacks for the three event kinds; nil callbacks
// are skipped during dispatch.
func (d *Dispatcher) Subscribe(onMotion func(MotionEvent), onButton func(ButtonEvent), onKey func(KeyEvent)) *Subscription {
	d.nextID++
	d.subs = append(d.subs, subscriber{
		id:       d.nextID,
		onMotion: onMotion,
		onButton: onButton,
		onKey:    onKey,
	})
	return &Subscription{d: d, id: d.nextID}
}

func (d *Dispatcher) remove(id int) {
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Motion delivers a pointer-motion event to all subscribers.
func (d *Dispatcher) Motion(ev MotionEvent) {
	for _, s := range d.snapshot() {
		if s.onMotion != nil {
			s.onMotion(ev)
		}
	}
}

// Button delivers a pointer-button event to all subscribers.
func (d *Dispatcher) Button(ev ButtonEvent) {
	for _, s := range d.snapshot() {
		if s.onButton != nil {
			s.onButton(ev)
		}
	}
}

// Key delivers a key event to all subscribers.
func (d *Dispatcher) Key(ev KeyEvent) {
	for _, s := range d.snapshot() {
		if s.onKey != nil {
			s.onKey(ev)
		}
	}
}

// snapshot guards against subscriber removal mid-dispatch.
func (d *Dispatcher) snapshot() []subscriber {
	subs := make([]subscriber, len(d.subs))
	copy(subs, d.subs)
	return subs
}
