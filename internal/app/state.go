// Package app provides application state, configuration, and events.
package app

import (
	"fmt"
	"sync"

	"alignment-editor/internal/alignment"
	"alignment-editor/internal/standards"
	"alignment-editor/internal/tracker"
)

// EventType identifies different application events.
type EventType int

const (
	EventChainLoaded EventType = iota
	EventChainSaved
	EventSelectionChanged
	EventCurveModified
	EventDragCommitted
	EventDragRolledBack
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the current chain, its trackers,
// and the project bookkeeping around them.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Modified    bool

	// Alignment under edit
	Chain    *alignment.Chain
	Trackers []*tracker.CurveTracker

	// Active design standard (defaults for new curves, advisory checks)
	Standard *standards.Standard

	// Drag options applied when trackers are (re)built
	TrackerOptions tracker.Options

	// Event listeners
	listeners map[EventType][]EventListener
}

// NewState creates a new application state.
func NewState() *State {
	return &State{
		Standard:  standards.Highway80(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// SetStandardByName switches the active design standard.
func (s *State) SetStandardByName(name string) error {
	std := standards.Get(name)
	if std == nil {
		return fmt.Errorf("unknown design standard %q", name)
	}
	s.mu.Lock()
	s.Standard = std
	s.mu.Unlock()
	return nil
}

// LoadChain loads an alignment chain from the specified path. Existing
// trackers are finalized; new ones are built once a view attaches.
func (s *State) LoadChain(path string) error {
	ch, err := alignment.LoadChain(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.finalizeTrackersLocked()
	s.Chain = ch
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventChainLoaded, path)
	return nil
}

// SaveChain writes the committed chain back to path.
func (s *State) SaveChain(path string) error {
	s.mu.RLock()
	ch := s.Chain
	s.mu.RUnlock()
	if ch == nil {
		return fmt.Errorf("no chain loaded")
	}

	if err := alignment.SaveChain(path, ch); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventChainSaved, path)
	return nil
}

// AttachView builds the curve trackers against the supplied proxy
// factory and input dispatcher. Any previous trackers are finalized.
func (s *State) AttachView(factory tracker.ProxyFactory, disp *tracker.Dispatcher) {
	opts := s.TrackerOptions
	opts.OnCommit = func(curves []int) {
		s.SetModified(true)
		s.Emit(EventDragCommitted, curves)
	}
	opts.OnRollback = func() {
		s.Emit(EventDragRolledBack, nil)
	}
	opts.OnSelection = func(name string, state tracker.SelectionState) {
		s.Emit(EventSelectionChanged, name)
	}

	s.mu.Lock()
	s.finalizeTrackersLocked()
	if s.Chain != nil {
		s.Trackers = tracker.BuildTrackers(s.Chain, factory, disp, opts)
	}
	s.mu.Unlock()
}

// UpdateAll re-derives every curve from current control point positions
// and refreshes the proxies. External collaborators call this after
// bulk edits outside the drag path.
func (s *State) UpdateAll() {
	s.mu.RLock()
	trackers := s.Trackers
	s.mu.RUnlock()

	for _, t := range trackers {
		t.Update()
	}
	s.Emit(EventCurveModified, nil)
}

// Finalize tears down all trackers; safe to call repeatedly.
func (s *State) Finalize() {
	s.mu.Lock()
	s.finalizeTrackersLocked()
	s.mu.Unlock()
}

func (s *State) finalizeTrackersLocked() {
	for _, t := range s.Trackers {
		t.Finalize()
	}
	s.Trackers = nil
}
