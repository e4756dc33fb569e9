package tracker

import (
	"fmt"
	"math"

	"alignment-editor/internal/alignment"
	"alignment-editor/internal/kernel"
	"alignment-editor/pkg/geometry"
)

// Options configure tracker behavior.
type Options struct {
	// RotationEnabled arms rotation-about-anchor dragging when the Ctrl
	// modifier is held at drag start.
	RotationEnabled bool
	// SampleSegments is the segment count used when regenerating display
	// points after a solve.
	SampleSegments int
	// OnCommit fires after a drag transaction commits, with the indices
	// of the curves it re-solved.
	OnCommit func(curves []int)
	// OnRollback fires after a drag transaction is rolled back.
	OnRollback func()
	// OnSelection fires when a tracker's aggregate selection state
	// changes on a button event.
	OnSelection func(name string, state SelectionState)
}

func (o Options) withDefaults() Options {
	if o.SampleSegments <= 0 {
		o.SampleSegments = 64
	}
	return o
}

// dragArbiter serializes drag transactions: only one tracker may own an
// active drag at a time, and it alone writes shared control points for
// the duration of its transaction.
type dragArbiter struct {
	active *CurveTracker
	points []NodeProxy // one proxy per chain control point
}

func (a *dragArbiter) claim(t *CurveTracker) bool {
	if a.active == nil {
		a.active = t
	}
	return a.active == t
}

func (a *dragArbiter) release(t *CurveTracker) {
	if a.active == t {
		a.active = nil
	}
}

// CurveTracker owns one curve record and mediates solving, selection,
// dragging, and validation for it. Trackers of the same chain coordinate
// through the shared chain and control point proxies; multi-curve drags
// are run entirely by the tracker that first claims the transaction.
type CurveTracker struct {
	name  string
	chain *alignment.Chain
	index int
	curve *alignment.Curve
	opts  Options

	nodes [3]NodeProxy // proxies of the start, PI, and end control points
	owned []NodeProxy  // node proxies this tracker renders and destroys
	legs  [2]WireProxy // tangent legs start->PI and PI->end
	wire  WireProxy    // sampled curve polyline

	peers   []*CurveTracker
	arbiter *dragArbiter

	state      SelectionState
	drag       *DragState
	isValid    bool
	chainValid bool
	buttonDown bool
	finalized  bool

	subs []*Subscription
}

// BuildTrackers constructs one CurveTracker per curve of the chain,
// wiring them to shared control point proxies, a common drag arbiter,
// and the input dispatcher, then runs the initial Update pass.
func BuildTrackers(ch *alignment.Chain, factory ProxyFactory, disp *Dispatcher, opts Options) []*CurveTracker {
	opts = opts.withDefaults()

	arb := &dragArbiter{}
	for j, p := range ch.Points {
		arb.points = append(arb.points,
			factory.NewNode(fmt.Sprintf("PI-%d", j), p.Position))
	}

	trackers := make([]*CurveTracker, 0, len(ch.Curves))
	for i := range ch.Curves {
		trackers = append(trackers, newCurveTracker(ch, i, factory, disp, arb, opts))
	}
	for _, t := range trackers {
		t.peers = trackers
		t.Update()
	}
	return trackers
}

func newCurveTracker(ch *alignment.Chain, i int, factory ProxyFactory, disp *Dispatcher, arb *dragArbiter, opts Options) *CurveTracker {
	t := &CurveTracker{
		name:    fmt.Sprintf("Curve-%d", i),
		chain:   ch,
		index:   i,
		curve:   ch.Curves[i],
		opts:    opts,
		arbiter: arb,
		isValid: true,
	}
	t.nodes = [3]NodeProxy{arb.points[i], arb.points[i+1], arb.points[i+2]}

	// Each tracker renders its own PI marker; the chain termini belong
	// to the first and last trackers.
	t.owned = append(t.owned, arb.points[i+1])
	if i == 0 {
		t.owned = append(t.owned, arb.points[0])
	}
	if i == len(ch.Curves)-1 {
		t.owned = append(t.owned, arb.points[len(arb.points)-1])
	}

	t.legs[0] = factory.NewWire(t.name+"-InTangent", nil)
	t.legs[1] = factory.NewWire(t.name+"-OutTangent", nil)
	t.wire = factory.NewWire(t.name+"-"+t.curve.Type.String(), nil)

	if disp != nil {
		t.subs = append(t.subs,
			disp.Subscribe(t.handleMotion, t.handleButton, t.handleKey))
	}
	return t
}

// Name returns the tracker's display name.
func (t *CurveTracker) Name() string { return t.name }

// Curve returns the tracked curve record.
func (t *CurveTracker) Curve() *alignment.Curve { return t.curve }

// State returns the aggregate selection state as of the last button event.
func (t *CurveTracker) State() SelectionState { return t.state }

// IsValid reports whether the curve passed the last feasibility check.
func (t *CurveTracker) IsValid() bool { return t.isValid }

// Dragging reports whether this tracker owns an active drag transaction.
func (t *CurveTracker) Dragging() bool { return t.drag != nil }

// Rebuild re-derives the curve record from the current control point
// positions. An arc solve always succeeds; a spiral solve that comes
// back infeasible leaves the previous record untouched.
func (t *CurveTracker) Rebuild() {
	start, pi, end := t.chain.CurvePoints(t.index)

	switch t.curve.Type {
	case alignment.CurveArc:
		bIn := geometry.Bearing(pi.Position.Sub(start.Position))
		bOut := geometry.Bearing(end.Position.Sub(pi.Position))
		arc := kernel.SolveArc(bIn, bOut, pi.Position, t.curve.Radius)
		t.curve.ApplyArc(arc)
		t.curve.Points = arc.Points(t.opts.SampleSegments)

	case alignment.CurveSpiral:
		sp := start.Position
		ep := end.Position
		if math.IsInf(t.curve.StartRadius, 1) {
			// The known parameter is the end radius; once solved, the
			// spiral's own end stays authoritative.
			if t.curve.Length > 0 {
				ep = t.curve.End
			}
			if !start.IsEndNode {
				// Reserve the far half of the shared tangent leg for the
				// neighboring curve.
				sp = pi.Position.Lerp(sp, 0.5)
			}
		} else {
			if t.curve.Length > 0 {
				sp = t.curve.Start
			}
			if !end.IsEndNode {
				ep = pi.Position.Lerp(ep, 0.5)
			}
		}

		solved, err := kernel.SolveSpiral(pi.Position, sp, ep,
			t.curve.StartRadius, t.curve.EndRadius)
		if err != nil {
			// Keep the last valid record.
			tracer().Infof("%s: %v", t.name, err)
			return
		}
		t.curve.ApplySpiral(solved)
		t.curve.Points = solved.Points(t.opts.SampleSegments)

	default:
		panic("tracker: unrecognized curve type " + t.curve.Type.String())
	}
}

// Update re-derives the curve record and rebuilds the visual proxies.
// It runs on construction, after every committed drag, and after bulk
// external edits.
func (t *CurveTracker) Update() {
	t.Rebuild()
	t.refreshProxies()
}

func (t *CurveTracker) refreshProxies() {
	start, pi, end := t.chain.CurvePoints(t.index)
	t.nodes[0].SetPosition(start.Position)
	t.nodes[1].SetPosition(pi.Position)
	t.nodes[2].SetPosition(end.Position)
	t.legs[0].SetPoints([]geometry.Point3D{start.Position, pi.Position})
	t.legs[1].SetPoints([]geometry.Point3D{pi.Position, end.Position})
	t.wire.SetPoints(t.curve.Points)
	t.refreshStyle()
}

func (t *CurveTracker) refreshStyle() {
	style := StyleDefault
	switch {
	case !t.isValid:
		style = StyleError
	case t.state == Selected:
		style = StyleSelected
	}
	t.wire.SetStyle(style)
}

func (t *CurveTracker) aggregate() SelectionState {
	states := make([]SelectionState, 0, len(t.nodes))
	for _, n := range t.nodes {
		states = append(states, n.SelectionState())
	}
	return AggregateSelection(states)
}

// handleButton recomputes the aggregate selection state and terminates
// an active drag when the button is released.
func (t *CurveTracker) handleButton(ev ButtonEvent) {
	if t.finalized {
		return
	}
	prev := t.state
	t.state = t.aggregate()
	if t.state != prev && t.opts.OnSelection != nil {
		t.opts.OnSelection(t.name, t.state)
	}
	if ev.Pressed {
		t.buttonDown = true
	} else {
		t.buttonDown = false
		if t.drag != nil {
			t.endDrag(true)
		}
	}
	t.refreshStyle()
}

// handleMotion feeds dragging only; it never changes selection.
func (t *CurveTracker) handleMotion(ev MotionEvent) {
	if t.finalized || !t.buttonDown {
		return
	}
	if t.drag != nil {
		t.onDrag(ev)
		return
	}
	if t.state == Unselected {
		return
	}
	if !t.arbiter.claim(t) {
		return
	}
	t.startDrag(ev)
}

// handleKey cancels an active drag on escape, synchronously rolling the
// chain back within the same event handling step.
func (t *CurveTracker) handleKey(ev KeyEvent) {
	if t.finalized || ev.Key != KeyEscape {
		return
	}
	if t.drag != nil {
		t.endDrag(false)
	}
}

func (t *CurveTracker) startDrag(ev MotionEvent) {
	var selected []int
	for j, p := range t.arbiter.points {
		if p.SelectionState() == Selected {
			selected = append(selected, j)
		}
	}
	if len(selected) == 0 {
		t.arbiter.release(t)
		return
	}

	rotate := t.opts.RotationEnabled && ev.Mods.Ctrl
	t.drag = newDragState(t.chain, ev.Position, selected, rotate)
	t.chainValid = true
	tracer().Debugf("%s: drag start over curves %v (multi=%v rotate=%v)",
		t.name, t.drag.Curves, t.drag.Multi, t.drag.Rotate)
}

// onDrag applies the incremental transform to the selected control
// points, re-solves every curve in the affected range, and re-validates
// the chain so the scene never shows a stale, unvalidated curve.
func (t *CurveTracker) onDrag(ev MotionEvent) {
	step := t.drag.Step(ev.Position)
	for _, j := range t.drag.NodeIdx {
		pt := t.chain.Points[j]
		pt.Position = step.Apply(pt.Position)
	}

	for _, i := range t.drag.Curves {
		t.peers[i].Rebuild()
	}

	res := ValidateChain(t.chain, t.drag.Curves)
	t.chainValid = res.IsValid
	for _, i := range res.Indices {
		p := t.peers[i]
		p.isValid = !res.Failed[i]
		p.refreshProxies()
	}
}

// endDrag commits the transaction when the chain is valid and a commit
// is allowed, and rolls back verbatim to the pre-drag snapshot otherwise.
func (t *CurveTracker) endDrag(allowCommit bool) {
	drag := t.drag
	if drag == nil {
		return
	}
	t.drag = nil
	defer t.arbiter.release(t)

	if allowCommit && t.chainValid {
		for _, i := range drag.Curves {
			t.peers[i].Update()
		}
		tracer().Debugf("%s: drag committed over curves %v", t.name, drag.Curves)
		if t.opts.OnCommit != nil {
			t.opts.OnCommit(drag.Curves)
		}
		return
	}

	drag.Restore(t.chain)
	lo := drag.Curves[0] - 1
	hi := drag.Curves[len(drag.Curves)-1] + 1
	for i := lo; i <= hi; i++ {
		if i < 0 || i >= len(t.peers) {
			continue
		}
		p := t.peers[i]
		p.isValid = true
		p.refreshProxies()
	}
	tracer().Debugf("%s: drag rolled back", t.name)
	if t.opts.OnRollback != nil {
		t.opts.OnRollback()
	}
}

// Finalize detaches the tracker's visual proxies and releases its input
// subscriptions. It is valid from any state and idempotent; an active
// drag is rolled back first so no partially-applied state survives.
func (t *CurveTracker) Finalize() {
	if t.finalized {
		return
	}
	if t.drag != nil {
		t.endDrag(false)
	}
	t.finalized = true

	for _, s := range t.subs {
		s.Release()
	}
	t.subs = nil

	for _, n := range t.owned {
		n.Destroy()
	}
	t.legs[0].Destroy()
	t.legs[1].Destroy()
	t.wire.Destroy()
}
