package tracker

import (
	"fmt"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alignment-editor/internal/alignment"
	"alignment-editor/pkg/geometry"
)

// Headless proxy fakes recording style and lifecycle calls.

type fakeNode struct {
	name      string
	pos       geometry.Point3D
	style     Style
	selected  bool
	destroyed int
}

func (n *fakeNode) Position() geometry.Point3D     { return n.pos }
func (n *fakeNode) SetPosition(p geometry.Point3D) { n.pos = p }
func (n *fakeNode) SetStyle(s Style)               { n.style = s }
func (n *fakeNode) Destroy()                       { n.destroyed++ }

func (n *fakeNode) SelectionState() SelectionState {
	if n.selected {
		return Selected
	}
	return Unselected
}

type fakeWire struct {
	name      string
	pts       []geometry.Point3D
	style     Style
	destroyed int
}

func (w *fakeWire) SetPoints(pts []geometry.Point3D) { w.pts = append(w.pts[:0], pts...) }
func (w *fakeWire) SetStyle(s Style)                 { w.style = s }
func (w *fakeWire) Destroy()                         { w.destroyed++ }

type fakeFactory struct {
	nodes []*fakeNode
	wires map[string]*fakeWire
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{wires: map[string]*fakeWire{}}
}

func (f *fakeFactory) NewNode(name string, p geometry.Point3D) NodeProxy {
	n := &fakeNode{name: name, pos: p}
	f.nodes = append(f.nodes, n)
	return n
}

func (f *fakeFactory) NewWire(name string, pts []geometry.Point3D) WireProxy {
	w := &fakeWire{name: name}
	w.SetPoints(pts)
	f.wires[name] = w
	return w
}

func (f *fakeFactory) selectOnly(indices ...int) {
	for _, n := range f.nodes {
		n.selected = false
	}
	for _, j := range indices {
		f.nodes[j].selected = true
	}
}

func mustChain(t *testing.T, pis []geometry.Point3D, curves []*alignment.Curve) *alignment.Chain {
	t.Helper()
	ch, err := alignment.NewChain(pis, curves)
	require.NoError(t, err)
	return ch
}

// replayDrag selects point j and runs a full press/motion/release cycle
// moving it from its current position to target.
func replayDrag(f *fakeFactory, disp *Dispatcher, j int, target geometry.Point3D) {
	f.selectOnly(j)
	from := f.nodes[j].pos
	disp.Button(ButtonEvent{Pressed: true, Position: from})
	disp.Motion(MotionEvent{Position: from})
	disp.Motion(MotionEvent{Position: from.Lerp(target, 0.5)})
	disp.Motion(MotionEvent{Position: target})
	disp.Button(ButtonEvent{Pressed: false, Position: target})
}

func TestAggregateSelection(t *testing.T) {
	sel, par, un := Selected, Partial, Unselected
	cases := []struct {
		states []SelectionState
		want   SelectionState
	}{
		{[]SelectionState{sel, sel, sel}, sel},
		{[]SelectionState{sel, un, un}, par},
		{[]SelectionState{un, sel, sel}, par},
		{[]SelectionState{un, un, un}, un},
		// A node reporting Partial does not count as selected, so it
		// cannot lift the aggregate above Unselected on its own.
		{[]SelectionState{par, un, un}, un},
		{nil, un},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AggregateSelection(c.states), "%v", c.states)
	}
}

func TestValidateChainMarksBothCurvesOfPair(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	// Two arcs whose combined tangents (60+60) exceed the 100 between PIs.
	ch := mustChain(t,
		[]geometry.Point3D{{X: -200, Y: 0}, {X: 0, Y: 0}, {X: 100, Y: 0}, {X: 300, Y: 0}},
		[]*alignment.Curve{
			{Type: alignment.CurveArc, Tangent: 60, PI: geometry.Point3D{X: 0, Y: 0}},
			{Type: alignment.CurveArc, Tangent: 60, PI: geometry.Point3D{X: 100, Y: 0}},
		})

	res := ValidateChain(ch, []int{0})
	assert.False(t, res.IsValid)
	assert.True(t, res.Failed[0], "left curve of the pair")
	assert.True(t, res.Failed[1], "right curve of the pair")
}

func TestValidateChainSpiralPairUsesFacingTangents(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	// Two spirals share the tangent run between their PIs, 100 apart. The
	// left one is curved at its start, so its outgoing tangent is the long
	// one (70); the right one is flat at its start, contributing its long
	// tangent (50) as well. 70+50 exceeds the room.
	ch := mustChain(t,
		[]geometry.Point3D{{X: -300, Y: 0}, {X: 0, Y: 0}, {X: 100, Y: 0}, {X: 400, Y: 0}},
		[]*alignment.Curve{
			{
				Type: alignment.CurveSpiral, PI: geometry.Point3D{X: 0, Y: 0},
				StartRadius: 500, EndRadius: math.Inf(1),
				TanShort: 30, TanLong: 70,
			},
			{
				Type: alignment.CurveSpiral, PI: geometry.Point3D{X: 100, Y: 0},
				StartRadius: math.Inf(1), EndRadius: 500,
				TanShort: 20, TanLong: 50,
			},
		})

	res := ValidateChain(ch, []int{0, 1})
	assert.False(t, res.IsValid)
	assert.True(t, res.Failed[0])
	assert.True(t, res.Failed[1])
}

func TestValidateChainRangeExtensionIsSymmetric(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	ch := mustChain(t,
		[]geometry.Point3D{{X: -200, Y: 0}, {X: 0, Y: 0}, {X: 100, Y: 0}, {X: 300, Y: 0}},
		[]*alignment.Curve{
			{Type: alignment.CurveArc, Tangent: 60, PI: geometry.Point3D{X: 0, Y: 0}},
			{Type: alignment.CurveArc, Tangent: 60, PI: geometry.Point3D{X: 100, Y: 0}},
		})

	left := ValidateChain(ch, []int{0})
	right := ValidateChain(ch, []int{1})
	assert.Equal(t, []int{0, 1}, left.Indices)
	assert.Equal(t, []int{0, 1}, right.Indices)
	assert.Equal(t, left.Failed, right.Failed)
}

func TestValidateChainEndpointAnchors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	// A single curve whose tangent reaches past the fixed start anchor.
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: -30}, {X: 0, Y: 0}, {X: 200, Y: 0}},
		[]*alignment.Curve{
			{Type: alignment.CurveArc, Tangent: 50, PI: geometry.Point3D{X: 0, Y: 0}},
		})

	res := ValidateChain(ch, []int{0})
	assert.False(t, res.IsValid)
	assert.True(t, res.Failed[0])
}

func TestBuildTrackersSolvesChain(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 100}, {X: 300, Y: 100}},
		[]*alignment.Curve{
			{Type: alignment.CurveArc, Radius: 150},
			{Type: alignment.CurveArc, Radius: 150},
		})

	trackers := BuildTrackers(ch, f, disp, Options{SampleSegments: 8})
	require.Len(t, trackers, 2)
	require.Len(t, f.nodes, 4, "one shared proxy per control point")

	for i, tr := range trackers {
		c := tr.Curve()
		assert.Greater(t, c.Length, 0.0, "curve %d solved", i)
		assert.Len(t, c.Points, 9)
		assert.True(t, tr.IsValid())
	}
	assert.NotEmpty(t, f.wires["Curve-0-Arc"].pts)
	assert.NotEmpty(t, f.wires["Curve-1-InTangent"].pts)
}

func TestRebuildIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 70, Y: 190}},
		[]*alignment.Curve{
			{Type: alignment.CurveSpiral, StartRadius: math.Inf(1), EndRadius: 400},
		})

	trackers := BuildTrackers(ch, f, NewDispatcher(), Options{})
	first := trackers[0].Curve().Clone()
	trackers[0].Update()
	second := trackers[0].Curve()

	assert.InDelta(t, first.Delta, second.Delta, 1e-12)
	assert.InDelta(t, first.Length, second.Length, 1e-12)
	assert.InDelta(t, 0, first.Start.Distance(second.Start), 1e-9)
	assert.InDelta(t, 0, first.End.Distance(second.End), 1e-9)
}

func TestSpiralKeepsLastValidGeometry(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 70, Y: 190}},
		[]*alignment.Curve{
			{Type: alignment.CurveSpiral, StartRadius: math.Inf(1), EndRadius: 400},
		})

	trackers := BuildTrackers(ch, f, NewDispatcher(), Options{})
	solved := trackers[0].Curve().Clone()
	require.Greater(t, solved.Length, 0.0)

	// Push the PI past the solved end so the deflection exceeds a right
	// angle: the re-solve is infeasible and must leave the previous
	// record untouched.
	ch.Points[1].Position = geometry.Point3D{X: 0, Y: 260}
	trackers[0].Rebuild()

	assert.Equal(t, solved.Length, trackers[0].Curve().Length)
	assert.Equal(t, solved.Delta, trackers[0].Curve().Delta)
	assert.Equal(t, solved.End, trackers[0].Curve().End)
}

func TestDragCommitMovesControlPoint(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}},
		[]*alignment.Curve{
			{Type: alignment.CurveArc, Radius: 50},
		})

	var committed [][]int
	trackers := BuildTrackers(ch, f, disp, Options{
		OnCommit: func(curves []int) {
			committed = append(committed, append([]int(nil), curves...))
		},
	})

	target := geometry.Point3D{X: 100, Y: 10}
	replayDrag(f, disp, 1, target)

	assert.InDelta(t, 0, ch.Points[1].Position.Distance(target), 1e-9)
	assert.Greater(t, trackers[0].Curve().Length, 0.0, "deflection appeared")
	assert.True(t, trackers[0].IsValid())
	require.Len(t, committed, 1)
	assert.Equal(t, []int{0}, committed[0])
	assert.False(t, trackers[0].Dragging())
}

func TestDragRollbackOnInfeasibleDrop(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 0}},
		[]*alignment.Curve{
			{Type: alignment.CurveArc, Radius: 40},
			{Type: alignment.CurveArc, Radius: 40},
		})

	rollbacks := 0
	trackers := BuildTrackers(ch, f, disp, Options{
		OnRollback: func() { rollbacks++ },
	})

	before0 := *trackers[0].Curve().Clone()
	before1 := *trackers[1].Curve().Clone()
	origin := ch.Points[1].Position

	// Dropping the first PI near the second squeezes the shared tangent
	// run below the combined tangent lengths.
	replayDrag(f, disp, 1, geometry.Point3D{X: 70, Y: 100})

	assert.Equal(t, origin, ch.Points[1].Position, "position restored verbatim")
	assert.Equal(t, before0, *trackers[0].Curve())
	assert.Equal(t, before1, *trackers[1].Curve())
	assert.True(t, trackers[0].IsValid())
	assert.True(t, trackers[1].IsValid())
	assert.Equal(t, 1, rollbacks)
}

func TestDragMarksInvalidCurvesWhileMoving(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 0}},
		[]*alignment.Curve{
			{Type: alignment.CurveArc, Radius: 40},
			{Type: alignment.CurveArc, Radius: 40},
		})
	trackers := BuildTrackers(ch, f, disp, Options{})

	f.selectOnly(1)
	from := ch.Points[1].Position
	disp.Button(ButtonEvent{Pressed: true, Position: from})
	disp.Motion(MotionEvent{Position: from})
	disp.Motion(MotionEvent{Position: geometry.Point3D{X: 70, Y: 100}})

	assert.False(t, trackers[0].IsValid())
	assert.False(t, trackers[1].IsValid())
	assert.Equal(t, StyleError, f.wires["Curve-0-Arc"].style)
	assert.Equal(t, StyleError, f.wires["Curve-1-Arc"].style)

	disp.Key(KeyEvent{Key: KeyEscape})
	assert.Equal(t, from, ch.Points[1].Position)
	assert.True(t, trackers[0].IsValid())
	assert.Equal(t, StyleDefault, f.wires["Curve-0-Arc"].style)
}

func TestDragIgnoredWhenNothingSelected(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}},
		[]*alignment.Curve{{Type: alignment.CurveArc, Radius: 50}})
	trackers := BuildTrackers(ch, f, disp, Options{})

	from := ch.Points[1].Position
	disp.Button(ButtonEvent{Pressed: true, Position: from})
	disp.Motion(MotionEvent{Position: geometry.Point3D{X: 150, Y: 50}})
	disp.Button(ButtonEvent{Pressed: false, Position: geometry.Point3D{X: 150, Y: 50}})

	assert.Equal(t, from, ch.Points[1].Position)
	assert.False(t, trackers[0].Dragging())
}

func TestMultiPointDragSpansCurves(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{
			{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 50},
			{X: 300, Y: 50}, {X: 400, Y: 0},
		},
		[]*alignment.Curve{
			{Type: alignment.CurveArc, Radius: 100},
			{Type: alignment.CurveArc, Radius: 100},
			{Type: alignment.CurveArc, Radius: 100},
		})
	BuildTrackers(ch, f, disp, Options{})

	// Translate both interior PIs of the middle curve together.
	f.selectOnly(1, 2)
	anchor := geometry.Point3D{X: 150, Y: 25}
	disp.Button(ButtonEvent{Pressed: true, Position: anchor})
	disp.Motion(MotionEvent{Position: anchor})
	disp.Motion(MotionEvent{Position: anchor.Add(geometry.Point3D{Y: 10})})
	disp.Button(ButtonEvent{Pressed: false, Position: anchor.Add(geometry.Point3D{Y: 10})})

	assert.InDelta(t, 10, ch.Points[1].Position.Y, 1e-9)
	assert.InDelta(t, 60, ch.Points[2].Position.Y, 1e-9)
	assert.Equal(t, 50.0, ch.Points[3].Position.Y, "unselected point untouched")
}

func TestRotationDragPivotsAboutAnchor(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}},
		[]*alignment.Curve{{Type: alignment.CurveArc, Radius: 50}})
	BuildTrackers(ch, f, disp, Options{RotationEnabled: true})

	f.selectOnly(1)
	// The first motion sample fixes the pivot at the origin.
	pivot := geometry.Point3D{X: 0, Y: 0}
	ctrl := Modifiers{Ctrl: true}
	disp.Button(ButtonEvent{Pressed: true, Position: pivot, Mods: ctrl})
	disp.Motion(MotionEvent{Position: pivot, Mods: ctrl})
	disp.Motion(MotionEvent{Position: geometry.Point3D{X: 100, Y: 0}, Mods: ctrl})
	// Swing the reference ray a quarter turn counterclockwise.
	disp.Motion(MotionEvent{Position: geometry.Point3D{X: 0, Y: 100}, Mods: ctrl})
	disp.Button(ButtonEvent{Pressed: false, Position: geometry.Point3D{X: 0, Y: 100}, Mods: ctrl})

	// PI (100,0) rotates about the origin onto the Y axis.
	assert.InDelta(t, 0, ch.Points[1].Position.X, 1e-9)
	assert.InDelta(t, 100, ch.Points[1].Position.Y, 1e-9)
}

func TestFinalizeIsIdempotentAndDetaches(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}},
		[]*alignment.Curve{{Type: alignment.CurveArc, Radius: 50}})
	trackers := BuildTrackers(ch, f, disp, Options{})

	trackers[0].Finalize()
	trackers[0].Finalize()

	for _, n := range f.nodes {
		assert.Equal(t, 1, n.destroyed, n.name)
	}
	for name, w := range f.wires {
		assert.Equal(t, 1, w.destroyed, name)
	}

	// Events after finalize are ignored.
	from := ch.Points[1].Position
	f.selectOnly(1)
	disp.Button(ButtonEvent{Pressed: true, Position: from})
	disp.Motion(MotionEvent{Position: from})
	disp.Motion(MotionEvent{Position: from.Add(geometry.Point3D{Y: 10})})
	assert.Equal(t, from, ch.Points[1].Position)
}

func TestFinalizeRollsBackActiveDrag(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}},
		[]*alignment.Curve{{Type: alignment.CurveArc, Radius: 50}})
	trackers := BuildTrackers(ch, f, disp, Options{})

	f.selectOnly(1)
	from := ch.Points[1].Position
	disp.Button(ButtonEvent{Pressed: true, Position: from})
	disp.Motion(MotionEvent{Position: from})
	disp.Motion(MotionEvent{Position: from.Add(geometry.Point3D{Y: 25})})
	require.True(t, trackers[0].Dragging())

	trackers[0].Finalize()
	assert.Equal(t, from, ch.Points[1].Position)
	assert.False(t, trackers[0].Dragging())
}

func TestSelectionCallbackFiresOnChange(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := newFakeFactory()
	disp := NewDispatcher()
	ch := mustChain(t,
		[]geometry.Point3D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}},
		[]*alignment.Curve{{Type: alignment.CurveArc, Radius: 50}})

	var changes []string
	trackers := BuildTrackers(ch, f, disp, Options{
		OnSelection: func(name string, state SelectionState) {
			changes = append(changes, fmt.Sprintf("%s=%s", name, state))
		},
	})

	f.selectOnly(1)
	disp.Button(ButtonEvent{Pressed: true, Position: geometry.Point3D{X: 100}})
	disp.Button(ButtonEvent{Pressed: false, Position: geometry.Point3D{X: 100}})
	assert.Equal(t, Partial, trackers[0].State())
	assert.Equal(t, []string{"Curve-0=PARTIAL"}, changes)
}
