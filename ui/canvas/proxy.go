package canvas

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"

	"alignment-editor/internal/tracker"
	"alignment-editor/pkg/geometry"
)

const markerRadius = 5 // screen pixels

var (
	colorDefault  = color.NRGBA{R: 0x15, G: 0x65, B: 0xC0, A: 0xFF}
	colorSelected = color.NRGBA{R: 0xFF, G: 0xB3, B: 0x00, A: 0xFF}
	colorError    = color.NRGBA{R: 0xC6, G: 0x28, B: 0x28, A: 0xFF}
)

func styleColor(s tracker.Style) color.Color {
	switch s {
	case tracker.StyleSelected:
		return colorSelected
	case tracker.StyleError:
		return colorError
	default:
		return colorDefault
	}
}

func statusLine(p geometry.Point3D) string {
	return fmt.Sprintf("E %.2f  N %.2f", p.X, p.Y)
}

// nodeProxy is a draggable control-point marker drawn as a filled circle.
type nodeProxy struct {
	canvas   *AlignmentCanvas
	name     string
	world    geometry.Point3D
	style    tracker.Style
	selected bool
	circle   *fynecanvas.Circle
}

var _ tracker.NodeProxy = (*nodeProxy)(nil)

// NewNode implements tracker.ProxyFactory.
func (c *AlignmentCanvas) NewNode(name string, p geometry.Point3D) tracker.NodeProxy {
	n := &nodeProxy{
		canvas: c,
		name:   name,
		world:  p,
		circle: fynecanvas.NewCircle(colorDefault),
	}
	n.circle.StrokeWidth = 1
	n.circle.StrokeColor = color.Black
	c.nodes = append(c.nodes, n)
	c.content.Add(n.circle)
	n.place()
	return n
}

func (n *nodeProxy) place() {
	sp := n.canvas.project(n.world)
	n.circle.Move(fyne.NewPos(sp.X-markerRadius, sp.Y-markerRadius))
	n.circle.Resize(fyne.NewSize(2*markerRadius, 2*markerRadius))
}

// Position returns the marker's world position.
func (n *nodeProxy) Position() geometry.Point3D {
	return n.world
}

// SetPosition moves the marker in world space.
func (n *nodeProxy) SetPosition(p geometry.Point3D) {
	n.world = p
	n.place()
	n.circle.Refresh()
}

// SetStyle recolors the marker. Selection highlighting wins over the
// default token so a selected node stays visibly selected.
func (n *nodeProxy) SetStyle(s tracker.Style) {
	n.style = s
	n.repaint()
}

func (n *nodeProxy) repaint() {
	if n.style == tracker.StyleDefault && n.selected {
		n.circle.FillColor = colorSelected
	} else {
		n.circle.FillColor = styleColor(n.style)
	}
	n.circle.Refresh()
}

func (n *nodeProxy) setSelected(sel bool) {
	n.selected = sel
	n.repaint()
}

// SelectionState reports whether the user has picked this marker.
func (n *nodeProxy) SelectionState() tracker.SelectionState {
	if n.selected {
		return tracker.Selected
	}
	return tracker.Unselected
}

// Destroy removes the marker from the canvas.
func (n *nodeProxy) Destroy() {
	n.canvas.content.Remove(n.circle)
	for i, m := range n.canvas.nodes {
		if m == n {
			n.canvas.nodes = append(n.canvas.nodes[:i], n.canvas.nodes[i+1:]...)
			break
		}
	}
}

// wireProxy is a polyline drawn as a run of line segments. Segments are
// recycled across SetPoints calls since curve geometry updates on every
// drag motion.
type wireProxy struct {
	canvas *AlignmentCanvas
	name   string
	points []geometry.Point3D
	style  tracker.Style
	lines  []*fynecanvas.Line
}

var _ tracker.WireProxy = (*wireProxy)(nil)

// NewWire implements tracker.ProxyFactory.
func (c *AlignmentCanvas) NewWire(name string, pts []geometry.Point3D) tracker.WireProxy {
	w := &wireProxy{canvas: c, name: name}
	c.wires = append(c.wires, w)
	w.SetPoints(pts)
	return w
}

// SetPoints replaces the polyline geometry.
func (w *wireProxy) SetPoints(pts []geometry.Point3D) {
	w.points = append(w.points[:0], pts...)

	want := len(pts) - 1
	if want < 0 {
		want = 0
	}
	for len(w.lines) < want {
		ln := fynecanvas.NewLine(styleColor(w.style))
		ln.StrokeWidth = 2
		w.lines = append(w.lines, ln)
		w.canvas.content.Add(ln)
	}
	for len(w.lines) > want {
		last := w.lines[len(w.lines)-1]
		w.canvas.content.Remove(last)
		w.lines = w.lines[:len(w.lines)-1]
	}
	w.place()
}

func (w *wireProxy) place() {
	for i, ln := range w.lines {
		ln.Position1 = w.canvas.project(w.points[i])
		ln.Position2 = w.canvas.project(w.points[i+1])
		ln.Refresh()
	}
}

// SetStyle recolors the polyline.
func (w *wireProxy) SetStyle(s tracker.Style) {
	w.style = s
	col := styleColor(s)
	for _, ln := range w.lines {
		ln.StrokeColor = col
		ln.Refresh()
	}
}

// Destroy removes the polyline from the canvas.
func (w *wireProxy) Destroy() {
	for _, ln := range w.lines {
		w.canvas.content.Remove(ln)
	}
	w.lines = nil
	for i, o := range w.canvas.wires {
		if o == w {
			w.canvas.wires = append(w.canvas.wires[:i], w.canvas.wires[i+1:]...)
			break
		}
	}
}
