// Package canvas provides the alignment drawing surface with pan, zoom,
// picking, and the visual proxies the tracker core drives.
package canvas

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"alignment-editor/internal/tracker"
	"alignment-editor/pkg/geometry"
)

const (
	minZoom    = 0.05
	maxZoom    = 50.0
	zoomStep   = 1.25
	pickRadius = 8.0 // screen pixels
)

// AlignmentCanvas renders the chain and translates widget input into the
// world-space events the tracker dispatcher consumes. It doubles as the
// tracker.ProxyFactory so trackers can build their markers and wires
// directly on the drawing surface.
type AlignmentCanvas struct {
	widget.BaseWidget

	dispatcher *tracker.Dispatcher

	// Viewport: world center and pixels-per-meter scale. Screen Y grows
	// downward while world Y grows north, hence the flip in project().
	center geometry.Point3D
	zoom   float64

	content *fyne.Container
	nodes   []*nodeProxy
	wires   []*wireProxy

	// Secondary-button pan; primary stays free for marker drags.
	panning bool
	panLast fyne.Position

	onStatus func(msg string)
}

var _ fyne.Widget = (*AlignmentCanvas)(nil)
var _ desktop.Mouseable = (*AlignmentCanvas)(nil)
var _ desktop.Hoverable = (*AlignmentCanvas)(nil)
var _ fyne.Scrollable = (*AlignmentCanvas)(nil)
var _ fyne.Focusable = (*AlignmentCanvas)(nil)
var _ tracker.ProxyFactory = (*AlignmentCanvas)(nil)

// NewAlignmentCanvas creates an empty canvas feeding the dispatcher.
func NewAlignmentCanvas(disp *tracker.Dispatcher) *AlignmentCanvas {
	c := &AlignmentCanvas{
		dispatcher: disp,
		zoom:       1.0,
		content:    container.NewWithoutLayout(),
	}
	c.ExtendBaseWidget(c)
	return c
}

// Dispatcher returns the input dispatcher the canvas feeds.
func (c *AlignmentCanvas) Dispatcher() *tracker.Dispatcher {
	return c.dispatcher
}

// OnStatus sets a callback for status-line updates (cursor position).
func (c *AlignmentCanvas) OnStatus(fn func(msg string)) {
	c.onStatus = fn
}

// CreateRenderer implements fyne.Widget.
func (c *AlignmentCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.content)
}

// FitToChain positions the viewport so all the given points are visible.
func (c *AlignmentCanvas) FitToChain(points []geometry.Point3D) {
	if len(points) == 0 {
		return
	}
	box := geometry.BoundingBox(points)
	c.center = box.Center()

	size := c.Size()
	if size.Width > 0 && box.Width > 0 && box.Height > 0 {
		zx := float64(size.Width) * 0.9 / box.Width
		zy := float64(size.Height) * 0.9 / box.Height
		c.zoom = clampZoom(math.Min(zx, zy))
	}
	c.reproject()
}

// Scrolled zooms about the cursor position.
func (c *AlignmentCanvas) Scrolled(ev *fyne.ScrollEvent) {
	anchor := c.unproject(ev.Position)
	if ev.Scrolled.DY > 0 {
		c.zoom = clampZoom(c.zoom * zoomStep)
	} else if ev.Scrolled.DY < 0 {
		c.zoom = clampZoom(c.zoom / zoomStep)
	}
	// Keep the world point under the cursor fixed.
	after := c.unproject(ev.Position)
	c.center = c.center.Add(anchor.Sub(after))
	c.reproject()
}

func clampZoom(z float64) float64 {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

// project converts a world position to widget coordinates.
func (c *AlignmentCanvas) project(p geometry.Point3D) fyne.Position {
	size := c.Size()
	return fyne.NewPos(
		float32((p.X-c.center.X)*c.zoom)+size.Width/2,
		size.Height/2-float32((p.Y-c.center.Y)*c.zoom),
	)
}

// unproject converts widget coordinates back to a world position.
func (c *AlignmentCanvas) unproject(pos fyne.Position) geometry.Point3D {
	size := c.Size()
	return geometry.Point3D{
		X: c.center.X + float64(pos.X-size.Width/2)/c.zoom,
		Y: c.center.Y - float64(pos.Y-size.Height/2)/c.zoom,
	}
}

func (c *AlignmentCanvas) reproject() {
	for _, n := range c.nodes {
		n.place()
	}
	for _, w := range c.wires {
		w.place()
	}
	c.content.Refresh()
}

// Resize keeps the projection centered.
func (c *AlignmentCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	c.reproject()
}

func mods(m fyne.KeyModifier) tracker.Modifiers {
	return tracker.Modifiers{
		Ctrl:  m&fyne.KeyModifierControl != 0,
		Shift: m&fyne.KeyModifierShift != 0,
		Alt:   m&fyne.KeyModifierAlt != 0,
	}
}

// MouseDown runs the picking pass, then reports the button press. A
// secondary-button press starts a viewport pan instead.
func (c *AlignmentCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonSecondary {
		c.panning = true
		c.panLast = ev.Position
		return
	}
	if ev.Button == desktop.MouseButtonPrimary {
		c.pick(ev.Position, ev.Modifier&fyne.KeyModifierShift != 0)
	}
	c.dispatcher.Button(tracker.ButtonEvent{
		Pressed:  true,
		Position: c.unproject(ev.Position),
		Mods:     mods(ev.Modifier),
	})
}

// MouseUp reports the button release.
func (c *AlignmentCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonSecondary {
		c.panning = false
		return
	}
	c.dispatcher.Button(tracker.ButtonEvent{
		Pressed:  false,
		Position: c.unproject(ev.Position),
		Mods:     mods(ev.Modifier),
	})
}

// MouseMoved reports pointer motion in world coordinates, or shifts the
// viewport while a pan is active.
func (c *AlignmentCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if c.panning {
		// Keep the world point under the cursor fixed, same as Scrolled.
		c.center.X -= float64(ev.Position.X-c.panLast.X) / c.zoom
		c.center.Y += float64(ev.Position.Y-c.panLast.Y) / c.zoom
		c.panLast = ev.Position
		c.reproject()
		return
	}
	world := c.unproject(ev.Position)
	if c.onStatus != nil {
		c.onStatus(statusLine(world))
	}
	c.dispatcher.Motion(tracker.MotionEvent{
		Position: world,
		Mods:     mods(ev.Modifier),
	})
}

// MouseIn implements desktop.Hoverable.
func (c *AlignmentCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (c *AlignmentCanvas) MouseOut() {}

// pick toggles selection on the marker nearest to pos, or clears the
// selection when clicking empty space without the additive modifier.
func (c *AlignmentCanvas) pick(pos fyne.Position, additive bool) {
	var hit *nodeProxy
	best := pickRadius
	for _, n := range c.nodes {
		sp := c.project(n.world)
		dx := float64(sp.X - pos.X)
		dy := float64(sp.Y - pos.Y)
		if d := math.Hypot(dx, dy); d <= best {
			best = d
			hit = n
		}
	}

	if hit == nil {
		if !additive {
			for _, n := range c.nodes {
				n.setSelected(false)
			}
		}
		return
	}
	if !additive {
		for _, n := range c.nodes {
			if n != hit {
				n.setSelected(false)
			}
		}
	}
	hit.setSelected(!hit.selected)
}

// FocusGained implements fyne.Focusable.
func (c *AlignmentCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (c *AlignmentCanvas) FocusLost() {}

// TypedRune implements fyne.Focusable.
func (c *AlignmentCanvas) TypedRune(rune) {}

// TypedKey forwards escape to the dispatcher.
func (c *AlignmentCanvas) TypedKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape {
		c.dispatcher.Key(tracker.KeyEvent{Key: tracker.KeyEscape})
	}
}
