package tracker

import "alignment-editor/pkg/geometry"

// Style is a token naming the visual treatment of a proxy. The rendering
// layer decides what each token looks like.
type Style int

const (
	StyleDefault Style = iota
	StyleSelected
	StyleError
)

// The rendering collaborator is decomposed into small independent
// capabilities rather than one wide tracker interface; a proxy implements
// only the subset it needs.

// Positionable is a proxy whose world position can be read and written.
type Positionable interface {
	Position() geometry.Point3D
	SetPosition(geometry.Point3D)
}

// Styleable is a proxy whose visual style can be switched by token.
type Styleable interface {
	SetStyle(Style)
}

// Selectable is a proxy that reports its current selection state. The
// selection itself is driven by the picking layer, not by the core.
type Selectable interface {
	SelectionState() SelectionState
}

// NodeProxy is the visual stand-in for a control point marker.
type NodeProxy interface {
	Positionable
	Styleable
	Selectable
	Destroy()
}

// WireProxy is the visual stand-in for a polyline (tangent legs and the
// sampled curve itself).
type WireProxy interface {
	Styleable
	SetPoints([]geometry.Point3D)
	Destroy()
}

// ProxyFactory constructs visual proxies. The rendering layer supplies
// one; headless harnesses and tests supply stand-ins.
type ProxyFactory interface {
	NewNode(name string, p geometry.Point3D) NodeProxy
	NewWire(name string, pts []geometry.Point3D) WireProxy
}
