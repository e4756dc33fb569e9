package alignment

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"alignment-editor/pkg/geometry"
)

// ChainFile is the on-disk description of an alignment: PI positions in
// order plus one entry per curve. A spiral radius of zero means "unknown"
// (the flat end of the transition).
type ChainFile struct {
	Name   string             `json:"name,omitempty"`
	Points []geometry.Point3D `json:"points"`
	Curves []CurveSpec        `json:"curves"`
}

// CurveSpec describes one curve in a ChainFile.
type CurveSpec struct {
	Type        string  `json:"type"`
	Radius      float64 `json:"radius,omitempty"`
	StartRadius float64 `json:"startRadius,omitempty"`
	EndRadius   float64 `json:"endRadius,omitempty"`
}

// LoadChain reads a chain description from a JSON file. Curve records
// come back unsolved; callers run the tracker Update pass to derive the
// geometry.
func LoadChain(path string) (*Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file ChainFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse chain file %s: %w", path, err)
	}
	return file.Build()
}

// Build converts the file description into a Chain.
func (f *ChainFile) Build() (*Chain, error) {
	curves := make([]*Curve, 0, len(f.Curves))
	for i, spec := range f.Curves {
		c, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("curve %d: %w", i, err)
		}
		curves = append(curves, c)
	}
	return NewChain(f.Points, curves)
}

func (s CurveSpec) build() (*Curve, error) {
	switch strings.ToLower(s.Type) {
	case "arc":
		if s.Radius <= 0 {
			return nil, fmt.Errorf("arc needs a positive radius, got %v", s.Radius)
		}
		return &Curve{Type: CurveArc, Radius: s.Radius}, nil

	case "spiral":
		start, end := s.StartRadius, s.EndRadius
		if (start > 0) == (end > 0) {
			return nil, fmt.Errorf("spiral needs exactly one known radius, got start=%v end=%v", start, end)
		}
		if start <= 0 {
			start = math.Inf(1)
		}
		if end <= 0 {
			end = math.Inf(1)
		}
		return &Curve{Type: CurveSpiral, StartRadius: start, EndRadius: end}, nil
	}
	return nil, fmt.Errorf("unknown curve type %q", s.Type)
}

// SaveChain writes the committed chain back out in ChainFile form.
func SaveChain(path string, ch *Chain) error {
	file := ChainFile{Points: ch.PIPositions()}
	for _, c := range ch.Curves {
		spec := CurveSpec{}
		switch c.Type {
		case CurveArc:
			spec.Type = "arc"
			spec.Radius = c.Radius
		case CurveSpiral:
			spec.Type = "spiral"
			if !math.IsInf(c.StartRadius, 1) {
				spec.StartRadius = c.StartRadius
			}
			if !math.IsInf(c.EndRadius, 1) {
				spec.EndRadius = c.EndRadius
			}
		default:
			panic("alignment: unrecognized curve type " + c.Type.String())
		}
		file.Curves = append(file.Curves, spec)
	}

	data, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
