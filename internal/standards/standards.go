// Package standards provides alignment design standard definitions and
// management. A standard bundles the geometric limits (minimum radius,
// minimum spiral length, maximum deflection) for one design speed.
package standards

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"alignment-editor/internal/alignment"
)

// Standard defines the curve design limits for one design speed.
type Standard struct {
	StandardName    string  `json:"name"`
	DesignSpeedKmh  float64 `json:"design_speed_kmh"`
	MinRadius       float64 `json:"min_radius_m"`
	MinSpiralLength float64 `json:"min_spiral_length_m"`
	MaxDeflection   float64 `json:"max_deflection_deg"`
}

// Name returns the standard's registry name.
func (s *Standard) Name() string {
	return s.StandardName
}

// Validate checks the standard's internal consistency.
func (s *Standard) Validate() error {
	if s.StandardName == "" {
		return fmt.Errorf("standard name is required")
	}
	if s.DesignSpeedKmh <= 0 {
		return fmt.Errorf("design speed must be positive")
	}
	if s.MinRadius <= 0 {
		return fmt.Errorf("minimum radius must be positive")
	}
	return nil
}

// CheckCurve reports whether a solved curve record satisfies the
// standard's limits.
func (s *Standard) CheckCurve(c *alignment.Curve) error {
	radius := c.Radius
	if c.Type == alignment.CurveSpiral {
		radius = c.StartRadius
		if math.IsInf(radius, 1) {
			radius = c.EndRadius
		}
		if s.MinSpiralLength > 0 && c.Length > 0 && c.Length < s.MinSpiralLength {
			return fmt.Errorf("spiral length %.1f m below minimum %.1f m",
				c.Length, s.MinSpiralLength)
		}
	}
	if radius < s.MinRadius {
		return fmt.Errorf("radius %.1f m below minimum %.1f m for %.0f km/h",
			radius, s.MinRadius, s.DesignSpeedKmh)
	}
	if s.MaxDeflection > 0 {
		deg := math.Abs(c.Delta) * 180 / math.Pi
		if deg > s.MaxDeflection {
			return fmt.Errorf("deflection %.1f deg exceeds maximum %.1f deg",
				deg, s.MaxDeflection)
		}
	}
	return nil
}

// SaveToFile saves the standard to a JSON file.
func (s *Standard) SaveToFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile loads a standard from a JSON file.
func LoadFromFile(path string) (*Standard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var std Standard
	if err := json.Unmarshal(data, &std); err != nil {
		return nil, err
	}

	if err := std.Validate(); err != nil {
		return nil, fmt.Errorf("invalid design standard: %w", err)
	}
	return &std, nil
}

// Registry of known design standards
var registry = make(map[string]*Standard)

// Register adds a design standard to the registry.
func Register(std *Standard) {
	registry[std.Name()] = std
}

// Get returns a design standard by name, or nil.
func Get(name string) *Standard {
	return registry[name]
}

// List returns all registered design standard names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	// Register built-in design standards
	Register(Highway40())
	Register(Highway60())
	Register(Highway80())
	Register(Highway100())
	Register(Rail120())
	Register(Rail160())
	Register(Rail200())
}
