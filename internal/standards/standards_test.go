package standards

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alignment-editor/internal/alignment"
)

func TestRegistryHasBuiltins(t *testing.T) {
	names := List()
	assert.Contains(t, names, "Highway 80")
	assert.Contains(t, names, "Rail 160")
	assert.IsIncreasing(t, names)

	std := Get("Highway 80")
	require.NotNil(t, std)
	assert.Equal(t, 280.0, std.MinRadius)

	assert.Nil(t, Get("Autobahn 200"))
}

func TestValidate(t *testing.T) {
	good := Highway60()
	assert.NoError(t, good.Validate())

	assert.Error(t, (&Standard{DesignSpeedKmh: 60, MinRadius: 100}).Validate())
	assert.Error(t, (&Standard{StandardName: "X", MinRadius: 100}).Validate())
	assert.Error(t, (&Standard{StandardName: "X", DesignSpeedKmh: 60}).Validate())
}

func TestCheckCurveRadius(t *testing.T) {
	std := Highway80()

	ok := &alignment.Curve{Type: alignment.CurveArc, Radius: 300, Delta: 0.5}
	assert.NoError(t, std.CheckCurve(ok))

	tight := &alignment.Curve{Type: alignment.CurveArc, Radius: 100, Delta: 0.5}
	assert.Error(t, std.CheckCurve(tight))
}

func TestCheckCurveDeflection(t *testing.T) {
	std := Highway80() // max 60 degrees
	sharp := &alignment.Curve{Type: alignment.CurveArc, Radius: 500, Delta: -1.3}
	assert.Error(t, std.CheckCurve(sharp), "74 degrees exceeds the limit")
}

func TestCheckCurveSpiral(t *testing.T) {
	std := Rail160()

	sp := &alignment.Curve{
		Type:        alignment.CurveSpiral,
		StartRadius: math.Inf(1),
		EndRadius:   2500,
		Length:      200,
		Delta:       0.04,
	}
	assert.NoError(t, std.CheckCurve(sp))

	sp.Length = 50 // below the minimum spiral length
	assert.Error(t, std.CheckCurve(sp))

	sp.Length = 200
	sp.EndRadius = 800 // below the minimum radius
	assert.Error(t, std.CheckCurve(sp))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	std := &Standard{
		StandardName:    "Test Road 70",
		DesignSpeedKmh:  70,
		MinRadius:       200,
		MinSpiralLength: 45,
		MaxDeflection:   70,
	}

	path := filepath.Join(t.TempDir(), "standard.json")
	require.NoError(t, std.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, std, loaded)
}

func TestLoadRejectsInvalid(t *testing.T) {
	bad := &Standard{StandardName: "No Speed", MinRadius: 100}
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, bad.SaveToFile(path))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
