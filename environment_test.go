package satpower

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestSeasonalFluxRatio(t *testing.T) {
	env := NewEnvironment()
	max := env.SolarFluxAtEpoch(3)
	min := env.SolarFluxAtEpoch(3 + 365.25/2)
	want := (1 + 0.0334) / (1 - 0.0334)
	if !floats.EqualWithinAbs(max/min, want, 1e-6) {
		t.Fatalf("seasonal flux ratio %.9f, want %.9f", max/min, want)
	}
	if !floats.EqualWithinAbs(max, SolarConstant*1.0334, 1e-9) {
		t.Fatalf("perihelion flux %f", max)
	}
}

func TestAlbedoAndIRFluxes(t *testing.T) {
	env := NewEnvironment()
	vf := math.Pow(REarth/(REarth+550e3), 2)
	if !floats.EqualWithinAbs(env.AlbedoFlux(550e3), 0.3*SolarConstant*vf, 1e-9) {
		t.Fatalf("albedo flux %f", env.AlbedoFlux(550e3))
	}
	if !floats.EqualWithinAbs(env.EarthIRFlux(550e3), 237*vf, 1e-9) {
		t.Fatalf("IR flux %f", env.EarthIRFlux(550e3))
	}
	// Both fall off with altitude.
	if env.AlbedoFlux(1200e3) >= env.AlbedoFlux(400e3) {
		t.Fatal("albedo flux not decreasing with altitude")
	}
	if env.EarthIRFlux(1200e3) >= env.EarthIRFlux(400e3) {
		t.Fatal("IR flux not decreasing with altitude")
	}
}

func TestBetaAngle(t *testing.T) {
	env := NewEnvironment()
	// Equatorial orbit with the sun at the vernal equinox lies in the sun
	// plane: beta = 0.
	if !floats.EqualWithinAbs(env.BetaAngle(0, 0, 0), 0, 1e-12) {
		t.Fatalf("equatorial equinox beta %f", env.BetaAngle(0, 0, 0))
	}
	// A polar dawn-dusk geometry maximizes |beta|.
	β := env.BetaAngle(Deg2rad(90), Deg2rad(90), 0)
	if !floats.EqualWithinAbs(math.Abs(β), math.Pi/2, 1e-9) {
		t.Fatalf("dawn-dusk beta %f, want ±90 deg", Rad2deg(β))
	}
	// The S1 geometry was chosen for a near-zero beta.
	βS1 := env.BetaAngle(Deg2rad(97.6), Deg2rad(81), 2*math.Pi*80/365.25)
	if math.Abs(βS1) > Deg2rad(5) {
		t.Fatalf("S1 beta %f deg, want within 5 deg of zero", Rad2deg(βS1))
	}
}
