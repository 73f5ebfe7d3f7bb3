package satpower

import (
	"testing"

	"github.com/gonum/floats"
)

func TestMpptConstant(t *testing.T) {
	m, err := NewMppt(0.97)
	if err != nil {
		t.Fatalf("constant tracker rejected: %s", err)
	}
	for _, p := range []float64{0, 1, 100} {
		if m.TrackingEfficiency(p) != 0.97 {
			t.Fatalf("constant tracker returned %f at %f W", m.TrackingEfficiency(p), p)
		}
	}
	if _, err := NewMppt(1.2); err == nil {
		t.Fatal("efficiency above 1 accepted")
	}
}

func TestMpptPowerDependent(t *testing.T) {
	m, err := NewMpptPowerDependent(0.97, 0.85, 20)
	if err != nil {
		t.Fatalf("power-dependent tracker rejected: %s", err)
	}
	if !floats.EqualWithinAbs(m.TrackingEfficiency(0), 0.85, 1e-12) {
		t.Fatalf("zero-power efficiency %f, want the floor", m.TrackingEfficiency(0))
	}
	// Rises monotonically toward the peak.
	prev := 0.0
	for _, p := range []float64{0, 2, 5, 10, 20, 100} {
		η := m.TrackingEfficiency(p)
		if η < prev {
			t.Fatalf("efficiency dropped to %f at %f W", η, p)
		}
		if η > 0.97 {
			t.Fatalf("efficiency %f above the peak", η)
		}
		prev = η
	}
	if η := m.TrackingEfficiency(200); !floats.EqualWithinAbs(η, 0.97, 1e-6) {
		t.Fatalf("high-power efficiency %f, want ~peak", η)
	}
	if _, err := NewMpptPowerDependent(0.97, 0.99, 20); err == nil {
		t.Fatal("floor above peak accepted")
	}
}
