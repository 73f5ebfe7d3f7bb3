package satpower

import (
	"testing"

	"github.com/gonum/floats"
)

func TestCubeSatBodyAreas(t *testing.T) {
	cell := azur3G30Cell(t)
	for _, tc := range []struct {
		ff    FormFactor
		areas map[string]float64
	}{
		{FormFactor1U, map[string]float64{"+X": 0.01, "-X": 0.01, "+Y": 0.01, "-Y": 0.01, "+Z": 0.01, "-Z": 0.01}},
		{FormFactor3U, map[string]float64{"+X": 0.03, "-X": 0.03, "+Y": 0.03, "-Y": 0.03, "+Z": 0.01, "-Z": 0.01}},
		{FormFactor6U, map[string]float64{"+X": 0.02, "-X": 0.02, "+Y": 0.06, "-Y": 0.06, "+Z": 0.02, "-Z": 0.02}},
	} {
		panels, err := CubeSatBody(tc.ff, cell, nil)
		if err != nil {
			t.Fatalf("%s body build failed: %s", tc.ff, err)
		}
		if len(panels) != 6 {
			t.Fatalf("%s yields %d panels, want 6", tc.ff, len(panels))
		}
		for _, p := range panels {
			for face, area := range tc.areas {
				if p.Name() == tc.ff.String()+"_"+face && !floats.EqualWithinAbs(p.Area(), area, 1e-12) {
					t.Fatalf("%s face %s area %f, want %f", tc.ff, face, p.Area(), area)
				}
			}
		}
	}
}

func TestCubeSatBodyExcludeFaces(t *testing.T) {
	cell := azur3G30Cell(t)
	all, _ := CubeSatBody(FormFactor3U, cell, nil)
	empty, _ := CubeSatBody(FormFactor3U, cell, []Face{})
	if len(all) != len(empty) {
		t.Fatal("nil and empty exclusion lists differ")
	}
	for i := range all {
		if all[i].Name() != empty[i].Name() {
			t.Fatal("nil and empty exclusion lists order panels differently")
		}
	}
	some, _ := CubeSatBody(FormFactor3U, cell, []Face{FacePlusZ, FaceMinusZ})
	if len(some) != 4 {
		t.Fatalf("excluding 2 faces yields %d panels, want 4", len(some))
	}
	for _, p := range some {
		if p.Name() == "3U_+Z" || p.Name() == "3U_-Z" {
			t.Fatalf("excluded face %s present", p.Name())
		}
	}
}

func TestCubeSatWings(t *testing.T) {
	cell := azur3G30Cell(t)
	panels, err := CubeSatWithWings(FormFactor3U, cell, 2, 0, nil)
	if err != nil {
		t.Fatalf("wing build failed: %s", err)
	}
	if len(panels) != 8 {
		t.Fatalf("2-wing 3U yields %d panels, want 8", len(panels))
	}
	wings := 0
	for _, p := range panels {
		if p.Name() == "wing_+Y" || p.Name() == "wing_-Y" {
			wings++
			// Auto wing area is exactly twice the long-face area.
			if !floats.EqualWithinAbs(p.Area(), 0.06, 1e-12) {
				t.Fatalf("auto wing area %f, want 0.06", p.Area())
			}
		}
	}
	if wings != 2 {
		t.Fatalf("found %d wings, want 2", wings)
	}

	four, _ := CubeSatWithWings(FormFactor6U, cell, 4, 0.05, nil)
	if len(four) != 10 {
		t.Fatalf("4-wing 6U yields %d panels, want 10", len(four))
	}
	if _, err := CubeSatWithWings(FormFactor3U, cell, 3, 0, nil); err == nil {
		t.Fatal("wing count 3 accepted")
	}
}

func TestPanelCosineProjection(t *testing.T) {
	cell := azur3G30Cell(t)
	p, err := Deployed(0.03, cell, []float64{0, 0, 1}, "test")
	if err != nil {
		t.Fatalf("deployed panel failed: %s", err)
	}
	normal := p.Power([]float64{0, 0, 1}, 1361, 301.15, 1)
	oblique := p.Power(unit([]float64{0, 1, 1}), 1361, 301.15, 1)
	away := p.Power([]float64{0, 0, -1}, 1361, 301.15, 1)
	if normal <= 0 {
		t.Fatal("no power at normal incidence")
	}
	if oblique >= normal || oblique <= 0 {
		t.Fatalf("oblique power %f vs normal %f", oblique, normal)
	}
	if away != 0 {
		t.Fatalf("sun-behind-panel power %f, want 0", away)
	}
	// Cosine scaling holds to first order (cell response is mildly
	// sublinear through Voc).
	if ratio := oblique / normal; ratio > 0.75 || ratio < 0.60 {
		t.Fatalf("45 deg power ratio %f, want near cos(45)=0.707", ratio)
	}
}

func TestPanelCellCount(t *testing.T) {
	cell := azur3G30Cell(t)
	long, _ := NewPanel(0.03, cell, []float64{1, 0, 0}, "long")
	short, _ := NewPanel(0.01, cell, []float64{1, 0, 0}, "short")
	// floor(0.03*0.9/0.003018) = 8, floor(0.01*0.9/0.003018) = 2.
	if n := long.NCells(); n != 8 {
		t.Fatalf("long face holds %d cells, want 8", n)
	}
	if n := short.NCells(); n != 2 {
		t.Fatalf("short face holds %d cells, want 2", n)
	}
	if _, err := NewPanel(-1, cell, []float64{1, 0, 0}, "bad"); err == nil {
		t.Fatal("negative area accepted")
	}
	if _, err := NewPanel(0.01, cell, []float64{0, 0, 0}, "bad"); err == nil {
		t.Fatal("zero normal accepted")
	}
}

func TestNadirDCM(t *testing.T) {
	o, _ := NewOrbitCircular(550, 97.6, 0, false)
	R, V := o.PropagateAt(1234)
	dcm := NadirDCM(R, V)
	// +Z body must point at the Earth: the rotated position is -|R| ẑ.
	rBody := MxV33(dcm, R)
	if !floats.EqualWithinAbs(rBody[0], 0, 1e-3) || !floats.EqualWithinAbs(rBody[1], 0, 1e-3) {
		t.Fatalf("position not along body Z: %+v", rBody)
	}
	if !floats.EqualWithinAbs(rBody[2], -norm(R), 1e-3) {
		t.Fatalf("body z %f, want %f", rBody[2], -norm(R))
	}
	// +X body carries the velocity.
	vBody := MxV33(dcm, V)
	if !floats.EqualWithinAbs(vBody[0], norm(V), 1e-6) {
		t.Fatalf("body x velocity %f, want %f", vBody[0], norm(V))
	}
}
