package satpower

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestThermalValidation(t *testing.T) {
	if _, err := NewThermalModel(DefaultThermalConfig()); err != nil {
		t.Fatalf("default thermal config rejected: %s", err)
	}
	bad := DefaultThermalConfig()
	bad.PanelThermalMass = 0
	if _, err := NewThermalModel(bad); err == nil {
		t.Fatal("zero thermal mass accepted")
	}
	bad = DefaultThermalConfig()
	bad.PanelEmittance = 1.4
	if _, err := NewThermalModel(bad); err == nil {
		t.Fatal("emittance above 1 accepted")
	}
}

func TestPanelThermalEquilibrium(t *testing.T) {
	cfg := DefaultThermalConfig()
	m, _ := NewThermalModel(cfg)
	// At the radiative balance temperature the derivative vanishes.
	qIn := 80.0
	albedo, ir := 300.0, 190.0
	total := qIn + cfg.PanelAbsorptance*albedo*cfg.PanelArea + cfg.PanelEmittance*ir*cfg.PanelArea
	tEq := math.Pow(total/(cfg.PanelEmittance*StefanBoltzmannσ*cfg.PanelArea*2), 0.25)
	if d := m.PanelDerivative(tEq, qIn, albedo, ir); !floats.EqualWithinAbs(d, 0, 1e-9) {
		t.Fatalf("derivative %g at equilibrium %f K", d, tEq)
	}
	// Below equilibrium the panel warms, above it cools.
	if m.PanelDerivative(tEq-40, qIn, albedo, ir) <= 0 {
		t.Fatal("cold panel not warming")
	}
	if m.PanelDerivative(tEq+40, qIn, albedo, ir) >= 0 {
		t.Fatal("hot panel not cooling")
	}
}

func TestBatteryThermalCoupling(t *testing.T) {
	cfg := DefaultThermalConfig()
	m, _ := NewThermalModel(cfg)
	// At the interior temperature with no heating the battery holds.
	if d := m.BatteryDerivative(cfg.InteriorTempK, 0); !floats.EqualWithinAbs(d, 0, 1e-12) {
		t.Fatalf("unheated battery drifting at %g K/s", d)
	}
	// Joule heating warms it, radiation to a warmer interior too.
	if m.BatteryDerivative(cfg.InteriorTempK, 0.5) <= 0 {
		t.Fatal("heated battery not warming")
	}
	if m.BatteryDerivative(cfg.InteriorTempK-10, 0) <= 0 {
		t.Fatal("battery colder than the interior not warming")
	}
	if m.BatteryDerivative(cfg.InteriorTempK+10, 0) >= 0 {
		t.Fatal("battery warmer than the interior not cooling")
	}
	// The heater adds directly.
	cfgHeater := cfg
	cfgHeater.HeaterPowerW = 1
	mh, _ := NewThermalModel(cfgHeater)
	d0 := m.BatteryDerivative(300, 0)
	dh := mh.BatteryDerivative(300, 0)
	if !floats.EqualWithinAbs(dh-d0, 1/cfg.BatteryThermalMass, 1e-12) {
		t.Fatalf("heater contribution %g, want %g", dh-d0, 1/cfg.BatteryThermalMass)
	}
}
