package satpower

import (
	"testing"

	kitlog "github.com/go-kit/kit/log"
)

func nopLogger() kitlog.Logger {
	return kitlog.NewNopLogger()
}

// assertPanic verifies a panic is raised.
func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic")
		}
	}()
	f()
}

// azur3G30Cell returns a 3G30C-class triple-junction cell.
func azur3G30Cell(t *testing.T) *SolarCell {
	cell, err := NewSolarCell(SolarCellParams{
		Name:     "azur_3g30c",
		AreaCm2:  30.18,
		Voc:      2.70,
		Isc:      0.52,
		Vmp:      2.411,
		Imp:      0.504,
		Ideality: 1.3,
		Rs:       0.05,
		Rsh:      300,
		DVocDT:   -6.2e-3,
		DIscDT:   3.3e-4,
		DPmpDT:   -0.002,
	})
	if err != nil {
		t.Fatalf("cell construction failed: %s", err)
	}
	return cell
}

// ncr18650Cell returns an NCR18650B-class cylindrical Li-ion cell.
func ncr18650Cell(t *testing.T) *BatteryCell {
	cell, err := NewBatteryCell(BatteryCellParams{
		Name:       "panasonic_ncr18650b",
		CapacityAh: 3.35,
		NominalV:   3.6,
		MinV:       2.5,
		MaxV:       4.2,
		R0:         0.045,
		R1:         0.015,
		C1:         2000,
		R2:         0.010,
		C2:         6000,
		OCVTable: []OCVPoint{
			{0.0, 3.00}, {0.1, 3.30}, {0.2, 3.45}, {0.3, 3.55},
			{0.4, 3.62}, {0.5, 3.68}, {0.6, 3.75}, {0.7, 3.84},
			{0.8, 3.94}, {0.9, 4.05}, {1.0, 4.18},
		},
	})
	if err != nil {
		t.Fatalf("battery cell construction failed: %s", err)
	}
	return cell
}

func ncrPack(t *testing.T, nS, nP int) *BatteryPack {
	pack, err := NewBatteryPack(ncr18650Cell(t), nS, nP)
	if err != nil {
		t.Fatalf("pack construction failed: %s", err)
	}
	return pack
}

// ssoOrbit returns the 550 km sun-synchronous reference orbit. The RAAN of
// 81 degrees puts the day-80 sun nearly in the orbital plane (beta ~ 0).
func ssoOrbit(t *testing.T, j2 bool) *Orbit {
	o, err := NewOrbitCircular(550, 97.6, 81, j2)
	if err != nil {
		t.Fatalf("orbit construction failed: %s", err)
	}
	return o
}

func referenceLoads(t *testing.T) *LoadProfile {
	loads := NewLoadProfile()
	for _, m := range []LoadMode{
		{Name: "obc", PowerW: 0.5, DutyCycle: 1.0, Trigger: TriggerAlways},
		{Name: "radio", PowerW: 4.0, DutyCycle: 0.15, Trigger: TriggerAlways},
		{Name: "payload", PowerW: 5.0, DutyCycle: 0.30, Trigger: TriggerAlways},
	} {
		if err := loads.AddMode(m); err != nil {
			t.Fatalf("load mode %s rejected: %s", m.Name, err)
		}
	}
	return loads
}

// referenceSim builds the S1 configuration: 3U body panels, 2S2P pack,
// cylindrical eclipse.
func referenceSim(t *testing.T, cfg SimConfig) *Simulation {
	panels, err := CubeSatBody(FormFactor3U, azur3G30Cell(t), nil)
	if err != nil {
		t.Fatalf("panel construction failed: %s", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = kitlog.NewNopLogger()
	}
	sim, err := NewSimulation(ssoOrbit(t, false), panels, ncrPack(t, 2, 2), referenceLoads(t), cfg)
	if err != nil {
		t.Fatalf("simulation construction failed: %s", err)
	}
	return sim
}
