package satpower

import (
	"testing"

	"github.com/gonum/floats"
)

func TestConverterConstant(t *testing.T) {
	c, err := NewConverter(0.92)
	if err != nil {
		t.Fatalf("converter rejected: %s", err)
	}
	for _, p := range []float64{0, 3, 50} {
		if c.Efficiency(p) != 0.92 {
			t.Fatalf("constant converter returned %f at %f W", c.Efficiency(p), p)
		}
	}
	if _, err := NewConverter(0); err == nil {
		t.Fatal("zero efficiency accepted")
	}
}

// TestConverterCurvePins declares the four pinned points of the chosen
// load-dependent curve: two-piece quadratic with a linear droop, rated 10 W,
// peak 0.95 at 5 W, light-load 0.80, nominal 0.92 at 10 W.
func TestConverterCurvePins(t *testing.T) {
	c, err := NewConverterLoadDependent(0.92, 10, 0.95, 0.80)
	if err != nil {
		t.Fatalf("load-dependent converter rejected: %s", err)
	}
	for _, pin := range []struct{ load, want float64 }{
		{0.5, 0.8285},   // 0.05·rated
		{3.0, 0.9260},   // 0.30·rated
		{8.0, 0.9392},   // 0.80·rated
		{12.0, 0.91632}, // 1.20·rated
	} {
		if got := c.Efficiency(pin.load); !floats.EqualWithinAbs(got, pin.want, 1e-9) {
			t.Fatalf("η(%.1f W)=%.6f, want %.6f", pin.load, got, pin.want)
		}
	}
	// Monotone rise from light load to the peak at half rated power.
	prev := 0.0
	for p := 0.0; p <= 5.0; p += 0.1 {
		η := c.Efficiency(p)
		if η < prev-1e-12 {
			t.Fatalf("efficiency not monotone rising at %f W", p)
		}
		prev = η
	}
	if !floats.EqualWithinAbs(c.Efficiency(5), 0.95, 1e-12) {
		t.Fatalf("peak efficiency %f at half rated", c.Efficiency(5))
	}
	if !floats.EqualWithinAbs(c.Efficiency(10), 0.92, 1e-12) {
		t.Fatalf("rated efficiency %f", c.Efficiency(10))
	}
	// Mild droop past rated, floored at the light-load value.
	if c.Efficiency(15) >= 0.92 || c.Efficiency(15) < 0.80 {
		t.Fatalf("droop efficiency %f", c.Efficiency(15))
	}
}

func TestEPSBoardBundle(t *testing.T) {
	conv, _ := NewConverterLoadDependent(0.92, 10, 0.95, 0.80)
	mppt, _ := NewMpptPowerDependent(0.97, 0.85, 20)
	board, err := NewEPSBoard("gomspace_p31u", 3.3, conv, mppt)
	if err != nil {
		t.Fatalf("board rejected: %s", err)
	}
	if board.BusVoltage != 3.3 {
		t.Fatalf("bus voltage %f", board.BusVoltage)
	}
	if _, err := NewEPSBoard("bad", -1, conv, mppt); err == nil {
		t.Fatal("negative bus voltage accepted")
	}
	if _, err := NewEPSBoard("bad", 3.3, Converter{}, mppt); err == nil {
		t.Fatal("missing converter accepted")
	}
	// A board-configured simulation picks up the bundled models.
	sim := referenceSim(t, SimConfig{Board: board})
	if sim.bus.Converter() != conv {
		t.Fatal("board converter not applied to the bus")
	}
	if sim.mppt != mppt {
		t.Fatal("board tracker not applied")
	}
}

func TestNetBatteryCurrentSigns(t *testing.T) {
	conv, _ := NewConverter(0.92)
	bus := NewPowerBus(conv)
	// Eclipse: the battery feeds the load through the converter.
	i := bus.NetBatteryCurrent(0, 2.6, 8.0)
	want := 2.6 / 0.92 / 8.0
	if !floats.EqualWithinAbs(i, want, 1e-12) {
		t.Fatalf("eclipse battery current %f, want %f", i, want)
	}
	// Sunlight surplus: the excess charges the battery (negative current).
	i = bus.NetBatteryCurrent(10, 2.6, 8.0)
	wantP := (2.6 - 10*0.92) * 0.92
	if !floats.EqualWithinAbs(i, wantP/8.0, 1e-12) {
		t.Fatalf("charging current %f, want %f", i, wantP/8.0)
	}
	if i >= 0 {
		t.Fatal("surplus did not charge the battery")
	}
	// Dead bus guard.
	if bus.NetBatteryCurrent(10, 2.6, 0) != 0 {
		t.Fatal("nonzero current into a dead bus")
	}
	// Exact balance point: the array alone carries the load.
	if i := bus.NetBatteryCurrent(2.6/0.92, 2.6, 8.0); !floats.EqualWithinAbs(i, 0, 1e-12) {
		t.Fatalf("balanced bus current %g", i)
	}
}
