package satpower

import "github.com/gonum/floats"

// BoundaryFlags records the non-fatal numerical-boundary conditions seen on
// the output grid. They never abort a run.
type BoundaryFlags struct {
	SoCOutOfBounds       bool
	SoCOutOfBoundsCount  int
	VoltageBelowMin      bool
	VoltageBelowMinCount int
	PanelOverTemp        bool
	PanelOverTempCount   int
}

// SimulationResults carries the aligned output series of one run. TPanel and
// TBattery are nil unless the run had thermal states.
type SimulationResults struct {
	Time           []float64  // seconds past epoch
	SoC            []float64  // dimensionless, may leave [0, 1]
	PowerGenerated []float64  // W, after MPPT conditioning
	PowerConsumed  []float64  // W
	BatteryVoltage []float64  // V
	Eclipse        []bool
	ActiveModes    [][]string // mode names contributing at each sample
	TPanel         []float64  // K
	TBattery       []float64  // K
	OrbitPeriod    float64    // seconds
	Boundary       BoundaryFlags
}

// TimeHours returns the time axis in hours.
func (r *SimulationResults) TimeHours() []float64 {
	out := make([]float64, len(r.Time))
	for i, t := range r.Time {
		out[i] = t / 3600
	}
	return out
}

// TimeOrbits returns the time axis in orbital periods.
func (r *SimulationResults) TimeOrbits() []float64 {
	out := make([]float64, len(r.Time))
	for i, t := range r.Time {
		out[i] = t / r.OrbitPeriod
	}
	return out
}

// MinSoC returns the lowest state of charge of the run.
func (r *SimulationResults) MinSoC() float64 {
	return floats.Min(r.SoC)
}

// MaxSoC returns the highest state of charge of the run.
func (r *SimulationResults) MaxSoC() float64 {
	return floats.Max(r.SoC)
}

// WorstCaseDoD returns the maximum depth of discharge encountered.
func (r *SimulationResults) WorstCaseDoD() float64 {
	return 1 - r.MinSoC()
}

// MeanDoD returns the average depth of discharge over the run.
func (r *SimulationResults) MeanDoD() float64 {
	return 1 - floats.Sum(r.SoC)/float64(len(r.SoC))
}

// AvgPowerGenerated returns the mean generated power in watts.
func (r *SimulationResults) AvgPowerGenerated() float64 {
	return floats.Sum(r.PowerGenerated) / float64(len(r.PowerGenerated))
}

// AvgPowerConsumed returns the mean consumed power in watts.
func (r *SimulationResults) AvgPowerConsumed() float64 {
	return floats.Sum(r.PowerConsumed) / float64(len(r.PowerConsumed))
}

// PowerMargin returns mean(generated) − mean(consumed) in watts.
func (r *SimulationResults) PowerMargin() float64 {
	return r.AvgPowerGenerated() - r.AvgPowerConsumed()
}

// EclipseFraction returns the fraction of samples spent in shadow.
func (r *SimulationResults) EclipseFraction() float64 {
	n := 0
	for _, in := range r.Eclipse {
		if in {
			n++
		}
	}
	return float64(n) / float64(len(r.Eclipse))
}

// DurationOrbits returns the simulated span in orbital periods.
func (r *SimulationResults) DurationOrbits() float64 {
	return (r.Time[len(r.Time)-1] - r.Time[0]) / r.OrbitPeriod
}

// EnergyBalancePerOrbit returns the trapezoidal net energy per orbit in Wh.
func (r *SimulationResults) EnergyBalancePerOrbit() float64 {
	nOrbits := r.DurationOrbits()
	if nOrbits <= 0 {
		return 0
	}
	totalWs := 0.0
	for i := 1; i < len(r.Time); i++ {
		n0 := r.PowerGenerated[i-1] - r.PowerConsumed[i-1]
		n1 := r.PowerGenerated[i] - r.PowerConsumed[i]
		totalWs += 0.5 * (n0 + n1) * (r.Time[i] - r.Time[i-1])
	}
	return totalWs / 3600 / nOrbits
}

// MinBatteryVoltage returns the lowest pack voltage of the run.
func (r *SimulationResults) MinBatteryVoltage() float64 {
	return floats.Min(r.BatteryVoltage)
}

// MaxBatteryVoltage returns the highest pack voltage of the run.
func (r *SimulationResults) MaxBatteryVoltage() float64 {
	return floats.Max(r.BatteryVoltage)
}

// Summary returns the derived scalars keyed by name.
func (r *SimulationResults) Summary() map[string]float64 {
	return map[string]float64{
		"min_soc":                     r.MinSoC(),
		"max_soc":                     r.MaxSoC(),
		"worst_case_dod":              r.WorstCaseDoD(),
		"avg_power_generated_w":       r.AvgPowerGenerated(),
		"avg_power_consumed_w":        r.AvgPowerConsumed(),
		"power_margin_w":              r.PowerMargin(),
		"energy_balance_per_orbit_wh": r.EnergyBalancePerOrbit(),
		"eclipse_fraction":            r.EclipseFraction(),
		"min_battery_voltage_v":       r.MinBatteryVoltage(),
		"max_battery_voltage_v":       r.MaxBatteryVoltage(),
		"duration_orbits":             r.DurationOrbits(),
	}
}
