package satpower

import (
	"fmt"
	"os"

	kitlog "github.com/go-kit/kit/log"

	"github.com/bheemrc/satpower/integrator"
)

// SimConfig selects the optional models of a simulation. Zero values pick
// the defaults noted on each field.
type SimConfig struct {
	Eclipse EclipseMethod // default Cylindrical
	// Board supplies the converter and tracker together; when set it takes
	// precedence over the Mppt and Converter fields.
	Board          *EPSBoard
	Mppt           MpptModel      // default constant 0.97
	Converter      Converter      // default constant 0.92
	EpochDayOfYear float64        // default 80
	InitialSoC     float64        // default 1.0; the zero value means 1.0, use a small negative to force empty
	Thermal        *ThermalConfig // nil disables the thermal states
	Logger         kitlog.Logger  // default logfmt to stdout
}

// Simulation owns one fully-parameterized power system and integrates its
// coupled electrical and thermal dynamics over a circular orbit.
// The state vector is [SoC, V_rc1, V_rc2] or, with thermal enabled,
// [SoC, V_rc1, V_rc2, T_panel, T_battery].
type Simulation struct {
	orbit   *Orbit
	sun     *SunEphemeris
	env     Environment
	eclipse EclipseModel
	panels  []*Panel
	battery *BatteryPack
	loads   *LoadProfile
	bus     PowerBus
	mppt    MpptModel
	thermal *ThermalModel

	initialSoC    float64
	capacityScale float64
	logger        kitlog.Logger

	// Integration scratch, valid during one Run only.
	curState   []float64
	gridTimes  []float64
	gridStates [][]float64
}

// NewSimulation assembles a simulation from its components. All components
// must already be constructed; the configuration only selects among models.
func NewSimulation(orbit *Orbit, panels []*Panel, battery *BatteryPack, loads *LoadProfile, cfg SimConfig) (*Simulation, error) {
	if orbit == nil {
		return nil, fmt.Errorf("simulation: orbit required")
	}
	if len(panels) == 0 {
		return nil, fmt.Errorf("simulation: at least one panel required")
	}
	if battery == nil {
		return nil, fmt.Errorf("simulation: battery pack required")
	}
	if loads == nil {
		loads = NewLoadProfile()
	}
	if cfg.Eclipse == 0 {
		cfg.Eclipse = Cylindrical
	}
	eclipse, err := NewEclipseModel(cfg.Eclipse)
	if err != nil {
		return nil, err
	}
	mppt := cfg.Mppt
	conv := cfg.Converter
	if cfg.Board != nil {
		mppt = cfg.Board.Mppt
		conv = cfg.Board.Converter
	}
	if mppt.peakη == 0 {
		if mppt, err = NewMppt(DefaultMpptη); err != nil {
			return nil, err
		}
	}
	if conv.nominalη == 0 {
		if conv, err = NewConverter(DefaultConverterη); err != nil {
			return nil, err
		}
	}
	doy := cfg.EpochDayOfYear
	if doy == 0 {
		doy = DefaultEpochDoy
	}
	sun, err := NewSunEphemeris(doy)
	if err != nil {
		return nil, err
	}
	initialSoC := cfg.InitialSoC
	if initialSoC == 0 {
		initialSoC = DefaultInitialSoC
	} else if initialSoC < 0 {
		initialSoC = 0
	}
	if initialSoC > 1 {
		return nil, fmt.Errorf("simulation: initial SoC %f above 1", initialSoC)
	}
	var thermal *ThermalModel
	if cfg.Thermal != nil {
		if thermal, err = NewThermalModel(*cfg.Thermal); err != nil {
			return nil, err
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	logger = kitlog.With(logger, "subsys", "sim")
	return &Simulation{
		orbit:         orbit,
		sun:           sun,
		env:           NewEnvironment(),
		eclipse:       eclipse,
		panels:        panels,
		battery:       battery,
		loads:         loads,
		bus:           NewPowerBus(conv),
		mppt:          mppt,
		thermal:       thermal,
		initialSoC:    initialSoC,
		capacityScale: 1,
		logger:        logger,
	}, nil
}

// Orbit returns the simulated orbit.
func (s *Simulation) Orbit() *Orbit {
	return s.orbit
}

// Battery returns the battery pack.
func (s *Simulation) Battery() *BatteryPack {
	return s.battery
}

// Loads returns the load profile.
func (s *Simulation) Loads() *LoadProfile {
	return s.loads
}

// SetLogger replaces the simulation logger.
func (s *Simulation) SetLogger(l kitlog.Logger) {
	s.logger = kitlog.With(l, "subsys", "sim")
}

// copyWith returns an independent simulation sharing no mutable state with
// the receiver, with the given capacity scale and initial SoC. The lifetime
// driver runs each segment on such a copy.
func (s *Simulation) copyWith(capacityScale, initialSoC float64) *Simulation {
	dup := *s
	dup.capacityScale = capacityScale
	dup.initialSoC = clamp(initialSoC, 0, 1)
	dup.panels = make([]*Panel, len(s.panels))
	copy(dup.panels, s.panels) // panels and cells are immutable after construction
	dup.curState = nil
	dup.gridTimes = nil
	dup.gridStates = nil
	return &dup
}

func (s *Simulation) stateSize() int {
	if s.thermal != nil {
		return 5
	}
	return 3
}

// sample holds every auxiliary quantity one RHS evaluation produces.
type sample struct {
	shadow    float64
	inEclipse bool
	pGen      float64
	pLoad     float64
	iBat      float64
	vBat      float64
	tPanel    float64
	tBattery  float64
}

// eval runs the full physics pipeline at time t for the given state and
// returns the state derivative alongside the auxiliary sample. This single
// code path serves both the integrator and the post-run resampling, so the
// recorded series match the integrated dynamics exactly.
func (s *Simulation) eval(t float64, state []float64) ([]float64, sample) {
	soc, vRc1, vRc2 := state[0], state[1], state[2]
	tPanel, tBattery := DefaultPanelTempK, DefaultBatteryTempK
	if s.thermal != nil {
		tPanel, tBattery = state[3], state[4]
	}

	// Orbit, sun geometry, shadow and seasonal flux.
	rSat, vSat := s.orbit.PropagateAt(t)
	sunDir := s.sun.DirectionECI(t)
	shadow := s.eclipse.ShadowFraction(rSat, sunDir)
	inEclipse := shadow >= 0.5
	flux := s.env.SolarFluxAtEpoch(s.sun.DayOfYear(t))
	gEff := flux * (1 - shadow)

	// Array output through the tracker.
	dcm := NadirDCM(rSat, vSat)
	sunBody := SunDirectionBody(dcm, sunDir)
	raw := 0.0
	projSolar := 0.0 // irradiance intercepted across the array, W
	for _, p := range s.panels {
		raw += p.Power(sunBody, gEff, tPanel, 1)
		projSolar += gEff * p.CosIncidence(sunBody) * p.area
	}
	pGen := raw * s.mppt.TrackingEfficiency(raw)

	// Loads, bus balance and battery dynamics.
	pLoad := s.loads.PowerAt(t, inEclipse)
	vBat := s.battery.TerminalVoltage(soc, 0, tBattery, vRc1, vRc2)
	iBat := s.bus.NetBatteryCurrent(pGen, pLoad, vBat)
	capAh := s.battery.CapacityAh() * s.capacityScale
	dSoC, dVRc1, dVRc2 := s.battery.Derivatives(iBat, vRc1, vRc2, capAh)

	deriv := make([]float64, s.stateSize())
	deriv[0], deriv[1], deriv[2] = dSoC, dVRc1, dVRc2
	if s.thermal != nil {
		alt := s.orbit.Altitude()
		solarHeat := s.thermal.cfg.PanelAbsorptance*projSolar - pGen
		deriv[3] = s.thermal.PanelDerivative(tPanel, solarHeat, s.env.AlbedoFlux(alt), s.env.EarthIRFlux(alt))
		joule := iBat * iBat * s.battery.R0(tBattery)
		deriv[4] = s.thermal.BatteryDerivative(tBattery, joule)
	}

	return deriv, sample{
		shadow:    shadow,
		inEclipse: inEclipse,
		pGen:      pGen,
		pLoad:     pLoad,
		iBat:      iBat,
		vBat:      vBat,
		tPanel:    tPanel,
		tBattery:  tBattery,
	}
}

// GetState implements integrator.Integrable.
func (s *Simulation) GetState() []float64 {
	return s.curState
}

// SetState implements integrator.Integrable, recording the state reached at
// each output grid point.
func (s *Simulation) SetState(t float64, state []float64) {
	s.curState = append(s.curState[:0], state...)
	s.gridStates = append(s.gridStates, append([]float64(nil), state...))
}

// Func implements integrator.Integrable.
func (s *Simulation) Func(t float64, state []float64) []float64 {
	deriv, _ := s.eval(t, state)
	return deriv
}

// Run integrates for the given number of orbital periods. A non-positive
// dtMax selects the 30 s default.
func (s *Simulation) Run(durationOrbits, dtMax float64) (*SimulationResults, error) {
	return s.RunSeconds(durationOrbits*s.orbit.Period(), dtMax)
}

// RunSeconds integrates for an explicit duration in seconds, evaluates the
// output on a uniform grid and resamples every auxiliary quantity on it.
// The state is never clamped: a SoC leaving [0, 1] shows up in the results
// as a boundary flag instead of aborting the run.
func (s *Simulation) RunSeconds(duration, dtMax float64) (*SimulationResults, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("simulation: duration %f s must be positive", duration)
	}
	if dtMax <= 0 {
		dtMax = DefaultDtMax
	}
	nPts := int(duration/dtMax) + 1
	if nPts < 100 {
		nPts = 100
	}
	grid := make([]float64, nPts)
	for i := range grid {
		grid[i] = duration * float64(i) / float64(nPts-1)
	}

	s.curState = make([]float64, s.stateSize())
	s.curState[0] = s.initialSoC
	if s.thermal != nil {
		s.curState[3] = s.thermal.cfg.InitialPanelTempK
		s.curState[4] = s.thermal.cfg.InitialBatteryTempK
	}
	s.gridTimes = grid
	s.gridStates = make([][]float64, 1, nPts)
	s.gridStates[0] = append([]float64(nil), s.curState...)

	absTol := []float64{1e-6, 1e-6, 1e-6}
	relTol := []float64{1e-5, 1e-5, 1e-5}
	if s.thermal != nil {
		absTol = append(absTol, 1e-3, 1e-3)
		relTol = append(relTol, 1e-5, 1e-5)
	}
	rk, err := integrator.NewRK45(s, grid, integrator.Config{
		MaxStep: dtMax,
		AbsTol:  absTol,
		RelTol:  relTol,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Log("level", "info", "status", "start", "duration(s)", duration, "points", nPts, "dtMax(s)", dtMax)
	if err := rk.Solve(); err != nil {
		s.logger.Log("level", "critical", "status", "aborted", "err", err)
		return nil, err
	}

	res := s.resample()
	s.logger.Log("level", "info", "status", "finished",
		"minSoC", fmt.Sprintf("%.4f", res.MinSoC()),
		"margin(W)", fmt.Sprintf("%.3f", res.PowerMargin()))
	if res.Boundary.SoCOutOfBounds {
		s.logger.Log("level", "warning", "boundary", "SoC left [0,1]", "samples", res.Boundary.SoCOutOfBoundsCount)
	}
	if res.Boundary.VoltageBelowMin {
		s.logger.Log("level", "warning", "boundary", "pack voltage below minimum", "samples", res.Boundary.VoltageBelowMinCount)
	}
	if res.Boundary.PanelOverTemp {
		s.logger.Log("level", "warning", "boundary", "panel temperature above 400 K", "samples", res.Boundary.PanelOverTempCount)
	}
	return res, nil
}

// resample re-runs the RHS pipeline at every grid point to produce the
// aligned auxiliary series.
func (s *Simulation) resample() *SimulationResults {
	n := len(s.gridTimes)
	res := &SimulationResults{
		Time:           append([]float64(nil), s.gridTimes...),
		SoC:            make([]float64, n),
		PowerGenerated: make([]float64, n),
		PowerConsumed:  make([]float64, n),
		BatteryVoltage: make([]float64, n),
		Eclipse:        make([]bool, n),
		ActiveModes:    make([][]string, n),
		OrbitPeriod:    s.orbit.Period(),
	}
	if s.thermal != nil {
		res.TPanel = make([]float64, n)
		res.TBattery = make([]float64, n)
	}
	minV := s.battery.MinVoltage()
	for i, t := range s.gridTimes {
		state := s.gridStates[i]
		_, smp := s.eval(t, state)
		res.SoC[i] = state[0]
		res.PowerGenerated[i] = smp.pGen
		res.PowerConsumed[i] = smp.pLoad
		res.BatteryVoltage[i] = smp.vBat
		res.Eclipse[i] = smp.inEclipse
		res.ActiveModes[i] = s.loads.ActiveModes(t, smp.inEclipse)
		if s.thermal != nil {
			res.TPanel[i] = smp.tPanel
			res.TBattery[i] = smp.tBattery
		}
		if state[0] < 0 || state[0] > 1 {
			res.Boundary.SoCOutOfBounds = true
			res.Boundary.SoCOutOfBoundsCount++
		}
		if smp.vBat < minV {
			res.Boundary.VoltageBelowMin = true
			res.Boundary.VoltageBelowMinCount++
		}
		if smp.tPanel > 400 {
			res.Boundary.PanelOverTemp = true
			res.Boundary.PanelOverTempCount++
		}
	}
	return res
}

// EclipseEvents locates the eclipse transitions of a finished run.
func (s *Simulation) EclipseEvents(res *SimulationResults) []EclipseEvent {
	rSats := make([][]float64, len(res.Time))
	sunDirs := make([][]float64, len(res.Time))
	for i, t := range res.Time {
		rSats[i], _ = s.orbit.PropagateAt(t)
		sunDirs[i] = s.sun.DirectionECI(t)
	}
	return s.eclipse.FindTransitions(rSats, sunDirs, res.Time)
}

// BetaAngle returns the beta angle at t seconds past epoch.
func (s *Simulation) BetaAngle(t float64) float64 {
	return s.env.BetaAngle(s.orbit.Inclination(), s.orbit.RAANAt(t), s.sun.EclipticLongitude(t))
}
