package satpower

import (
	"fmt"
	"math"
)

// SolarCellParams holds the datasheet parameters of a single solar cell at
// reference conditions. Zero-valued optional fields pick up the defaults
// noted below.
type SolarCellParams struct {
	Name     string
	AreaCm2  float64 // active cell area
	Voc      float64 // open-circuit voltage, V
	Isc      float64 // short-circuit current, A
	Vmp      float64 // voltage at maximum power, V
	Imp      float64 // current at maximum power, A
	Ideality float64 // diode ideality factor
	Rs       float64 // series resistance, Ω
	Rsh      float64 // shunt resistance, Ω
	DVocDT   float64 // V/K, typically negative
	DIscDT   float64 // A/K
	DPmpDT   float64 // fraction/K, typically negative
	TRefK    float64 // reference temperature, default 301.15 K
	GRef     float64 // reference irradiance, default 1361 W/m^2
	// Optical and layout properties.
	Absorptance   float64 // default 0.91
	Emittance     float64 // default 0.85
	PackingFactor float64 // default 0.90
}

// SolarCell is a single-diode solar cell model with temperature and
// irradiance dependence.
type SolarCell struct {
	p     SolarCellParams
	i0Ref float64 // diode saturation current at reference conditions
	vtRef float64 // thermal voltage at reference conditions
}

// NewSolarCell validates the parameters and returns the cell model.
func NewSolarCell(p SolarCellParams) (*SolarCell, error) {
	if p.TRefK == 0 {
		p.TRefK = DefaultPanelTempK
	}
	if p.GRef == 0 {
		p.GRef = SolarConstant
	}
	if p.Absorptance == 0 {
		p.Absorptance = 0.91
	}
	if p.Emittance == 0 {
		p.Emittance = 0.85
	}
	if p.PackingFactor == 0 {
		p.PackingFactor = 0.90
	}
	positives := []struct {
		name string
		v    float64
	}{
		{"area", p.AreaCm2}, {"Voc", p.Voc}, {"Isc", p.Isc}, {"Vmp", p.Vmp},
		{"Imp", p.Imp}, {"ideality", p.Ideality}, {"Rs", p.Rs}, {"Rsh", p.Rsh},
		{"reference temperature", p.TRefK}, {"reference irradiance", p.GRef},
	}
	for _, chk := range positives {
		if chk.v <= 0 {
			return nil, fmt.Errorf("solar cell %s: %s must be positive, got %f", p.Name, chk.name, chk.v)
		}
	}
	if p.Vmp >= p.Voc {
		return nil, fmt.Errorf("solar cell %s: Vmp %f must be below Voc %f", p.Name, p.Vmp, p.Voc)
	}
	if p.Imp >= p.Isc {
		return nil, fmt.Errorf("solar cell %s: Imp %f must be below Isc %f", p.Name, p.Imp, p.Isc)
	}
	if p.PackingFactor > 1 {
		return nil, fmt.Errorf("solar cell %s: packing factor %f must be in (0, 1]", p.Name, p.PackingFactor)
	}
	c := &SolarCell{p: p}
	c.vtRef = p.Ideality * BoltzmannkB * p.TRefK / ElectronQ
	c.i0Ref = p.Isc / (math.Exp(p.Voc/c.vtRef) - 1)
	return c, nil
}

// Params returns the cell parameters.
func (c *SolarCell) Params() SolarCellParams {
	return c.p
}

// AreaM2 returns the active cell area in m^2.
func (c *SolarCell) AreaM2() float64 {
	return c.p.AreaCm2 * 1e-4
}

// adjust returns the photocurrent, saturation current and thermal voltage for
// the given irradiance (W/m^2) and cell temperature (K).
func (c *SolarCell) adjust(irradiance, tempK float64) (iPh, i0, vt float64) {
	gRatio := irradiance / c.p.GRef
	dt := tempK - c.p.TRefK
	iPh = (c.p.Isc + c.p.DIscDT*dt) * gRatio
	vt = c.p.Ideality * BoltzmannkB * tempK / ElectronQ
	i0 = c.i0Ref * math.Pow(tempK/c.p.TRefK, 3) *
		math.Exp(ElectronQ*c.p.Voc/(c.p.Ideality*BoltzmannkB)*(1/c.p.TRefK-1/tempK))
	return
}

// IVCurve solves the implicit single-diode equation
// I = I_ph − I_0·(exp((V+I·Rs)/V_t)−1) − (V+I·Rs)/R_sh
// at each of the given voltages by Newton iteration.
func (c *SolarCell) IVCurve(irradiance, tempK float64, voltages []float64) []float64 {
	currents := make([]float64, len(voltages))
	if irradiance <= 0 {
		return currents
	}
	iPh, i0, vt := c.adjust(irradiance, tempK)
	if iPh <= 0 {
		return currents
	}
	for k, v := range voltages {
		i := iPh
		for iter := 0; iter < 60; iter++ {
			e := math.Exp((v + i*c.p.Rs) / vt)
			f := iPh - i0*(e-1) - (v+i*c.p.Rs)/c.p.Rsh - i
			fp := -i0*c.p.Rs/vt*e - c.p.Rs/c.p.Rsh - 1
			di := f / fp
			i -= di
			if math.Abs(di) < 1e-12 {
				break
			}
		}
		if i < 0 || math.IsNaN(i) {
			i = 0
		}
		currents[k] = i
	}
	return currents
}

// MPP locates the maximum power point on the full I-V curve and returns
// (V_mp, I_mp). Slower but more accurate than PowerAtMPP.
func (c *SolarCell) MPP(irradiance, tempK float64) (vmp, imp float64) {
	if irradiance <= 0 {
		return 0, 0
	}
	vocT := c.p.Voc + c.p.DVocDT*(tempK-c.p.TRefK)
	if vocT < 0.1 {
		vocT = 0.1
	}
	const nScan = 200
	voltages := make([]float64, nScan)
	for k := range voltages {
		voltages[k] = vocT * float64(k) / float64(nScan-1)
	}
	currents := c.IVCurve(irradiance, tempK, voltages)
	best := -1.0
	for k := range voltages {
		if p := voltages[k] * currents[k]; p > best {
			best = p
			vmp, imp = voltages[k], currents[k]
		}
	}
	return
}

// PowerAtMPP returns the maximum power output in watts using the analytical
// fill-factor approximation. Zero for non-positive irradiance.
func (c *SolarCell) PowerAtMPP(irradiance, tempK float64) float64 {
	if irradiance <= 0 {
		return 0
	}
	gRatio := irradiance / c.p.GRef
	dt := tempK - c.p.TRefK
	isc := (c.p.Isc + c.p.DIscDT*dt) * gRatio
	vt := c.p.Ideality * BoltzmannkB * tempK / ElectronQ
	voc := c.p.Voc + c.p.DVocDT*dt + vt*math.Log(math.Max(gRatio, 1e-10))
	if isc <= 0 || voc <= 0 {
		return 0
	}
	vocNorm := voc / vt
	ff := 0.7
	if vocNorm > 1 {
		ff = (vocNorm - math.Log(vocNorm+0.72)) / (vocNorm + 1)
		ff *= 1 - c.p.Rs*isc/voc
	}
	ff = clamp(ff, 0.5, 0.95)
	return isc * voc * ff
}
