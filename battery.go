package satpower

import (
	"fmt"
	"math"
)

// OCVPoint is one row of an open-circuit-voltage vs state-of-charge table.
type OCVPoint struct {
	SoC float64
	OCV float64
}

// BatteryCellParams holds the Thevenin equivalent-circuit parameters of a
// single battery cell.
type BatteryCellParams struct {
	Name       string
	CapacityAh float64
	NominalV   float64
	MinV       float64
	MaxV       float64
	R0         float64 // series resistance at TRefK, Ω
	R1         float64 // first RC branch, Ω
	C1         float64 // first RC branch, F
	R2         float64 // second RC branch, Ω (0 disables the branch)
	C2         float64 // second RC branch, F
	// ActivationEnergy drives the Arrhenius temperature dependence of R0,
	// J/mol. Default 19000.
	ActivationEnergy float64
	TRefK            float64 // default 298.15
	OCVTable         []OCVPoint
}

// BatteryCell is a two-branch Thevenin equivalent-circuit battery model.
// Sign convention throughout: current > 0 discharges the cell.
type BatteryCell struct {
	p BatteryCellParams
}

// NewBatteryCell validates the parameters and returns the cell model.
func NewBatteryCell(p BatteryCellParams) (*BatteryCell, error) {
	if p.ActivationEnergy == 0 {
		p.ActivationEnergy = 19000
	}
	if p.TRefK == 0 {
		p.TRefK = TRef
	}
	if p.CapacityAh <= 0 {
		return nil, fmt.Errorf("battery cell %s: capacity %f Ah must be positive", p.Name, p.CapacityAh)
	}
	if p.NominalV <= 0 || p.MinV <= 0 || p.MaxV <= 0 {
		return nil, fmt.Errorf("battery cell %s: voltages must be positive", p.Name)
	}
	if p.MinV >= p.MaxV {
		return nil, fmt.Errorf("battery cell %s: min voltage %f must be below max %f", p.Name, p.MinV, p.MaxV)
	}
	if p.R0 <= 0 || p.R1 <= 0 || p.C1 <= 0 {
		return nil, fmt.Errorf("battery cell %s: R0, R1 and C1 must be positive", p.Name)
	}
	if p.R2 < 0 || p.C2 < 0 {
		return nil, fmt.Errorf("battery cell %s: R2 and C2 may not be negative", p.Name)
	}
	if len(p.OCVTable) < 2 {
		return nil, fmt.Errorf("battery cell %s: OCV table needs at least two rows", p.Name)
	}
	for k, row := range p.OCVTable {
		if row.SoC < 0 || row.SoC > 1 {
			return nil, fmt.Errorf("battery cell %s: OCV table SoC %f not in [0, 1]", p.Name, row.SoC)
		}
		if k > 0 {
			prev := p.OCVTable[k-1]
			if row.SoC <= prev.SoC {
				return nil, fmt.Errorf("battery cell %s: OCV table SoC must be strictly increasing", p.Name)
			}
			if row.OCV < prev.OCV {
				return nil, fmt.Errorf("battery cell %s: OCV table must be non-decreasing", p.Name)
			}
		}
	}
	return &BatteryCell{p: p}, nil
}

// Params returns the cell parameters.
func (c *BatteryCell) Params() BatteryCellParams {
	return c.p
}

// CapacityAh returns the cell capacity in amp-hours.
func (c *BatteryCell) CapacityAh() float64 {
	return c.p.CapacityAh
}

// OCV returns the open-circuit voltage at the given state of charge by
// linear interpolation on the table, clamped at the endpoints.
func (c *BatteryCell) OCV(soc float64) float64 {
	tbl := c.p.OCVTable
	if soc <= tbl[0].SoC {
		return tbl[0].OCV
	}
	last := tbl[len(tbl)-1]
	if soc >= last.SoC {
		return last.OCV
	}
	for k := 1; k < len(tbl); k++ {
		if soc <= tbl[k].SoC {
			lo, hi := tbl[k-1], tbl[k]
			f := (soc - lo.SoC) / (hi.SoC - lo.SoC)
			return lo.OCV + f*(hi.OCV-lo.OCV)
		}
	}
	return last.OCV
}

// R0 returns the series resistance with the Arrhenius temperature
// correction.
func (c *BatteryCell) R0(tempK float64) float64 {
	return c.p.R0 * math.Exp(c.p.ActivationEnergy/RGas*(1/tempK-1/c.p.TRefK))
}

// TerminalVoltage returns the cell voltage under load. iOut > 0 discharges.
func (c *BatteryCell) TerminalVoltage(soc, iOut, tempK, vRc1, vRc2 float64) float64 {
	return c.OCV(soc) - iOut*c.R0(tempK) - vRc1 - vRc2
}

// Derivatives returns the state derivatives (dSoC/dt, dV_rc1/dt, dV_rc2/dt)
// for the given output current in A and capacity in Ah.
func (c *BatteryCell) Derivatives(iOut, vRc1, vRc2, capacityAh float64) (dSoC, dVRc1, dVRc2 float64) {
	dSoC = -iOut / (capacityAh * 3600)
	dVRc1 = iOut/c.p.C1 - vRc1/(c.p.R1*c.p.C1)
	if c.p.R2 > 0 && c.p.C2 > 0 {
		dVRc2 = iOut/c.p.C2 - vRc2/(c.p.R2*c.p.C2)
	}
	return
}

// BatteryPack is a series/parallel arrangement of identical cells. All pack
// methods speak pack-level quantities: pack current, pack RC voltages.
type BatteryPack struct {
	cell     *BatteryCell
	nS, nP   int
	r0Scale  float64 // N_s/N_p
	capScale float64 // N_p
}

// NewBatteryPack returns a pack of nSeries x nParallel cells.
func NewBatteryPack(cell *BatteryCell, nSeries, nParallel int) (*BatteryPack, error) {
	if cell == nil {
		return nil, fmt.Errorf("battery pack: cell required")
	}
	if nSeries < 1 || nParallel < 1 {
		return nil, fmt.Errorf("battery pack: %dS%dP is not a valid configuration", nSeries, nParallel)
	}
	return &BatteryPack{
		cell:     cell,
		nS:       nSeries,
		nP:       nParallel,
		r0Scale:  float64(nSeries) / float64(nParallel),
		capScale: float64(nParallel),
	}, nil
}

// Cell returns the underlying cell model.
func (b *BatteryPack) Cell() *BatteryCell {
	return b.cell
}

// Config returns the series and parallel cell counts.
func (b *BatteryPack) Config() (nSeries, nParallel int) {
	return b.nS, b.nP
}

// CapacityAh returns the pack capacity (parallel strings add capacity).
func (b *BatteryPack) CapacityAh() float64 {
	return b.cell.p.CapacityAh * b.capScale
}

// EnergyWh returns the nominal pack energy.
func (b *BatteryPack) EnergyWh() float64 {
	return b.CapacityAh() * b.cell.p.NominalV * float64(b.nS)
}

// NominalVoltage returns the nominal pack voltage (series cells add voltage).
func (b *BatteryPack) NominalVoltage() float64 {
	return b.cell.p.NominalV * float64(b.nS)
}

// MinVoltage returns the minimum pack discharge voltage.
func (b *BatteryPack) MinVoltage() float64 {
	return b.cell.p.MinV * float64(b.nS)
}

// MaxVoltage returns the maximum pack charge voltage.
func (b *BatteryPack) MaxVoltage() float64 {
	return b.cell.p.MaxV * float64(b.nS)
}

// OCV returns the pack open-circuit voltage.
func (b *BatteryPack) OCV(soc float64) float64 {
	return b.cell.OCV(soc) * float64(b.nS)
}

// R0 returns the pack series resistance with temperature correction.
func (b *BatteryPack) R0(tempK float64) float64 {
	return b.cell.R0(tempK) * b.r0Scale
}

// TerminalVoltage returns the pack voltage under load for pack-level RC
// branch voltages. iOut > 0 discharges.
func (b *BatteryPack) TerminalVoltage(soc, iOut, tempK, vRc1, vRc2 float64) float64 {
	return b.OCV(soc) - iOut*b.R0(tempK) - vRc1 - vRc2
}

// Derivatives returns (dSoC/dt, dV_rc1/dt, dV_rc2/dt) at pack level with the
// R-values scaled by N_s/N_p and C-values by N_p/N_s. The capacityAh
// argument is the (possibly derated) pack capacity.
func (b *BatteryPack) Derivatives(iOut, vRc1, vRc2, capacityAh float64) (dSoC, dVRc1, dVRc2 float64) {
	p := b.cell.p
	r1 := p.R1 * b.r0Scale
	c1 := p.C1 / b.r0Scale
	dSoC = -iOut / (capacityAh * 3600)
	dVRc1 = iOut/c1 - vRc1/(r1*c1)
	if p.R2 > 0 && p.C2 > 0 {
		r2 := p.R2 * b.r0Scale
		c2 := p.C2 / b.r0Scale
		dVRc2 = iOut/c2 - vRc2/(r2*c2)
	}
	return
}
