package satpower

import "fmt"

// Converter is a DC-DC converter with either a constant efficiency or a
// load-dependent curve peaking near half the rated power.
type Converter struct {
	nominalη      float64
	loadDependent bool
	ratedPower    float64
	peakη         float64
	lightLoadη    float64
}

// NewConverter returns a constant-efficiency converter.
func NewConverter(efficiency float64) (Converter, error) {
	if efficiency <= 0 || efficiency > 1 {
		return Converter{}, fmt.Errorf("converter efficiency must be in (0, 1], got %f", efficiency)
	}
	return Converter{nominalη: efficiency}, nil
}

// NewConverterLoadDependent returns a converter whose efficiency rises from
// lightLoadEff at zero load to peakEff at half the rated power, relaxes to
// the nominal efficiency at rated power, and droops mildly beyond it.
func NewConverterLoadDependent(nominalEff, ratedPower, peakEff, lightLoadEff float64) (Converter, error) {
	c, err := NewConverter(nominalEff)
	if err != nil {
		return c, err
	}
	if ratedPower <= 0 {
		return Converter{}, fmt.Errorf("converter rated power must be positive, got %f", ratedPower)
	}
	if lightLoadEff <= 0 || lightLoadEff >= peakEff {
		return Converter{}, fmt.Errorf("converter light-load efficiency %f must be in (0, peak)", lightLoadEff)
	}
	if peakEff > 1 || peakEff < nominalEff {
		return Converter{}, fmt.Errorf("converter peak efficiency %f must be in [nominal, 1]", peakEff)
	}
	c.loadDependent = true
	c.ratedPower = ratedPower
	c.peakη = peakEff
	c.lightLoadη = lightLoadEff
	return c, nil
}

// Efficiency returns the conversion efficiency at the given load power in
// watts. The load-dependent curve is a two-piece quadratic with a linear
// droop past the rated power.
func (c Converter) Efficiency(loadPower float64) float64 {
	if !c.loadDependent {
		return c.nominalη
	}
	x := loadPower / c.ratedPower
	switch {
	case x <= 0:
		return c.lightLoadη
	case x <= 0.5:
		return c.lightLoadη + (c.peakη-c.lightLoadη)*4*x*(1-x)
	case x <= 1:
		d := 2*x - 1
		return c.peakη + (c.nominalη-c.peakη)*d*d
	}
	η := c.nominalη - 0.02*c.nominalη*(x-1)
	if η < c.lightLoadη {
		η = c.lightLoadη
	}
	return η
}

// EPSBoard bundles the regulation stage of an integrated EPS board: its bus
// voltage, converter and tracker. Boards come pre-validated from the
// component layer; the core only consumes the models.
type EPSBoard struct {
	Name       string
	BusVoltage float64
	Converter  Converter
	Mppt       MpptModel
}

// NewEPSBoard validates the board parameters.
func NewEPSBoard(name string, busVoltage float64, conv Converter, mppt MpptModel) (*EPSBoard, error) {
	if busVoltage <= 0 {
		return nil, fmt.Errorf("EPS board %s: bus voltage %f must be positive", name, busVoltage)
	}
	if conv.nominalη == 0 {
		return nil, fmt.Errorf("EPS board %s: converter required", name)
	}
	if mppt.peakη == 0 {
		return nil, fmt.Errorf("EPS board %s: MPPT model required", name)
	}
	return &EPSBoard{Name: name, BusVoltage: busVoltage, Converter: conv, Mppt: mppt}, nil
}

// PowerBus solves the algebraic power balance between the solar array, the
// loads and the battery.
type PowerBus struct {
	converter Converter
}

// NewPowerBus returns a bus built around the given converter.
func NewPowerBus(converter Converter) PowerBus {
	return PowerBus{converter: converter}
}

// Converter returns the bus converter.
func (b PowerBus) Converter() Converter {
	return b.converter
}

// NetBatteryCurrent returns the battery current in amps balancing the bus:
// positive discharges the battery. In sunlight the array feeds the loads
// through the converter and the excess charges the battery; in eclipse the
// battery feeds the loads through the converter.
func (b PowerBus) NetBatteryCurrent(solarPower, loadPower, batteryVoltage float64) float64 {
	if batteryVoltage <= 0 {
		return 0
	}
	ηc := b.converter.Efficiency(loadPower)
	net := loadPower - solarPower*ηc
	var pBat float64
	if net > 0 {
		// Discharging: the battery covers the converter loss.
		pBat = net / ηc
	} else {
		// Charging: the converter loss is taken before the battery.
		pBat = net * ηc
	}
	return pBat / batteryVoltage
}
