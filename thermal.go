package satpower

import (
	"fmt"
	"math"
)

// ThermalConfig holds the lumped-parameter thermal model configuration.
type ThermalConfig struct {
	PanelThermalMass    float64 // J/K
	PanelAbsorptance    float64
	PanelEmittance      float64
	PanelArea           float64 // total radiating panel area, m^2
	BatteryThermalMass  float64 // J/K
	BatteryEmittance    float64
	BatterySurfaceArea  float64 // m^2
	InteriorTempK       float64 // spacecraft interior sink temperature
	InitialPanelTempK   float64
	InitialBatteryTempK float64
	HeaterPowerW        float64 // survival heater, applied continuously
}

// DefaultThermalConfig returns the configuration of a small 3U-class
// spacecraft.
func DefaultThermalConfig() ThermalConfig {
	return ThermalConfig{
		PanelThermalMass:    450, // 0.5 kg of Si at ~900 J/(kg·K)
		PanelAbsorptance:    0.91,
		PanelEmittance:      0.85,
		PanelArea:           0.06,
		BatteryThermalMass:  95,
		BatteryEmittance:    0.8,
		BatterySurfaceArea:  0.01,
		InteriorTempK:       293.15,
		InitialPanelTempK:   DefaultPanelTempK,
		InitialBatteryTempK: DefaultBatteryTempK,
	}
}

// ThermalModel computes lumped panel and battery temperature derivatives.
type ThermalModel struct {
	cfg ThermalConfig
}

// NewThermalModel validates the configuration and returns the model.
func NewThermalModel(cfg ThermalConfig) (*ThermalModel, error) {
	if cfg.PanelThermalMass <= 0 || cfg.BatteryThermalMass <= 0 {
		return nil, fmt.Errorf("thermal masses must be positive")
	}
	if cfg.PanelArea <= 0 || cfg.BatterySurfaceArea <= 0 {
		return nil, fmt.Errorf("thermal areas must be positive")
	}
	if cfg.PanelAbsorptance <= 0 || cfg.PanelAbsorptance > 1 ||
		cfg.PanelEmittance <= 0 || cfg.PanelEmittance > 1 ||
		cfg.BatteryEmittance <= 0 || cfg.BatteryEmittance > 1 {
		return nil, fmt.Errorf("absorptance and emittance must be in (0, 1]")
	}
	if cfg.InteriorTempK <= 0 || cfg.InitialPanelTempK <= 0 || cfg.InitialBatteryTempK <= 0 {
		return nil, fmt.Errorf("temperatures must be positive kelvins")
	}
	return &ThermalModel{cfg: cfg}, nil
}

// Config returns the thermal configuration.
func (m *ThermalModel) Config() ThermalConfig {
	return m.cfg
}

// PanelDerivative returns dT_panel/dt in K/s. solarAbsorbed is the solar
// power soaked up by the panel and not converted to electricity; the albedo
// and Earth IR fluxes are in W/m^2. The panel radiates from both sides.
func (m *ThermalModel) PanelDerivative(tPanel, solarAbsorbed, albedoFlux, earthIRFlux float64) float64 {
	cfg := m.cfg
	qAlbedo := cfg.PanelAbsorptance * albedoFlux * cfg.PanelArea
	qIR := cfg.PanelEmittance * earthIRFlux * cfg.PanelArea
	qRadiated := cfg.PanelEmittance * StefanBoltzmannσ * cfg.PanelArea * 2 * math.Pow(tPanel, 4)
	return (solarAbsorbed + qAlbedo + qIR - qRadiated) / cfg.PanelThermalMass
}

// BatteryDerivative returns dT_battery/dt in K/s from the Joule heating
// I²R0 plus the heater, radiating to the spacecraft interior.
func (m *ThermalModel) BatteryDerivative(tBattery, jouleHeat float64) float64 {
	cfg := m.cfg
	qRadiated := cfg.BatteryEmittance * StefanBoltzmannσ * cfg.BatterySurfaceArea *
		(math.Pow(tBattery, 4) - math.Pow(cfg.InteriorTempK, 4))
	return (jouleHeat + cfg.HeaterPowerW - qRadiated) / cfg.BatteryThermalMass
}
