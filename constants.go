package satpower

import "math"

/* Physical constants fixed at the system boundary. All SI. */

const (
	// REarth is the Earth equatorial radius in meters.
	REarth = 6378137.0
	// MuEarth is the Earth gravitational parameter in m^3/s^2.
	MuEarth = 3.986004418e14
	// J2Earth is the second zonal harmonic of the Earth gravity field.
	J2Earth = 1.08263e-3
	// RSun is the Sun radius in meters.
	RSun = 6.957e8
	// AU is one astronomical unit in meters.
	AU = 1.495978707e11
	// SolarConstant is the mean solar flux at 1 AU in W/m^2.
	SolarConstant = 1361.0
	// EarthAlbedo is the mean Earth bond albedo coefficient.
	EarthAlbedo = 0.30
	// EarthIREmission is the mean Earth infrared emission at the surface in W/m^2.
	EarthIREmission = 237.0
	// Obliquityε is the obliquity of the ecliptic in radians.
	Obliquityε = 23.4392911 * deg2rad
	// StefanBoltzmannσ is the Stefan-Boltzmann constant in W/(m^2·K^4).
	StefanBoltzmannσ = 5.670374419e-8
	// RGas is the universal gas constant in J/(mol·K).
	RGas = 8.314
	// BoltzmannkB is the Boltzmann constant in J/K.
	BoltzmannkB = 1.380649e-23
	// ElectronQ is the elementary charge in C.
	ElectronQ = 1.602176634e-19
	// TRef is the default reference temperature in K (25 degC).
	TRef = 298.15
	// SecondsPerYear is one Julian year in seconds.
	SecondsPerYear = 365.25 * 86400.0
)

const (
	// DefaultMpptη is the default peak MPPT tracking efficiency.
	DefaultMpptη = 0.97
	// DefaultConverterη is the default DC-DC converter efficiency.
	DefaultConverterη = 0.92
	// DefaultInitialSoC is the default initial battery state of charge.
	DefaultInitialSoC = 1.0
	// DefaultDtMax is the default maximum integration step in seconds.
	DefaultDtMax = 30.0
	// DefaultEpochDoy is the default epoch day of year (vernal equinox-ish).
	DefaultEpochDoy = 80.0
	// DefaultPanelTempK is the cell temperature used when thermal is disabled.
	DefaultPanelTempK = 301.15
	// DefaultBatteryTempK is the battery temperature used when thermal is disabled.
	DefaultBatteryTempK = 298.15
)

const deg2rad = math.Pi / 180
