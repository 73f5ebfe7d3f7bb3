package satpower

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// SunEphemeris models the annual ecliptic motion of the Sun as seen from
// Earth. The direction is exact to the mean-longitude model; the Sun-Earth
// distance is held at 1 AU (seasonal flux variation lives in Environment).
type SunEphemeris struct {
	doy0 float64
}

// NewSunEphemeris returns a sun ephemeris anchored at the given epoch day of
// year (fractional, 0-366).
func NewSunEphemeris(epochDayOfYear float64) (*SunEphemeris, error) {
	if epochDayOfYear < 0 || epochDayOfYear > 366 {
		return nil, fmt.Errorf("epoch day of year %f not in [0, 366]", epochDayOfYear)
	}
	return &SunEphemeris{doy0: epochDayOfYear}, nil
}

// NewSunEphemerisFromTime anchors the ephemeris at the fractional day of year
// of the provided instant.
func NewSunEphemerisFromTime(dt time.Time) *SunEphemeris {
	dt = dt.UTC()
	yearStart := time.Date(dt.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	doy := julian.TimeToJD(dt) - julian.TimeToJD(yearStart) + 1
	return &SunEphemeris{doy0: doy}
}

// EpochDayOfYear returns the anchoring day of year.
func (s SunEphemeris) EpochDayOfYear() float64 {
	return s.doy0
}

// DayOfYear returns the fractional day of year t seconds past epoch.
func (s SunEphemeris) DayOfYear(t float64) float64 {
	return s.doy0 + t/86400
}

// EclipticLongitude returns the Sun mean ecliptic longitude in radians at t
// seconds past epoch.
func (s SunEphemeris) EclipticLongitude(t float64) float64 {
	return 2 * math.Pi * s.DayOfYear(t) / 365.25
}

// DirectionECI returns the unit vector toward the Sun in the inertial frame
// at t seconds past epoch.
func (s SunEphemeris) DirectionECI(t float64) []float64 {
	sλ, cλ := math.Sincos(s.EclipticLongitude(t))
	sε, cε := math.Sincos(Obliquityε)
	return []float64{cλ, cε * sλ, sε * sλ}
}

// PositionECI returns the Sun position in meters, at the fixed 1 AU distance.
func (s SunEphemeris) PositionECI(t float64) []float64 {
	d := s.DirectionECI(t)
	for i := range d {
		d[i] *= AU
	}
	return d
}
