package satpower

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

// Orbit defines a circular low-Earth orbit via its semi-major axis,
// inclination and initial RAAN. Immutable after construction.
type Orbit struct {
	a, i, Ω0 float64
	n        float64 // mean motion
	Ωdot     float64 // secular J2 RAAN drift rate, 0 when J2 is disabled
	j2       bool
}

// NewOrbit returns a circular orbit from its semi-major axis in meters,
// inclination and initial RAAN in radians. When j2 is set, the secular J2
// RAAN drift is applied during propagation.
func NewOrbit(semiMajorAxis, inclination, raan float64, j2 bool) (*Orbit, error) {
	if semiMajorAxis <= REarth {
		return nil, fmt.Errorf("semi-major axis %f m is below the Earth surface", semiMajorAxis)
	}
	if inclination < 0 || inclination > math.Pi {
		return nil, fmt.Errorf("inclination %f rad not in [0, π]", inclination)
	}
	o := &Orbit{a: semiMajorAxis, i: inclination, Ω0: raan, j2: j2}
	o.n = math.Sqrt(MuEarth / math.Pow(semiMajorAxis, 3))
	if j2 {
		o.Ωdot = -1.5 * o.n * J2Earth * math.Pow(REarth/semiMajorAxis, 2) * math.Cos(inclination)
	}
	return o, nil
}

// NewOrbitCircular is a convenience constructor from altitude in kilometers
// and angles in degrees.
func NewOrbitCircular(altitudeKm, inclinationDeg, raanDeg float64, j2 bool) (*Orbit, error) {
	return NewOrbit(REarth+altitudeKm*1e3, Deg2rad(inclinationDeg), Deg2rad(raanDeg), j2)
}

// SemiMajorAxis returns the semi-major axis in meters.
func (o Orbit) SemiMajorAxis() float64 {
	return o.a
}

// Altitude returns the altitude above the Earth surface in meters.
func (o Orbit) Altitude() float64 {
	return o.a - REarth
}

// AltitudeKm returns the altitude in kilometers.
func (o Orbit) AltitudeKm() float64 {
	return o.Altitude() / 1e3
}

// Inclination returns the inclination in radians.
func (o Orbit) Inclination() float64 {
	return o.i
}

// MeanMotion returns the mean motion n in rad/s.
func (o Orbit) MeanMotion() float64 {
	return o.n
}

// Period returns the orbital period in seconds.
func (o Orbit) Period() float64 {
	return 2 * math.Pi / o.n
}

// RAANDriftRate returns dΩ/dt in rad/s (zero unless J2 is enabled).
func (o Orbit) RAANDriftRate() float64 {
	return o.Ωdot
}

// RAANAt returns the RAAN in radians at t seconds past epoch.
func (o Orbit) RAANAt(t float64) float64 {
	return o.Ω0 + o.Ωdot*t
}

// PropagateAt returns the ECI position (m) and velocity (m/s) at t seconds
// past epoch. The satellite starts at the ascending node at t=0 and the
// argument of perigee is zero for a circular orbit.
func (o Orbit) PropagateAt(t float64) (R, V []float64) {
	ν := o.n * t
	sν, cν := math.Sincos(ν)
	// Perifocal state, then rotate through -i about 1 and -Ω about 3.
	rPQW := []float64{o.a * cν, o.a * sν, 0}
	v := o.a * o.n
	vPQW := []float64{-v * sν, v * cν, 0}
	Ω := o.RAANAt(t)
	dcm := mat64.NewDense(3, 3, nil)
	dcm.Mul(R3(-Ω), R1(-o.i))
	return MxV33(dcm, rPQW), MxV33(dcm, vPQW)
}

// Propagate evaluates the orbit at each of the provided times.
func (o Orbit) Propagate(times []float64) (positions, velocities [][]float64) {
	positions = make([][]float64, len(times))
	velocities = make([][]float64, len(times))
	for k, t := range times {
		positions[k], velocities[k] = o.PropagateAt(t)
	}
	return
}
