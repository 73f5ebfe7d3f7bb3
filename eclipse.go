package satpower

import (
	"fmt"
	"math"
)

// EclipseMethod defines an enum of shadow models.
type EclipseMethod uint8

const (
	// Cylindrical treats the Earth shadow as a sharp-edged cylinder.
	Cylindrical EclipseMethod = iota + 1
	// Conical resolves the penumbra with a shadow fraction that ramps
	// linearly with the angular separation of the solar and terrestrial
	// disks as seen from the satellite.
	Conical
)

func (m EclipseMethod) String() string {
	switch m {
	case Cylindrical:
		return "cylindrical"
	case Conical:
		return "conical"
	}
	panic("cannot stringify unknown eclipse method")
}

// EclipseTransition marks the kind of an eclipse boundary crossing.
type EclipseTransition uint8

const (
	// EclipseEntry marks a sunlight to shadow crossing.
	EclipseEntry EclipseTransition = iota + 1
	// EclipseExit marks a shadow to sunlight crossing.
	EclipseExit
)

func (t EclipseTransition) String() string {
	switch t {
	case EclipseEntry:
		return "entry"
	case EclipseExit:
		return "exit"
	}
	panic("cannot stringify unknown eclipse transition")
}

// EclipseEvent is one boundary crossing, timed at the midpoint of the
// bracketing samples.
type EclipseEvent struct {
	Time       float64
	Transition EclipseTransition
}

// EclipseModel computes the shadow fraction seen by a satellite.
type EclipseModel struct {
	method EclipseMethod
}

// NewEclipseModel returns an eclipse model for the given shadow method.
func NewEclipseModel(method EclipseMethod) (EclipseModel, error) {
	switch method {
	case Cylindrical, Conical:
		return EclipseModel{method: method}, nil
	}
	return EclipseModel{}, fmt.Errorf("unknown eclipse method %d", method)
}

// Method returns the configured shadow method.
func (e EclipseModel) Method() EclipseMethod {
	return e.method
}

// ShadowFraction returns 0 for full sunlight and 1 for full shadow, given the
// satellite ECI position in meters and the unit vector toward the Sun.
func (e EclipseModel) ShadowFraction(rSat, sunDir []float64) float64 {
	if e.method == Conical {
		return e.conical(rSat, sunDir)
	}
	return e.cylindrical(rSat, sunDir)
}

func (e EclipseModel) cylindrical(rSat, sunDir []float64) float64 {
	proj := dot(rSat, sunDir)
	if proj >= 0 {
		return 0 // On the sunward side of the terminator plane.
	}
	rej := make([]float64, 3)
	for i := range rej {
		rej[i] = rSat[i] - proj*sunDir[i]
	}
	if norm(rej) < REarth {
		return 1
	}
	return 0
}

func (e EclipseModel) conical(rSat, sunDir []float64) float64 {
	dEarth := norm(rSat)
	θEarth := math.Asin(clamp(REarth/dEarth, 0, 1))
	θSun := math.Asin(RSun / AU)
	toEarth := unit(rSat)
	for i := range toEarth {
		toEarth[i] = -toEarth[i]
	}
	θSep := math.Acos(clamp(dot(toEarth, sunDir), -1, 1))
	switch {
	case θSep >= θEarth+θSun:
		return 0
	case θSep <= θEarth-θSun:
		return 1
	}
	// Linear ramp across the penumbra band of width 2·θSun.
	return clamp((θEarth+θSun-θSep)/(2*θSun), 0, 1)
}

// FindTransitions locates the eclipse entry and exit events along a sampled
// trajectory by 0.5-crossings of the shadow fraction.
func (e EclipseModel) FindTransitions(rSats, sunDirs [][]float64, times []float64) []EclipseEvent {
	var events []EclipseEvent
	prevIn := false
	for k := range times {
		in := e.ShadowFraction(rSats[k], sunDirs[k]) >= 0.5
		if k > 0 && in != prevIn {
			tMid := 0.5 * (times[k-1] + times[k])
			tr := EclipseExit
			if in {
				tr = EclipseEntry
			}
			events = append(events, EclipseEvent{Time: tMid, Transition: tr})
		}
		prevIn = in
	}
	return events
}
