package satpower

import (
	"fmt"
	"math"
)

// LoadTrigger defines an enum of load activation conditions.
type LoadTrigger uint8

const (
	// TriggerAlways keeps the load on regardless of the orbit phase.
	TriggerAlways LoadTrigger = iota + 1
	// TriggerSunlight activates the load outside eclipse only.
	TriggerSunlight
	// TriggerEclipse activates the load inside eclipse only.
	TriggerEclipse
	// TriggerScheduled gates the load with a square wave of the mode's
	// period, phase and duty cycle instead of averaging it.
	TriggerScheduled
)

func (t LoadTrigger) String() string {
	switch t {
	case TriggerAlways:
		return "always"
	case TriggerSunlight:
		return "sunlight"
	case TriggerEclipse:
		return "eclipse"
	case TriggerScheduled:
		return "scheduled"
	}
	panic("cannot stringify unknown load trigger")
}

const defaultSchedulePeriod = 5400.0

// LoadMode is one operational mode drawing power from the bus. For the
// always/sunlight/eclipse triggers the duty cycle is a time-averaged
// multiplier, keeping the bus draw continuous across an orbit; the scheduled
// trigger instead gates the full power with a square wave.
type LoadMode struct {
	Name      string
	PowerW    float64
	DutyCycle float64
	Trigger   LoadTrigger
	Priority  int
	// PeriodS and PhaseS only apply to the scheduled trigger.
	PeriodS float64
	PhaseS  float64
}

// LoadProfile is the ordered set of load modes of a spacecraft. Mutated only
// at construction time.
type LoadProfile struct {
	modes []LoadMode
}

// NewLoadProfile returns an empty profile.
func NewLoadProfile() *LoadProfile {
	return &LoadProfile{}
}

// AddMode validates and appends a mode.
func (l *LoadProfile) AddMode(m LoadMode) error {
	if m.PowerW < 0 {
		return fmt.Errorf("load %s: power %f W may not be negative", m.Name, m.PowerW)
	}
	if m.DutyCycle < 0 || m.DutyCycle > 1 {
		return fmt.Errorf("load %s: duty cycle %f not in [0, 1]", m.Name, m.DutyCycle)
	}
	switch m.Trigger {
	case TriggerAlways, TriggerSunlight, TriggerEclipse:
	case TriggerScheduled:
		if m.PeriodS == 0 {
			m.PeriodS = defaultSchedulePeriod
		}
		if m.PeriodS <= 0 {
			return fmt.Errorf("load %s: schedule period %f s must be positive", m.Name, m.PeriodS)
		}
	default:
		return fmt.Errorf("load %s: unknown trigger %d", m.Name, m.Trigger)
	}
	l.modes = append(l.modes, m)
	return nil
}

// Modes returns a copy of the mode list.
func (l *LoadProfile) Modes() []LoadMode {
	out := make([]LoadMode, len(l.modes))
	copy(out, l.modes)
	return out
}

func scheduledActive(m LoadMode, t float64) bool {
	if m.DutyCycle <= 0 {
		return false
	}
	phase := math.Mod(t+m.PhaseS, m.PeriodS) / m.PeriodS
	if phase < 0 {
		phase++
	}
	return phase < m.DutyCycle
}

// PowerAt returns the total instantaneous draw in watts at t seconds past
// epoch for the given eclipse state.
func (l *LoadProfile) PowerAt(t float64, inEclipse bool) float64 {
	total := 0.0
	for _, m := range l.modes {
		switch m.Trigger {
		case TriggerSunlight:
			if inEclipse {
				continue
			}
		case TriggerEclipse:
			if !inEclipse {
				continue
			}
		case TriggerScheduled:
			if scheduledActive(m, t) {
				total += m.PowerW
			}
			continue
		}
		total += m.PowerW * m.DutyCycle
	}
	return total
}

// ActiveModes returns the names of the modes currently contributing.
func (l *LoadProfile) ActiveModes(t float64, inEclipse bool) []string {
	var active []string
	for _, m := range l.modes {
		switch m.Trigger {
		case TriggerSunlight:
			if inEclipse {
				continue
			}
		case TriggerEclipse:
			if !inEclipse {
				continue
			}
		case TriggerScheduled:
			if !scheduledActive(m, t) {
				continue
			}
		}
		if m.DutyCycle > 0 {
			active = append(active, m.Name)
		}
	}
	return active
}

// OrbitAveragePower returns the orbit-averaged consumption for the given
// eclipse fraction, weighting the trigger-gated modes by the time they can
// run.
func (l *LoadProfile) OrbitAveragePower(eclipseFraction float64) float64 {
	sunFraction := 1 - eclipseFraction
	total := 0.0
	for _, m := range l.modes {
		avg := m.PowerW * m.DutyCycle
		switch m.Trigger {
		case TriggerSunlight:
			avg *= sunFraction
		case TriggerEclipse:
			avg *= eclipseFraction
		}
		total += avg
	}
	return total
}
