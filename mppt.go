package satpower

import (
	"fmt"
	"math"
)

// MpptModel is the maximum power point tracker conditioning the solar array.
// The tracking efficiency is either constant or rises with array power
// toward the peak value.
type MpptModel struct {
	peakη          float64
	powerDependent bool
	ratedPower     float64
	minη           float64
}

// NewMppt returns a constant-efficiency tracker.
func NewMppt(peakEff float64) (MpptModel, error) {
	if peakEff <= 0 || peakEff > 1 {
		return MpptModel{}, fmt.Errorf("MPPT efficiency must be in (0, 1], got %f", peakEff)
	}
	return MpptModel{peakη: peakEff}, nil
}

// NewMpptPowerDependent returns a tracker whose efficiency rises from minEff
// at zero power toward peakEff as the array approaches its rated power.
func NewMpptPowerDependent(peakEff, minEff, ratedPower float64) (MpptModel, error) {
	m, err := NewMppt(peakEff)
	if err != nil {
		return m, err
	}
	if minEff <= 0 || minEff > peakEff {
		return MpptModel{}, fmt.Errorf("MPPT minimum efficiency must be in (0, peak], got %f", minEff)
	}
	if ratedPower <= 0 {
		return MpptModel{}, fmt.Errorf("MPPT rated power must be positive, got %f", ratedPower)
	}
	m.powerDependent = true
	m.minη = minEff
	m.ratedPower = ratedPower
	return m, nil
}

// TrackingEfficiency returns the tracking efficiency at the given array
// power in watts.
func (m MpptModel) TrackingEfficiency(power float64) float64 {
	if !m.powerDependent {
		return m.peakη
	}
	return m.peakη - (m.peakη-m.minη)*math.Exp(-5*power/m.ratedPower)
}
