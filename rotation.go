package satpower

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// NadirDCM returns the 3x3 direction cosine matrix rotating an ECI vector into
// the nadir-pointing body frame at the given satellite position and velocity:
// +Z toward Earth, +X along the velocity, +Y completing the right-handed set.
func NadirDCM(rSat, vSat []float64) *mat64.Dense {
	zB := unit(rSat)
	for i := range zB {
		zB[i] = -zB[i]
	}
	xB := unit(vSat)
	yB := cross(zB, xB)
	return mat64.NewDense(3, 3, []float64{
		xB[0], xB[1], xB[2],
		yB[0], yB[1], yB[2],
		zB[0], zB[1], zB[2]})
}
