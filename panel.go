package satpower

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
)

// FormFactor defines an enum of CubeSat form factors.
type FormFactor uint8

const (
	// FormFactor1U is a 10x10x10 cm CubeSat.
	FormFactor1U FormFactor = iota + 1
	// FormFactor3U is a 10x10x30 cm CubeSat.
	FormFactor3U
	// FormFactor6U is a 10x20x30 cm CubeSat.
	FormFactor6U
)

func (f FormFactor) String() string {
	switch f {
	case FormFactor1U:
		return "1U"
	case FormFactor3U:
		return "3U"
	case FormFactor6U:
		return "6U"
	}
	panic("cannot stringify unknown form factor")
}

// Face defines an enum of the six CubeSat body faces. The body frame is
// nadir-pointing: +Z toward Earth, +X along the velocity, +Y cross-track.
type Face uint8

const (
	// FacePlusX is the ram face.
	FacePlusX Face = iota + 1
	// FaceMinusX is the wake face.
	FaceMinusX
	// FacePlusY is the starboard cross-track face.
	FacePlusY
	// FaceMinusY is the port cross-track face.
	FaceMinusY
	// FacePlusZ is the nadir face.
	FacePlusZ
	// FaceMinusZ is the zenith face.
	FaceMinusZ
)

func (f Face) String() string {
	switch f {
	case FacePlusX:
		return "+X"
	case FaceMinusX:
		return "-X"
	case FacePlusY:
		return "+Y"
	case FaceMinusY:
		return "-Y"
	case FacePlusZ:
		return "+Z"
	case FaceMinusZ:
		return "-Z"
	}
	panic("cannot stringify unknown face")
}

func (f Face) normal() []float64 {
	switch f {
	case FacePlusX:
		return []float64{1, 0, 0}
	case FaceMinusX:
		return []float64{-1, 0, 0}
	case FacePlusY:
		return []float64{0, 1, 0}
	case FaceMinusY:
		return []float64{0, -1, 0}
	case FacePlusZ:
		return []float64{0, 0, 1}
	case FaceMinusZ:
		return []float64{0, 0, -1}
	}
	panic("unknown face")
}

var allFaces = []Face{FacePlusX, FaceMinusX, FacePlusY, FaceMinusY, FacePlusZ, FaceMinusZ}

// faceArea returns the face area in m^2 for the given form factor.
func faceArea(ff FormFactor, f Face) float64 {
	switch ff {
	case FormFactor1U:
		return 0.01
	case FormFactor3U:
		switch f {
		case FacePlusZ, FaceMinusZ:
			return 0.01
		default:
			return 0.03
		}
	case FormFactor6U:
		switch f {
		case FacePlusY, FaceMinusY:
			return 0.06
		default:
			return 0.02
		}
	}
	panic("unknown form factor")
}

// longFaceArea returns the largest face area for the given form factor.
func longFaceArea(ff FormFactor) float64 {
	a := 0.0
	for _, f := range allFaces {
		if fa := faceArea(ff, f); fa > a {
			a = fa
		}
	}
	return a
}

// Panel is a flat array of solar cells with a fixed outward normal in the
// body frame.
type Panel struct {
	area   float64
	cell   *SolarCell
	normal []float64
	name   string
}

// NewPanel returns a panel of the given gross area in m^2. The normal is
// unit-normalized.
func NewPanel(area float64, cell *SolarCell, normal []float64, name string) (*Panel, error) {
	if area <= 0 {
		return nil, fmt.Errorf("panel %s: area %f must be positive", name, area)
	}
	if cell == nil {
		return nil, fmt.Errorf("panel %s: cell parameters required", name)
	}
	n := unit(normal)
	if norm(n) == 0 {
		return nil, fmt.Errorf("panel %s: zero normal vector", name)
	}
	return &Panel{area: area, cell: cell, normal: n, name: name}, nil
}

// Deployed returns a single deployed (non body-mounted) panel.
func Deployed(area float64, cell *SolarCell, normal []float64, name string) (*Panel, error) {
	if name == "" {
		name = "deployed"
	}
	return NewPanel(area, cell, normal, name)
}

// CubeSatBody returns the six body-mounted panels of a CubeSat, minus any
// excluded faces. A nil exclusion list and an empty one are equivalent.
func CubeSatBody(ff FormFactor, cell *SolarCell, excludeFaces []Face) ([]*Panel, error) {
	switch ff {
	case FormFactor1U, FormFactor3U, FormFactor6U:
	default:
		return nil, fmt.Errorf("unknown CubeSat form factor %d", ff)
	}
	excluded := make(map[Face]bool, len(excludeFaces))
	for _, f := range excludeFaces {
		excluded[f] = true
	}
	var panels []*Panel
	for _, f := range allFaces {
		if excluded[f] {
			continue
		}
		p, err := NewPanel(faceArea(ff, f), cell, f.normal(), fmt.Sprintf("%s_%s", ff, f))
		if err != nil {
			return nil, err
		}
		panels = append(panels, p)
	}
	return panels, nil
}

// CubeSatWithWings returns the body panels plus deployed wings. Two wings
// point along ±Y, four along ±X and ±Y. A non-positive wing area selects the
// automatic sizing of twice the long-face area.
func CubeSatWithWings(ff FormFactor, cell *SolarCell, wingCount int, wingAreaM2 float64, excludeFaces []Face) ([]*Panel, error) {
	if wingCount != 2 && wingCount != 4 {
		return nil, fmt.Errorf("wing count must be 2 or 4, got %d", wingCount)
	}
	panels, err := CubeSatBody(ff, cell, excludeFaces)
	if err != nil {
		return nil, err
	}
	if wingAreaM2 <= 0 {
		wingAreaM2 = 2 * longFaceArea(ff)
	}
	wingFaces := []Face{FacePlusY, FaceMinusY}
	if wingCount == 4 {
		wingFaces = append(wingFaces, FacePlusX, FaceMinusX)
	}
	for _, f := range wingFaces {
		p, err := NewPanel(wingAreaM2, cell, f.normal(), fmt.Sprintf("wing_%s", f))
		if err != nil {
			return nil, err
		}
		panels = append(panels, p)
	}
	return panels, nil
}

// Area returns the gross panel area in m^2.
func (p *Panel) Area() float64 {
	return p.area
}

// Name returns the panel name.
func (p *Panel) Name() string {
	return p.name
}

// Normal returns a copy of the outward unit normal in the body frame.
func (p *Panel) Normal() []float64 {
	return []float64{p.normal[0], p.normal[1], p.normal[2]}
}

// Cell returns the cell model populating this panel.
func (p *Panel) Cell() *SolarCell {
	return p.cell
}

// NCells returns the whole number of cells fitting on the panel.
func (p *Panel) NCells() int {
	return int(math.Floor(p.area * p.cell.p.PackingFactor / p.cell.AreaM2()))
}

// CosIncidence returns max(0, ŝ·n̂) for a sun direction in the body frame.
func (p *Panel) CosIncidence(sunDirBody []float64) float64 {
	return math.Max(0, dot(sunDirBody, p.normal))
}

// Power returns the electrical output in watts for a unit sun direction in
// the body frame, the unshadowed irradiance in W/m^2, the cell temperature
// and the MPPT tracking efficiency. A panel facing away from the Sun
// produces nothing and the diode model is not evaluated.
func (p *Panel) Power(sunDirBody []float64, irradiance, tCellK, ηMppt float64) float64 {
	cosθ := p.CosIncidence(sunDirBody)
	if cosθ <= 0 || irradiance <= 0 {
		return 0
	}
	gEff := irradiance * cosθ
	w := p.cell.PowerAtMPP(gEff, tCellK) * float64(p.NCells()) * ηMppt
	return math.Max(0, w)
}

// SunDirectionBody rotates an ECI sun direction into the nadir-pointing body
// frame with the given ECI-to-body direction cosine matrix (see NadirDCM).
func SunDirectionBody(dcm *mat64.Dense, sunDirECI []float64) []float64 {
	return MxV33(dcm, sunDirECI)
}
