package integrator

import (
	"fmt"
	"math"
)

// Dormand-Prince 4(5) coefficients. The seventh stage is the FSAL stage.
var (
	dpC = [7]float64{0, 1. / 5, 3. / 10, 4. / 5, 8. / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1. / 5},
		{3. / 40, 9. / 40},
		{44. / 45, -56. / 15, 32. / 9},
		{19372. / 6561, -25360. / 2187, 64448. / 6561, -212. / 729},
		{9017. / 3168, -355. / 33, 46732. / 5247, 49. / 176, -5103. / 18656},
		{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84},
	}
	// Fifth-order solution weights (identical to the last A row).
	dpB5 = [7]float64{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84, 0}
	// Embedded fourth-order weights.
	dpB4 = [7]float64{5179. / 57600, 0, 7571. / 16695, 393. / 640, -92097. / 339200, 187. / 2100, 1. / 40}
)

// Config tunes the adaptive stepper.
type Config struct {
	MaxStep    float64   // hard cap on the step size, required
	InitStep   float64   // first attempted step; defaults to MaxStep
	MinStep    float64   // smallest allowed step before giving up; default MaxStep*1e-8
	AbsTol     []float64 // per-state absolute tolerance; scalar broadcast if length 1
	RelTol     []float64 // per-state relative tolerance; scalar broadcast if length 1
	MaxRetries int       // rejected attempts allowed per step; default 50
}

// IntegrationError reports an integration failure together with the last
// good time and state, so callers can see where the run died.
type IntegrationError struct {
	T      float64
	State  []float64
	Reason string
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at t=%f: %s", e.T, e.Reason)
}

// RK45 integrates an Integrable over an output grid.
type RK45 struct {
	inte Integrable
	grid []float64
	conf Config
}

// NewRK45 validates the configuration against the grid and state size and
// returns the stepper. The grid must be strictly increasing and the
// integrable's state is taken at grid[0].
func NewRK45(inte Integrable, grid []float64, conf Config) (*RK45, error) {
	if inte == nil {
		return nil, fmt.Errorf("integrable may not be nil")
	}
	if len(grid) < 2 {
		return nil, fmt.Errorf("output grid needs at least two points")
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			return nil, fmt.Errorf("output grid must be strictly increasing at index %d", i)
		}
	}
	if conf.MaxStep <= 0 {
		return nil, fmt.Errorf("MaxStep must be positive")
	}
	if conf.InitStep == 0 {
		conf.InitStep = conf.MaxStep
	}
	if conf.MinStep == 0 {
		conf.MinStep = conf.MaxStep * 1e-8
	}
	if conf.MaxRetries == 0 {
		conf.MaxRetries = 50
	}
	n := len(inte.GetState())
	var err error
	if conf.AbsTol, err = broadcastTol(conf.AbsTol, n, 1e-6, "AbsTol"); err != nil {
		return nil, err
	}
	if conf.RelTol, err = broadcastTol(conf.RelTol, n, 1e-5, "RelTol"); err != nil {
		return nil, err
	}
	return &RK45{inte: inte, grid: grid, conf: conf}, nil
}

func broadcastTol(tol []float64, n int, def float64, name string) ([]float64, error) {
	switch len(tol) {
	case 0:
		tol = []float64{def}
		fallthrough
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = tol[0]
		}
		return out, nil
	case n:
		return tol, nil
	}
	return nil, fmt.Errorf("%s length %d does not match state size %d", name, len(tol), n)
}

// Solve advances the state from grid[0] to the end of the grid, calling
// SetState at every grid point after grid[0]. It returns an *IntegrationError when the
// stepper cannot meet the tolerance or the state turns NaN.
func (r *RK45) Solve() error {
	y := append([]float64(nil), r.inte.GetState()...)
	n := len(y)
	t := r.grid[0]
	h := math.Min(r.conf.InitStep, r.conf.MaxStep)

	k := make([][]float64, 7)
	for i := range k {
		k[i] = make([]float64, n)
	}
	yTmp := make([]float64, n)
	yNext := make([]float64, n)

	copy(k[0], r.inte.Func(t, y))
	if hasNaN(k[0]) {
		return &IntegrationError{T: t, State: y, Reason: "NaN in initial derivative"}
	}

	for gi := 1; gi < len(r.grid); gi++ {
		tTarget := r.grid[gi]
		for t < tTarget {
			if h > r.conf.MaxStep {
				h = r.conf.MaxStep
			}
			clipped := false
			if t+h >= tTarget {
				h = tTarget - t
				clipped = true
			}
			retries := 0
			for {
				// Stage evaluations. k[0] holds f(t, y) via FSAL.
				for s := 1; s < 7; s++ {
					for i := 0; i < n; i++ {
						acc := 0.0
						for j := 0; j < s; j++ {
							acc += dpA[s][j] * k[j][i]
						}
						yTmp[i] = y[i] + h*acc
					}
					copy(k[s], r.inte.Func(t+dpC[s]*h, yTmp))
				}
				// Fifth-order solution and embedded error.
				errNorm := 0.0
				for i := 0; i < n; i++ {
					y5 := 0.0
					y4 := 0.0
					for s := 0; s < 7; s++ {
						y5 += dpB5[s] * k[s][i]
						y4 += dpB4[s] * k[s][i]
					}
					yNext[i] = y[i] + h*y5
					scale := r.conf.AbsTol[i] + r.conf.RelTol[i]*math.Max(math.Abs(y[i]), math.Abs(yNext[i]))
					e := h * (y5 - y4) / scale
					errNorm += e * e
				}
				errNorm = math.Sqrt(errNorm / float64(n))
				if hasNaN(yNext) || math.IsNaN(errNorm) {
					return &IntegrationError{T: t, State: y, Reason: "NaN in state vector"}
				}
				if errNorm <= 1 {
					t += h
					copy(y, yNext)
					copy(k[0], k[6]) // FSAL: last stage is f(t+h, yNext).
					if fac := stepFactor(errNorm); !clipped {
						h *= fac
					} else if fac > 1 {
						// Grow again after an end-of-interval clip.
						h = math.Min(r.conf.MaxStep, h*fac)
					}
					break
				}
				retries++
				if retries > r.conf.MaxRetries {
					return &IntegrationError{T: t, State: y,
						Reason: fmt.Sprintf("tolerance not met after %d step rejections", r.conf.MaxRetries)}
				}
				h *= stepFactor(errNorm)
				clipped = false
				if h < r.conf.MinStep {
					return &IntegrationError{T: t, State: y,
						Reason: fmt.Sprintf("step size underflow below %g s", r.conf.MinStep)}
				}
			}
		}
		r.inte.SetState(t, y)
	}
	return nil
}

// stepFactor returns the step scaling for the given error norm, bounded to
// [0.2, 5] with the customary 0.9 safety factor.
func stepFactor(errNorm float64) float64 {
	if errNorm == 0 {
		return 5
	}
	return math.Min(5, math.Max(0.2, 0.9*math.Pow(errNorm, -0.2)))
}

func hasNaN(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
