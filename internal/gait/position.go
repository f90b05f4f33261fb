package gait

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// PositionMethod integrates global-frame acceleration into velocity and
// position for one stride.
//
// The input contains one rotated acceleration sample per sample of the
// stride. The returned sequences have len(accGlobal)+1 entries, both start
// at the zero vector, and implementations are expected to exploit the
// biomechanical assumption that both stride boundaries are near-static.
type PositionMethod interface {
	EstimatePosition(accGlobal []r3.Vec, samplingRateHz float64) (vel, pos []r3.Vec, err error)
}

// ForwardBackwardIntegration removes integration drift by combining a
// forward integral (pinned to zero velocity at the stride start) with a
// backward integral (pinned to zero velocity at the stride end). The two are
// blended with a sigmoid weight so that the estimate trusts the forward
// integral early in the stride and the backward integral late.
type ForwardBackwardIntegration struct {
	// TurningPoint is the relative position (0..1) within the stride at
	// which the blend switches from forward to backward dominance.
	TurningPoint float64

	// Steepness controls how sharp the switch is.
	Steepness float64

	// LevelAssumption additionally dedrifts the vertical position, assuming
	// the stride starts and ends at the same height (level ground).
	LevelAssumption bool

	// Gravity is subtracted from the global-frame acceleration before
	// integration.
	Gravity r3.Vec
}

// NewForwardBackwardIntegration returns the integrator with the default
// blend shape, level-ground assumption and standard gravity.
func NewForwardBackwardIntegration() *ForwardBackwardIntegration {
	return &ForwardBackwardIntegration{
		TurningPoint:    0.5,
		Steepness:       0.08,
		LevelAssumption: true,
		Gravity:         r3.Vec{Z: 9.81},
	}
}

// EstimatePosition implements PositionMethod.
func (f *ForwardBackwardIntegration) EstimatePosition(accGlobal []r3.Vec, samplingRateHz float64) ([]r3.Vec, []r3.Vec, error) {
	if samplingRateHz <= 0 {
		return nil, nil, fmt.Errorf("sampling rate must be positive, got %g", samplingRateHz)
	}
	if f.TurningPoint < 0 || f.TurningPoint > 1 {
		return nil, nil, fmt.Errorf("turning point must be within [0, 1], got %g", f.TurningPoint)
	}
	dt := 1 / samplingRateHz

	// Pad a zero row in front so that the sequences include the initial
	// state of the stride.
	n := len(accGlobal) + 1
	ax := make([]float64, n)
	ay := make([]float64, n)
	az := make([]float64, n)
	for i, a := range accGlobal {
		ax[i+1] = a.X - f.Gravity.X
		ay[i+1] = a.Y - f.Gravity.Y
		az[i+1] = a.Z - f.Gravity.Z
	}

	weights := blendWeights(n, f.TurningPoint, f.Steepness)
	vx := forwardBackwardIntegrate(ax, dt, weights)
	vy := forwardBackwardIntegrate(ay, dt, weights)
	vz := forwardBackwardIntegrate(az, dt, weights)

	px := cumtrapz(vx, dt)
	py := cumtrapz(vy, dt)
	var pz []float64
	if f.LevelAssumption {
		pz = forwardBackwardIntegrate(vz, dt, weights)
	} else {
		pz = cumtrapz(vz, dt)
	}

	vel := make([]r3.Vec, n)
	pos := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		vel[i] = r3.Vec{X: vx[i], Y: vy[i], Z: vz[i]}
		pos[i] = r3.Vec{X: px[i], Y: py[i], Z: pz[i]}
	}
	return vel, pos, nil
}

// cumtrapz is the cumulative trapezoidal integral of s with step dt,
// starting at zero.
func cumtrapz(s []float64, dt float64) []float64 {
	out := make([]float64, len(s))
	for i := 1; i < len(s); i++ {
		out[i] = out[i-1] + (s[i-1]+s[i])/2*dt
	}
	return out
}

// backtrapz integrates s from the end towards the start. The last entry is
// zero; earlier entries hold minus the integral from that sample to the end.
func backtrapz(s []float64, dt float64) []float64 {
	out := make([]float64, len(s))
	for i := len(s) - 2; i >= 0; i-- {
		out[i] = out[i+1] - (s[i]+s[i+1])/2*dt
	}
	return out
}

// forwardBackwardIntegrate blends the forward and backward integrals of s
// using the given per-sample weights. Weight 0 selects the forward integral,
// weight 1 the backward one.
func forwardBackwardIntegrate(s []float64, dt float64, weights []float64) []float64 {
	fwd := cumtrapz(s, dt)
	bwd := backtrapz(s, dt)
	out := make([]float64, len(s))
	for i := range out {
		out[i] = fwd[i]*(1-weights[i]) + bwd[i]*weights[i]
	}
	return out
}

// blendWeights produces the normalised sigmoid weight curve used to blend
// forward and backward integrals. The curve starts at exactly 0 and ends at
// exactly 1, which pins the blended velocity to zero at both boundaries.
func blendWeights(n int, turningPoint, steepness float64) []float64 {
	w := make([]float64, n)
	if n == 1 {
		return w
	}
	for i := range w {
		x := float64(i) / float64(n-1)
		w[i] = 1 / (1 + math.Exp(-(x-turningPoint)/steepness))
	}
	lo, hi := floats.Min(w), floats.Max(w)
	if hi > lo {
		for i := range w {
			w[i] = (w[i] - lo) / (hi - lo)
		}
	}
	return w
}
