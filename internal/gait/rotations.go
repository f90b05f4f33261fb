package gait

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// gravityAxis is the canonical gravity direction of the global frame.
// Initial orientations are chosen so that the measured acceleration at a
// near-static stride boundary maps onto this axis.
var gravityAxis = r3.Vec{Z: 1}

const parallelTol = 1e-12

// identityRotation is the no-op rotation.
func identityRotation() r3.Rotation {
	return r3.Rotation(quat.Number{Real: 1})
}

// normalizeRotation rescales q to unit norm. Repeated quaternion products
// accumulate floating point error; integration renormalises every step.
func normalizeRotation(q r3.Rotation) r3.Rotation {
	n := quat.Abs(quat.Number(q))
	if n == 0 {
		return identityRotation()
	}
	return r3.Rotation(quat.Scale(1/n, quat.Number(q)))
}

// composeRotations returns the rotation equivalent to applying b first and
// then a (Hamilton product a⊗b).
func composeRotations(a, b r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Mul(quat.Number(a), quat.Number(b)))
}

// inverseRotation returns the rotation undoing q.
func inverseRotation(q r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Inv(quat.Number(q)))
}

// rotationFromRotVec converts a rotation vector (axis scaled by angle in
// radians) into a rotation.
func rotationFromRotVec(v r3.Vec) r3.Rotation {
	angle := r3.Norm(v)
	if angle < parallelTol {
		return identityRotation()
	}
	return r3.NewRotation(angle, v)
}

// gravityRotation returns the shortest-arc rotation that maps v onto the
// canonical gravity axis.
func gravityRotation(v r3.Vec) r3.Rotation {
	v = r3.Unit(v)
	dot := math.Max(-1, math.Min(1, r3.Dot(v, gravityAxis)))
	axis := r3.Cross(v, gravityAxis)
	if r3.Norm(axis) < parallelTol {
		if dot > 0 {
			return identityRotation()
		}
		// Antiparallel: any axis orthogonal to gravity does.
		return r3.NewRotation(math.Pi, r3.Vec{X: 1})
	}
	return r3.NewRotation(math.Acos(dot), axis)
}

// sagittalAngle extracts the sagittal-plane component of q: the third angle
// of the extrinsic z-y-x Euler decomposition (rotation about the global X
// axis), in radians.
func sagittalAngle(q r3.Rotation) float64 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return math.Atan2(2*(w*x-y*z), 1-2*(x*x+y*y))
}

// lateralAngle extracts the second angle of the extrinsic z-y-x Euler
// decomposition of q (rotation about the global Y axis), in radians. It is
// used for the turning angle between the stride's first and last
// orientations.
func lateralAngle(q r3.Rotation) float64 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	s := math.Max(-1, math.Min(1, 2*(x*z+w*y)))
	return math.Asin(s)
}

// ComputeInitialOrientation estimates the sensor orientation at the given
// start sample by aligning the median acceleration inside a window centered
// on start with gravity.
//
// The window spans floor(alignWindowWidth/2) samples on each side of start.
// If either side would cross a boundary of the recording it is truncated and
// a degraded-window diagnostic is reported; the computation continues with
// the clipped window.
func ComputeInitialOrientation(data SensorData, start, alignWindowWidth int) (r3.Rotation, []Diagnostic) {
	var diags []Diagnostic
	half := alignWindowWidth / 2

	windowStart := start - half
	if windowStart < 0 {
		windowStart = 0
		diags = append(diags, Diagnostic{Message: "could not use complete window length for initializing orientation"})
	}
	windowEnd := start + half
	if windowEnd >= data.Len() {
		windowEnd = data.Len() - 1
		diags = append(diags, Diagnostic{Message: "could not use complete window length for initializing orientation"})
	}

	med := medianVec(data.Acc[windowStart:windowEnd])
	return gravityRotation(med), diags
}

// medianVec takes the elementwise median of a set of vectors. The median is
// robust against short transients inside the alignment window.
func medianVec(vs []r3.Vec) r3.Vec {
	xs := make([]float64, len(vs))
	ys := make([]float64, len(vs))
	zs := make([]float64, len(vs))
	for i, v := range vs {
		xs[i], ys[i], zs[i] = v.X, v.Y, v.Z
	}
	return r3.Vec{X: median(xs), Y: median(ys), Z: median(zs)}
}

// median computes the median of a float64 slice without modifying it.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
