package gait

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// OrientationMethod turns the sensor data of one stride into an orientation
// sequence.
//
// Implementations must be stateless across invocations: a reused instance
// must produce the same output for the same input regardless of earlier
// calls. The initial orientation is always supplied by the caller; any
// internally configured starting orientation must be ignored.
type OrientationMethod interface {
	// EstimateOrientation returns len(data)+1 orientations rotating the
	// sensor frame into the global frame. The first entry is initial, each
	// following entry incorporates one angular rate sample.
	EstimateOrientation(data SensorData, samplingRateHz float64, initial r3.Rotation) ([]r3.Rotation, error)
}

// GyroIntegration integrates the angular rate sample by sample. Each gyro
// sample is treated as a constant rate over one sample interval and applied
// as a rotation-vector step.
type GyroIntegration struct{}

// EstimateOrientation implements OrientationMethod.
func (GyroIntegration) EstimateOrientation(data SensorData, samplingRateHz float64, initial r3.Rotation) ([]r3.Rotation, error) {
	if samplingRateHz <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %g", samplingRateHz)
	}
	dt := 1 / samplingRateHz
	out := make([]r3.Rotation, data.Len()+1)
	out[0] = normalizeRotation(initial)
	for i, w := range data.Gyr {
		step := rotationFromRotVec(r3.Scale(dt, w))
		out[i+1] = normalizeRotation(composeRotations(out[i], step))
	}
	return out, nil
}

// MadgwickAHRS integrates the angular rate while continuously correcting the
// attitude towards the gravity direction observed by the accelerometer,
// using Madgwick's gradient descent step.
//
// Beta is the correction gain. A beta of zero reduces the filter to plain
// gyroscope integration; large values trust the accelerometer more and react
// faster at the cost of noise sensitivity.
type MadgwickAHRS struct {
	Beta float64
}

// NewMadgwickAHRS returns a filter with the commonly used default gain.
func NewMadgwickAHRS() *MadgwickAHRS {
	return &MadgwickAHRS{Beta: 0.2}
}

// EstimateOrientation implements OrientationMethod.
func (m *MadgwickAHRS) EstimateOrientation(data SensorData, samplingRateHz float64, initial r3.Rotation) ([]r3.Rotation, error) {
	if samplingRateHz <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %g", samplingRateHz)
	}
	dt := 1 / samplingRateHz
	out := make([]r3.Rotation, data.Len()+1)
	out[0] = normalizeRotation(initial)
	for i := range data.Gyr {
		out[i+1] = m.step(out[i], data.Gyr[i], data.Acc[i], dt)
	}
	return out, nil
}

// step advances the orientation by one sample.
func (m *MadgwickAHRS) step(q r3.Rotation, gyr, acc r3.Vec, dt float64) r3.Rotation {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	// Rate of change from the gyroscope.
	qDotW := 0.5 * (-x*gyr.X - y*gyr.Y - z*gyr.Z)
	qDotX := 0.5 * (w*gyr.X + y*gyr.Z - z*gyr.Y)
	qDotY := 0.5 * (w*gyr.Y - x*gyr.Z + z*gyr.X)
	qDotZ := 0.5 * (w*gyr.Z + x*gyr.Y - y*gyr.X)

	norm := r3.Norm(acc)
	if norm > 0 && m.Beta > 0 {
		ax, ay, az := acc.X/norm, acc.Y/norm, acc.Z/norm

		// Gradient of the objective aligning the estimated gravity
		// direction with the measured acceleration.
		f1 := 2*(x*z-w*y) - ax
		f2 := 2*(w*x+y*z) - ay
		f3 := 2*(0.5-x*x-y*y) - az

		sW := -2*y*f1 + 2*x*f2
		sX := 2*z*f1 + 2*w*f2 - 4*x*f3
		sY := -2*w*f1 + 2*z*f2 - 4*y*f3
		sZ := 2*x*f1 + 2*y*f2

		sNorm := math.Sqrt(sW*sW + sX*sX + sY*sY + sZ*sZ)
		if sNorm > 0 {
			qDotW -= m.Beta * sW / sNorm
			qDotX -= m.Beta * sX / sNorm
			qDotY -= m.Beta * sY / sNorm
			qDotZ -= m.Beta * sZ / sNorm
		}
	}

	next := r3.Rotation{
		Real: w + qDotW*dt,
		Imag: x + qDotX*dt,
		Jmag: y + qDotY*dt,
		Kmag: z + qDotZ*dt,
	}
	return normalizeRotation(next)
}
