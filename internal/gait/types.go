// Package gait reconstructs foot-mounted inertial sensor trajectories over
// individual strides and derives temporal and spatial gait parameters from
// them.
//
// The pipeline consumes a fixed-rate sensor recording together with a
// "min-vel" stride event list produced by an upstream event detection stage.
// Each stride is processed independently: an initial orientation is estimated
// by gravity alignment around the stride start, the angular rate is
// integrated into an orientation sequence, the acceleration is rotated into
// the gravity-aligned global frame and double-integrated into velocity and
// position with a drift correction anchored on the near-static stride
// boundaries.
package gait

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// SensorData is one fixed-rate recording from a single inertial sensor.
// Acc holds acceleration in m/s² and Gyr angular rate in rad/s, both in the
// sensor frame and indexed by sample number. Both slices must have the same
// length.
type SensorData struct {
	Acc []r3.Vec
	Gyr []r3.Vec
}

// Len returns the number of samples in the recording.
func (d SensorData) Len() int { return len(d.Acc) }

// Slice returns the sub-recording covering samples [start, end).
func (d SensorData) Slice(start, end int) SensorData {
	return SensorData{Acc: d.Acc[start:end], Gyr: d.Gyr[start:end]}
}

// MultiSensorData maps sensor names to their recordings. All sensors share
// one sampling rate.
type MultiSensorData map[string]SensorData

// StrideEvent is one row of a min-vel stride event list. All indices are
// sample numbers into the recording the list belongs to. For the min-vel
// stride convention Start coincides with MinVel: the stride runs from one
// minimal-velocity instant to the next.
type StrideEvent struct {
	ID     int // unique stride identifier (s_id)
	Start  int
	End    int
	GSDID  int // identifier of the gait sequence the stride belongs to
	PreIC  int // initial contact of the previous stride
	IC     int // initial contact
	MinVel int // minimal-velocity instant; equals Start
	TC     int // terminal contact
}

// StrideList is the ordered stride event list of one sensor. The order of
// appearance is preserved by all downstream computations.
type StrideList []StrideEvent

// MultiSensorStrideList maps sensor names to stride lists.
type MultiSensorStrideList map[string]StrideList

// Trajectory is the reconstructed motion of a single stride.
//
// All three sequences have (End-Start)+1 entries: the extra leading entry is
// the estimated initial state before the first integrated sample.
// Orientation rotates sensor-frame vectors into the gravity-aligned global
// frame. Velocity and Position are in the global frame and both start at the
// zero vector; the stride start is the origin.
type Trajectory struct {
	StrideID    int
	Orientation []r3.Rotation
	Velocity    []r3.Vec
	Position    []r3.Vec
}

// Len returns the number of entries in the trajectory sequences.
func (t Trajectory) Len() int { return len(t.Orientation) }

// Diagnostic is a non-fatal condition observed while estimating a stride.
// Diagnostics are collected on the result instead of being logged so that
// the computation stays free of ambient side channels.
type Diagnostic struct {
	StrideID int
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("stride %d: %s", d.StrideID, d.Message)
}

// TrajectoryResult is the assembled output of trajectory estimation for one
// sensor. Strides appear in the order of the input stride list. An empty
// stride list produces an empty (but non-nil) Strides slice.
type TrajectoryResult struct {
	Strides  []Trajectory
	Warnings []Diagnostic
}

// Stride returns the trajectory for the given stride identifier.
func (r *TrajectoryResult) Stride(id int) (Trajectory, bool) {
	for _, t := range r.Strides {
		if t.StrideID == id {
			return t, true
		}
	}
	return Trajectory{}, false
}

// TemporalParams holds the timing parameters of one stride, in seconds.
type TemporalParams struct {
	StrideID   int
	StrideTime float64
	SwingTime  float64
	StanceTime float64
}

// SpatialParams holds the distance and angle parameters of one stride.
// Lengths are in meters, velocities in m/s and angles in degrees, except
// AngleCourse which is the per-sample sagittal-plane angle in radians.
// ICClearance and TCClearance are per-sample clearance curves with one entry
// per trajectory sample.
type SpatialParams struct {
	StrideID     int
	StrideLength float64
	GaitVelocity float64
	ICClearance  []float64
	TCClearance  []float64
	ICAngle      float64
	TCAngle      float64
	TurningAngle float64
	ArcLength    float64
	AngleCourse  []float64
}
