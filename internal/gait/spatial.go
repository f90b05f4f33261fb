package gait

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/gaitworks/stride.report/internal/units"
)

// CalculateSpatialParams derives the distance and angle based gait
// parameters for every stride of a single sensor from the reconstructed
// trajectories.
//
// The trajectory result must contain a trajectory for every stride in the
// event list with matching length; anything else is an unsupported
// combination of inputs.
func CalculateSpatialParams(events StrideList, traj *TrajectoryResult, samplingRateHz float64) ([]SpatialParams, error) {
	if samplingRateHz <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %g", samplingRateHz)
	}
	if traj == nil {
		return nil, fmt.Errorf("no trajectory result provided: %w", ErrUnsupportedCombination)
	}
	if err := ValidateMinVelStrideList(events, -1); err != nil {
		return nil, err
	}

	params := make([]SpatialParams, 0, len(events))
	for _, ev := range events {
		t, ok := traj.Stride(ev.ID)
		if !ok {
			return nil, fmt.Errorf("stride %d has no trajectory: %w", ev.ID, ErrUnsupportedCombination)
		}
		if t.Len() != (ev.End-ev.Start)+1 {
			return nil, fmt.Errorf("stride %d: trajectory has %d samples, event list implies %d: %w",
				ev.ID, t.Len(), (ev.End-ev.Start)+1, ErrUnsupportedCombination)
		}
		p, err := spatialParamsForStride(ev, t, samplingRateHz)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// CalculateSpatialParamsMulti applies CalculateSpatialParams independently
// per sensor.
func CalculateSpatialParamsMulti(events MultiSensorStrideList, traj map[string]*TrajectoryResult, samplingRateHz float64) (map[string][]SpatialParams, error) {
	out := make(map[string][]SpatialParams, len(events))
	for _, name := range sortedSensorNames(events) {
		t, ok := traj[name]
		if !ok {
			return nil, fmt.Errorf("sensor %q has strides but no trajectories: %w", name, ErrUnsupportedCombination)
		}
		params, err := CalculateSpatialParams(events[name], t, samplingRateHz)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", name, err)
		}
		out[name] = params
	}
	return out, nil
}

func spatialParamsForStride(ev StrideEvent, t Trajectory, samplingRateHz float64) (SpatialParams, error) {
	icRel := ev.IC - ev.Start
	tcRel := ev.TC - ev.Start
	if icRel < 0 || icRel >= t.Len() || tcRel < 0 || tcRel >= t.Len() {
		return SpatialParams{}, fmt.Errorf("stride %d: ic/tc events (relative %d/%d) outside the stride: %w",
			ev.ID, icRel, tcRel, ErrUnsupportedCombination)
	}

	angleCourse := sagittalAngleCourse(t.Orientation)
	strideLength := calcStrideLength(t.Position)
	strideTime := float64(ev.IC-ev.PreIC) / samplingRateHz

	return SpatialParams{
		StrideID:     ev.ID,
		StrideLength: strideLength,
		GaitVelocity: strideLength / strideTime,
		ICClearance:  calcEventClearance(t.Position, angleCourse, icRel),
		TCClearance:  calcEventClearance(t.Position, angleCourse, tcRel),
		ICAngle:      -units.RadToDeg(angleCourse[icRel]),
		TCAngle:      -units.RadToDeg(angleCourse[tcRel]),
		TurningAngle: calcTurningAngle(t.Orientation),
		ArcLength:    calcArcLength(t.Position),
		AngleCourse:  angleCourse,
	}, nil
}

// calcStrideLength is the horizontal-plane displacement between stride start
// and end. The vertical (Z) component is excluded; only forward progression
// counts towards stride length.
func calcStrideLength(position []r3.Vec) float64 {
	end := position[len(position)-1]
	return math.Hypot(end.X, end.Y)
}

// sagittalAngleCourse computes the sagittal-plane angle of every orientation
// sample relative to the first one, in radians.
func sagittalAngleCourse(orientation []r3.Rotation) []float64 {
	course := make([]float64, len(orientation))
	for i, q := range orientation {
		course[i] = sagittalAngle(composeRotations(q, orientation[0]))
	}
	return course
}

// calcEventClearance produces the per-sample clearance curve anchored at the
// given event sample. The sensor lift at the event is re-projected through
// the sagittal angle at every sample; the sign of the projection follows the
// sign of the angle course. This asymmetric sign convention matches the
// established parameter definition and must not be "corrected".
func calcEventClearance(position []r3.Vec, angleCourse []float64, eventRel int) []float64 {
	lift := position[eventRel].Z
	l := lift / math.Sin(angleCourse[eventRel])

	clearance := make([]float64, len(position))
	for i := range position {
		sgn := sign(angleCourse[i])
		delta := sgn * l * math.Sin(angleCourse[i])
		clearance[i] = -position[i].Z + sgn*delta
	}
	return clearance
}

// calcTurningAngle is the rotation between the stride's first and last
// orientation around the vertical-lateral decomposition axis, in degrees.
func calcTurningAngle(orientation []r3.Rotation) float64 {
	turn := composeRotations(orientation[0], inverseRotation(orientation[len(orientation)-1]))
	return units.RadToDeg(lateralAngle(turn))
}

// calcArcLength is the summed sample-to-sample path length of the stride,
// which dominates the straight-line displacement.
func calcArcLength(position []r3.Vec) float64 {
	var arc float64
	for i := 0; i < len(position)-1; i++ {
		arc += r3.Norm(r3.Sub(position[i+1], position[i]))
	}
	return arc
}

// sign matches the convention of a three-valued signum: -1, 0 or +1.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
