package gait

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultAlignWindowWidth is the width in samples of the gravity alignment
// window around each stride start.
const DefaultAlignWindowWidth = 8

// StrideTrajectoryEstimator reconstructs the trajectory of every stride in a
// stride event list by treating each stride individually.
//
// For every stride the estimator aligns the acceleration around the stride
// start with gravity to obtain an initial orientation, runs the configured
// OrientationMethod over the stride's angular rate, rotates the stride's
// acceleration into the global frame and runs the configured PositionMethod
// on it. Per-stride computations are independent of each other: the
// estimator never carries state between strides or between calls.
type StrideTrajectoryEstimator struct {
	OriMethod        OrientationMethod
	PosMethod        PositionMethod
	AlignWindowWidth int
}

// NewStrideTrajectoryEstimator returns an estimator with plain gyroscope
// integration, forward-backward position integration and the default
// alignment window.
func NewStrideTrajectoryEstimator() *StrideTrajectoryEstimator {
	return &StrideTrajectoryEstimator{
		OriMethod:        GyroIntegration{},
		PosMethod:        NewForwardBackwardIntegration(),
		AlignWindowWidth: DefaultAlignWindowWidth,
	}
}

// EstimateSingle reconstructs the trajectories of all strides of a single
// sensor. Strides are processed in the order of the event list. An empty
// event list yields an empty result, not an error. On any fatal error no
// partial result is returned.
func (e *StrideTrajectoryEstimator) EstimateSingle(data SensorData, events StrideList, samplingRateHz float64) (*TrajectoryResult, error) {
	if err := e.checkStrategies(); err != nil {
		return nil, err
	}
	if samplingRateHz <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %g", samplingRateHz)
	}
	if len(data.Acc) != len(data.Gyr) {
		return nil, fmt.Errorf("acceleration (%d samples) and angular rate (%d samples) differ in length: %w",
			len(data.Acc), len(data.Gyr), ErrUnsupportedCombination)
	}
	if err := ValidateMinVelStrideList(events, data.Len()); err != nil {
		return nil, err
	}

	result := &TrajectoryResult{Strides: make([]Trajectory, 0, len(events))}
	for _, ev := range events {
		traj, diags, err := e.estimateStride(data, ev, samplingRateHz)
		if err != nil {
			return nil, fmt.Errorf("stride %d: %w", ev.ID, err)
		}
		result.Strides = append(result.Strides, traj)
		result.Warnings = append(result.Warnings, diags...)
	}
	return result, nil
}

// EstimateMulti reconstructs trajectories for every sensor of a multi-sensor
// recording. Each sensor is processed independently with identical logic;
// sensors are visited in deterministic (sorted) order.
func (e *StrideTrajectoryEstimator) EstimateMulti(data MultiSensorData, events MultiSensorStrideList, samplingRateHz float64) (map[string]*TrajectoryResult, error) {
	if err := e.checkStrategies(); err != nil {
		return nil, err
	}
	if err := validateMultiSensorShapes(data, events); err != nil {
		return nil, err
	}
	results := make(map[string]*TrajectoryResult, len(data))
	for _, name := range sortedSensorNames(data) {
		res, err := e.EstimateSingle(data[name], events[name], samplingRateHz)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", name, err)
		}
		results[name] = res
	}
	return results, nil
}

// checkStrategies fails fast before any per-stride work if a strategy slot
// is not populated.
func (e *StrideTrajectoryEstimator) checkStrategies() error {
	if e.OriMethod == nil {
		return fmt.Errorf("no orientation method configured: %w", ErrContractViolation)
	}
	if e.PosMethod == nil {
		return fmt.Errorf("no position method configured: %w", ErrContractViolation)
	}
	return nil
}

// estimateStride reconstructs one stride covering samples [Start, End) of
// the recording.
func (e *StrideTrajectoryEstimator) estimateStride(data SensorData, ev StrideEvent, samplingRateHz float64) (Trajectory, []Diagnostic, error) {
	stride := data.Slice(ev.Start, ev.End)

	initial, diags := ComputeInitialOrientation(data, ev.Start, e.AlignWindowWidth)
	for i := range diags {
		diags[i].StrideID = ev.ID
	}

	orientations, err := e.OriMethod.EstimateOrientation(stride, samplingRateHz, initial)
	if err != nil {
		return Trajectory{}, nil, fmt.Errorf("orientation method: %w", err)
	}
	if len(orientations) != stride.Len()+1 {
		return Trajectory{}, nil, fmt.Errorf("orientation method returned %d orientations for %d samples: %w",
			len(orientations), stride.Len(), ErrContractViolation)
	}

	// Rotate the stride's acceleration into the global frame. The final
	// orientation has no matching sample and is skipped.
	accGlobal := make([]r3.Vec, stride.Len())
	for i, a := range stride.Acc {
		accGlobal[i] = orientations[i].Rotate(a)
	}

	velocity, position, err := e.PosMethod.EstimatePosition(accGlobal, samplingRateHz)
	if err != nil {
		return Trajectory{}, nil, fmt.Errorf("position method: %w", err)
	}
	if len(velocity) != stride.Len()+1 || len(position) != stride.Len()+1 {
		return Trajectory{}, nil, fmt.Errorf("position method returned %d velocity and %d position samples for %d input samples: %w",
			len(velocity), len(position), stride.Len(), ErrContractViolation)
	}

	return Trajectory{
		StrideID:    ev.ID,
		Orientation: orientations,
		Velocity:    velocity,
		Position:    position,
	}, diags, nil
}
