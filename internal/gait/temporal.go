package gait

import "fmt"

// CalculateTemporalParams derives stride, swing and stance time for every
// stride of a single sensor. The computation is a pure function of the
// stride event indices and the sampling rate; no trajectory is needed.
//
// For the min-vel stride convention:
//
//	stride_time = (ic - pre_ic) / fs
//	swing_time  = (ic - tc) / fs
//	stance_time = stride_time - swing_time
func CalculateTemporalParams(events StrideList, samplingRateHz float64) ([]TemporalParams, error) {
	if samplingRateHz <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %g", samplingRateHz)
	}
	if err := ValidateMinVelStrideList(events, -1); err != nil {
		return nil, err
	}
	params := make([]TemporalParams, len(events))
	for i, ev := range events {
		strideTime := float64(ev.IC-ev.PreIC) / samplingRateHz
		swingTime := float64(ev.IC-ev.TC) / samplingRateHz
		params[i] = TemporalParams{
			StrideID:   ev.ID,
			StrideTime: strideTime,
			SwingTime:  swingTime,
			StanceTime: strideTime - swingTime,
		}
	}
	return params, nil
}

// CalculateTemporalParamsMulti applies CalculateTemporalParams independently
// to every sensor of a multi-sensor stride list.
func CalculateTemporalParamsMulti(events MultiSensorStrideList, samplingRateHz float64) (map[string][]TemporalParams, error) {
	out := make(map[string][]TemporalParams, len(events))
	for _, name := range sortedSensorNames(events) {
		params, err := CalculateTemporalParams(events[name], samplingRateHz)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", name, err)
		}
		out[name] = params
	}
	return out, nil
}
