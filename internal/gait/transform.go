package gait

import (
	"fmt"
	"math"
)

// Transformer rescales a data column. Transformers are used to bring signal
// or parameter columns into comparable ranges before export or
// visualisation; they never run inside the trajectory pipeline itself.
type Transformer interface {
	Transform(values []float64) ([]float64, error)
}

// Fittable is implemented by transformers that derive their scaling
// parameters from training sequences. Calling Transform on a Fittable
// transformer before Fit fails with ErrUnsetState.
type Fittable interface {
	Fit(sequences [][]float64) error
}

// IdentityScaler returns the data unchanged.
type IdentityScaler struct{}

// Transform implements Transformer.
func (IdentityScaler) Transform(values []float64) ([]float64, error) {
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// FixedScaler applies a fixed offset and scale: y = (x - offset) / scale.
type FixedScaler struct {
	Scale  float64
	Offset float64
}

// Transform implements Transformer.
func (s FixedScaler) Transform(values []float64) ([]float64, error) {
	if s.Scale == 0 {
		return nil, fmt.Errorf("fixed scaler: scale must be non-zero")
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.Offset) / s.Scale
	}
	return out, nil
}

// AbsMaxScaler scales data so that its absolute maximum equals FeatureMax:
// y = x * featureMax / max(abs(x)).
type AbsMaxScaler struct {
	FeatureMax float64
}

// Transform implements Transformer.
func (s AbsMaxScaler) Transform(values []float64) ([]float64, error) {
	return scaleByAbsMax(values, s.FeatureMax, absMax(values))
}

// MinMaxScaler rescales data so that its minimum and maximum map onto
// FeatureRange.
type MinMaxScaler struct {
	FeatureRange [2]float64
}

// Transform implements Transformer.
func (s MinMaxScaler) Transform(values []float64) ([]float64, error) {
	lo, hi := minMax(values)
	return scaleToRange(values, s.FeatureRange, lo, hi), nil
}

// TrainableAbsMaxScaler scales data by the absolute maximum observed over a
// set of training sequences rather than the data being transformed:
// y = x * featureMax / dataMax.
type TrainableAbsMaxScaler struct {
	FeatureMax float64

	// DataMax is populated by Fit. Transform fails while it is nil.
	DataMax *float64
}

// Fit learns the absolute maximum over all training sequences.
func (s *TrainableAbsMaxScaler) Fit(sequences [][]float64) error {
	if len(sequences) == 0 {
		return fmt.Errorf("abs-max scaler: no training sequences provided")
	}
	m := math.Inf(-1)
	for _, seq := range sequences {
		if v := absMax(seq); v > m {
			m = v
		}
	}
	s.DataMax = &m
	return nil
}

// Transform implements Transformer.
func (s *TrainableAbsMaxScaler) Transform(values []float64) ([]float64, error) {
	if s.DataMax == nil {
		return nil, fmt.Errorf("abs-max scaler: data max not fitted: %w", ErrUnsetState)
	}
	return scaleByAbsMax(values, s.FeatureMax, *s.DataMax)
}

// TrainableMinMaxScaler rescales data using a min/max range learned from
// training sequences.
type TrainableMinMaxScaler struct {
	FeatureRange [2]float64

	// DataRange is populated by Fit. Transform fails while it is nil.
	DataRange *[2]float64
}

// Fit learns the global minimum and maximum over all training sequences.
func (s *TrainableMinMaxScaler) Fit(sequences [][]float64) error {
	if len(sequences) == 0 {
		return fmt.Errorf("min-max scaler: no training sequences provided")
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, seq := range sequences {
		l, h := minMax(seq)
		lo = math.Min(lo, l)
		hi = math.Max(hi, h)
	}
	s.DataRange = &[2]float64{lo, hi}
	return nil
}

// Transform implements Transformer.
func (s *TrainableMinMaxScaler) Transform(values []float64) ([]float64, error) {
	if s.DataRange == nil {
		return nil, fmt.Errorf("min-max scaler: data range not fitted: %w", ErrUnsetState)
	}
	return scaleToRange(values, s.FeatureRange, s.DataRange[0], s.DataRange[1]), nil
}

func absMax(values []float64) float64 {
	var m float64
	for _, v := range values {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func scaleByAbsMax(values []float64, featureMax, dataMax float64) ([]float64, error) {
	if dataMax == 0 {
		return nil, fmt.Errorf("cannot scale by absolute maximum of zero")
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * featureMax / dataMax
	}
	return out, nil
}

func scaleToRange(values []float64, featureRange [2]float64, dataMin, dataMax float64) []float64 {
	span := dataMax - dataMin
	if span == 0 {
		span = 1
	}
	scale := (featureRange[1] - featureRange[0]) / span
	offset := featureRange[0] - dataMin*scale

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v*scale + offset
	}
	return out
}
