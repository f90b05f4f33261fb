package gait

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for the failure modes of the pipeline. All fatal errors
// returned by this package wrap one of these.
var (
	// ErrUnsupportedCombination indicates that the provided sensor data and
	// stride/position/orientation lists do not form a recognised pairing.
	ErrUnsupportedCombination = errors.New("combination of sensor data and stride list is not supported")

	// ErrContractViolation indicates that a configured strategy does not
	// satisfy the orientation or position method contract.
	ErrContractViolation = errors.New("strategy does not satisfy the required contract")

	// ErrUnsetState indicates that a trainable component was used before its
	// training-derived state was populated.
	ErrUnsetState = errors.New("required trained state is not set")
)

// ValidateMinVelStrideList checks that events is a valid min-vel stride list
// for a recording of streamLen samples. A negative streamLen skips the
// bounds checks for callers that do not have the recording at hand.
//
// A valid min-vel stride runs from one minimal-velocity instant to the next,
// so Start must equal MinVel and Start must precede End.
func ValidateMinVelStrideList(events StrideList, streamLen int) error {
	for i, ev := range events {
		if ev.Start != ev.MinVel {
			return fmt.Errorf("stride %d (row %d): start %d != min_vel %d: %w",
				ev.ID, i, ev.Start, ev.MinVel, ErrUnsupportedCombination)
		}
		if ev.Start >= ev.End {
			return fmt.Errorf("stride %d (row %d): start %d must precede end %d: %w",
				ev.ID, i, ev.Start, ev.End, ErrUnsupportedCombination)
		}
		if ev.Start < 0 {
			return fmt.Errorf("stride %d (row %d): negative start index %d: %w",
				ev.ID, i, ev.Start, ErrUnsupportedCombination)
		}
		if streamLen >= 0 && ev.End > streamLen {
			return fmt.Errorf("stride %d (row %d): end %d exceeds recording length %d: %w",
				ev.ID, i, ev.End, streamLen, ErrUnsupportedCombination)
		}
	}
	return nil
}

// sortedSensorNames returns the keys of a multi-sensor map in deterministic
// order. Per-sensor outputs must not depend on map iteration order.
func sortedSensorNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validateMultiSensorShapes checks that every sensor in data has a matching
// stride list.
func validateMultiSensorShapes(data MultiSensorData, events MultiSensorStrideList) error {
	for _, name := range sortedSensorNames(data) {
		if _, ok := events[name]; !ok {
			return fmt.Errorf("sensor %q has data but no stride list: %w", name, ErrUnsupportedCombination)
		}
	}
	return nil
}
