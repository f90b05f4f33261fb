// Package units provides shared constants and conversions for the speed and
// angle units used when reporting gait parameters. Gait velocities are
// computed and stored in m/s; conversion to display units happens at the
// reporting boundary.
package units

// Recognised speed units.
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all recognised speed unit values.
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid reports whether unit is a recognised speed unit.
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated list of recognised speed
// units for error messages.
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// ConvertSpeed converts a speed from m/s to the target units. Unknown units
// pass the value through unchanged.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPS:
		return speedMPS
	case MPH:
		return speedMPS * 2.2369362920544
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}
