// Package config loads the tuning parameters of the gait analysis pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// OrientationMethodGyro and OrientationMethodMadgwick are the recognised
// values of the ori_method setting.
const (
	OrientationMethodGyro     = "gyro"
	OrientationMethodMadgwick = "madgwick"
)

// TuningConfig represents the tuning parameters of one analysis run. All
// fields are pointers so that a partial JSON file only overrides the values
// it mentions; the Get* accessors fall back to defaults for unset fields.
type TuningConfig struct {
	// Trajectory reconstruction params
	AlignWindowWidth *int     `json:"align_window_width,omitempty"`
	OriMethod        *string  `json:"ori_method,omitempty"` // "gyro" or "madgwick"
	MadgwickBeta     *float64 `json:"madgwick_beta,omitempty"`
	TurningPoint     *float64 `json:"turning_point,omitempty"`
	Steepness        *float64 `json:"steepness,omitempty"`
	LevelAssumption  *bool    `json:"level_assumption,omitempty"`
	GravityMps2      *float64 `json:"gravity_mps2,omitempty"`

	// Reporting params
	SpeedUnits   *string `json:"speed_units,omitempty"`
	DatabasePath *string `json:"database_path,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all set configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.AlignWindowWidth != nil && *c.AlignWindowWidth < 2 {
		return fmt.Errorf("align_window_width must be at least 2, got %d", *c.AlignWindowWidth)
	}
	if c.OriMethod != nil {
		switch *c.OriMethod {
		case OrientationMethodGyro, OrientationMethodMadgwick:
		default:
			return fmt.Errorf("ori_method must be %q or %q, got %q",
				OrientationMethodGyro, OrientationMethodMadgwick, *c.OriMethod)
		}
	}
	if c.MadgwickBeta != nil && *c.MadgwickBeta < 0 {
		return fmt.Errorf("madgwick_beta must be non-negative, got %f", *c.MadgwickBeta)
	}
	if c.TurningPoint != nil && (*c.TurningPoint < 0 || *c.TurningPoint > 1) {
		return fmt.Errorf("turning_point must be between 0 and 1, got %f", *c.TurningPoint)
	}
	if c.Steepness != nil && *c.Steepness <= 0 {
		return fmt.Errorf("steepness must be positive, got %f", *c.Steepness)
	}
	if c.GravityMps2 != nil && *c.GravityMps2 < 0 {
		return fmt.Errorf("gravity_mps2 must be non-negative, got %f", *c.GravityMps2)
	}
	return nil
}

// GetAlignWindowWidth returns the align_window_width value or the default.
func (c *TuningConfig) GetAlignWindowWidth() int {
	if c.AlignWindowWidth == nil {
		return 8 // default
	}
	return *c.AlignWindowWidth
}

// GetOriMethod returns the ori_method value or the default.
func (c *TuningConfig) GetOriMethod() string {
	if c.OriMethod == nil {
		return OrientationMethodGyro
	}
	return *c.OriMethod
}

// GetMadgwickBeta returns the madgwick_beta value or the default.
func (c *TuningConfig) GetMadgwickBeta() float64 {
	if c.MadgwickBeta == nil {
		return 0.2
	}
	return *c.MadgwickBeta
}

// GetTurningPoint returns the turning_point value or the default.
func (c *TuningConfig) GetTurningPoint() float64 {
	if c.TurningPoint == nil {
		return 0.5
	}
	return *c.TurningPoint
}

// GetSteepness returns the steepness value or the default.
func (c *TuningConfig) GetSteepness() float64 {
	if c.Steepness == nil {
		return 0.08
	}
	return *c.Steepness
}

// GetLevelAssumption returns the level_assumption value or the default.
func (c *TuningConfig) GetLevelAssumption() bool {
	if c.LevelAssumption == nil {
		return true
	}
	return *c.LevelAssumption
}

// GetGravityMps2 returns the gravity_mps2 value or the default.
func (c *TuningConfig) GetGravityMps2() float64 {
	if c.GravityMps2 == nil {
		return 9.81
	}
	return *c.GravityMps2
}

// GetSpeedUnits returns the speed_units value or the default.
func (c *TuningConfig) GetSpeedUnits() string {
	if c.SpeedUnits == nil {
		return "mps"
	}
	return *c.SpeedUnits
}

// GetDatabasePath returns the database_path value or the default.
func (c *TuningConfig) GetDatabasePath() string {
	if c.DatabasePath == nil {
		return "gait.db"
	}
	return *c.DatabasePath
}
