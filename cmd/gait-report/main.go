// Command gait-report reconstructs per-stride trajectories from a recorded
// inertial sensor stream and prints, persists and plots the derived gait
// parameters.
//
// Inputs are two CSV files: the raw sensor recording (acc_x..gyr_z columns,
// one row per sample) and the min-vel stride event list produced by an
// upstream event detection stage.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gaitworks/stride.report/internal/config"
	"github.com/gaitworks/stride.report/internal/gait"
	"github.com/gaitworks/stride.report/internal/gait/monitor"
	"github.com/gaitworks/stride.report/internal/gaitdb"
	"github.com/gaitworks/stride.report/internal/units"
	"github.com/gaitworks/stride.report/internal/version"
	"gonum.org/v1/gonum/spatial/r3"
)

type cliConfig struct {
	DataFile   string
	EventsFile string
	SensorID   string
	SamplingHz float64
	ConfigFile string
	DBPath     string
	PlotDir    string
	ReportFile string
	SpeedUnits string
	NoPersist  bool
}

func main() {
	var cli cliConfig
	flag.StringVar(&cli.DataFile, "data", "", "Path to sensor recording CSV (required)")
	flag.StringVar(&cli.EventsFile, "events", "", "Path to stride event list CSV (required)")
	flag.StringVar(&cli.SensorID, "sensor-id", "left_sensor", "Sensor ID used for reporting and storage")
	flag.Float64Var(&cli.SamplingHz, "fs", 204.8, "Sampling rate of the recording in Hz")
	flag.StringVar(&cli.ConfigFile, "config", "", "Tuning config JSON (optional)")
	flag.StringVar(&cli.DBPath, "db", "", "SQLite database path (overrides config)")
	flag.StringVar(&cli.PlotDir, "plots", "", "Directory for trajectory plots (optional)")
	flag.StringVar(&cli.ReportFile, "report", "", "Path for the HTML report (optional)")
	flag.StringVar(&cli.SpeedUnits, "units", "", "Speed units for display: "+units.GetValidUnitsString())
	flag.BoolVar(&cli.NoPersist, "no-db", false, "Skip database persistence")
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gait-report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if cli.DataFile == "" || cli.EventsFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cli); err != nil {
		log.Fatalf("gait-report: %v", err)
	}
}

func run(cli cliConfig) error {
	tuning := config.EmptyTuningConfig()
	if cli.ConfigFile != "" {
		loaded, err := config.LoadTuningConfig(cli.ConfigFile)
		if err != nil {
			return err
		}
		tuning = loaded
	}

	speedUnits := cli.SpeedUnits
	if speedUnits == "" {
		speedUnits = tuning.GetSpeedUnits()
	}
	if !units.IsValid(speedUnits) {
		return fmt.Errorf("invalid units %q, must be one of: %s", speedUnits, units.GetValidUnitsString())
	}

	data, err := loadSensorCSV(cli.DataFile)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cli.DataFile, err)
	}
	events, err := loadStrideCSV(cli.EventsFile)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cli.EventsFile, err)
	}
	log.Printf("loaded %d samples and %d strides", data.Len(), len(events))

	estimator, err := buildEstimator(tuning)
	if err != nil {
		return err
	}

	trajectories, err := estimator.EstimateSingle(data, events, cli.SamplingHz)
	if err != nil {
		return fmt.Errorf("trajectory estimation: %w", err)
	}
	for _, w := range trajectories.Warnings {
		log.Printf("warning: %s", w)
	}

	temporal, err := gait.CalculateTemporalParams(events, cli.SamplingHz)
	if err != nil {
		return fmt.Errorf("temporal parameters: %w", err)
	}
	spatial, err := gait.CalculateSpatialParams(events, trajectories, cli.SamplingHz)
	if err != nil {
		return fmt.Errorf("spatial parameters: %w", err)
	}

	printParams(temporal, spatial, speedUnits)

	if !cli.NoPersist {
		dbPath := cli.DBPath
		if dbPath == "" {
			dbPath = tuning.GetDatabasePath()
		}
		if err := persist(dbPath, cli, trajectories, temporal, spatial); err != nil {
			return err
		}
	}

	if cli.PlotDir != "" {
		plotter, err := monitor.NewStridePlotter(cli.SensorID, cli.PlotDir)
		if err != nil {
			return err
		}
		n, err := plotter.PlotTrajectories(trajectories)
		if err != nil {
			return err
		}
		if err := plotter.PlotAngleCourses(spatial); err != nil {
			return err
		}
		log.Printf("wrote %d stride plots to %s", n, cli.PlotDir)
	}

	if cli.ReportFile != "" {
		if err := os.MkdirAll(filepath.Dir(cli.ReportFile), 0755); err != nil {
			return err
		}
		if err := monitor.WriteHTMLReport(cli.ReportFile, cli.SensorID, temporal, spatial); err != nil {
			return err
		}
		log.Printf("wrote HTML report to %s", cli.ReportFile)
	}

	return nil
}

// buildEstimator wires the configured strategies into a trajectory
// estimator.
func buildEstimator(tuning *config.TuningConfig) (*gait.StrideTrajectoryEstimator, error) {
	estimator := gait.NewStrideTrajectoryEstimator()
	estimator.AlignWindowWidth = tuning.GetAlignWindowWidth()

	switch tuning.GetOriMethod() {
	case config.OrientationMethodGyro:
		estimator.OriMethod = gait.GyroIntegration{}
	case config.OrientationMethodMadgwick:
		estimator.OriMethod = &gait.MadgwickAHRS{Beta: tuning.GetMadgwickBeta()}
	default:
		return nil, fmt.Errorf("unknown orientation method %q", tuning.GetOriMethod())
	}

	estimator.PosMethod = &gait.ForwardBackwardIntegration{
		TurningPoint:    tuning.GetTurningPoint(),
		Steepness:       tuning.GetSteepness(),
		LevelAssumption: tuning.GetLevelAssumption(),
		Gravity:         r3.Vec{Z: tuning.GetGravityMps2()},
	}
	return estimator, nil
}

func persist(dbPath string, cli cliConfig, trajectories *gait.TrajectoryResult, temporal []gait.TemporalParams, spatial []gait.SpatialParams) error {
	db, err := gaitdb.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	defer db.Close()

	sessionID, err := db.StartSession(cli.SensorID, cli.SamplingHz, "gait-report run")
	if err != nil {
		return err
	}
	if err := db.RecordTemporalParams(sessionID, temporal); err != nil {
		return err
	}
	if err := db.RecordSpatialParams(sessionID, spatial); err != nil {
		return err
	}
	if err := db.RecordTrajectories(sessionID, trajectories); err != nil {
		return err
	}
	log.Printf("stored session %s in %s", sessionID, dbPath)
	return nil
}

func printParams(temporal []gait.TemporalParams, spatial []gait.SpatialParams, speedUnits string) {
	fmt.Printf("%-8s %-12s %-12s %-12s %-14s %-14s %-10s %-10s %-12s %-10s\n",
		"stride", "stride_time", "swing_time", "stance_time",
		"stride_length", "gait_velocity", "ic_angle", "tc_angle", "turn_angle", "arc_len")
	byID := make(map[int]gait.SpatialParams, len(spatial))
	for _, p := range spatial {
		byID[p.StrideID] = p
	}
	for _, tp := range temporal {
		sp := byID[tp.StrideID]
		fmt.Printf("%-8d %-12.3f %-12.3f %-12.3f %-14.3f %-14.3f %-10.2f %-10.2f %-12.2f %-10.3f\n",
			tp.StrideID, tp.StrideTime, tp.SwingTime, tp.StanceTime,
			sp.StrideLength, units.ConvertSpeed(sp.GaitVelocity, speedUnits),
			sp.ICAngle, sp.TCAngle, sp.TurningAngle, sp.ArcLength)
	}
}
