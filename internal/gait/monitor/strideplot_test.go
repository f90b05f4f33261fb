package monitor

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/gaitworks/stride.report/internal/gait"
)

func sampleTrajectory(id, n int) gait.Trajectory {
	t := gait.Trajectory{StrideID: id}
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		t.Orientation = append(t.Orientation, r3.Rotation{Real: 1})
		t.Velocity = append(t.Velocity, r3.Vec{X: frac * (1 - frac)})
		t.Position = append(t.Position, r3.Vec{X: frac, Z: 0.05 * frac * (1 - frac)})
	}
	return t
}

func TestNewStridePlotterCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots", "nested")
	if _, err := NewStridePlotter("left_sensor", dir); err != nil {
		t.Fatalf("NewStridePlotter failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
}

func TestPlotTrajectories(t *testing.T) {
	dir := t.TempDir()
	sp, err := NewStridePlotter("left_sensor", dir)
	if err != nil {
		t.Fatal(err)
	}

	result := &gait.TrajectoryResult{Strides: []gait.Trajectory{
		sampleTrajectory(1, 30),
		sampleTrajectory(2, 30),
	}}

	n, err := sp.PlotTrajectories(result)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("plotted %d strides, want 2", n)
	}

	for _, name := range []string{
		"stride_001_side.png", "stride_001_vel.png",
		"stride_002_side.png", "stride_002_vel.png",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing plot %s: %v", name, err)
		}
	}
}

func TestPlotAngleCourses(t *testing.T) {
	dir := t.TempDir()
	sp, err := NewStridePlotter("left_sensor", dir)
	if err != nil {
		t.Fatal(err)
	}

	params := []gait.SpatialParams{
		{StrideID: 1, AngleCourse: []float64{0, 0.1, 0.2, 0.15}},
		{StrideID: 2, AngleCourse: []float64{0, 0.12, 0.22, 0.18}},
	}
	if err := sp.PlotAngleCourses(params); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "angle_course.png")); err != nil {
		t.Errorf("missing angle course plot: %v", err)
	}
}

func TestWriteHTMLReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	temporal := []gait.TemporalParams{
		{StrideID: 1, StrideTime: 1.05, SwingTime: 0.4, StanceTime: 0.65},
	}
	spatial := []gait.SpatialParams{
		{StrideID: 1, StrideLength: 1.3, GaitVelocity: 1.24, ICClearance: []float64{0, 0.01, 0}},
	}

	if err := WriteHTMLReport(path, "left_sensor", temporal, spatial); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("report file is empty")
	}
}
