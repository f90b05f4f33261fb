// Package monitor renders reconstructed stride trajectories and derived
// parameter curves for visual inspection. It consumes the output of the
// gait package and produces PNG plots and HTML reports; it never feeds back
// into the computation.
package monitor

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gaitworks/stride.report/internal/gait"
)

// StridePlotter writes per-stride trajectory plots into an output directory.
type StridePlotter struct {
	outputDir string
	sensorID  string
}

// NewStridePlotter creates a plotter writing into outputDir. The directory
// is created if needed.
func NewStridePlotter(sensorID, outputDir string) (*StridePlotter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &StridePlotter{outputDir: outputDir, sensorID: sensorID}, nil
}

// PlotTrajectories generates one side-view plot (forward vs. vertical
// position) and one vertical-velocity plot per stride. Returns the number of
// plots written.
func (sp *StridePlotter) PlotTrajectories(result *gait.TrajectoryResult) (int, error) {
	count := 0
	for _, t := range result.Strides {
		if err := sp.plotStride(t); err != nil {
			return count, fmt.Errorf("stride %d: %w", t.StrideID, err)
		}
		count++
	}
	return count, nil
}

func (sp *StridePlotter) plotStride(t gait.Trajectory) error {
	pSide := plot.New()
	pSide.Title.Text = fmt.Sprintf("%s stride %d - side view", sp.sensorID, t.StrideID)
	pSide.X.Label.Text = "Forward (m)"
	pSide.Y.Label.Text = "Vertical (m)"

	pVel := plot.New()
	pVel.Title.Text = fmt.Sprintf("%s stride %d - velocity", sp.sensorID, t.StrideID)
	pVel.X.Label.Text = "Sample"
	pVel.Y.Label.Text = "Velocity (m/s)"

	sidePts := make(plotter.XYs, len(t.Position))
	velPts := make(plotter.XYs, len(t.Velocity))
	for i := range t.Position {
		// Forward progression is the horizontal distance from the stride
		// origin; vertical is the gravity axis.
		fwd := math.Hypot(t.Position[i].X, t.Position[i].Y)
		sidePts[i] = plotter.XY{X: fwd, Y: t.Position[i].Z}
		v := t.Velocity[i]
		velPts[i] = plotter.XY{X: float64(i), Y: math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)}
	}

	sideLine, err := plotter.NewLine(sidePts)
	if err != nil {
		return err
	}
	sideLine.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	sideLine.Width = vg.Points(1)
	pSide.Add(sideLine)

	velLine, err := plotter.NewLine(velPts)
	if err != nil {
		return err
	}
	velLine.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	velLine.Width = vg.Points(1)
	pVel.Add(velLine)

	sideFile := filepath.Join(sp.outputDir, fmt.Sprintf("stride_%03d_side.png", t.StrideID))
	if err := pSide.Save(8*vg.Inch, 4*vg.Inch, sideFile); err != nil {
		return fmt.Errorf("save side view plot: %w", err)
	}
	velFile := filepath.Join(sp.outputDir, fmt.Sprintf("stride_%03d_vel.png", t.StrideID))
	if err := pVel.Save(8*vg.Inch, 4*vg.Inch, velFile); err != nil {
		return fmt.Errorf("save velocity plot: %w", err)
	}
	return nil
}

// PlotAngleCourses draws the sagittal angle course of every stride into a
// single plot so drift between strides stands out.
func (sp *StridePlotter) PlotAngleCourses(params []gait.SpatialParams) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - sagittal angle course", sp.sensorID)
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "Angle (rad)"

	colors := plotColors(len(params))
	for i, prm := range params {
		pts := make(plotter.XYs, len(prm.AngleCourse))
		for j, a := range prm.AngleCourse {
			pts[j] = plotter.XY{X: float64(j), Y: a}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("stride %d", prm.StrideID), line)
	}
	p.Legend.Top = true

	file := filepath.Join(sp.outputDir, "angle_course.png")
	if err := p.Save(10*vg.Inch, 5*vg.Inch, file); err != nil {
		return fmt.Errorf("save angle course plot: %w", err)
	}
	return nil
}

// plotColors produces n visually distinct line colors.
func plotColors(n int) []color.Color {
	palette := []color.Color{
		color.RGBA{R: 31, G: 119, B: 180, A: 255},
		color.RGBA{R: 255, G: 127, B: 14, A: 255},
		color.RGBA{R: 44, G: 160, B: 44, A: 255},
		color.RGBA{R: 214, G: 39, B: 40, A: 255},
		color.RGBA{R: 148, G: 103, B: 189, A: 255},
		color.RGBA{R: 140, G: 86, B: 75, A: 255},
	}
	out := make([]color.Color, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}
