package monitor

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gaitworks/stride.report/internal/gait"
)

// WriteHTMLReport renders an interactive HTML summary of one sensor's
// temporal and spatial parameters: stride-length and timing bars per stride
// plus the clearance curves.
func WriteHTMLReport(path, sensorID string, temporal []gait.TemporalParams, spatial []gait.SpatialParams) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Gait report - %s", sensorID)

	page.AddCharts(
		strideLengthChart(sensorID, spatial),
		strideTimingChart(sensorID, temporal),
		clearanceChart(sensorID, spatial),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func strideLengthChart(sensorID string, spatial []gait.SpatialParams) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Stride length and gait velocity",
			Subtitle: fmt.Sprintf("sensor=%s strides=%d", sensorID, len(spatial)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m / m/s"}),
	)

	labels := make([]string, len(spatial))
	lengths := make([]opts.BarData, len(spatial))
	velocities := make([]opts.BarData, len(spatial))
	for i, p := range spatial {
		labels[i] = fmt.Sprintf("stride %d", p.StrideID)
		lengths[i] = opts.BarData{Value: p.StrideLength}
		velocities[i] = opts.BarData{Value: p.GaitVelocity}
	}

	bar.SetXAxis(labels).
		AddSeries("stride_length (m)", lengths).
		AddSeries("gait_velocity (m/s)", velocities)
	return bar
}

func strideTimingChart(sensorID string, temporal []gait.TemporalParams) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Stride timing",
			Subtitle: fmt.Sprintf("sensor=%s", sensorID),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "seconds"}),
	)

	labels := make([]string, len(temporal))
	stance := make([]opts.BarData, len(temporal))
	swing := make([]opts.BarData, len(temporal))
	for i, p := range temporal {
		labels[i] = fmt.Sprintf("stride %d", p.StrideID)
		stance[i] = opts.BarData{Value: p.StanceTime}
		swing[i] = opts.BarData{Value: p.SwingTime}
	}

	// Stacked so each bar totals the stride time.
	bar.SetXAxis(labels).
		AddSeries("stance_time (s)", stance, charts.WithBarChartOpts(opts.BarChart{Stack: "stride"})).
		AddSeries("swing_time (s)", swing, charts.WithBarChartOpts(opts.BarChart{Stack: "stride"}))
	return bar
}

func clearanceChart(sensorID string, spatial []gait.SpatialParams) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "IC clearance curves",
			Subtitle: fmt.Sprintf("sensor=%s", sensorID),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sample"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "clearance (m)"}),
	)

	maxLen := 0
	for _, p := range spatial {
		if len(p.ICClearance) > maxLen {
			maxLen = len(p.ICClearance)
		}
	}
	xAxis := make([]int, maxLen)
	for i := range xAxis {
		xAxis[i] = i
	}
	line.SetXAxis(xAxis)

	for _, p := range spatial {
		data := make([]opts.LineData, len(p.ICClearance))
		for i, v := range p.ICClearance {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(fmt.Sprintf("stride %d", p.StrideID), data)
	}
	return line
}
