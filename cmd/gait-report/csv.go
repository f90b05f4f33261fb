package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/gaitworks/stride.report/internal/gait"
)

// loadSensorCSV reads a sensor recording. The file must have a header row
// containing the columns acc_x, acc_y, acc_z, gyr_x, gyr_y and gyr_z; extra
// columns (sample counters, timestamps) are ignored.
func loadSensorCSV(path string) (gait.SensorData, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return gait.SensorData{}, err
	}

	cols, err := columnIndices(header, []string{"acc_x", "acc_y", "acc_z", "gyr_x", "gyr_y", "gyr_z"})
	if err != nil {
		return gait.SensorData{}, err
	}

	data := gait.SensorData{
		Acc: make([]r3.Vec, 0, len(rows)),
		Gyr: make([]r3.Vec, 0, len(rows)),
	}
	for i, row := range rows {
		vals, err := parseFloats(row, cols)
		if err != nil {
			return gait.SensorData{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		data.Acc = append(data.Acc, r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]})
		data.Gyr = append(data.Gyr, r3.Vec{X: vals[3], Y: vals[4], Z: vals[5]})
	}
	return data, nil
}

// loadStrideCSV reads a min-vel stride event list with the columns s_id,
// start, end, gsd_id, pre_ic, ic, min_vel and tc.
func loadStrideCSV(path string) (gait.StrideList, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndices(header, []string{"s_id", "start", "end", "gsd_id", "pre_ic", "ic", "min_vel", "tc"})
	if err != nil {
		return nil, err
	}

	events := make(gait.StrideList, 0, len(rows))
	for i, row := range rows {
		vals, err := parseInts(row, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		events = append(events, gait.StrideEvent{
			ID:     vals[0],
			Start:  vals[1],
			End:    vals[2],
			GSDID:  vals[3],
			PreIC:  vals[4],
			IC:     vals[5],
			MinVel: vals[6],
			TC:     vals[7],
		})
	}
	return events, nil
}

func readCSV(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty CSV file")
	}
	return all[1:], all[0], nil
}

// columnIndices maps the wanted column names onto their positions in the
// header row.
func columnIndices(header, wanted []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}
	out := make([]int, len(wanted))
	for i, name := range wanted {
		idx, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
		out[i] = idx
	}
	return out, nil
}

func parseFloats(row []string, cols []int) ([]float64, error) {
	out := make([]float64, len(cols))
	for i, c := range cols {
		if c >= len(row) {
			return nil, fmt.Errorf("row too short: %d fields", len(row))
		}
		v, err := strconv.ParseFloat(row[c], 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", c, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(row []string, cols []int) ([]int, error) {
	out := make([]int, len(cols))
	for i, c := range cols {
		if c >= len(row) {
			return nil, fmt.Errorf("row too short: %d fields", len(row))
		}
		v, err := strconv.Atoi(row[c])
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", c, err)
		}
		out[i] = v
	}
	return out, nil
}
