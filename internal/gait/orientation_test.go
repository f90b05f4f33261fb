package gait

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestGyroIntegrationZeroRate(t *testing.T) {
	acc, gyr := restingData(20, r3.Vec{Z: 9.81})
	data := SensorData{Acc: acc, Gyr: gyr}
	initial := r3.NewRotation(0.4, r3.Vec{X: 1})

	out, err := GyroIntegration{}.EstimateOrientation(data, 100, initial)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != data.Len()+1 {
		t.Fatalf("got %d orientations, want %d", len(out), data.Len()+1)
	}
	want := initial.Rotate(r3.Vec{Y: 1})
	for i, q := range out {
		if got := q.Rotate(r3.Vec{Y: 1}); !vecClose(got, want, 1e-9) {
			t.Fatalf("orientation drifted at sample %d with zero angular rate: %+v", i, got)
		}
	}
}

func TestGyroIntegrationKnownRotation(t *testing.T) {
	// A quarter turn per second about Z for one second at 10 Hz.
	const fs = 10
	n := 10
	data := SensorData{
		Acc: make([]r3.Vec, n),
		Gyr: make([]r3.Vec, n),
	}
	for i := range data.Gyr {
		data.Gyr[i] = r3.Vec{Z: math.Pi / 2}
	}

	out, err := GyroIntegration{}.EstimateOrientation(data, fs, identityRotation())
	if err != nil {
		t.Fatal(err)
	}
	got := out[len(out)-1].Rotate(r3.Vec{X: 1})
	if !vecClose(got, r3.Vec{Y: 1}, 1e-9) {
		t.Errorf("quarter turn about Z should map X onto Y, got %+v", got)
	}
}

func TestGyroIntegrationStateless(t *testing.T) {
	data := SensorData{
		Acc: []r3.Vec{{Z: 9.81}, {Z: 9.81}, {Z: 9.81}},
		Gyr: []r3.Vec{{X: 0.5}, {Y: -0.2}, {Z: 1.1}},
	}
	method := GyroIntegration{}
	initial := r3.NewRotation(0.3, r3.Vec{Y: 1})

	first, err := method.EstimateOrientation(data, 50, initial)
	if err != nil {
		t.Fatal(err)
	}
	second, err := method.EstimateOrientation(data, 50, initial)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated estimation differs (-first +second):\n%s", diff)
	}
}

func TestGyroIntegrationRejectsBadRate(t *testing.T) {
	data := SensorData{Acc: []r3.Vec{{}}, Gyr: []r3.Vec{{}}}
	if _, err := (GyroIntegration{}).EstimateOrientation(data, 0, identityRotation()); err == nil {
		t.Error("expected error for zero sampling rate")
	}
}

func TestMadgwickZeroBetaMatchesGyroIntegration(t *testing.T) {
	data := SensorData{
		Acc: []r3.Vec{{Z: 9.81}, {X: 1, Z: 9.5}, {Z: 9.81}},
		Gyr: []r3.Vec{{X: 0.2}, {Y: 0.4}, {Z: -0.1}},
	}
	initial := r3.NewRotation(0.1, r3.Vec{X: 1})

	plain, err := GyroIntegration{}.EstimateOrientation(data, 100, initial)
	if err != nil {
		t.Fatal(err)
	}
	filtered, err := (&MadgwickAHRS{Beta: 0}).EstimateOrientation(data, 100, initial)
	if err != nil {
		t.Fatal(err)
	}
	for i := range plain {
		// The filter uses a first-order quaternion update rather than an
		// exact rotation-vector step, so allow a small discretisation gap.
		got := filtered[i].Rotate(r3.Vec{X: 1})
		want := plain[i].Rotate(r3.Vec{X: 1})
		if !vecClose(got, want, 1e-4) {
			t.Fatalf("sample %d: beta=0 filter deviates from gyro integration: %+v vs %+v", i, got, want)
		}
	}
}

func TestMadgwickConvergesToGravity(t *testing.T) {
	// Sensor at rest but the initial orientation is tilted: the accelerometer
	// correction must pull the attitude back towards level.
	acc, gyr := restingData(400, r3.Vec{Z: 9.81})
	data := SensorData{Acc: acc, Gyr: gyr}
	tilted := r3.NewRotation(0.5, r3.Vec{X: 1})

	out, err := NewMadgwickAHRS().EstimateOrientation(data, 100, tilted)
	if err != nil {
		t.Fatal(err)
	}

	start := math.Abs(sagittalAngle(out[0]))
	end := math.Abs(sagittalAngle(out[len(out)-1]))
	if end >= start/2 {
		t.Errorf("filter did not converge: tilt %v -> %v", start, end)
	}
}
