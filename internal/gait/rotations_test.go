package gait

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func vecClose(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestGravityRotationAligned(t *testing.T) {
	// Acceleration already on the gravity axis: rotation must be a no-op.
	rot := gravityRotation(r3.Vec{Z: 9.81})
	got := rot.Rotate(r3.Vec{X: 1, Y: 2, Z: 3})
	if !vecClose(got, r3.Vec{X: 1, Y: 2, Z: 3}, 1e-12) {
		t.Errorf("aligned vector changed under gravity rotation: %+v", got)
	}
}

func TestGravityRotationOrthogonal(t *testing.T) {
	rot := gravityRotation(r3.Vec{X: 9.81})
	got := rot.Rotate(r3.Vec{X: 1})
	if !vecClose(got, r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("X axis not mapped onto gravity: %+v", got)
	}
}

func TestGravityRotationAntiparallel(t *testing.T) {
	rot := gravityRotation(r3.Vec{Z: -9.81})
	got := rot.Rotate(r3.Vec{Z: -1})
	if !vecClose(got, r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("antiparallel vector not mapped onto gravity: %+v", got)
	}
}

func TestGravityRotationShortestArc(t *testing.T) {
	// A 45 degree tilt in the X-Z plane must come back as a 45 degree
	// rotation, not its 315 degree complement.
	v := r3.Vec{X: 1, Z: 1}
	rot := gravityRotation(v)
	got := rot.Rotate(r3.Unit(v))
	if !vecClose(got, r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("tilted vector not mapped onto gravity: %+v", got)
	}
	// The orthogonal complement must move by exactly the tilt angle.
	moved := rot.Rotate(r3.Vec{Y: 1})
	if !vecClose(moved, r3.Vec{Y: 1}, 1e-12) {
		t.Errorf("rotation axis should be Y for an X-Z tilt, moved Y to %+v", moved)
	}
}

func TestSagittalAngleRoundTrip(t *testing.T) {
	for _, angle := range []float64{-1.2, -0.3, 0, 0.3, 1.2} {
		q := r3.NewRotation(angle, r3.Vec{X: 1})
		if got := sagittalAngle(q); math.Abs(got-angle) > 1e-12 {
			t.Errorf("sagittalAngle(rotX(%v)) = %v", angle, got)
		}
	}
}

func TestLateralAngleRoundTrip(t *testing.T) {
	for _, angle := range []float64{-1.0, -0.25, 0, 0.25, 1.0} {
		q := r3.NewRotation(angle, r3.Vec{Y: 1})
		if got := lateralAngle(q); math.Abs(got-angle) > 1e-12 {
			t.Errorf("lateralAngle(rotY(%v)) = %v", angle, got)
		}
	}
}

func TestComputeInitialOrientationFullWindow(t *testing.T) {
	acc, gyr := restingData(100, r3.Vec{Z: 9.81})
	data := SensorData{Acc: acc, Gyr: gyr}

	rot, diags := ComputeInitialOrientation(data, 50, 8)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	got := rot.Rotate(r3.Vec{X: 1})
	if !vecClose(got, r3.Vec{X: 1}, 1e-12) {
		t.Errorf("resting sensor should get identity orientation, got %+v", got)
	}
}

func TestComputeInitialOrientationClipsAtStart(t *testing.T) {
	acc, gyr := restingData(100, r3.Vec{Z: 9.81})
	data := SensorData{Acc: acc, Gyr: gyr}

	_, diags := ComputeInitialOrientation(data, 0, 8)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one degraded-window diagnostic, got %d: %v", len(diags), diags)
	}
}

func TestComputeInitialOrientationClipsAtEnd(t *testing.T) {
	acc, gyr := restingData(100, r3.Vec{Z: 9.81})
	data := SensorData{Acc: acc, Gyr: gyr}

	_, diags := ComputeInitialOrientation(data, 98, 8)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one degraded-window diagnostic, got %d: %v", len(diags), diags)
	}
}

func TestComputeInitialOrientationMedianRobust(t *testing.T) {
	acc, gyr := restingData(51, r3.Vec{Z: 9.81})
	// A single transient inside the window must not move the median.
	acc[25] = r3.Vec{X: 100, Y: -50, Z: 3}
	data := SensorData{Acc: acc, Gyr: gyr}

	rot, diags := ComputeInitialOrientation(data, 25, 8)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	got := rot.Rotate(r3.Vec{X: 1})
	if !vecClose(got, r3.Vec{X: 1}, 1e-12) {
		t.Errorf("median should reject the transient, got %+v", got)
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		values []float64
		want   float64
	}{
		{nil, 0},
		{[]float64{3}, 3},
		{[]float64{3, 1}, 2},
		{[]float64{5, 1, 3}, 3},
		{[]float64{4, 1, 3, 2}, 2.5},
	}
	for _, tc := range cases {
		if got := median(tc.values); got != tc.want {
			t.Errorf("median(%v) = %v, want %v", tc.values, got, tc.want)
		}
	}
}

// restingData builds n samples of a sensor at rest with the given measured
// acceleration and zero angular rate.
func restingData(n int, acc r3.Vec) (accs, gyrs []r3.Vec) {
	accs = make([]r3.Vec, n)
	gyrs = make([]r3.Vec, n)
	for i := range accs {
		accs[i] = acc
	}
	return accs, gyrs
}
