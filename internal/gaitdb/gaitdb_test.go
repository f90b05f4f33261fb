package gaitdb

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/gaitworks/stride.report/internal/gait"
	"github.com/gaitworks/stride.report/internal/testutil"
)

func openTestDB(t *testing.T) *GaitDB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "gait_test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gait.db")
	db, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	// Re-opening an existing database must re-apply the schema without error.
	db, err = New(path)
	if err != nil {
		t.Fatalf("re-open failed: %v", err)
	}
	db.Close()
}

func TestTemporalParamsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	session, err := db.StartSession("left_sensor", 204.8, "unit test")
	testutil.AssertNoError(t, err)
	if session == "" {
		t.Fatal("empty session id")
	}

	want := []gait.TemporalParams{
		{StrideID: 1, StrideTime: 1.05, SwingTime: 0.4, StanceTime: 0.65},
		{StrideID: 2, StrideTime: 1.1, SwingTime: 0.45, StanceTime: 0.65},
	}
	if err := db.RecordTemporalParams(session, want); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetTemporalParams(session)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("temporal params round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSpatialParamsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	session, err := db.StartSession("right_sensor", 102.4, "")
	testutil.AssertNoError(t, err)

	stored := []gait.SpatialParams{{
		StrideID:     3,
		StrideLength: 1.31,
		GaitVelocity: 1.25,
		ICClearance:  []float64{0, 0.01, 0.02},
		TCClearance:  []float64{0, -0.005, 0},
		ICAngle:      -12.5,
		TCAngle:      -71.2,
		TurningAngle: 2.4,
		ArcLength:    1.4,
		AngleCourse:  []float64{0, 0.1, 0.2}, // not persisted
	}}
	testutil.AssertNoError(t, db.RecordSpatialParams(session, stored))

	got, err := db.GetSpatialParams(session)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}

	want := stored[0]
	want.AngleCourse = nil
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("spatial params round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordTrajectories(t *testing.T) {
	db := openTestDB(t)

	session, err := db.StartSession("left_sensor", 204.8, "")
	if err != nil {
		t.Fatal(err)
	}

	result := &gait.TrajectoryResult{Strides: []gait.Trajectory{{
		StrideID:    1,
		Orientation: []r3.Rotation{{Real: 1}, {Real: 1}},
		Velocity:    []r3.Vec{{}, {X: 0.5}},
		Position:    []r3.Vec{{}, {X: 0.01, Z: 0.002}},
	}}}
	if err := db.RecordTrajectories(session, result); err != nil {
		t.Fatal(err)
	}

	var count int
	err = db.QueryRow(
		`SELECT COUNT(*) FROM trajectory_samples WHERE session_id = ? AND stride_id = 1`,
		session).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("stored %d trajectory samples, want 2", count)
	}

	var posX float64
	err = db.QueryRow(
		`SELECT pos_x FROM trajectory_samples WHERE session_id = ? AND stride_id = 1 AND sample = 1`,
		session).Scan(&posX)
	if err != nil {
		t.Fatal(err)
	}
	if posX != 0.01 {
		t.Errorf("pos_x = %v, want 0.01", posX)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	db := openTestDB(t)

	first, err := db.StartSession("left_sensor", 204.8, "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.StartSession("left_sensor", 204.8, "")
	if err != nil {
		t.Fatal(err)
	}

	if err := db.RecordTemporalParams(first, []gait.TemporalParams{{StrideID: 1, StrideTime: 1}}); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetTemporalParams(second)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("second session sees %d rows from the first", len(got))
	}
}
