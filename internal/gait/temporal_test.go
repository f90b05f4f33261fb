package gait

import (
	"errors"
	"math"
	"testing"

	"github.com/gaitworks/stride.report/internal/testutil"
)

func TestCalculateTemporalParams(t *testing.T) {
	events := StrideList{{
		ID: 1, Start: 100, End: 150, MinVel: 100,
		PreIC: 100, IC: 120, TC: 115,
	}}

	params, err := CalculateTemporalParams(events, 200)
	if err != nil {
		t.Fatal(err)
	}
	if len(params) != 1 {
		t.Fatalf("got %d rows, want 1", len(params))
	}

	p := params[0]
	testutil.AssertClose(t, p.StrideTime, 0.1, 1e-12)
	testutil.AssertClose(t, p.SwingTime, 0.025, 1e-12)
	testutil.AssertClose(t, p.StanceTime, 0.075, 1e-12)
}

func TestCalculateTemporalParamsDecomposition(t *testing.T) {
	events := StrideList{
		{ID: 1, Start: 0, End: 210, MinVel: 0, PreIC: 10, IC: 215, TC: 160},
		{ID: 2, Start: 210, End: 400, MinVel: 210, PreIC: 215, IC: 410, TC: 355},
	}
	params, err := CalculateTemporalParams(events, 204.8)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range params {
		if math.Abs(p.StrideTime-(p.SwingTime+p.StanceTime)) > 1e-12 {
			t.Errorf("stride %d: stride time %v != swing %v + stance %v",
				p.StrideID, p.StrideTime, p.SwingTime, p.StanceTime)
		}
	}
}

func TestCalculateTemporalParamsRejectsBadInput(t *testing.T) {
	valid := StrideList{{ID: 1, Start: 0, End: 100, MinVel: 0, PreIC: 0, IC: 50, TC: 30}}

	if _, err := CalculateTemporalParams(valid, 0); err == nil {
		t.Error("expected error for zero sampling rate")
	}

	invalid := StrideList{{ID: 1, Start: 5, End: 100, MinVel: 7}}
	if _, err := CalculateTemporalParams(invalid, 100); !errors.Is(err, ErrUnsupportedCombination) {
		t.Errorf("got %v, want ErrUnsupportedCombination", err)
	}
}

func TestCalculateTemporalParamsMulti(t *testing.T) {
	events := MultiSensorStrideList{
		"left_sensor":  StrideList{{ID: 1, Start: 100, End: 150, MinVel: 100, PreIC: 100, IC: 120, TC: 115}},
		"right_sensor": StrideList{{ID: 2, Start: 130, End: 180, MinVel: 130, PreIC: 130, IC: 154, TC: 148}},
	}

	out, err := CalculateTemporalParamsMulti(events, 200)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d sensors, want 2", len(out))
	}
	if got := out["right_sensor"][0].StrideTime; math.Abs(got-0.12) > 1e-12 {
		t.Errorf("right sensor stride time = %v, want 0.12", got)
	}
}
