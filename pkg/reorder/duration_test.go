package reorder

import (
	"math"
	"math/rand"
	"testing"

	"github.com/user/pagecast/pkg/pipeline"
)

func TestAssignDurations(t *testing.T) {
	frames := []pipeline.Frame{
		{Timestamp: 100},
		{Timestamp: 100.25},
		{Timestamp: 101},
	}

	got := AssignDurations(frames, 101.5)

	want := []float64{0.25, 0.75, 0.5}
	for i := range want {
		if got[i].Duration != want[i] {
			t.Errorf("frame %d: expected duration %v, got %v", i, want[i], got[i].Duration)
		}
	}

	// Input frames are left untouched.
	for i, f := range frames {
		if f.Duration != 0 {
			t.Errorf("input frame %d was modified: duration %v", i, f.Duration)
		}
	}
}

func TestAssignDurations_SingleFrame(t *testing.T) {
	got := AssignDurations([]pipeline.Frame{{Timestamp: 3}}, 3.5)
	if len(got) != 1 || got[0].Duration != 0.5 {
		t.Errorf("expected a single frame lasting 0.5s, got %+v", got)
	}
}

func TestAssignDurations_Empty(t *testing.T) {
	if got := AssignDurations(nil, 10); len(got) != 0 {
		t.Errorf("expected empty result, got %d frames", len(got))
	}
}

func TestAssignDurations_Telescoping(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(20)
		frames := make([]pipeline.Frame, n)
		ts := 1.7e9 + rng.Float64()
		for i := range frames {
			frames[i].Timestamp = ts
			ts += rng.Float64() * 0.2
		}
		end := ts + rng.Float64()*0.1

		var sum float64
		for _, f := range AssignDurations(frames, end) {
			sum += f.Duration
		}

		want := end - frames[0].Timestamp
		if math.Abs(sum-want) > 1e-6 {
			t.Fatalf("trial %d: durations sum to %v, want %v", trial, sum, want)
		}
	}
}

func TestAssignDurations_TelescopingExact(t *testing.T) {
	// Dyadic timestamps are exact in binary floating point.
	frames := []pipeline.Frame{
		{Timestamp: 8}, {Timestamp: 8.125}, {Timestamp: 8.5}, {Timestamp: 9.75},
	}
	var sum float64
	for _, f := range AssignDurations(frames, 10) {
		sum += f.Duration
	}
	if sum != 2 {
		t.Errorf("expected durations to sum to exactly 2, got %v", sum)
	}
}
