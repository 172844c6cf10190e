package timeline

import (
	"math"
	"testing"
	"time"

	"github.com/ananta-sj/ReFlow/internal/types"
)

func TestPlanFit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		current      time.Duration
		target       time.Duration
		wantSpeed    float64
		wantTruncate bool
	}{
		{
			name:      "already fits",
			current:   800 * time.Millisecond,
			target:    time.Second,
			wantSpeed: 1.0,
		},
		{
			name:      "exact fit",
			current:   time.Second,
			target:    time.Second,
			wantSpeed: 1.0,
		},
		{
			name:      "gentle speedup",
			current:   1200 * time.Millisecond,
			target:    time.Second,
			wantSpeed: 1.2,
		},
		{
			name:         "clamped and truncated",
			current:      4 * time.Second,
			target:       time.Second,
			wantSpeed:    MaxSpeed,
			wantTruncate: true,
		},
		{
			name:      "zero target passes through",
			current:   2 * time.Second,
			target:    0,
			wantSpeed: 1.0,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			plan := PlanFit(tc.current, tc.target)
			if math.Abs(plan.Speed-tc.wantSpeed) > 1e-9 {
				t.Fatalf("speed = %v, want %v", plan.Speed, tc.wantSpeed)
			}
			if plan.Truncate != tc.wantTruncate {
				t.Fatalf("truncate = %v, want %v", plan.Truncate, tc.wantTruncate)
			}
			if plan.Speed <= 0 || plan.Speed > MaxSpeed {
				t.Fatalf("speed %v outside (0, %v]", plan.Speed, MaxSpeed)
			}
		})
	}
}

func TestPlanCompaction(t *testing.T) {
	t.Parallel()

	total := 5 * time.Second
	silences := []types.Interval{
		{Start: 0, End: 500 * time.Millisecond},
		{Start: 2 * time.Second, End: 3 * time.Second},
	}

	plan := PlanCompaction(total, silences)
	want := []types.Interval{
		{Start: 500 * time.Millisecond, End: 2 * time.Second},
		{Start: 3 * time.Second, End: 5 * time.Second},
	}
	if len(plan.Keep) != len(want) {
		t.Fatalf("keep = %v, want %v", plan.Keep, want)
	}
	for i := range want {
		if plan.Keep[i] != want[i] {
			t.Fatalf("keep[%d] = %v, want %v", i, plan.Keep[i], want[i])
		}
	}
	if got := plan.Compacted(); got != 3500*time.Millisecond {
		t.Fatalf("compacted duration = %s, want 3.5s", got)
	}
}

func TestPlanCompaction_NoSilence(t *testing.T) {
	t.Parallel()

	plan := PlanCompaction(2*time.Second, nil)
	if len(plan.Keep) != 0 {
		t.Fatalf("expected pass-through plan, got %v", plan.Keep)
	}
}

func TestPlanCompaction_PureSilence(t *testing.T) {
	t.Parallel()

	total := 2 * time.Second
	plan := PlanCompaction(total, []types.Interval{{Start: 0, End: total}})
	if len(plan.Keep) != 0 {
		t.Fatalf("pure-silence clip should keep nothing, got %v", plan.Keep)
	}
}
