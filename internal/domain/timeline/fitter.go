package timeline

import (
	"time"

	"github.com/ananta-sj/ReFlow/internal/types"
)

// MaxSpeed is the hardest playback acceleration we tolerate before speech
// turns audibly broken.
const MaxSpeed = 1.3

// FitPlan says how a synthesized clip must be re-timed to fit its slot.
type FitPlan struct {
	// Speed is the uniform pitch-preserving playback factor, always in
	// (0, MaxSpeed].
	Speed float64
	// Truncate is set when even MaxSpeed cannot fit the clip and the tail
	// must be hard-cut at the slot boundary.
	Truncate bool
}

// PlanFit decides the re-timing for a clip of length current against a slot
// of length target.
//
// A clip that already fits is passed through untouched; under-fill is fine,
// the assembler never stretches speech to fill a slot. Otherwise the required
// speed is current/target, clamped at MaxSpeed; a clamped plan also requires
// truncation.
func PlanFit(current, target time.Duration) FitPlan {
	if target <= 0 || current <= target {
		return FitPlan{Speed: 1.0}
	}
	speed := current.Seconds() / target.Seconds()
	if speed > MaxSpeed {
		return FitPlan{Speed: MaxSpeed, Truncate: true}
	}
	return FitPlan{Speed: speed}
}

// CompactionPlan lists the speech intervals of a clip that survive silence
// removal, in original order. An empty Keep means detection found nothing to
// cut and the clip passes through unchanged.
type CompactionPlan struct {
	Keep []types.Interval
}

// Compacted is the clip duration after the plan is applied.
func (p CompactionPlan) Compacted() time.Duration {
	var total time.Duration
	for _, iv := range p.Keep {
		total += iv.Duration()
	}
	return total
}

// PlanCompaction inverts detected silence intervals into the speech intervals
// to keep. Silence runs are assumed ordered and non-overlapping within
// [0, total). Pure-silence clips (a single silence run covering everything)
// and clips with no detected silence yield an empty plan.
func PlanCompaction(total time.Duration, silences []types.Interval) CompactionPlan {
	if total <= 0 || len(silences) == 0 {
		return CompactionPlan{}
	}

	var keep []types.Interval
	cursor := time.Duration(0)
	for _, s := range silences {
		if s.Start > cursor {
			keep = append(keep, types.Interval{Start: cursor, End: s.Start})
		}
		if s.End > cursor {
			cursor = s.End
		}
	}
	if cursor < total {
		keep = append(keep, types.Interval{Start: cursor, End: total})
	}
	return CompactionPlan{Keep: keep}
}
