package timeline

import (
	"time"

	"github.com/ananta-sj/ReFlow/internal/types"
)

// GapTolerance is the smallest inter-slot gap worth a silence entry. Anything
// under it would produce a near-zero-length file for no audible benefit.
const GapTolerance = 10 * time.Millisecond

// Assemble lays fitted clips onto one continuous timeline, inserting a
// silence entry wherever the gap between the cursor and the next slot exceeds
// GapTolerance.
//
// The cursor advances to each slot's nominal End, not to the actual duration
// of its fitted clip. Anchoring to nominal segment timing keeps fitting
// imprecision from drifting across the rest of the timeline; the trade-off is
// that audio after a truncated clip may land slightly early relative to
// on-screen speech.
func Assemble(slots []types.Slot, clips []types.FittedClip) []types.Entry {
	bysSlot := make(map[int]types.FittedClip, len(clips))
	for _, c := range clips {
		bysSlot[c.SlotIndex] = c
	}

	entries := make([]types.Entry, 0, 2*len(slots))
	lastEnd := time.Duration(0)
	for _, slot := range slots {
		if gap := slot.Start - lastEnd; gap > GapTolerance {
			entries = append(entries, types.Entry{Silence: gap})
		}
		if c, ok := bysSlot[slot.Index]; ok {
			entries = append(entries, types.Entry{ClipPath: c.Path})
		}
		lastEnd = slot.End
	}
	return entries
}

// NominalDuration is the timeline length implied by the slot list alone:
// the sum of all gaps and slot durations, i.e. the last slot's end. The
// assembled audio must match it within encoder tolerance.
func NominalDuration(slots []types.Slot) time.Duration {
	if len(slots) == 0 {
		return 0
	}
	return slots[len(slots)-1].End
}
