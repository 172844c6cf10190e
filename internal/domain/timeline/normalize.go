// Package timeline holds the pure timing logic of the dubbing engine:
// slot normalization, duration fitting and gap-filled assembly. Nothing in
// here touches the filesystem or spawns processes.
package timeline

import (
	"time"

	"github.com/ananta-sj/ReFlow/internal/types"
)

// MinSlotDuration is the shortest window the synthesizer gets. Transcription
// occasionally emits near-zero segments that ffmpeg and the TTS both choke on.
const MinSlotDuration = 500 * time.Millisecond

// Normalize turns raw transcript segments into strictly ordered,
// non-overlapping slots.
//
// Two rules, applied once each, left to right:
//  1. overlap clamp: an earlier segment always yields to the next one
//     (end_i := start_{i+1} when they overlap);
//  2. minimum duration: end := max(end, start + MinSlotDuration).
//
// The result is lossy but deterministic, and applying Normalize to an
// already-normalized list is a no-op.
func Normalize(segments []types.Segment) []types.Slot {
	slots := make([]types.Slot, 0, len(segments))
	for i, seg := range segments {
		slots = append(slots, types.Slot{
			Index: i,
			Start: dur(seg.Start),
			End:   dur(seg.End),
		})
	}

	for i := 0; i+1 < len(slots); i++ {
		if slots[i].End > slots[i+1].Start {
			slots[i].End = slots[i+1].Start
		}
	}
	for i := range slots {
		if min := slots[i].Start + MinSlotDuration; slots[i].End < min {
			slots[i].End = min
		}
	}
	return slots
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
