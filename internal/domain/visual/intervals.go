// Package visual turns per-frame unsafe-content detections into blur
// intervals. Scanning and filter application live behind ports; this package
// is the pure planning part.
package visual

import (
	"sort"
	"time"

	"github.com/ananta-sj/ReFlow/internal/types"
)

const (
	// DetectionPadding extends each detection on both sides so a blur never
	// starts on the exact offending frame.
	DetectionPadding = time.Second

	// GapLimit merges detections closer than this into one continuous
	// interval; flickering content otherwise produces a strobe of short
	// blurs.
	GapLimit = 4 * time.Second

	// MaxIntervals caps the filter-graph size. Past it the whole video is
	// blurred instead.
	MaxIntervals = 50

	// ScoreThreshold is the minimum classifier confidence that counts as a
	// detection. Kept low on purpose to catch single flickering frames.
	ScoreThreshold = 0.60
)

// MergeDetections folds raw detection timestamps into padded, gap-filled blur
// intervals. Input order does not matter.
func MergeDetections(detections []time.Duration) []types.Interval {
	if len(detections) == 0 {
		return nil
	}

	ts := make([]time.Duration, len(detections))
	copy(ts, detections)
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })

	var out []types.Interval
	curStart := maxDur(0, ts[0]-DetectionPadding)
	curEnd := ts[0] + DetectionPadding

	for i := 1; i < len(ts); i++ {
		if ts[i]-ts[i-1] < GapLimit {
			curEnd = ts[i] + DetectionPadding
			continue
		}
		out = append(out, types.Interval{Start: curStart, End: curEnd})
		curStart = maxDur(0, ts[i]-DetectionPadding)
		curEnd = ts[i] + DetectionPadding
	}
	return append(out, types.Interval{Start: curStart, End: curEnd})
}

// CollapseToFull reports whether the interval list is too large for a
// per-interval filter graph and the whole video should be blurred instead.
func CollapseToFull(intervals []types.Interval) bool {
	return len(intervals) > MaxIntervals
}

// Detections filters sampled frame scores down to the timestamps that count
// as detections.
func Detections(frames []time.Duration, scores []float64) []time.Duration {
	var out []time.Duration
	for i, at := range frames {
		if i < len(scores) && scores[i] > ScoreThreshold {
			out = append(out, at)
		}
	}
	return out
}

func maxDur(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
