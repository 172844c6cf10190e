// Package dubbing is the timing-synchronization and audio-reconstruction
// engine: it synthesizes speech per transcript slot, forces each clip into
// its original time window, and rebuilds one continuous audio track that
// matches the source video sample for sample.
package dubbing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananta-sj/ReFlow/internal/domain/audioscan"
	"github.com/ananta-sj/ReFlow/internal/domain/timeline"
	"github.com/ananta-sj/ReFlow/internal/ports"
	"github.com/ananta-sj/ReFlow/internal/types"
)

const (
	// workingSampleRate is the mono rate used for reference clips and
	// synthesis output.
	workingSampleRate = 24000

	// output track format; the mux expects a normal stereo track.
	outputSampleRate = 44100
	outputChannels   = 2
)

// ErrNoSegments is returned when there is nothing to dub.
var ErrNoSegments = errors.New("dubbing: no segments")

type Engine struct {
	media ports.MediaTool
	tts   ports.TTS
	log   zerolog.Logger
}

func New(media ports.MediaTool, tts ports.TTS, log zerolog.Logger) *Engine {
	return &Engine{media: media, tts: tts, log: log}
}

// GenerateDubTrack builds the dubbed audio track for one video.
//
// Per-slot failures (reference extraction, synthesis) degrade to silence so
// the timeline stays complete; encoding failures (tempo, concat) abort the
// video because substituting around them would corrupt run-wide timing. All
// scratch files live in a run-scoped directory that is removed on every exit
// path.
func (e *Engine) GenerateDubTrack(
	ctx context.Context,
	segments []types.Segment,
	videoPath string,
	outPath string,
	mode types.LanguageMode,
) (string, error) {
	if len(segments) == 0 {
		return "", ErrNoSegments
	}

	scratch, err := os.MkdirTemp("", "reflow-dub-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	slots := timeline.Normalize(segments)
	lang := mode.SynthesisLanguage()

	clips := make([]types.FittedClip, 0, len(slots))
	for _, slot := range slots {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		clip, err := e.processSlot(ctx, scratch, videoPath, segments[slot.Index].Text, slot, lang)
		if err != nil {
			return "", err
		}
		clips = append(clips, clip)
	}

	entries := timeline.Assemble(slots, clips)
	paths := make([]string, 0, len(entries))
	for i, entry := range entries {
		if !entry.IsSilence() {
			paths = append(paths, entry.ClipPath)
			continue
		}
		silPath := filepath.Join(scratch, fmt.Sprintf("sil_gap_%04d.wav", i))
		if err := audioscan.WriteSilence(silPath, entry.Silence, workingSampleRate, 1); err != nil {
			return "", &ports.EncodeError{Op: "silence", Err: err}
		}
		paths = append(paths, silPath)
	}

	if err := e.media.ConcatAudio(ctx, paths, outPath, outputSampleRate, outputChannels); err != nil {
		return "", err
	}
	return outPath, nil
}

// processSlot takes one slot from reference extraction through duration
// fitting and returns the clip to place on the timeline.
func (e *Engine) processSlot(
	ctx context.Context,
	scratch, videoPath, text string,
	slot types.Slot,
	lang string,
) (types.FittedClip, error) {
	target := slot.Duration()

	refPath := filepath.Join(scratch, fmt.Sprintf("ref_%04d.wav", slot.Index))
	if err := e.media.ExtractAudioWindow(ctx, videoPath, slot.Start, target, refPath); err != nil {
		// Synthesis will see the missing reference and fall back below.
		e.log.Warn().Int("slot", slot.Index).Err(err).Msg("reference extraction failed")
	}

	rawPath := filepath.Join(scratch, fmt.Sprintf("raw_%04d.wav", slot.Index))
	if err := e.tts.Synthesize(ctx, text, refPath, lang, rawPath); err != nil {
		var synthErr *ports.SynthesisError
		if !errors.As(err, &synthErr) && ctx.Err() != nil {
			return types.FittedClip{}, err
		}
		e.log.Warn().Int("slot", slot.Index).Err(err).Msg("synthesis failed, substituting silence")
		if err := audioscan.WriteSilence(rawPath, target, workingSampleRate, 1); err != nil {
			return types.FittedClip{}, &ports.EncodeError{Op: "silence", Err: err}
		}
	}

	rawDur, err := audioscan.Duration(rawPath)
	if err != nil {
		// Unreadable synthesis output is the same failure as no output.
		e.log.Warn().Int("slot", slot.Index).Err(err).Msg("unreadable synthesis output, substituting silence")
		if err := audioscan.WriteSilence(rawPath, target, workingSampleRate, 1); err != nil {
			return types.FittedClip{}, &ports.EncodeError{Op: "silence", Err: err}
		}
		rawDur = target
	}

	// Silence compaction first: dead air the synthesizer padded in comes out
	// without touching speech tempo.
	if rawDur > target {
		compacted, d, ok := e.compact(scratch, rawPath, slot.Index, rawDur)
		if ok {
			rawPath, rawDur = compacted, d
		}
	}

	fit := timeline.PlanFit(rawDur, target)
	var hardCap time.Duration
	if fit.Truncate {
		hardCap = target
	}
	finalPath := filepath.Join(scratch, fmt.Sprintf("final_%04d.wav", slot.Index))
	if err := e.media.ChangeTempo(ctx, rawPath, fit.Speed, finalPath, hardCap); err != nil {
		return types.FittedClip{}, err
	}

	return types.FittedClip{
		Path:      finalPath,
		Speed:     fit.Speed,
		Truncated: fit.Truncate,
		SlotIndex: slot.Index,
	}, nil
}

// compact rewrites a clip without its silence runs. Failure or a pure-silence
// clip leaves the original in place; compaction is an optimization, not a
// requirement.
func (e *Engine) compact(scratch, rawPath string, slotIndex int, rawDur time.Duration) (string, time.Duration, bool) {
	silences, err := audioscan.SilenceIntervals(rawPath, audioscan.DefaultSilenceThresholdDB, audioscan.DefaultMinSilence)
	if err != nil || len(silences) == 0 {
		return "", 0, false
	}
	plan := timeline.PlanCompaction(rawDur, silences)
	if len(plan.Keep) == 0 {
		return "", 0, false
	}

	compactPath := filepath.Join(scratch, fmt.Sprintf("compact_%04d.wav", slotIndex))
	if err := audioscan.CopyIntervals(rawPath, compactPath, plan.Keep); err != nil {
		e.log.Warn().Int("slot", slotIndex).Err(err).Msg("silence compaction failed")
		return "", 0, false
	}
	return compactPath, plan.Compacted(), true
}
