package ports

import (
	"context"
	"time"

	"github.com/ananta-sj/ReFlow/internal/types"
)

// MediaTool covers every media operation the pipeline shells out for.
type MediaTool interface {
	// ProbeDuration returns the container duration of a media file.
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)

	// ExtractAudioMono16k pulls the whole audio track as mono 16kHz WAV,
	// the format the ASR expects.
	ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error

	// ExtractAudioWindow pulls [start, start+dur) of the audio track as
	// mono 24kHz pcm_s16le WAV, used as the synthesis reference clip.
	ExtractAudioWindow(ctx context.Context, inVideo string, start, dur time.Duration, outWav string) error

	// ChangeTempo re-times inWav by speed (pitch-preserving). A positive
	// maxDur additionally hard-caps the output length.
	ChangeTempo(ctx context.Context, inWav string, speed float64, outWav string, maxDur time.Duration) error

	// ConcatAudio joins entries in order into one track at the given output
	// format. Silence entries reference pre-materialized files by then; the
	// adapter receives only file paths.
	ConcatAudio(ctx context.Context, clipPaths []string, outPath string, sampleRate, channels int) error

	// Mux produces the final output file from the source video, an optional
	// replacement/overlay audio track and an optional subtitle file.
	Mux(ctx context.Context, spec MuxSpec) error

	// ApplyBlur re-encodes inVideo with boxblur enabled over the given
	// intervals.
	ApplyBlur(ctx context.Context, inVideo, outVideo string, intervals []types.Interval) error

	// SampleFrames writes one JPEG per interval of video time into outDir
	// and returns the written paths with their timestamps, in order.
	SampleFrames(ctx context.Context, inVideo string, every time.Duration, outDir string) ([]Frame, error)
}

// MuxSpec describes one final mux. Zero values mean "not used".
type MuxSpec struct {
	VideoPath     string
	DubAudioPath  string // replaces the original track, or mixes in docu mode
	DocuMix       bool   // keep original bed at low volume under the dub
	SubtitlePath  string // soft-embedded SRT
	SubtitleLang  string
	ReencodeVideo bool // required when VideoPath is the blurred copy
	OutPath       string
}

// Frame is one sampled video frame on disk.
type Frame struct {
	Path string
	At   time.Duration
}

type ASR interface {
	// Transcribe runs speech recognition over a 16kHz mono WAV. Keywords
	// prime the decoder towards domain jargon.
	Transcribe(ctx context.Context, wavPath, cacheDir string, keywords []string) (types.Transcript, error)
}

type Translator interface {
	// TranslateSegments returns a new segment slice with Text translated
	// for the mode; protected terms survive verbatim. Timing fields are
	// copied unchanged.
	TranslateSegments(ctx context.Context, segs []types.Segment, mode types.LanguageMode, terms []string) ([]types.Segment, error)
}

type TTS interface {
	// Synthesize writes speech for text to outPath, cloning the voice in
	// refWavPath. Failures are reported as *SynthesisError so callers can
	// substitute silence.
	Synthesize(ctx context.Context, text, refWavPath, lang, outPath string) error
}

type Vision interface {
	// ScanFrames classifies sampled frames and returns one unsafe-content
	// score in [0,1] per frame, index-aligned with the input.
	ScanFrames(ctx context.Context, framePaths []string) ([]float64, error)
}
