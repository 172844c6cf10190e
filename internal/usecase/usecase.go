// Package usecase sequences the per-video localization stages: transcribe,
// censor, visual scan, translate, dub, subtitle, mux. It owns stage ordering
// and the skip logic for disabled stages; all real work happens behind ports.
package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananta-sj/ReFlow/internal/domain/censor"
	"github.com/ananta-sj/ReFlow/internal/domain/subtitles"
	"github.com/ananta-sj/ReFlow/internal/domain/visual"
	"github.com/ananta-sj/ReFlow/internal/ports"
	"github.com/ananta-sj/ReFlow/internal/types"
)

// frameInterval is the visual-scan sampling rate.
const frameInterval = time.Second

// Dubber builds the dubbed audio track for one video.
type Dubber interface {
	GenerateDubTrack(ctx context.Context, segments []types.Segment, videoPath, outPath string, mode types.LanguageMode) (string, error)
}

type Deps struct {
	Media  ports.MediaTool
	ASR    ports.ASR
	Trans  ports.Translator
	Vision ports.Vision
	Dubber Dubber
	Log    zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	VideoPath string
	OutPath   string
	CacheDir  string
	Mode      types.LanguageMode

	Dub       bool
	Blur      bool
	Subtitles bool
	Censor    bool
	DocuMix   bool

	// Keywords prime the ASR decoder; ProtectedTerms survive translation
	// verbatim; CensorWords trip the beep annotation.
	Keywords       []string
	ProtectedTerms []string
	CensorWords    []string
}

type Result struct {
	OutputPath   string
	SubtitlePath string
	Segments     []types.Segment
	Blurred      bool
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	if err := os.MkdirAll(in.CacheDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create cache dir: %w", err)
	}

	wav := filepath.Join(in.CacheDir, "audio.wav")
	if err := u.d.Media.ExtractAudioMono16k(ctx, in.VideoPath, wav); err != nil {
		return Result{}, err
	}

	tr, err := u.d.ASR.Transcribe(ctx, wav, in.CacheDir, in.Keywords)
	if err != nil {
		return Result{}, err
	}
	segs := tr.Segments
	if len(segs) == 0 {
		u.d.Log.Warn().Str("video", in.VideoPath).Msg("no speech found, audio stages skipped")
	}

	if in.Censor && len(segs) > 0 {
		segs = censor.NewMatcher(in.CensorWords).Annotate(segs)
	}

	muxVideo := in.VideoPath
	blurred := false
	if in.Blur {
		blurredPath, applied, err := u.blurPass(ctx, in)
		if err != nil {
			return Result{}, err
		}
		if applied {
			muxVideo = blurredPath
			blurred = true
		}
	}

	if in.Mode != types.ModeEnglish && len(segs) > 0 {
		segs, err = u.d.Trans.TranslateSegments(ctx, segs, in.Mode, in.ProtectedTerms)
		if err != nil {
			return Result{}, err
		}
		for i := range segs {
			segs[i].Text = censor.CleanRepetitiveText(segs[i].Text)
		}
	}

	dubWav := ""
	if in.Dub && len(segs) > 0 {
		dubWav = filepath.Join(in.CacheDir, "dub.wav")
		if _, err := u.d.Dubber.GenerateDubTrack(ctx, segs, in.VideoPath, dubWav, in.Mode); err != nil {
			return Result{}, err
		}
	}

	subPath := ""
	if in.Subtitles && len(segs) > 0 {
		subPath = strings.TrimSuffix(in.OutPath, filepath.Ext(in.OutPath)) + ".srt"
		if err := os.WriteFile(subPath, []byte(subtitles.RenderSRT(segs)), 0o644); err != nil {
			return Result{}, fmt.Errorf("write subtitles: %w", err)
		}
	}

	if err := u.d.Media.Mux(ctx, ports.MuxSpec{
		VideoPath:     muxVideo,
		DubAudioPath:  dubWav,
		DocuMix:       in.DocuMix && dubWav != "",
		SubtitlePath:  subPath,
		SubtitleLang:  in.Mode.SynthesisLanguage(),
		ReencodeVideo: blurred,
		OutPath:       in.OutPath,
	}); err != nil {
		return Result{}, err
	}

	return Result{
		OutputPath:   in.OutPath,
		SubtitlePath: subPath,
		Segments:     segs,
		Blurred:      blurred,
	}, nil
}

// blurPass samples frames, scores them and re-encodes with blur when anything
// scored above threshold. Returns the blurred path and whether it was written.
func (u Usecase) blurPass(ctx context.Context, in Input) (string, bool, error) {
	framesDir := filepath.Join(in.CacheDir, "frames")
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return "", false, fmt.Errorf("create frames dir: %w", err)
	}

	frames, err := u.d.Media.SampleFrames(ctx, in.VideoPath, frameInterval, framesDir)
	if err != nil {
		return "", false, err
	}
	if len(frames) == 0 {
		return "", false, nil
	}

	paths := make([]string, len(frames))
	times := make([]time.Duration, len(frames))
	for i, f := range frames {
		paths[i] = f.Path
		times[i] = f.At
	}

	scores, err := u.d.Vision.ScanFrames(ctx, paths)
	if err != nil {
		return "", false, err
	}

	intervals := visual.MergeDetections(visual.Detections(times, scores))
	if len(intervals) == 0 {
		return "", false, nil
	}
	if visual.CollapseToFull(intervals) {
		dur, err := u.d.Media.ProbeDuration(ctx, in.VideoPath)
		if err != nil {
			return "", false, err
		}
		intervals = []types.Interval{{Start: 0, End: dur}}
		u.d.Log.Warn().Str("video", in.VideoPath).Msg("too many detections, blurring whole video")
	}

	blurredPath := filepath.Join(in.CacheDir, "blurred.mp4")
	if err := u.d.Media.ApplyBlur(ctx, in.VideoPath, blurredPath, intervals); err != nil {
		return "", false, err
	}
	u.d.Log.Info().Int("intervals", len(intervals)).Str("video", in.VideoPath).Msg("blur applied")
	return blurredPath, true, nil
}
