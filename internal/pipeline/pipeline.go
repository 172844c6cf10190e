// Package pipeline wires adapters to the usecase and drives the batch queue:
// validate config, build the stack once, process every queued video in order,
// write the run report.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ananta-sj/ReFlow/internal/dubbing"
	"github.com/ananta-sj/ReFlow/internal/ports"
	"github.com/ananta-sj/ReFlow/internal/ports/adapters/ffmpeg"
	"github.com/ananta-sj/ReFlow/internal/ports/adapters/openrouter"
	"github.com/ananta-sj/ReFlow/internal/ports/adapters/visionsvc"
	"github.com/ananta-sj/ReFlow/internal/ports/adapters/whispercpp"
	"github.com/ananta-sj/ReFlow/internal/ports/adapters/xtts"
	"github.com/ananta-sj/ReFlow/internal/types"
	"github.com/ananta-sj/ReFlow/internal/usecase"
)

type Config struct {
	Inputs   []string `validate:"required,min=1,dive,required"`
	OutDir   string
	CacheDir string
	Language string `validate:"required,oneof=hindi hinglish english"`

	Dub       bool
	Blur      bool
	Subtitles bool
	Censor    bool
	DocuMix   bool

	// IgnoreTerms pass through translation untouched and prime the ASR.
	IgnoreTerms []string
	CensorWords []string

	FFmpegPath  string
	FFprobePath string

	WhisperBin   string
	WhisperModel string `validate:"required"`

	XTTSBaseURL   string
	VisionBaseURL string

	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string

	Log zerolog.Logger `validate:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if types.LanguageMode(c.Language) != types.ModeEnglish && c.OpenRouterAPIKey == "" {
		return errors.New("translation requires an OpenRouter API key")
	}
	if err := openrouter.ValidateBaseURL(c.OpenRouterBaseURL, c.OpenRouterAllowedHosts); err != nil {
		return err
	}
	for _, in := range c.Inputs {
		if _, err := os.Stat(in); err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
	}
	return nil
}

// Run processes the whole queue and writes report.json into the run output
// directory. A per-video failure marks that item failed and moves on; Run
// itself errors only on setup problems. Cancellation marks every unprocessed
// item canceled.
func Run(ctx context.Context, cfg Config) (types.Report, error) {
	if err := cfg.Validate(); err != nil {
		return types.Report{}, err
	}
	log := cfg.Log
	mode := types.LanguageMode(cfg.Language)

	media := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	asr := whispercpp.New(cfg.WhisperBin, cfg.WhisperModel)
	trans := openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL)
	tts := xtts.New(cfg.XTTSBaseURL)
	vision := visionsvc.New(cfg.VisionBaseURL)

	uc := usecase.New(usecase.Deps{
		Media:  media,
		ASR:    asr,
		Trans:  trans,
		Vision: vision,
		Dubber: dubbing.New(media, tts, log),
		Log:    log,
	})

	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, runLabel(cfg.Inputs), time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return types.Report{}, err
	}
	log.Info().Str("dir", runOutDir).Int("queued", len(cfg.Inputs)).Msg("run started")

	protected := append(append([]string{}, openrouter.DefaultTechTerms...), cfg.IgnoreTerms...)

	var report types.Report
	for _, input := range cfg.Inputs {
		item := types.ReportItem{
			ID:    uuid.NewString()[:8],
			Input: input,
		}
		if ctx.Err() != nil {
			item.Status = types.StatusCanceled
			report.Items = append(report.Items, item)
			continue
		}

		cacheDir := filepath.Join(baseCache, "runs", hash(input))
		outPath := filepath.Join(runOutDir, outputName(input, cfg.Language))

		start := time.Now()
		res, err := uc.Run(ctx, usecase.Input{
			VideoPath:      input,
			OutPath:        outPath,
			CacheDir:       cacheDir,
			Mode:           mode,
			Dub:            cfg.Dub,
			Blur:           cfg.Blur,
			Subtitles:      cfg.Subtitles,
			Censor:         cfg.Censor,
			DocuMix:        cfg.DocuMix,
			Keywords:       cfg.IgnoreTerms,
			ProtectedTerms: protected,
			CensorWords:    cfg.CensorWords,
		})
		switch {
		case err != nil && ctx.Err() != nil:
			item.Status = types.StatusCanceled
			log.Warn().Str("id", item.ID).Str("input", input).Msg("canceled")
		case err != nil:
			item.Status = types.StatusFailed
			item.Error = err.Error()
			log.Error().Str("id", item.ID).Str("input", input).Err(err).Msg("video failed")
		default:
			item.Status = types.StatusDone
			item.Output = res.OutputPath
			log.Info().
				Str("id", item.ID).
				Str("output", res.OutputPath).
				Dur("took", time.Since(start)).
				Msg("video done")
		}
		report.Items = append(report.Items, item)
	}

	if err := writeReport(runOutDir, report); err != nil {
		return report, err
	}
	return report, nil
}

func writeReport(runOutDir string, report types.Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(filepath.Join(runOutDir, "report.json"), b, 0o644)
}

// outputName derives the localized output file name from the input name.
func outputName(input, language string) string {
	name := normalizePathSegment(strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)))
	if name == "" {
		name = "video"
	}
	return fmt.Sprintf("%s_%s.mp4", name, language)
}

func runLabel(inputs []string) string {
	if len(inputs) == 1 {
		return inputs[0]
	}
	return fmt.Sprintf("batch-%d", len(inputs))
}

func buildRunOutDir(outRoot, label string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(label), filepath.Ext(label))
	name = normalizePathSegment(name)
	if name == "" {
		name = "run"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", label, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.Translator = (*openrouter.Adapter)(nil)
var _ ports.TTS = (*xtts.Adapter)(nil)
var _ ports.Vision = (*visionsvc.Adapter)(nil)
var _ usecase.Dubber = (*dubbing.Engine)(nil)
