package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ananta-sj/ReFlow/internal/config"
	"github.com/ananta-sj/ReFlow/internal/logging"
	"github.com/ananta-sj/ReFlow/internal/pipeline"
	"github.com/ananta-sj/ReFlow/internal/types"
)

func run(cmd *cobra.Command, inputs []string, store *config.Store) error {
	outDir, _ := cmd.Flags().GetString("out")
	lang, _ := cmd.Flags().GetString("lang")
	dub, _ := cmd.Flags().GetBool("dub")
	blur, _ := cmd.Flags().GetBool("blur")
	subs, _ := cmd.Flags().GetBool("subs")
	censorOn, _ := cmd.Flags().GetBool("censor")
	docu, _ := cmd.Flags().GetBool("docu")
	ignore, _ := cmd.Flags().GetStringSlice("ignore")
	censorWords, _ := cmd.Flags().GetStringSlice("censor-words")
	save, _ := cmd.Flags().GetBool("save")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonLog, _ := cmd.Flags().GetBool("json-log")
	cacheDir, _ := cmd.Flags().GetString("cache")

	log := logging.New(verbose, jsonLog)

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" && lang != string(types.ModeEnglish) {
		return errors.New("OPENROUTER_API_KEY is required for translation (set it in .env)")
	}

	abs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		p, err := filepath.Abs(in)
		if err != nil {
			return err
		}
		abs = append(abs, p)
	}

	if save {
		err := store.Save(config.Settings{
			OutputFolder:    outDir,
			Language:        lang,
			EnableDub:       dub,
			EnableBlur:      blur,
			EnableSubtitles: subs,
			EnableCensor:    censorOn,
			DocuMode:        docu,
			IgnoreTerms:     ignore,
			CensorWords:     censorWords,
		})
		if err != nil {
			return err
		}
		log.Info().Str("path", store.Path()).Msg("settings saved")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := pipeline.Config{
		Inputs:   abs,
		OutDir:   outDir,
		CacheDir: cacheDir,
		Language: lang,

		Dub:       dub,
		Blur:      blur,
		Subtitles: subs,
		Censor:    censorOn,
		DocuMix:   docu,

		IgnoreTerms: ignore,
		CensorWords: censorWords,

		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",

		WhisperBin:   getenvDefault("WHISPER_BIN", ".cache/bin/whisper.cpp"),
		WhisperModel: getenvDefault("WHISPER_MODEL", ".cache/models/ggml-base.bin"),

		XTTSBaseURL:   os.Getenv("XTTS_URL"),
		VisionBaseURL: os.Getenv("VISION_URL"),

		OpenRouterAPIKey:  apiKey,
		OpenRouterModel:   getenvDefault("OPENROUTER_MODEL", "anthropic/claude-3.5-sonnet"),
		OpenRouterBaseURL: getenvDefault("OPENROUTER_BASE_URL", "https://openrouter.ai"),

		Log: log,
	}

	report, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	failed := 0
	for _, item := range report.Items {
		if item.Status == types.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d videos failed", failed, len(report.Items))
	}
	return nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
