package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ananta-sj/ReFlow/internal/config"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	store, err := config.NewStore(os.Getenv("REFLOW_SETTINGS"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	set, err := store.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:          "reflow <video>...",
		Short:        "Localize videos: translate, dub, subtitle and censor in one pass",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, store)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("out", set.OutputFolder, "Output directory")
	root.Flags().String("lang", set.Language, "Target language: hindi, hinglish or english")
	root.Flags().Bool("dub", set.EnableDub, "Generate a dubbed audio track")
	root.Flags().Bool("blur", set.EnableBlur, "Blur unsafe visual content")
	root.Flags().Bool("subs", set.EnableSubtitles, "Embed subtitles")
	root.Flags().Bool("censor", set.EnableCensor, "Annotate profanity")
	root.Flags().Bool("docu", set.DocuMode, "Keep the original audio bed under the dub")
	root.Flags().StringSlice("ignore", set.IgnoreTerms, "Terms kept verbatim through translation")
	root.Flags().StringSlice("censor-words", set.CensorWords, "Extra words for the censor list")
	root.Flags().Bool("save", false, "Persist current flags as defaults")
	root.Flags().BoolP("verbose", "v", false, "Debug logging")
	root.Flags().Bool("json-log", false, "Machine-readable log output")

	// Hidden tuning flag (internal)
	root.Flags().String("cache", ".cache", "Cache directory")
	_ = root.Flags().MarkHidden("cache")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
