package ffmpeg

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ananta-sj/ReFlow/internal/ports"
	"github.com/ananta-sj/ReFlow/internal/types"
)

func TestExtractWindowArgs(t *testing.T) {
	t.Parallel()

	got := extractWindowArgs("in.mp4", 1500*time.Millisecond, 2*time.Second, "ref.wav")
	want := []string{
		"-y", "-v", "error",
		"-ss", "1.500",
		"-i", "in.mp4",
		"-t", "2.000",
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "24000",
		"ref.wav",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

func TestTempoArgs(t *testing.T) {
	t.Parallel()

	t.Run("without cap", func(t *testing.T) {
		got := tempoArgs("in.wav", 1.2, "out.wav", 0)
		if contains(got, "-t") {
			t.Fatalf("unexpected -t cap: %v", got)
		}
		if !contains(got, "atempo=1.200000") {
			t.Fatalf("missing atempo filter: %v", got)
		}
	})

	t.Run("with cap", func(t *testing.T) {
		got := tempoArgs("in.wav", 1.3, "out.wav", time.Second)
		idx := index(got, "-t")
		if idx < 0 || got[idx+1] != "1.000" {
			t.Fatalf("expected -t 1.000, got %v", got)
		}
		if got[len(got)-1] != "out.wav" {
			t.Fatalf("output must come last: %v", got)
		}
	})
}

func TestConcatArgs(t *testing.T) {
	t.Parallel()

	got := concatArgs("list.txt", "final.wav", 44100, 2)
	want := []string{
		"-y", "-v", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", "list.txt",
		"-ar", "44100",
		"-ac", "2",
		"final.wav",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

func TestMuxArgs(t *testing.T) {
	t.Parallel()

	t.Run("dub replaces audio", func(t *testing.T) {
		got := muxArgs(ports.MuxSpec{
			VideoPath:    "in.mp4",
			DubAudioPath: "dub.wav",
			OutPath:      "out.mp4",
		})
		if !hasPair(got, "-map", "1:a") {
			t.Fatalf("expected dub audio mapping, got %v", got)
		}
		if !hasPair(got, "-c:v", "copy") {
			t.Fatalf("expected stream copy, got %v", got)
		}
		if contains(got, "-filter_complex") {
			t.Fatalf("unexpected filter_complex: %v", got)
		}
	})

	t.Run("docu mix keeps original bed", func(t *testing.T) {
		got := muxArgs(ports.MuxSpec{
			VideoPath:    "in.mp4",
			DubAudioPath: "dub.wav",
			DocuMix:      true,
			OutPath:      "out.mp4",
		})
		idx := index(got, "-filter_complex")
		if idx < 0 || !strings.Contains(got[idx+1], "amix=inputs=2") {
			t.Fatalf("expected amix filter, got %v", got)
		}
		if !hasPair(got, "-map", "[a_out]") {
			t.Fatalf("expected mixed output mapping, got %v", got)
		}
	})

	t.Run("subtitles soft-embedded with language", func(t *testing.T) {
		got := muxArgs(ports.MuxSpec{
			VideoPath:    "in.mp4",
			DubAudioPath: "dub.wav",
			SubtitlePath: "subs.srt",
			SubtitleLang: "hin",
			OutPath:      "out.mp4",
		})
		if !hasPair(got, "-map", "2:s") {
			t.Fatalf("expected subtitle mapping at input 2, got %v", got)
		}
		if !hasPair(got, "-c:s", "mov_text") {
			t.Fatalf("expected mov_text codec, got %v", got)
		}
		if !hasPair(got, "-metadata:s:s:0", "language=hin") {
			t.Fatalf("expected language metadata, got %v", got)
		}
	})

	t.Run("subtitles without dub map input 1", func(t *testing.T) {
		got := muxArgs(ports.MuxSpec{
			VideoPath:    "in.mp4",
			SubtitlePath: "subs.srt",
			OutPath:      "out.mp4",
		})
		if !hasPair(got, "-map", "1:s") {
			t.Fatalf("expected subtitle mapping at input 1, got %v", got)
		}
		if !hasPair(got, "-map", "0:a") {
			t.Fatalf("expected original audio kept, got %v", got)
		}
	})

	t.Run("blurred source re-encodes", func(t *testing.T) {
		got := muxArgs(ports.MuxSpec{
			VideoPath:     "blurred.mp4",
			ReencodeVideo: true,
			OutPath:       "out.mp4",
		})
		if !hasPair(got, "-c:v", "libx264") {
			t.Fatalf("expected re-encode, got %v", got)
		}
	})
}

func TestBlurFilter(t *testing.T) {
	t.Parallel()

	got := blurFilter([]types.Interval{
		{Start: 9 * time.Second, End: 11 * time.Second},
		{Start: 24 * time.Second, End: 31 * time.Second},
	})
	want := "boxblur=50:5:enable='between(t,9.00,11.00)',boxblur=50:5:enable='between(t,24.00,31.00)'"
	if got != want {
		t.Fatalf("filter = %q, want %q", got, want)
	}
}

func TestSampleFramesArgs(t *testing.T) {
	t.Parallel()

	got := sampleFramesArgs("in.mp4", 250*time.Millisecond, "dir/frame_%06d.jpg")
	idx := index(got, "-vf")
	if idx < 0 || got[idx+1] != "fps=1/0.25" {
		t.Fatalf("expected fps filter, got %v", got)
	}
}

func contains(args []string, v string) bool { return index(args, v) >= 0 }

func index(args []string, v string) int {
	for i, a := range args {
		if a == v {
			return i
		}
	}
	return -1
}

func hasPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
