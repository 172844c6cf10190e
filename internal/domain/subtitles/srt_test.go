package subtitles

import (
	"strings"
	"testing"

	"github.com/ananta-sj/ReFlow/internal/types"
)

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		0:        "00:00:00,000",
		12.5:     "00:00:12,500",
		61.042:   "00:01:01,042",
		3661.999: "01:01:01,999",
		-1:       "00:00:00,000",
	}
	for in, want := range tests {
		if got := FormatTimestamp(in); got != want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderSRT(t *testing.T) {
	t.Parallel()

	got := RenderSRT([]types.Segment{
		{Start: 0, End: 2, Text: "hello world"},
		{Start: 2.5, End: 4, Text: "rude part [BEEP]"},
	})

	want := "1\n00:00:00,000 --> 00:00:02,000\nhello world\n\n" +
		"2\n00:00:02,500 --> 00:00:04,000\nrude part *BEEP*\n\n"
	if got != want {
		t.Fatalf("srt mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(got, "[BEEP]") {
		t.Fatalf("censor marker leaked into display text")
	}
}
