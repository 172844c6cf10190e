package subtitles

import (
	"fmt"
	"strings"

	"github.com/ananta-sj/ReFlow/internal/types"
)

// RenderSRT renders the segment list as an SRT document. The " [BEEP]"
// censor marker is rewritten to "*BEEP*" for display.
func RenderSRT(segments []types.Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		text := strings.ReplaceAll(seg.Text, "[BEEP]", "*BEEP*")
		text = strings.TrimSpace(text)

		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", FormatTimestamp(seg.Start), FormatTimestamp(seg.End))
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatTimestamp converts seconds to the SRT clock format HH:MM:SS,mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int((seconds - float64(int(seconds))) * 1000)
	whole := int(seconds)
	h := whole / 3600
	m := (whole % 3600) / 60
	s := whole % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, millis)
}
