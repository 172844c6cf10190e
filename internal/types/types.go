package types

import "time"

type Transcript struct {
	Segments []Segment `json:"segments"`
}

// Segment is one transcribed utterance. Start/End are seconds in source-video
// time and are fixed once transcription produced them; only Text changes in
// later stages (translation, censoring), and stages return new slices rather
// than mutating shared ones.
type Segment struct {
	Start        float64    `json:"start"`
	End          float64    `json:"end"`
	Text         string     `json:"text"`
	OriginalText string     `json:"original_text,omitempty"`
	VoiceLabel   VoiceLabel `json:"voice_label,omitempty"`
}

type VoiceLabel string

const (
	VoiceMale   VoiceLabel = "male"
	VoiceFemale VoiceLabel = "female"
)

// Slot is a normalized, non-overlapping synthesis window derived from a
// Segment. Slots exist only for the lifetime of one dubbing run.
type Slot struct {
	Index int
	Start time.Duration
	End   time.Duration
}

func (s Slot) Duration() time.Duration { return s.End - s.Start }

// FittedClip is a synthesized clip after duration fitting, ready for
// timeline assembly.
type FittedClip struct {
	Path      string
	Speed     float64
	Truncated bool
	SlotIndex int
}

// Entry is one element of the assembled timeline: either a silence of
// Silence duration, or the clip at ClipPath.
type Entry struct {
	Silence  time.Duration
	ClipPath string
}

func (e Entry) IsSilence() bool { return e.ClipPath == "" }

// LanguageMode selects the translation/dubbing target.
type LanguageMode string

const (
	ModeHindi    LanguageMode = "hindi"
	ModeHinglish LanguageMode = "hinglish"
	ModeEnglish  LanguageMode = "english"
)

// SynthesisLanguage maps a mode to the language code handed to the TTS
// service.
func (m LanguageMode) SynthesisLanguage() string {
	switch m {
	case ModeHindi, ModeHinglish:
		return "hi"
	default:
		return "en"
	}
}

// Interval is a half-open [Start, End) window inside an audio or video file.
type Interval struct {
	Start time.Duration
	End   time.Duration
}

func (iv Interval) Duration() time.Duration { return iv.End - iv.Start }

// Report summarizes a queue run.
type Report struct {
	Items []ReportItem `json:"items"`
}

type ReportItem struct {
	ID     string `json:"id"`
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusDone     = "done"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)
