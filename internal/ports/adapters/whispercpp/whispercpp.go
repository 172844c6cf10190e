package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ananta-sj/ReFlow/internal/types"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

// Transcribe runs whisper.cpp over a 16kHz mono WAV. Keywords are folded into
// an initial prompt to prime the decoder towards domain jargon, which fixes
// most misrecognitions of product and tech terms.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string, keywords []string) (types.Transcript, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	if prompt := buildPrompt(keywords); prompt != "" {
		args = append(args, "--prompt", prompt)
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, err
	}

	var tr types.Transcript
	if err := json.Unmarshal(jb, &tr); err != nil {
		return types.Transcript{}, err
	}
	for i := range tr.Segments {
		text := strings.TrimSpace(tr.Segments[i].Text)
		tr.Segments[i].Text = text
		tr.Segments[i].OriginalText = text
		if tr.Segments[i].VoiceLabel == "" {
			tr.Segments[i].VoiceLabel = types.VoiceMale
		}
	}
	return tr, nil
}

func buildPrompt(keywords []string) string {
	prompt := "This is a technical video about technology, coding, and tutorials."
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) > 0 {
		prompt += " It includes terms like: " + strings.Join(cleaned, ", ") + "."
	}
	return prompt
}
