// Package ffmpeg adapts the ffmpeg/ffprobe binaries to the MediaTool port.
// Every invocation goes through a typed argument builder; nothing is ever
// assembled into a shell string.
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ananta-sj/ReFlow/internal/ports"
	"github.com/ananta-sj/ReFlow/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, &ports.ProbeError{Path: path, Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ports.ProbeError{Path: path, Err: fmt.Errorf("parse duration %q: %w", s, err)}
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error {
	b, err := a.run(ctx, extractMono16kArgs(inVideo, outWav))
	if err != nil {
		return &ports.ExtractionError{Path: inVideo, Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	return nil
}

func (a *Adapter) ExtractAudioWindow(ctx context.Context, inVideo string, start, dur time.Duration, outWav string) error {
	b, err := a.run(ctx, extractWindowArgs(inVideo, start, dur, outWav))
	if err != nil {
		return &ports.ExtractionError{Path: inVideo, Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	return nil
}

func (a *Adapter) ChangeTempo(ctx context.Context, inWav string, speed float64, outWav string, maxDur time.Duration) error {
	b, err := a.run(ctx, tempoArgs(inWav, speed, outWav, maxDur))
	if err != nil {
		return &ports.EncodeError{Op: "tempo", Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	return nil
}

func (a *Adapter) ConcatAudio(ctx context.Context, clipPaths []string, outPath string, sampleRate, channels int) error {
	if len(clipPaths) == 0 {
		return &ports.EncodeError{Op: "concat", Err: fmt.Errorf("no clips to concatenate")}
	}

	listPath := outPath + ".list.txt"
	if err := writeConcatList(listPath, clipPaths); err != nil {
		return &ports.EncodeError{Op: "concat", Err: err}
	}
	defer os.Remove(listPath)

	b, err := a.run(ctx, concatArgs(listPath, outPath, sampleRate, channels))
	if err != nil {
		return &ports.EncodeError{Op: "concat", Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	return nil
}

func (a *Adapter) Mux(ctx context.Context, spec ports.MuxSpec) error {
	b, err := a.run(ctx, muxArgs(spec))
	if err != nil {
		return &ports.EncodeError{Op: "mux", Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	return nil
}

func (a *Adapter) ApplyBlur(ctx context.Context, inVideo, outVideo string, intervals []types.Interval) error {
	if len(intervals) == 0 {
		return nil
	}
	b, err := a.run(ctx, blurArgs(inVideo, outVideo, intervals))
	if err != nil {
		return &ports.EncodeError{Op: "blur", Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	return nil
}

func (a *Adapter) SampleFrames(ctx context.Context, inVideo string, every time.Duration, outDir string) ([]ports.Frame, error) {
	if every <= 0 {
		every = time.Second
	}
	pattern := filepath.Join(outDir, "frame_%06d.jpg")
	b, err := a.run(ctx, sampleFramesArgs(inVideo, every, pattern))
	if err != nil {
		return nil, &ports.ExtractionError{Path: inVideo, Err: fmt.Errorf("%w\n%s", err, string(b))}
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "frame_*.jpg"))
	if err != nil {
		return nil, &ports.ExtractionError{Path: inVideo, Err: err}
	}
	sort.Strings(matches)

	frames := make([]ports.Frame, 0, len(matches))
	for i, p := range matches {
		frames = append(frames, ports.Frame{Path: p, At: time.Duration(i) * every})
	}
	return frames, nil
}

func (a *Adapter) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	return cmd.CombinedOutput()
}

// --- argument builders (pure, unit-tested without spawning processes) ---

func extractMono16kArgs(inVideo, outWav string) []string {
	return []string{
		"-y", "-v", "error",
		"-i", inVideo,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	}
}

func extractWindowArgs(inVideo string, start, dur time.Duration, outWav string) []string {
	return []string{
		"-y", "-v", "error",
		"-ss", fmtSeconds(start),
		"-i", inVideo,
		"-t", fmtSeconds(dur),
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "24000",
		outWav,
	}
}

func tempoArgs(inWav string, speed float64, outWav string, maxDur time.Duration) []string {
	args := []string{
		"-y", "-v", "error",
		"-i", inWav,
		"-filter:a", "atempo=" + strconv.FormatFloat(speed, 'f', 6, 64),
		"-ar", "24000",
	}
	if maxDur > 0 {
		args = append(args, "-t", fmtSeconds(maxDur))
	}
	return append(args, outWav)
}

func concatArgs(listPath, outPath string, sampleRate, channels int) []string {
	return []string{
		"-y", "-v", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		outPath,
	}
}

func muxArgs(spec ports.MuxSpec) []string {
	args := []string{"-y", "-v", "error", "-i", spec.VideoPath}
	if spec.DubAudioPath != "" {
		args = append(args, "-i", spec.DubAudioPath)
	}
	if spec.SubtitlePath != "" {
		args = append(args, "-i", spec.SubtitlePath)
	}

	mapAudio := []string{"-map", "0:a"}
	if spec.DubAudioPath != "" {
		if spec.DocuMix {
			// Original bed stays audible under the dub.
			args = append(args, "-filter_complex",
				"[0:a]volume=0.2[original];[1:a]volume=1.8[dub];[original][dub]amix=inputs=2:duration=first:dropout_transition=2[a_out]")
			mapAudio = []string{"-map", "[a_out]"}
		} else {
			mapAudio = []string{"-map", "1:a"}
		}
	}

	args = append(args, "-map", "0:v")
	args = append(args, mapAudio...)

	if spec.SubtitlePath != "" {
		subIndex := 1
		if spec.DubAudioPath != "" {
			subIndex = 2
		}
		args = append(args, "-map", fmt.Sprintf("%d:s", subIndex))
	}

	if spec.ReencodeVideo {
		args = append(args, "-c:v", "libx264", "-preset", "fast")
	} else {
		args = append(args, "-c:v", "copy")
	}
	args = append(args, "-c:a", "aac", "-b:a", "192k")

	if spec.SubtitlePath != "" {
		args = append(args, "-c:s", "mov_text")
		if spec.SubtitleLang != "" {
			args = append(args, "-metadata:s:s:0", "language="+spec.SubtitleLang)
		}
	}

	return append(args, "-shortest", spec.OutPath)
}

func blurArgs(inVideo, outVideo string, intervals []types.Interval) []string {
	return []string{
		"-y", "-v", "error",
		"-i", inVideo,
		"-vf", blurFilter(intervals),
		"-c:a", "copy",
		"-c:v", "libx264",
		outVideo,
	}
}

// blurFilter builds a boxblur expression gated per interval. Heavy radius on
// purpose: shapes and motion must be unrecognizable, not just softened.
func blurFilter(intervals []types.Interval) string {
	filters := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		filters = append(filters, fmt.Sprintf(
			"boxblur=50:5:enable='between(t,%.2f,%.2f)'",
			iv.Start.Seconds(), iv.End.Seconds(),
		))
	}
	return strings.Join(filters, ",")
}

func sampleFramesArgs(inVideo string, every time.Duration, outPattern string) []string {
	return []string{
		"-y", "-v", "error",
		"-i", inVideo,
		"-vf", fmt.Sprintf("fps=1/%s", strconv.FormatFloat(every.Seconds(), 'f', -1, 64)),
		"-q:v", "4",
		outPattern,
	}
}

func writeConcatList(listPath string, clipPaths []string) error {
	var b strings.Builder
	for _, p := range clipPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		// concat demuxer single-quote escaping
		abs = strings.ReplaceAll(abs, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	return os.WriteFile(listPath, []byte(b.String()), 0o644)
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
