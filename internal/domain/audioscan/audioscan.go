// Package audioscan reads and writes PCM WAV directly, so silence handling
// does not need an ffmpeg round-trip per clip: amplitude-threshold silence
// detection, speech-interval copying (silence compaction) and silence
// generation.
package audioscan

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ananta-sj/ReFlow/internal/types"
)

const (
	// DefaultSilenceThresholdDB matches the synthesizer's noise floor:
	// anything quieter counts as dead air.
	DefaultSilenceThresholdDB = -40.0

	// DefaultMinSilence is the shortest run treated as silence. Shorter dips
	// are articulation pauses, not dead air.
	DefaultMinSilence = 300 * time.Millisecond

	// analysis window for the amplitude scan
	windowLen = 10 * time.Millisecond
)

// SilenceIntervals scans a WAV file and returns the ordered runs where peak
// amplitude stays below thresholdDB (dBFS) for at least minLen. An empty
// result means nothing qualified; callers treat that as "no compaction
// possible".
func SilenceIntervals(path string, thresholdDB float64, minLen time.Duration) ([]types.Interval, error) {
	buf, err := decode(path)
	if err != nil {
		return nil, err
	}
	if len(buf.Data) == 0 {
		return nil, nil
	}

	sampleRate := buf.Format.SampleRate
	channels := buf.Format.NumChannels
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	fullScale := float64(int(1) << (bitDepth - 1))

	framesPerWindow := int(float64(sampleRate) * windowLen.Seconds())
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}
	totalFrames := len(buf.Data) / channels

	var (
		out        []types.Interval
		inSilence  bool
		runStart   int // frame index
		frameToDur = func(frame int) time.Duration {
			return time.Duration(float64(frame) / float64(sampleRate) * float64(time.Second))
		}
	)

	flush := func(endFrame int) {
		if !inSilence {
			return
		}
		iv := types.Interval{Start: frameToDur(runStart), End: frameToDur(endFrame)}
		if iv.Duration() >= minLen {
			out = append(out, iv)
		}
		inSilence = false
	}

	for frame := 0; frame < totalFrames; frame += framesPerWindow {
		end := frame + framesPerWindow
		if end > totalFrames {
			end = totalFrames
		}
		peak := 0.0
		for f := frame; f < end; f++ {
			for c := 0; c < channels; c++ {
				v := math.Abs(float64(buf.Data[f*channels+c]))
				if v > peak {
					peak = v
				}
			}
		}
		db := -96.0 // treat digital zero as the noise floor
		if peak > 0 {
			db = 20 * math.Log10(peak/fullScale)
		}

		if db < thresholdDB {
			if !inSilence {
				inSilence = true
				runStart = frame
			}
			continue
		}
		flush(frame)
	}
	flush(totalFrames)
	return out, nil
}

// CopyIntervals writes a new WAV containing only the given source intervals,
// concatenated in order. Used to drop silence runs without re-timing speech.
func CopyIntervals(inPath, outPath string, intervals []types.Interval) error {
	buf, err := decode(inPath)
	if err != nil {
		return err
	}
	channels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	totalFrames := len(buf.Data) / channels

	data := make([]int, 0, len(buf.Data))
	for _, iv := range intervals {
		startF := int(iv.Start.Seconds() * float64(sampleRate))
		endF := int(iv.End.Seconds() * float64(sampleRate))
		if startF < 0 {
			startF = 0
		}
		if endF > totalFrames {
			endF = totalFrames
		}
		if endF <= startF {
			continue
		}
		data = append(data, buf.Data[startF*channels:endF*channels]...)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	return encode(outPath, &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: bitDepth,
	}, bitDepth)
}

// WriteSilence writes d worth of digital silence as 16-bit PCM.
func WriteSilence(path string, d time.Duration, sampleRate, channels int) error {
	frames := int(d.Seconds() * float64(sampleRate))
	if frames < 0 {
		frames = 0
	}
	return encode(path, &audio.IntBuffer{
		Data:           make([]int, frames*channels),
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: 16,
	}, 16)
}

// Duration returns a WAV file's play time from its sample count.
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	d, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("wav duration %s: %w", path, err)
	}
	return d, nil
}

func decode(path string) (*audio.IntBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}
	return buf, nil
}

func encode(path string, buf *audio.IntBuffer, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(f, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1)
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode wav %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize wav %s: %w", path, err)
	}
	return f.Close()
}
