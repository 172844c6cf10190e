// Package xtts adapts a locally running XTTS HTTP server to the TTS port.
// The server loads the synthesis model once per process; this adapter is a
// thin client and holds no model state itself.
package xtts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ananta-sj/ReFlow/internal/ports"
)

const requestTimeout = 2 * time.Minute

type Adapter struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Adapter {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8020"
	}
	return &Adapter{baseURL: baseURL, client: &http.Client{Timeout: 5 * time.Minute}}
}

// Synthesize asks the server to speak text in the voice of refWavPath and
// writes the returned WAV to outPath. Every failure mode comes back as a
// *ports.SynthesisError so the caller can substitute silence.
func (a *Adapter) Synthesize(ctx context.Context, text, refWavPath, lang, outPath string) error {
	if strings.TrimSpace(text) == "" {
		return &ports.SynthesisError{Reason: "empty text"}
	}
	if st, err := os.Stat(refWavPath); err != nil || st.Size() == 0 {
		return &ports.SynthesisError{Reason: "missing or empty reference clip", Err: err}
	}

	payload := map[string]string{
		"text":        text,
		"speaker_wav": refWavPath,
		"language":    lang,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &ports.SynthesisError{Reason: "marshal request", Err: err}
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", a.baseURL+"/tts_to_audio/", bytes.NewReader(body))
	if err != nil {
		return &ports.SynthesisError{Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return &ports.SynthesisError{Reason: fmt.Sprintf("timeout after %s", requestTimeout), Err: err}
		}
		return &ports.SynthesisError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 400))
		return &ports.SynthesisError{Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, string(rb))}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ports.SynthesisError{Reason: "read response", Err: err}
	}
	if len(audio) == 0 {
		return &ports.SynthesisError{Reason: "empty audio response"}
	}
	if err := os.WriteFile(outPath, audio, 0o644); err != nil {
		return &ports.SynthesisError{Reason: "write output", Err: err}
	}
	return nil
}
