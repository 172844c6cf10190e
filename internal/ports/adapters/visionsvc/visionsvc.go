// Package visionsvc adapts an image-classification HTTP service to the
// Vision port. The service hosts the unsafe-content model as a process-wide
// singleton; this client sends it sampled frames one at a time.
package visionsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Adapter struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Adapter {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8030"
	}
	return &Adapter{baseURL: baseURL, client: &http.Client{Timeout: time.Minute}}
}

// ScanFrames classifies each frame and returns its unsafe score. A frame
// that fails to classify scores zero; visual scanning is best-effort and
// must not kill the run.
func (a *Adapter) ScanFrames(ctx context.Context, framePaths []string) ([]float64, error) {
	scores := make([]float64, len(framePaths))
	for i, p := range framePaths {
		if ctx.Err() != nil {
			return scores, ctx.Err()
		}
		score, err := a.classify(ctx, p)
		if err != nil {
			continue
		}
		scores[i] = score
	}
	return scores, nil
}

func (a *Adapter) classify(ctx context.Context, framePath string) (float64, error) {
	img, err := os.ReadFile(framePath)
	if err != nil {
		return 0, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filepath.Base(framePath))
	if err != nil {
		return 0, err
	}
	if _, err := fw.Write(img); err != nil {
		return 0, err
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/classify", &body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return 0, fmt.Errorf("vision service status %d: %s", resp.StatusCode, string(rb))
	}

	var out struct {
		Labels []struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"labels"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	for _, l := range out.Labels {
		if l.Label == "nsfw" {
			return l.Score, nil
		}
	}
	return 0, nil
}
