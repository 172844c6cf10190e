// Package openrouter adapts OpenRouter chat completions to the Translator
// port. Segments are translated in batches with a strict JSON-schema
// response; protected technical terms are masked before the request and
// restored after, so the model cannot "helpfully" translate them.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ananta-sj/ReFlow/internal/types"
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

const (
	requestTimeout = 90 * time.Second
	batchSize      = 40
)

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "anthropic/claude-3.5-sonnet"
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{key: apiKey, model: model, baseURL: baseURL, client: &http.Client{Timeout: 5 * time.Minute}}
}

// TranslateSegments returns a new segment slice with Text translated for the
// mode. A batch that fails for any reason keeps its untranslated text; the
// pipeline prefers passthrough over a dead run.
func (a *Adapter) TranslateSegments(
	ctx context.Context,
	segs []types.Segment,
	mode types.LanguageMode,
	terms []string,
) ([]types.Segment, error) {
	out := make([]types.Segment, len(segs))
	copy(out, segs)

	for lo := 0; lo < len(out); lo += batchSize {
		hi := lo + batchSize
		if hi > len(out) {
			hi = len(out)
		}
		if err := a.translateBatch(ctx, out[lo:hi], mode, terms); err != nil {
			// passthrough for this batch; the caller decides whether the
			// error is worth surfacing
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
		}
	}
	return out, nil
}

func (a *Adapter) translateBatch(
	ctx context.Context,
	batch []types.Segment,
	mode types.LanguageMode,
	terms []string,
) error {
	type line struct {
		Idx  int    `json:"idx"`
		Text string `json:"text"`
	}

	maskMaps := make([]map[string]string, len(batch))
	lines := make([]line, 0, len(batch))
	for i, seg := range batch {
		text := seg.Text
		if mode == types.ModeHinglish {
			text, maskMaps[i] = MaskTerms(text, terms)
		}
		lines = append(lines, line{Idx: i, Text: text})
	}

	lb, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal lines: %w", err)
	}

	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": buildPrompt(mode, lb)},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name": "reflow_translate",
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"lines": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"idx":  map[string]any{"type": "integer"},
									"text": map[string]any{"type": "string"},
								},
								"required": []string{"idx", "text"},
							},
						},
					},
					"required": []string{"lines"},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", a.baseURL+"/api/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("openrouter timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("openrouter status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return fmt.Errorf("openrouter status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return err
	}
	if len(raw.Choices) == 0 {
		return errors.New("openrouter: no choices")
	}

	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return err
	}
	clean, err := extractJSONObject(content)
	if err != nil {
		return err
	}

	var parsed struct {
		Lines []line `json:"lines"`
	}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return fmt.Errorf("parse translation response: %w", err)
	}

	for _, l := range parsed.Lines {
		if l.Idx < 0 || l.Idx >= len(batch) {
			continue
		}
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		if maskMaps[l.Idx] != nil {
			text = UnmaskTerms(text, maskMaps[l.Idx])
		}
		batch[l.Idx].Text = text
	}
	return nil
}

func buildPrompt(mode types.LanguageMode, linesJSON []byte) string {
	target := "Hindi (Devanagari script)"
	switch mode {
	case types.ModeEnglish:
		target = "English"
	case types.ModeHinglish:
		target = "conversational Hindi, keeping any __ID_n__ placeholders exactly as written"
	}
	return "Translate every line of this video transcript into " + target + ". " +
		"Return strictly valid JSON (no markdown, no code fences) matching the provided schema, " +
		"with one output line per input idx. Keep the register casual and speakable; these lines " +
		"will be spoken by a dubbing voice, so prefer short natural phrasing over literal translation." +
		"\n\nLines JSON:\n" + string(linesJSON)
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("openrouter: empty content")
	}

	// Strip markdown code fences.
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	// Best-effort: take the first JSON object found.
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}

	return "", fmt.Errorf("openrouter: could not locate JSON object in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
