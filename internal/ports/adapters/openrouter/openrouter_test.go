package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ananta-sj/ReFlow/internal/types"
)

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func newTestAdapter(srvURL string) *Adapter {
	a := New("test-key", "test-model", "")
	a.baseURL = srvURL
	return a
}

func TestTranslateSegments(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		fmt.Fprint(w, chatResponse(`{"lines":[{"idx":0,"text":"नमस्ते दुनिया"},{"idx":1,"text":"फिर मिलेंगे"}]}`))
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL)
	in := []types.Segment{
		{Start: 0, End: 2, Text: "hello world", OriginalText: "hello world"},
		{Start: 2, End: 4, Text: "see you", OriginalText: "see you"},
	}

	out, err := a.TranslateSegments(context.Background(), in, types.ModeHindi, nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out[0].Text != "नमस्ते दुनिया" || out[1].Text != "फिर मिलेंगे" {
		t.Fatalf("texts = %q, %q", out[0].Text, out[1].Text)
	}
	if out[0].Start != 0 || out[0].End != 2 || out[0].OriginalText != "hello world" {
		t.Fatalf("non-text fields changed: %+v", out[0])
	}
	if in[0].Text != "hello world" {
		t.Fatalf("input slice mutated: %q", in[0].Text)
	}
}

func TestTranslateSegments_HinglishMasking(t *testing.T) {
	t.Parallel()

	var sawPlaceholder bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		msgs := req["messages"].([]any)
		content := msgs[0].(map[string]any)["content"].(string)
		if strings.Contains(content, "__ID_") && !strings.Contains(content, "Settings") {
			sawPlaceholder = true
		}
		// The model keeps the placeholder in its output.
		fmt.Fprint(w, chatResponse(`{"lines":[{"idx":0,"text":"__ID_0__ खोलो"}]}`))
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL)
	out, err := a.TranslateSegments(context.Background(),
		[]types.Segment{{Text: "open the Settings"}},
		types.ModeHinglish,
		[]string{"Settings"},
	)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if !sawPlaceholder {
		t.Fatalf("term was not masked before the request")
	}
	if out[0].Text != "Settings खोलो" {
		t.Fatalf("unmasked text = %q", out[0].Text)
	}
}

func TestTranslateSegments_FailedBatchPassesThrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL)
	out, err := a.TranslateSegments(context.Background(),
		[]types.Segment{{Text: "keep me"}},
		types.ModeHindi, nil)
	if err != nil {
		t.Fatalf("passthrough should not error: %v", err)
	}
	if out[0].Text != "keep me" {
		t.Fatalf("text = %q, want passthrough", out[0].Text)
	}
}

func TestMaskTerms_RoundTrip(t *testing.T) {
	t.Parallel()

	masked, m := MaskTerms("open Wi-Fi settings and wifi", []string{"Wi-Fi", "Settings"})
	if strings.Contains(masked, "Wi-Fi") || strings.Contains(strings.ToLower(masked), "settings") {
		t.Fatalf("terms not masked: %q", masked)
	}
	if got := UnmaskTerms(masked, m); got != "open Wi-Fi Settings and wifi" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestUnmaskTerms_SpaceMangledPlaceholder(t *testing.T) {
	t.Parallel()

	got := UnmaskTerms("  ID 3   kholo", map[string]string{"__ID_3__": "Settings"})
	if !strings.Contains(got, "Settings") {
		t.Fatalf("mangled placeholder not restored: %q", got)
	}
}

func TestExtractJSONObject(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "noise before {\"a\":1} after", want: `{"a":1}`},
		{in: "no json here", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := extractJSONObject(tc.in)
		if tc.wantErr != (err != nil) {
			t.Fatalf("extractJSONObject(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if !tc.wantErr && got != tc.want {
			t.Fatalf("extractJSONObject(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactSecrets(t *testing.T) {
	t.Parallel()

	in := `{"error":"Bearer sk-or-abc123 rejected","api_key": sk-or-abc123}`
	out := redactSecrets(in, "sk-or-abc123")
	if strings.Contains(out, "sk-or-abc123") {
		t.Fatalf("secret leaked: %q", out)
	}
}
