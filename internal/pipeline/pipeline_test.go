package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	tmp := t.TempDir()
	in := filepath.Join(tmp, "video.mp4")
	if err := os.WriteFile(in, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return Config{
		Inputs:           []string{in},
		Language:         "hindi",
		WhisperModel:     filepath.Join(tmp, "model.bin"),
		OpenRouterAPIKey: "sk-or-test",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no inputs", mutate: func(c *Config) { c.Inputs = nil }, wantErr: true},
		{name: "missing input file", mutate: func(c *Config) { c.Inputs = []string{"/nonexistent/v.mp4"} }, wantErr: true},
		{name: "bad language", mutate: func(c *Config) { c.Language = "klingon" }, wantErr: true},
		{name: "no whisper model", mutate: func(c *Config) { c.WhisperModel = "" }, wantErr: true},
		{name: "hindi without api key", mutate: func(c *Config) { c.OpenRouterAPIKey = "" }, wantErr: true},
		{name: "english without api key", mutate: func(c *Config) {
			c.Language = "english"
			c.OpenRouterAPIKey = ""
		}},
		{name: "http base url", mutate: func(c *Config) { c.OpenRouterBaseURL = "http://evil.example" }, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig(t)
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input    string
		language string
		want     string
	}{
		{"/videos/My Cool.Video.mp4", "hindi", "my-cool-video_hindi.mp4"},
		{"/videos/clip.mkv", "english", "clip_english.mp4"},
		{"/videos/___.mp4", "hinglish", "video_hinglish.mp4"},
	}
	for _, tc := range cases {
		if got := outputName(tc.input, tc.language); got != tc.want {
			t.Fatalf("outputName(%q, %q) = %q, want %q", tc.input, tc.language, got, tc.want)
		}
	}
}

func TestBuildRunOutDir(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildRunOutDir("out", "/tmp/My Cool.Video.mp4", now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if !strings.HasPrefix(base, "my-cool-video-20260212-103045Z-") {
		t.Fatalf("unexpected run dir format: %s", base)
	}
	if len(base) != len("my-cool-video-20260212-103045Z-")+6 {
		t.Fatalf("unexpected run dir suffix length: %s", base)
	}
}

func TestRunLabel(t *testing.T) {
	if got := runLabel([]string{"/a/one.mp4"}); got != "/a/one.mp4" {
		t.Fatalf("single-input label = %q", got)
	}
	if got := runLabel([]string{"a", "b", "c"}); got != "batch-3" {
		t.Fatalf("batch label = %q", got)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}
