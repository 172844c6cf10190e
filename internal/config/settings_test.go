package config

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestStore_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	st, err := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	got, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, Default()) {
		t.Fatalf("got %+v, want defaults", got)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	st, err := NewStore(filepath.Join(t.TempDir(), "nested", "settings.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	want := Settings{
		OutputFolder:    "/videos/done",
		Language:        "hinglish",
		EnableDub:       true,
		EnableSubtitles: true,
		DocuMode:        true,
		IgnoreTerms:     []string{"Kubernetes", "gRPC"},
		CensorWords:     []string{"damn"},
	}
	if err := st.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip:\n got %+v\nwant %+v", got, want)
	}
}
