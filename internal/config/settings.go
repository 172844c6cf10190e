// Package config persists user settings between runs: output folder, language
// and stage toggles survive so a batch can be re-run with bare `reflow <files>`.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings is everything the user can persist. Flag values override these for
// one run without touching the stored file.
type Settings struct {
	OutputFolder string `mapstructure:"output_folder" json:"output_folder"`
	Language     string `mapstructure:"language" json:"language"`

	EnableDub       bool `mapstructure:"enable_dub" json:"enable_dub"`
	EnableBlur      bool `mapstructure:"enable_blur" json:"enable_blur"`
	EnableSubtitles bool `mapstructure:"enable_subtitles" json:"enable_subtitles"`
	EnableCensor    bool `mapstructure:"enable_censor" json:"enable_censor"`
	DocuMode        bool `mapstructure:"docu_mode" json:"docu_mode"`

	IgnoreTerms []string `mapstructure:"ignore_terms" json:"ignore_terms"`
	CensorWords []string `mapstructure:"censor_words" json:"censor_words"`
}

func Default() Settings {
	return Settings{
		OutputFolder: "out",
		Language:     "hindi",
		EnableDub:    true,
	}
}

// Store reads and writes one settings file.
type Store struct {
	path string
}

// NewStore uses path, or the per-user default location when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(base, "reflow", "settings.json")
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

// Load returns the stored settings, or defaults when no file exists yet.
func (s *Store) Load() (Settings, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")

	out := Default()
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return out, nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if err := v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return out, nil
}

// Save writes the settings file, creating its directory if needed.
func (s *Store) Save(set Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("output_folder", set.OutputFolder)
	v.Set("language", set.Language)
	v.Set("enable_dub", set.EnableDub)
	v.Set("enable_blur", set.EnableBlur)
	v.Set("enable_subtitles", set.EnableSubtitles)
	v.Set("enable_censor", set.EnableCensor)
	v.Set("docu_mode", set.DocuMode)
	v.Set("ignore_terms", set.IgnoreTerms)
	v.Set("censor_words", set.CensorWords)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
