package synth

import (
	"fmt"
	"time"
)

// Config contains all synthesis configuration options.
type Config struct {
	// BanksDir is the directory holding voice banks, one subdirectory per
	// voice.
	BanksDir string `yaml:"banks_dir" env:"CLIPVOX_BANKS_DIR"`

	// DictPath points at a CMU-format pronouncing dictionary for the stock
	// phonemizer. Empty uses the built-in dictionary and letter rules.
	DictPath string `yaml:"dict_path" env:"CLIPVOX_DICT_PATH"`

	// Seed fixes the clip variant selector for reproducible output.
	// Zero means a time-based seed (the normal, varied behavior).
	Seed int64 `yaml:"seed" env:"CLIPVOX_SEED"`

	// CacheSize caps the decoded-clip cache in bytes. Zero disables it.
	CacheSize int64 `yaml:"cache_size" env:"CLIPVOX_CACHE_SIZE"`

	// Pipeline holds the pause, crossfade, and lookup settings for the
	// active profile.
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// PipelineConfig parameterizes one rendering pipeline. The same pipeline
// serves plain concatenation and crossfaded synthesis; CrossfadeEnabled and
// the pause durations are the only differences between profiles.
type PipelineConfig struct {
	// WordFirstLookup tries words/<WORD>.wav before phoneme synthesis.
	WordFirstLookup bool `yaml:"word_first_lookup" env:"CLIPVOX_WORD_FIRST"`

	// CrossfadeEnabled blends consonant-to-vowel seams.
	CrossfadeEnabled bool `yaml:"crossfade" env:"CLIPVOX_CROSSFADE"`

	// FadeDuration is the crossfade window length.
	FadeDuration time.Duration `yaml:"fade_duration" env:"CLIPVOX_FADE_DURATION"`

	// Pauses holds the silence durations inserted between units.
	Pauses PauseConfig `yaml:"pauses"`
}

// PauseConfig holds the fixed silence durations.
type PauseConfig struct {
	// Word is the pause appended after each word's segments.
	Word time.Duration `yaml:"word" env:"CLIPVOX_PAUSE_WORD"`
	// Comma is the pause for , and ;
	Comma time.Duration `yaml:"comma" env:"CLIPVOX_PAUSE_COMMA"`
	// Terminal is the pause for . ! ?
	Terminal time.Duration `yaml:"terminal" env:"CLIPVOX_PAUSE_TERMINAL"`
}

// DefaultConfig returns a Config with the file-rendering profile.
func DefaultConfig() Config {
	return Config{
		CacheSize: 16 << 20,
		Pipeline:  RenderProfile(),
	}
}

// RenderProfile is the pipeline preset for rendering to a file. Terminal
// pauses are longer than in live playback, which reads better in a mixed
// recording.
func RenderProfile() PipelineConfig {
	return PipelineConfig{
		WordFirstLookup:  true,
		CrossfadeEnabled: true,
		FadeDuration:     50 * time.Millisecond,
		Pauses: PauseConfig{
			Word:     10 * time.Millisecond,
			Comma:    250 * time.Millisecond,
			Terminal: 500 * time.Millisecond,
		},
	}
}

// PlaybackProfile is the pipeline preset for live playback.
func PlaybackProfile() PipelineConfig {
	p := RenderProfile()
	p.Pauses.Terminal = 300 * time.Millisecond
	return p
}

// Validate checks the configuration for inconsistencies.
func (c Config) Validate() error {
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// Validate checks the pipeline settings.
func (p PipelineConfig) Validate() error {
	if p.FadeDuration < 0 {
		return fmt.Errorf("%w: fade_duration must be >= 0", ErrInvalidConfig)
	}
	if p.Pauses.Word < 0 || p.Pauses.Comma < 0 || p.Pauses.Terminal < 0 {
		return fmt.Errorf("%w: pause durations must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// DefaultFallbackTable maps phonemes that often have no recording to
// articulatorily similar substitutes, tried in order and concatenated.
// The table is acyclic; the resolver still guards against cycles in
// user-edited tables.
func DefaultFallbackTable() map[string][]string {
	return map[string][]string{
		"AW": {"AE", "OW"},
		"DH": {"D"},
		"EY": {"EH", "IY"},
		"JH": {"CH"},
		"SH": {"CH"},
		"TH": {"D"},
		"ZH": {"CH"},
		"AE": {"AA"},
		"AO": {"AA", "OW"},
		"ER": {"AA"},
		"IH": {"IY"},
		"OY": {"OW", "Y", "IY"},
		"UH": {"UW"},
	}
}
