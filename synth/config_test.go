package synth

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
	if !cfg.Pipeline.CrossfadeEnabled {
		t.Error("crossfading should be enabled by default")
	}
	if !cfg.Pipeline.WordFirstLookup {
		t.Error("word-first lookup should be enabled by default")
	}
	if cfg.CacheSize <= 0 {
		t.Error("clip caching should be enabled by default")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			modify: func(*Config) {},
		},
		{
			name: "negative fade duration",
			modify: func(c *Config) {
				c.Pipeline.FadeDuration = -time.Millisecond
			},
			wantErr: true,
		},
		{
			name: "negative word pause",
			modify: func(c *Config) {
				c.Pipeline.Pauses.Word = -time.Millisecond
			},
			wantErr: true,
		},
		{
			name: "negative cache size",
			modify: func(c *Config) {
				c.CacheSize = -1
			},
			wantErr: true,
		},
		{
			name: "zero fade is allowed",
			modify: func(c *Config) {
				c.Pipeline.FadeDuration = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("validation errors must wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestProfiles(t *testing.T) {
	render := RenderProfile()
	playback := PlaybackProfile()

	if render.Pauses.Terminal != 500*time.Millisecond {
		t.Errorf("render terminal pause: got %v, want 500ms", render.Pauses.Terminal)
	}
	if playback.Pauses.Terminal != 300*time.Millisecond {
		t.Errorf("playback terminal pause: got %v, want 300ms", playback.Pauses.Terminal)
	}

	// The profiles differ only in the terminal pause.
	render.Pauses.Terminal = playback.Pauses.Terminal
	if render != playback {
		t.Error("profiles should agree outside the terminal pause")
	}
}

func TestDefaultFallbackTable_Acyclic(t *testing.T) {
	table := DefaultFallbackTable()

	var walk func(label string, seen map[string]bool)
	walk = func(label string, seen map[string]bool) {
		if seen[label] {
			t.Fatalf("cycle through %s", label)
		}
		seen[label] = true
		for _, sub := range table[label] {
			walk(sub, seen)
		}
		delete(seen, label)
	}
	for label := range table {
		walk(label, map[string]bool{})
	}
}

func TestLoadConfigFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("banks_dir", "/tmp/banks")
	viper.Set("seed", 42)
	viper.Set("pipeline.crossfade", false)
	viper.Set("pipeline.pauses.comma", "100ms")

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper failed: %v", err)
	}

	if cfg.BanksDir != "/tmp/banks" {
		t.Errorf("banks_dir: got %q, want /tmp/banks", cfg.BanksDir)
	}
	if cfg.Seed != 42 {
		t.Errorf("seed: got %d, want 42", cfg.Seed)
	}
	if cfg.Pipeline.CrossfadeEnabled {
		t.Error("crossfade should be overridden to false")
	}
	if cfg.Pipeline.Pauses.Comma != 100*time.Millisecond {
		t.Errorf("comma pause: got %v, want 100ms", cfg.Pipeline.Pauses.Comma)
	}
	// Unset keys keep their defaults.
	if cfg.Pipeline.Pauses.Terminal != 500*time.Millisecond {
		t.Errorf("terminal pause: got %v, want default 500ms", cfg.Pipeline.Pauses.Terminal)
	}
}

func TestLoadConfigFromViper_InvalidRejected(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("pipeline.fade_duration", "-10ms")

	if _, err := LoadConfigFromViper(); err == nil {
		t.Error("expected validation error for negative fade duration")
	}
}
