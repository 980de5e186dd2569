package synth

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfigFromViper loads synthesis configuration from Viper, falling
// back to defaults for unset keys.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("banks_dir") {
		cfg.BanksDir = viper.GetString("banks_dir")
	}
	if viper.IsSet("dict_path") {
		cfg.DictPath = viper.GetString("dict_path")
	}
	if viper.IsSet("seed") {
		cfg.Seed = viper.GetInt64("seed")
	}
	if viper.IsSet("cache_size") {
		cfg.CacheSize = viper.GetInt64("cache_size")
	}

	cfg.Pipeline = loadPipelineConfig(cfg.Pipeline)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadPipelineConfig(p PipelineConfig) PipelineConfig {
	if viper.IsSet("pipeline.word_first_lookup") {
		p.WordFirstLookup = viper.GetBool("pipeline.word_first_lookup")
	}
	if viper.IsSet("pipeline.crossfade") {
		p.CrossfadeEnabled = viper.GetBool("pipeline.crossfade")
	}
	if viper.IsSet("pipeline.fade_duration") {
		p.FadeDuration = viper.GetDuration("pipeline.fade_duration")
	}
	if viper.IsSet("pipeline.pauses.word") {
		p.Pauses.Word = viper.GetDuration("pipeline.pauses.word")
	}
	if viper.IsSet("pipeline.pauses.comma") {
		p.Pauses.Comma = viper.GetDuration("pipeline.pauses.comma")
	}
	if viper.IsSet("pipeline.pauses.terminal") {
		p.Pauses.Terminal = viper.GetDuration("pipeline.pauses.terminal")
	}
	return p
}
