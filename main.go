// Package main provides the entry point for the clipvox CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/clipvox/clipvox/internal/cache"
	"github.com/clipvox/clipvox/synth"
	"github.com/clipvox/clipvox/synth/audio"
	"github.com/clipvox/clipvox/synth/bank"
	"github.com/clipvox/clipvox/synth/g2p"
	"github.com/clipvox/clipvox/synth/phoneme"
	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	outputPath string
	seedFlag   int64
	banksDir   string
	noFade     bool

	rootCmd = &cobra.Command{
		Use:   "clipvox",
		Short: "Sentence-mixing speech synthesis from clip banks",
		Long: paragraph(
			fmt.Sprintf("\nAssemble spoken sentences from %s of pre-recorded word and phoneme clips.", keyword("voice banks")),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
	}
)

var renderCmd = &cobra.Command{
	Use:   "render <voice> <text>...",
	Short: "Render text to a WAV file",
	Long: paragraph(
		fmt.Sprintf("\n%s text with a voice bank and write the result as a WAV file.", keyword("Render")),
	),
	Example: paragraph("clipvox render gman \"hello there\" -o hello.wav"),
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := buildPipeline(synth.RenderProfile())
		if err != nil {
			return err
		}

		voice, text := args[0], strings.Join(args[1:], " ")
		res, err := pipeline.renderer.RenderFile(voice, text, outputPath)
		if errors.Is(err, synth.ErrNothingToRender) {
			fmt.Fprintln(os.Stderr, "Nothing to render: no voiced words resolved.")
			return nil
		}
		if err != nil {
			return err
		}

		for _, d := range res.Diagnostics {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", d.Kind, d.Label)
		}
		fmt.Printf("Wrote %s (%s)\n", outputPath, humanize.Bytes(uint64(len(res.PCM))))
		return nil
	},
}

var speakCmd = &cobra.Command{
	Use:   "speak <voice> <text>...",
	Short: "Speak text through the default audio device",
	Long: paragraph(
		fmt.Sprintf("\n%s text with a voice bank through the default audio device.", keyword("Speak")),
	),
	Example: paragraph("clipvox speak gman \"rise and shine\""),
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := buildPipeline(synth.PlaybackProfile())
		if err != nil {
			return err
		}

		dev, err := audio.OpenDevice(log.Default())
		if err != nil {
			return err
		}
		speaker := audio.NewSpeaker(pipeline.renderer, dev, log.Default())

		voice, text := args[0], strings.Join(args[1:], " ")
		done := speaker.Speak(voice, text)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		defer signal.Stop(sig)

		select {
		case err := <-done:
			if errors.Is(err, synth.ErrNothingToRender) {
				fmt.Fprintln(os.Stderr, "Nothing to speak: no voiced words resolved.")
				return nil
			}
			return err
		case <-sig:
			speaker.Stop()
			<-done
			return nil
		}
	},
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List installed voice banks",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		pipeline, err := buildPipeline(synth.RenderProfile())
		if err != nil {
			return err
		}

		voices, err := pipeline.library.ListVoices()
		if err != nil {
			return err
		}
		if len(voices) == 0 {
			fmt.Printf("No voice banks found in %s\n", pipeline.cfg.BanksDir)
			return nil
		}

		styled := term.IsTerminal(int(os.Stdout.Fd()))
		for _, v := range voices {
			if styled {
				fmt.Println(keyword(v))
			} else {
				fmt.Println(v)
			}
		}
		return nil
	},
}

// pipeline bundles everything a command needs to synthesize speech.
type pipeline struct {
	cfg      synth.Config
	library  *bank.Library
	renderer *synth.Renderer
}

func buildPipeline(profile synth.PipelineConfig) (*pipeline, error) {
	cfg, err := synth.LoadConfigFromViper()
	if err != nil {
		return nil, err
	}

	// Unset pipeline keys keep the per-command profile values.
	if !viper.IsSet("pipeline.pauses.terminal") {
		cfg.Pipeline.Pauses.Terminal = profile.Pauses.Terminal
	}
	if !viper.IsSet("pipeline.fade_duration") {
		cfg.Pipeline.FadeDuration = profile.FadeDuration
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if banksDir != "" {
		cfg.BanksDir = banksDir
	}
	if seedFlag != 0 {
		cfg.Seed = seedFlag
	}
	if noFade {
		cfg.Pipeline.CrossfadeEnabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var selector bank.Selector
	if cfg.Seed != 0 {
		selector = bank.NewSeededSelector(cfg.Seed)
	}

	phonemizer := g2p.New()
	if cfg.DictPath != "" {
		phonemizer, err = g2p.NewFromFile(cfg.DictPath)
		if err != nil {
			return nil, fmt.Errorf("unable to load pronunciation dictionary: %w", err)
		}
	}

	library := bank.NewLibrary(cfg.BanksDir, selector, cache.New(cfg.CacheSize), log.Default())
	resolver := phoneme.NewResolver(library, phonemizer, synth.DefaultFallbackTable(), cfg.Pipeline.WordFirstLookup, log.Default())
	renderer := synth.NewRenderer(cfg, resolver, log.Default())

	return &pipeline{cfg: cfg, library: library, renderer: renderer}, nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&banksDir, "banks", "b", "", "directory containing voice banks")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "seed for variant selection (0 for random)")
	rootCmd.PersistentFlags().BoolVar(&noFade, "no-fade", false, "disable consonant-to-vowel crossfading")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "out.wav", "output WAV path")

	_ = viper.BindPFlag("banks_dir", rootCmd.PersistentFlags().Lookup("banks"))
	_ = viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))

	rootCmd.AddCommand(renderCmd, speakCmd, voicesCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "clipvox")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "clipvox")}, dirs...)
	}

	if c := os.Getenv("CLIPVOX_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("clipvox")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("clipvox")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "clipvox.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
