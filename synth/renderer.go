package synth

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"golang.org/x/text/unicode/norm"

	"github.com/clipvox/clipvox/synth/dsp"
	"github.com/clipvox/clipvox/synth/token"
)

// Renderer orchestrates the full pipeline: tokenize, resolve, pause
// insertion, crossfade, and assembly. One Render call owns its entire
// segment list and output buffer; independent calls may run concurrently.
type Renderer struct {
	cfg      Config
	resolver WordResolver
	logger   *log.Logger
}

// NewRenderer creates a renderer over the given word resolver.
func NewRenderer(cfg Config, resolver WordResolver, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{cfg: cfg, resolver: resolver, logger: logger}
}

// Render synthesizes text against a voice and returns the assembled PCM
// buffer in the target format. It returns ErrNothingToRender when no token
// resolved to any playable audio; pauses alone do not count as audio.
func (r *Renderer) Render(voice, text string) (*Result, error) {
	start := time.Now()
	tokens := token.Tokenize(norm.NFKC.String(text))

	pipeline := r.cfg.Pipeline
	format := TargetFormat()
	var (
		segments []Segment
		diags    []Diagnostic
		voiced   bool
	)
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenTerminal:
			segments = append(segments, silence(pipeline.Pauses.Terminal, format))
		case TokenComma:
			segments = append(segments, silence(pipeline.Pauses.Comma, format))
		default:
			resolved, ds := r.resolver.ResolveWord(voice, tok.Text)
			diags = append(diags, ds...)
			for _, seg := range resolved {
				if len(seg.PCM) > 0 {
					voiced = true
				}
				segments = append(segments, seg)
			}
			segments = append(segments, silence(pipeline.Pauses.Word, format))
		}
	}

	for _, d := range diags {
		switch d.Kind {
		case CorruptClip:
			r.logger.Warn("skipping unreadable clip", "label", d.Label, "path", d.Path, "error", d.Err)
		default:
			r.logger.Warn("missing recording", "label", d.Label, "voice", voice)
		}
	}

	if !voiced {
		return &Result{Format: format, Diagnostics: diags}, ErrNothingToRender
	}

	fade := pipeline.FadeDuration
	if !pipeline.CrossfadeEnabled {
		fade = 0
	}
	pcm := applyCrossfades(segments, fade, format)

	r.logger.Debug("render complete",
		"voice", voice,
		"tokens", len(tokens),
		"segments", len(segments),
		"bytes", len(pcm),
		"elapsed", time.Since(start))

	return &Result{
		PCM:         pcm,
		Format:      format,
		Diagnostics: diags,
		Segments:    len(segments),
	}, nil
}

// RenderFile renders text and writes the result to path as a canonical
// mono 16-bit 44.1 kHz WAV file. Nothing is written when the render is
// empty; ErrNothingToRender is returned instead.
func (r *Renderer) RenderFile(voice, text, path string) (*Result, error) {
	result, err := r.Render(voice, text)
	if err != nil {
		return result, err
	}

	f, err := os.Create(path)
	if err != nil {
		return result, NewSynthError(fmt.Errorf("%w: %v", ErrOutputWrite, err), "renderer", "create output")
	}
	defer f.Close() //nolint:errcheck

	if err := WriteWAV(f, result.PCM); err != nil {
		return result, NewSynthError(fmt.Errorf("%w: %v", ErrOutputWrite, err), "renderer", "write output")
	}
	return result, nil
}

// WriteWAV wraps target-format PCM in a WAV container.
func WriteWAV(w io.WriteSeeker, pcm []byte) error {
	enc := wav.NewEncoder(w, SampleRate, BitDepth, Channels, 1)
	data := make([]int, len(pcm)/BytesPerSample)
	for i := range data {
		data[i] = int(dsp.Sample16(pcm, i*BytesPerSample))
	}
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: Channels, SampleRate: SampleRate},
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// silence builds a pause segment of the given duration in format f.
func silence(d time.Duration, f dsp.Format) Segment {
	return Segment{PCM: make([]byte, f.BytesFor(d)), Class: ClassPause, Label: "pause"}
}
