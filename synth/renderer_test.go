package synth

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-audio/wav"
)

// stubResolver maps lowercased words to canned segments.
type stubResolver struct {
	words map[string][]Segment
	diags map[string][]Diagnostic
}

func (s *stubResolver) ResolveWord(_, word string) ([]Segment, []Diagnostic) {
	key := strings.ToLower(word)
	return s.words[key], s.diags[key]
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Pipeline.CrossfadeEnabled = false
	return cfg
}

func voicedSegment(frames int, class SegmentClass, label string) Segment {
	pcm := make([]byte, frames*BytesPerSample)
	for i := 0; i < frames; i++ {
		pcm[i*2] = 1
	}
	return Segment{PCM: pcm, Class: class, Label: label}
}

func TestRenderer_PauseLayout(t *testing.T) {
	format := TargetFormat()
	wordLen := 100 * BytesPerSample

	resolver := &stubResolver{words: map[string][]Segment{
		"um":  {voicedSegment(100, ClassWord, "um")},
		"yes": {voicedSegment(100, ClassWord, "yes")},
	}}
	r := NewRenderer(testConfig(), resolver, quietLogger())

	res, err := r.Render("v", "Um, yes.")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	cfg := testConfig()
	wordPause := format.BytesFor(cfg.Pipeline.Pauses.Word)
	commaPause := format.BytesFor(cfg.Pipeline.Pauses.Comma)
	terminalPause := format.BytesFor(cfg.Pipeline.Pauses.Terminal)

	// um, word pause, comma pause, yes, word pause, terminal pause.
	want := wordLen + wordPause + commaPause + wordLen + wordPause + terminalPause
	if len(res.PCM) != want {
		t.Errorf("buffer length: got %d, want %d", len(res.PCM), want)
	}
	if res.Segments != 6 {
		t.Errorf("segment count: got %d, want 6", res.Segments)
	}

	// The comma pause sits between the first word pause and "yes": the
	// bytes there must be silence.
	commaStart := wordLen + wordPause
	for i := commaStart; i < commaStart+commaPause; i++ {
		if res.PCM[i] != 0 {
			t.Fatalf("expected silence at byte %d", i)
		}
	}
}

func TestRenderer_NothingToRender(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"whitespace", "   "},
		{"punctuation only", "... !!"},
		{"unresolvable words", "xyzzy plugh"},
	}

	resolver := &stubResolver{}
	r := NewRenderer(testConfig(), resolver, quietLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Render("v", tt.input)
			if !errors.Is(err, ErrNothingToRender) {
				t.Fatalf("expected ErrNothingToRender, got %v", err)
			}
			if !res.Empty() {
				t.Error("result should carry no audio")
			}
		})
	}
}

func TestRenderer_PartialWordStillRenders(t *testing.T) {
	resolver := &stubResolver{
		words: map[string][]Segment{
			"yes": {voicedSegment(100, ClassWord, "yes")},
		},
		diags: map[string][]Diagnostic{
			"xyzzy": {{Kind: MissingAsset, Label: "XY"}},
		},
	}
	r := NewRenderer(testConfig(), resolver, quietLogger())

	res, err := r.Render("v", "xyzzy yes")
	if err != nil {
		t.Fatalf("one resolvable word should render: %v", err)
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("expected 1 diagnostic, got %d", len(res.Diagnostics))
	}
	if res.Empty() {
		t.Error("expected audio from the resolvable word")
	}
}

func TestRenderer_DiagnosticsWithoutAudio(t *testing.T) {
	resolver := &stubResolver{
		diags: map[string][]Diagnostic{
			"xyzzy": {{Kind: MissingAsset, Label: "XY"}},
		},
	}
	r := NewRenderer(testConfig(), resolver, quietLogger())

	res, err := r.Render("v", "xyzzy.")
	if !errors.Is(err, ErrNothingToRender) {
		t.Fatalf("expected ErrNothingToRender, got %v", err)
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("diagnostics must survive an empty render, got %d", len(res.Diagnostics))
	}
}

func TestRenderer_CrossfadeShortensBuffer(t *testing.T) {
	resolver := &stubResolver{words: map[string][]Segment{
		"lo": {
			voicedSegment(8820, ClassConsonant, "L"),
			voicedSegment(8820, ClassVowel, "OW"),
		},
	}}

	plainCfg := testConfig()
	plain := NewRenderer(plainCfg, resolver, quietLogger())
	plainRes, err := plain.Render("v", "lo")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	fadedCfg := testConfig()
	fadedCfg.Pipeline.CrossfadeEnabled = true
	faded := NewRenderer(fadedCfg, resolver, quietLogger())
	fadedRes, err := faded.Render("v", "lo")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// The fade consumes the vowel's head: 50ms at 44.1 kHz.
	window := TargetFormat().BytesFor(fadedCfg.Pipeline.FadeDuration)
	if len(plainRes.PCM)-len(fadedRes.PCM) != window {
		t.Errorf("faded buffer should be %d bytes shorter, got %d",
			window, len(plainRes.PCM)-len(fadedRes.PCM))
	}
}

func TestRenderer_UnicodeNormalization(t *testing.T) {
	resolver := &stubResolver{words: map[string][]Segment{
		"ﬁle": nil, // the ligature never reaches the resolver
		"file": {voicedSegment(100, ClassWord, "file")},
	}}
	r := NewRenderer(testConfig(), resolver, quietLogger())

	// U+FB01 LATIN SMALL LIGATURE FI decomposes to "fi" under NFKC.
	res, err := r.Render("v", "ﬁle")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.Empty() {
		t.Error("normalized input should resolve")
	}
}

func TestRenderFile_WritesDecodableWAV(t *testing.T) {
	resolver := &stubResolver{words: map[string][]Segment{
		"yes": {voicedSegment(441, ClassWord, "yes")},
	}}
	r := NewRenderer(testConfig(), resolver, quietLogger())

	path := filepath.Join(t.TempDir(), "out.wav")
	res, err := r.RenderFile("v", "yes", path)
	if err != nil {
		t.Fatalf("RenderFile failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("output is not decodable WAV: %v", err)
	}
	if buf.Format.SampleRate != SampleRate {
		t.Errorf("sample rate: got %d, want %d", buf.Format.SampleRate, SampleRate)
	}
	if buf.Format.NumChannels != Channels {
		t.Errorf("channels: got %d, want %d", buf.Format.NumChannels, Channels)
	}
	if len(buf.Data)*BytesPerSample != len(res.PCM) {
		t.Errorf("decoded %d samples, expected %d", len(buf.Data), len(res.PCM)/BytesPerSample)
	}
}

func TestRenderFile_NoFileOnEmptyRender(t *testing.T) {
	r := NewRenderer(testConfig(), &stubResolver{}, quietLogger())

	path := filepath.Join(t.TempDir(), "out.wav")
	_, err := r.RenderFile("v", "...", path)
	if !errors.Is(err, ErrNothingToRender) {
		t.Fatalf("expected ErrNothingToRender, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("no file may be written for an empty render")
	}
}

func TestRenderFile_OutputWriteError(t *testing.T) {
	resolver := &stubResolver{words: map[string][]Segment{
		"yes": {voicedSegment(100, ClassWord, "yes")},
	}}
	r := NewRenderer(testConfig(), resolver, quietLogger())

	_, err := r.RenderFile("v", "yes", filepath.Join(t.TempDir(), "no", "such", "dir", "out.wav"))
	if !errors.Is(err, ErrOutputWrite) {
		t.Fatalf("expected ErrOutputWrite, got %v", err)
	}
}
