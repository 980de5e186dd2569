// Package bank resolves phoneme labels and words to recordings in a voice
// bank on disk, and decodes them to raw PCM.
//
// A voice bank is a directory per voice:
//
//	<root>/<voice>/<PHONEME>.wav      phoneme recordings
//	<root>/<voice>/<PHONEME>_<n>.wav  interchangeable variants
//	<root>/<voice>/words/<WORD>.wav   whole-word recordings (and variants)
//
// Filenames match case-insensitively; the numeric suffix only
// disambiguates variants of the same sound.
package bank

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-audio/wav"

	"github.com/clipvox/clipvox/internal/cache"
)

// Library resolves clips against a banks root directory.
type Library struct {
	root     string
	selector Selector
	clips    *cache.ClipCache
	logger   *log.Logger
}

// NewLibrary creates a clip library. A nil selector falls back to uniform
// random selection; a nil cache disables clip caching.
func NewLibrary(root string, selector Selector, clips *cache.ClipCache, logger *log.Logger) *Library {
	if selector == nil {
		selector = NewUniformSelector()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Library{root: root, selector: selector, clips: clips, logger: logger}
}

// VoiceRoot returns the directory for a voice. A voice containing a path
// separator (or an absolute path) is used as a bank root directly, so
// callers can point at banks outside the configured root.
func (l *Library) VoiceRoot(voice string) string {
	if filepath.IsAbs(voice) || strings.ContainsRune(voice, os.PathSeparator) {
		return voice
	}
	return filepath.Join(l.root, voice)
}

// ListVoices returns the voice names available under the banks root.
func (l *Library) ListVoices() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("reading banks dir: %w", err)
	}
	var voices []string
	for _, e := range entries {
		if e.IsDir() {
			voices = append(voices, e.Name())
		}
	}
	sort.Strings(voices)
	return voices, nil
}

// ResolvePhoneme finds a recording for a phoneme label, picking one variant
// at random. The second return is false when no recording exists; that is
// an expected outcome, not an error.
func (l *Library) ResolvePhoneme(voice, label string) (string, bool) {
	return l.pickVariant(l.VoiceRoot(voice), label)
}

// ResolveWord finds a whole-word recording under words/, matching the word
// case-insensitively via its uppercase base name.
func (l *Library) ResolveWord(voice, word string) (string, bool) {
	return l.pickVariant(filepath.Join(l.VoiceRoot(voice), "words"), strings.ToUpper(word))
}

// pickVariant lists dir for files named base.wav or base_<n>.wav
// (case-insensitive) and selects one.
func (l *Library) pickVariant(dir, base string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	pattern := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(base) + `(_\d+)?\.wav$`)
	var candidates []string
	for _, e := range entries {
		if !e.IsDir() && pattern.MatchString(e.Name()) {
			candidates = append(candidates, e.Name())
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	name := candidates[l.selector.Pick(len(candidates))]
	l.logger.Debug("picked variant", "base", base, "file", name, "variants", len(candidates))
	return filepath.Join(dir, name), true
}

// LoadClip reads and decodes a WAV recording, returning raw PCM in the
// file's own format. Decoded clips are cached by path.
func (l *Library) LoadClip(path string) (cache.Clip, error) {
	if clip, ok := l.clips.Get(path); ok {
		return clip, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cache.Clip{}, fmt.Errorf("opening clip: %w", err)
	}
	defer f.Close() //nolint:errcheck

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return cache.Clip{}, fmt.Errorf("decoding clip %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate < 1 {
		return cache.Clip{}, fmt.Errorf("decoding clip %s: missing format", path)
	}

	clip, err := bufferToClip(buf.Data, buf.Format.NumChannels, buf.Format.SampleRate, int(dec.BitDepth))
	if err != nil {
		return cache.Clip{}, fmt.Errorf("decoding clip %s: %w", path, err)
	}
	l.clips.Put(path, clip)
	return clip, nil
}

// bufferToClip converts decoded integer samples to raw little-endian PCM.
// 8-bit WAV is unsigned on disk and is re-biased to signed here; depths
// above 16 bits are scaled down to 16.
func bufferToClip(data []int, channels, rate, bitDepth int) (cache.Clip, error) {
	switch bitDepth {
	case 8:
		pcm := make([]byte, len(data))
		for i, v := range data {
			pcm[i] = byte(int8(v - 128))
		}
		return cache.Clip{PCM: pcm, Channels: channels, Width: 1, Rate: rate}, nil
	case 16, 24, 32:
		shift := uint(bitDepth - 16)
		pcm := make([]byte, len(data)*2)
		for i, v := range data {
			s := v >> shift
			pcm[i*2] = byte(s)
			pcm[i*2+1] = byte(s >> 8)
		}
		return cache.Clip{PCM: pcm, Channels: channels, Width: 2, Rate: rate}, nil
	default:
		return cache.Clip{}, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
}
