// Package phoneme resolves word tokens to phoneme clip audio, with
// fallback substitution for phonemes the voice bank does not cover.
package phoneme

import (
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/clipvox/clipvox/synth"
	"github.com/clipvox/clipvox/synth/bank"
	"github.com/clipvox/clipvox/synth/dsp"
)

// reducedVowelMarker is the one label kept with its stress digit: AH0
// denotes a schwa, synthesized by shortening a neighboring full vowel
// rather than played from its own recording.
const (
	reducedVowelMarker   = "AH0"
	reducedVowelNeighbor = "EH"
	clearOpenVowel       = "AA"
)

var (
	// labelRegex admits ARPAbet-like labels with optional stress digits;
	// anything else from the phonemizer is noise.
	labelRegex     = regexp.MustCompile(`^[A-Z]+[0-9]*$`)
	trailingDigits = regexp.MustCompile(`[0-9]+$`)

	// vowels is the fixed set used to classify segments for crossfading.
	vowels = map[string]bool{
		"AA": true, "AE": true, "AH": true, "AO": true, "AW": true,
		"AY": true, "EH": true, "ER": true, "EY": true, "IH": true,
		"IY": true, "OW": true, "OY": true, "UH": true, "UW": true,
	}
)

// Resolver turns a word into normalized phoneme segments using a clip
// library, a phonemizer, and a fallback substitution table.
type Resolver struct {
	lib       *bank.Library
	g2p       synth.Phonemizer
	table     map[string][]string
	wordFirst bool
	logger    *log.Logger
}

// NewResolver creates a resolver. A nil table uses the default fallback
// substitutions.
func NewResolver(lib *bank.Library, g2p synth.Phonemizer, table map[string][]string, wordFirst bool, logger *log.Logger) *Resolver {
	if table == nil {
		table = synth.DefaultFallbackTable()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{lib: lib, g2p: g2p, table: table, wordFirst: wordFirst, logger: logger}
}

// ResolveWord implements synth.WordResolver. A whole-word recording, when
// present, is the single segment for the word and is never crossfaded.
// Otherwise the word is phonemized and each label resolved individually;
// labels that resolve to nothing are skipped and reported as diagnostics.
func (r *Resolver) ResolveWord(voice, word string) ([]synth.Segment, []synth.Diagnostic) {
	var diags []synth.Diagnostic

	if r.wordFirst {
		if path, ok := r.lib.ResolveWord(voice, word); ok {
			pcm, err := r.loadNormalized(path)
			if err == nil {
				return []synth.Segment{{PCM: pcm, Class: synth.ClassWord, Label: word}}, nil
			}
			// Unreadable word clip: report it and fall back to
			// phoneme synthesis for the word.
			diags = append(diags, synth.Diagnostic{Kind: synth.CorruptClip, Label: word, Path: path, Err: err})
		}
	}

	labels := cleanLabels(r.g2p.Phonemize(word))
	if len(labels) == 0 {
		return nil, diags
	}

	// Reduced and near-open vowels sound poor in isolation at utterance
	// end; swap the final one for the clear open vowel.
	switch labels[len(labels)-1] {
	case "AH", "AE", reducedVowelMarker:
		labels[len(labels)-1] = clearOpenVowel
	}

	var segments []synth.Segment
	for _, label := range labels {
		pcm, ok, ds := r.resolveOne(voice, label, map[string]bool{})
		diags = append(diags, ds...)
		if !ok {
			continue
		}
		segments = append(segments, synth.Segment{PCM: pcm, Class: classify(label), Label: label})
	}
	return segments, diags
}

// resolveOne resolves a single phoneme label to normalized PCM. visited
// tracks labels already being expanded in this attempt so a cycle in an
// edited fallback table fails closed as a missing asset instead of
// recursing forever.
func (r *Resolver) resolveOne(voice, label string, visited map[string]bool) ([]byte, bool, []synth.Diagnostic) {
	if visited[label] {
		r.logger.Warn("fallback cycle detected", "label", label)
		return nil, false, []synth.Diagnostic{{Kind: synth.MissingAsset, Label: label}}
	}
	visited[label] = true

	if label == reducedVowelMarker {
		pcm, ok, diags := r.resolveOne(voice, reducedVowelNeighbor, visited)
		if !ok {
			return nil, false, diags
		}
		return trimEdges(pcm, synth.TargetFormat().FrameSize()), true, diags
	}

	var diags []synth.Diagnostic
	if path, ok := r.lib.ResolvePhoneme(voice, label); ok {
		pcm, err := r.loadNormalized(path)
		if err == nil {
			return pcm, true, diags
		}
		diags = append(diags, synth.Diagnostic{Kind: synth.CorruptClip, Label: label, Path: path, Err: err})
	}

	if subs, ok := r.table[label]; ok {
		var combined []byte
		resolved := false
		for _, sub := range subs {
			pcm, ok, ds := r.resolveOne(voice, sub, visited)
			diags = append(diags, ds...)
			if ok {
				// Substitutes are concatenated, not crossfaded.
				combined = append(combined, pcm...)
				resolved = true
			}
		}
		if resolved {
			return combined, true, diags
		}
		return nil, false, diags
	}

	diags = append(diags, synth.Diagnostic{Kind: synth.MissingAsset, Label: label})
	return nil, false, diags
}

// loadNormalized loads a clip and converts it to the pipeline format.
func (r *Resolver) loadNormalized(path string) ([]byte, error) {
	clip, err := r.lib.LoadClip(path)
	if err != nil {
		return nil, err
	}
	src := dsp.Format{Channels: clip.Channels, Width: clip.Width, Rate: clip.Rate}
	return dsp.Normalize(clip.PCM, src, synth.TargetFormat())
}

// cleanLabels filters phonemizer noise and strips stress digits, keeping
// the reduced-vowel marker distinct from plain AH.
func cleanLabels(raw []string) []string {
	var labels []string
	for _, l := range raw {
		if !labelRegex.MatchString(l) {
			continue
		}
		if l == reducedVowelMarker {
			labels = append(labels, l)
			continue
		}
		labels = append(labels, trailingDigits.ReplaceAllString(l, ""))
	}
	return labels
}

// trimEdges drops one frame from each end of pcm, approximating a
// shortened unstressed realization. The clip is returned untrimmed when it
// is too short to survive the trim.
func trimEdges(pcm []byte, frame int) []byte {
	if len(pcm) > frame*2 {
		return pcm[frame : len(pcm)-frame]
	}
	return pcm
}

// classify maps a clean label to its crossfade class. The reduced-vowel
// marker is not in the vowel set, so it classifies as a consonant and is
// eligible to fade into a following vowel.
func classify(label string) synth.SegmentClass {
	if vowels[label] {
		return synth.ClassVowel
	}
	return synth.ClassConsonant
}
