package synth

import (
	"github.com/clipvox/clipvox/synth/dsp"
	"github.com/clipvox/clipvox/synth/token"
)

// TokenKind classifies a token produced by the tokenizer.
type TokenKind = token.Kind

const (
	// TokenWord is a run of word characters and apostrophes.
	TokenWord = token.Word
	// TokenTerminal is sentence-ending punctuation: . ! ?
	TokenTerminal = token.Terminal
	// TokenComma is clause punctuation: , ;
	TokenComma = token.Comma
)

// Token is one unit of tokenized input text.
type Token = token.Token

// SegmentClass determines how a segment participates in crossfading.
// Only a consonant followed directly by a vowel is blended; pauses and
// whole-word clips pass through untouched.
type SegmentClass int

const (
	// ClassPause is generated silence.
	ClassPause SegmentClass = iota
	// ClassWord is a whole-word recording, treated as an opaque unit.
	ClassWord
	// ClassConsonant is a resolved phoneme outside the vowel set.
	ClassConsonant
	// ClassVowel is a resolved phoneme in the vowel set.
	ClassVowel
)

// String returns a short name for the class, used in logs.
func (c SegmentClass) String() string {
	switch c {
	case ClassPause:
		return "pause"
	case ClassWord:
		return "word"
	case ClassConsonant:
		return "consonant"
	case ClassVowel:
		return "vowel"
	default:
		return "unknown"
	}
}

// Segment is one normalized unit of pipeline audio. PCM is always in the
// target format by the time a segment reaches the renderer's assembly step.
type Segment struct {
	PCM   []byte
	Class SegmentClass
	Label string // phoneme label or word text, for diagnostics
}

// Phonemizer turns a word into an ordered sequence of ARPAbet-like labels.
// Labels may carry trailing stress digits and the sequence may include
// non-phoneme noise; the resolver filters both.
type Phonemizer interface {
	Phonemize(word string) []string
}

// WordResolver resolves one word token into pipeline-format segments.
// A word that resolves to nothing returns no segments and one or more
// diagnostics; that is an expected outcome, not an error.
type WordResolver interface {
	ResolveWord(voice, word string) ([]Segment, []Diagnostic)
}

// DiagnosticKind classifies a non-fatal resolution problem.
type DiagnosticKind int

const (
	// MissingAsset means no recording exists for a phoneme or word, after
	// exhausting fallback substitutions.
	MissingAsset DiagnosticKind = iota
	// CorruptClip means a resolved recording could not be decoded.
	CorruptClip
)

// String returns a short name for the kind, used in logs.
func (k DiagnosticKind) String() string {
	switch k {
	case MissingAsset:
		return "missing asset"
	case CorruptClip:
		return "corrupt clip"
	default:
		return "unknown"
	}
}

// Diagnostic records a unit that was skipped during rendering.
type Diagnostic struct {
	Kind  DiagnosticKind
	Label string // phoneme label or word
	Path  string // offending file, when known
	Err   error  // decode error for CorruptClip
}

// Result is the product of one render call.
type Result struct {
	PCM         []byte
	Format      dsp.Format
	Diagnostics []Diagnostic
	Segments    int // segments assembled, pauses included
}

// Empty reports whether the render produced no audio at all.
func (r *Result) Empty() bool {
	return len(r.PCM) == 0
}
