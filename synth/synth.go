// Package synth assembles speech from a bank of pre-recorded word and
// phoneme clips. The renderer tokenizes input text, resolves each token to
// clip audio, normalizes every clip to the pipeline format, smooths
// consonant-to-vowel seams with a crossfade, and emits a single PCM buffer
// suitable for a WAV file or a playback device.
package synth

import "github.com/clipvox/clipvox/synth/dsp"

// Pipeline audio format. Every segment entering concatenation or
// crossfading carries exactly this format.
const (
	// SampleRate is the pipeline sample rate in Hz.
	SampleRate = 44100
	// Channels is the pipeline channel count (mono).
	Channels = 1
	// BitDepth is the bit depth per sample.
	BitDepth = 16
	// BytesPerSample is the byte width of one sample.
	BytesPerSample = BitDepth / 8
)

// TargetFormat returns the fixed pipeline format.
func TargetFormat() dsp.Format {
	return dsp.Format{Channels: Channels, Width: BytesPerSample, Rate: SampleRate}
}
