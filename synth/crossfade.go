package synth

import (
	"bytes"
	"time"

	"github.com/clipvox/clipvox/synth/dsp"
)

// applyCrossfades concatenates segments in order, blending each
// consonant-to-vowel boundary with complementary linear amplitude ramps.
//
// One forward pass, looking ahead one segment. When segment i is a
// consonant and segment i+1 a vowel, the tail of i and the head of i+1 are
// mixed and the consumed head is truncated from i+1 in place so it is never
// played twice. A segment can therefore lose its head at most once (to its
// predecessor) and its tail at most once (to its successor).
//
// Segments must already carry the target format. The segment slice is
// consumed: i+1 buffers are truncated as fades are applied.
func applyCrossfades(segments []Segment, fade time.Duration, format dsp.Format) []byte {
	var out bytes.Buffer
	for i := range segments {
		cur := &segments[i]
		if fade > 0 && cur.Class == ClassConsonant && i+1 < len(segments) && segments[i+1].Class == ClassVowel {
			next := &segments[i+1]
			faded, rest := crossfadePair(cur.PCM, next.PCM, fade, format)
			out.Write(faded)
			next.PCM = rest
			continue
		}
		out.Write(cur.PCM)
	}
	return out.Bytes()
}

// crossfadePair blends the tail of cur into the head of next. It returns
// cur with its tail replaced by the mix, and next minus the consumed head.
// If the computed window is empty both buffers pass through untouched.
func crossfadePair(cur, next []byte, fade time.Duration, format dsp.Format) ([]byte, []byte) {
	window := int(fade.Seconds()*float64(format.Rate)) * format.Width
	if window > len(cur) {
		window = len(cur)
	}
	if window > len(next) {
		window = len(next)
	}
	window -= window % format.FrameSize()
	if window <= 0 {
		return cur, next
	}

	head := len(cur) - window
	frames := window / format.Width
	out := make([]byte, len(cur))
	copy(out, cur[:head])
	for k := 0; k < frames; k++ {
		gainOut := 1.0 - float64(k)/float64(frames)
		gainIn := float64(k) / float64(frames)
		a := float64(dsp.Sample16(cur, head+k*format.Width)) * gainOut
		b := float64(dsp.Sample16(next, k*format.Width)) * gainIn
		dsp.PutSample16(out, head+k*format.Width, dsp.Clamp16(int(a)+int(b)))
	}
	return out, next[window:]
}
