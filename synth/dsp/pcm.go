// Package dsp provides the PCM format conversions the synthesis pipeline
// relies on: channel downmixing, sample-width rescaling, and linear
// resampling. All functions are pure and operate on raw little-endian PCM.
package dsp

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Format describes raw PCM audio: interleaved channels of signed
// little-endian samples, Width bytes per sample.
type Format struct {
	Channels int
	Width    int // bytes per sample (1 or 2)
	Rate     int // sample rate in Hz
}

// FrameSize returns the number of bytes in one frame (one sample per channel).
func (f Format) FrameSize() int {
	return f.Width * f.Channels
}

// Duration returns the playing time of n bytes of audio in this format.
func (f Format) Duration(n int) time.Duration {
	if f.Rate == 0 || f.FrameSize() == 0 {
		return 0
	}
	frames := n / f.FrameSize()
	return time.Duration(float64(frames) / float64(f.Rate) * float64(time.Second))
}

// BytesFor returns the byte length of d worth of audio in this format,
// rounded down to a whole frame.
func (f Format) BytesFor(d time.Duration) int {
	frames := int(d.Seconds() * float64(f.Rate))
	return frames * f.FrameSize()
}

// Validate checks that the format is one the pipeline can process.
func (f Format) Validate() error {
	if f.Channels < 1 {
		return fmt.Errorf("invalid channel count %d", f.Channels)
	}
	if f.Width != 1 && f.Width != 2 {
		return fmt.Errorf("unsupported sample width %d bytes", f.Width)
	}
	if f.Rate <= 0 {
		return fmt.Errorf("invalid sample rate %d", f.Rate)
	}
	return nil
}

// Normalize converts pcm from src format to dst format. Conversion order is
// channels, then width, then rate, so resampling always runs on mono samples
// already at the target width. When src == dst the input is returned
// unchanged, byte for byte.
func Normalize(pcm []byte, src, dst Format) ([]byte, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("source format: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return nil, fmt.Errorf("target format: %w", err)
	}
	if dst.Channels != 1 {
		return nil, fmt.Errorf("unsupported target channel count %d", dst.Channels)
	}
	if src == dst {
		return pcm, nil
	}

	out := pcm
	if src.Channels > 1 {
		out = Downmix(out, src.Channels, src.Width)
	}
	if src.Width != dst.Width {
		out = ConvertWidth(out, src.Width, dst.Width)
	}
	if src.Rate != dst.Rate {
		out = Resample(out, dst.Width, src.Rate, dst.Rate)
	}
	return out, nil
}

// Downmix reduces interleaved multi-channel audio to mono by averaging the
// channels of each frame with equal weight.
func Downmix(pcm []byte, channels, width int) []byte {
	if channels <= 1 {
		return pcm
	}
	frameSize := channels * width
	frames := len(pcm) / frameSize
	out := make([]byte, frames*width)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += readSample(pcm[i*frameSize+c*width:], width)
		}
		writeSample(out[i*width:], sum/channels, width)
	}
	return out
}

// ConvertWidth rescales samples between 8-bit and 16-bit signed PCM. The
// rescale is a plain bit shift, preserving relative amplitude; no dithering.
func ConvertWidth(pcm []byte, from, to int) []byte {
	if from == to {
		return pcm
	}
	samples := len(pcm) / from
	out := make([]byte, samples*to)
	for i := 0; i < samples; i++ {
		v := readSample(pcm[i*from:], from)
		if from < to {
			v <<= 8 * (to - from)
		} else {
			v >>= 8 * (from - to)
		}
		writeSample(out[i*to:], v, to)
	}
	return out
}

// Resample converts mono audio from rate src to rate dst using linear
// interpolation between neighboring samples.
func Resample(pcm []byte, width, src, dst int) []byte {
	if src == dst {
		return pcm
	}
	in := len(pcm) / width
	if in == 0 {
		return nil
	}
	n := int(float64(in) * float64(dst) / float64(src))
	out := make([]byte, n*width)
	ratio := float64(src) / float64(dst)
	for i := 0; i < n; i++ {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= in-1 {
			writeSample(out[i*width:], readSample(pcm[(in-1)*width:], width), width)
			continue
		}
		frac := pos - float64(j)
		a := float64(readSample(pcm[j*width:], width))
		b := float64(readSample(pcm[(j+1)*width:], width))
		writeSample(out[i*width:], int(a+(b-a)*frac), width)
	}
	return out
}

// Sample16 reads the little-endian signed 16-bit sample at off.
func Sample16(pcm []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(pcm[off:]))
}

// PutSample16 writes a signed 16-bit sample at off, little-endian.
func PutSample16(pcm []byte, off int, v int16) {
	binary.LittleEndian.PutUint16(pcm[off:], uint16(v))
}

// Clamp16 saturates v to the signed 16-bit range.
func Clamp16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func readSample(pcm []byte, width int) int {
	if width == 1 {
		return int(int8(pcm[0]))
	}
	return int(int16(binary.LittleEndian.Uint16(pcm)))
}

func writeSample(pcm []byte, v, width int) {
	if width == 1 {
		if v > 127 {
			v = 127
		} else if v < -128 {
			v = -128
		}
		pcm[0] = byte(int8(v))
		return
	}
	binary.LittleEndian.PutUint16(pcm, uint16(Clamp16(v)))
}
