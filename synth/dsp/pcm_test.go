package dsp

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func samples16(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return out
}

func TestFormat_FrameSize(t *testing.T) {
	f := Format{Channels: 2, Width: 2, Rate: 44100}
	if f.FrameSize() != 4 {
		t.Errorf("expected frame size 4, got %d", f.FrameSize())
	}
}

func TestFormat_BytesFor(t *testing.T) {
	f := Format{Channels: 1, Width: 2, Rate: 44100}

	tests := []struct {
		name     string
		duration time.Duration
		expected int
	}{
		{"one second", time.Second, 88200},
		{"ten milliseconds", 10 * time.Millisecond, 882},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.BytesFor(tt.duration); got != tt.expected {
				t.Errorf("BytesFor(%v) = %d, want %d", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestFormat_BytesFor_WholeFrames(t *testing.T) {
	f := Format{Channels: 1, Width: 2, Rate: 44100}
	n := f.BytesFor(3 * time.Millisecond)
	if n%f.FrameSize() != 0 {
		t.Errorf("byte count %d is not a whole number of frames", n)
	}
}

func TestFormat_Validate(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"target format", Format{Channels: 1, Width: 2, Rate: 44100}, false},
		{"stereo 8-bit", Format{Channels: 2, Width: 1, Rate: 22050}, false},
		{"zero channels", Format{Channels: 0, Width: 2, Rate: 44100}, true},
		{"bad width", Format{Channels: 1, Width: 3, Rate: 44100}, true},
		{"zero rate", Format{Channels: 1, Width: 2, Rate: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDownmix_Stereo(t *testing.T) {
	// Two stereo frames: (100, 200) and (-50, 50).
	in := pcm16(100, 200, -50, 50)
	out := Downmix(in, 2, 2)

	got := samples16(out)
	want := []int16{150, 0}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDownmix_MonoPassthrough(t *testing.T) {
	in := pcm16(1, 2, 3)
	out := Downmix(in, 1, 2)
	if !bytes.Equal(in, out) {
		t.Error("mono input should pass through unchanged")
	}
}

func TestConvertWidth_8To16(t *testing.T) {
	neg := int8(-64)
	in := []byte{byte(int8(64)), byte(neg)}
	out := ConvertWidth(in, 1, 2)

	got := samples16(out)
	want := []int16{64 << 8, -64 << 8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestConvertWidth_16To8(t *testing.T) {
	in := pcm16(256, -512)
	out := ConvertWidth(in, 2, 1)
	if int8(out[0]) != 1 || int8(out[1]) != -2 {
		t.Errorf("got (%d, %d), want (1, -2)", int8(out[0]), int8(out[1]))
	}
}

func TestResample_Upsample(t *testing.T) {
	in := pcm16(0, 100)
	out := Resample(in, 2, 22050, 44100)

	got := samples16(out)
	if len(got) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(got))
	}
	// Interpolated midpoint between 0 and 100.
	if got[1] != 50 {
		t.Errorf("interpolated sample: got %d, want 50", got[1])
	}
	// Positions past the last input sample hold its value.
	if got[3] != 100 {
		t.Errorf("tail sample: got %d, want 100", got[3])
	}
}

func TestResample_Downsample(t *testing.T) {
	in := pcm16(0, 10, 20, 30)
	out := Resample(in, 2, 44100, 22050)

	got := samples16(out)
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[0] != 0 || got[1] != 20 {
		t.Errorf("got %v, want [0 20]", got)
	}
}

func TestResample_SameRate(t *testing.T) {
	in := pcm16(1, 2, 3)
	out := Resample(in, 2, 44100, 44100)
	if !bytes.Equal(in, out) {
		t.Error("same-rate input should pass through unchanged")
	}
}

func TestNormalize_Identity(t *testing.T) {
	f := Format{Channels: 1, Width: 2, Rate: 44100}
	in := pcm16(5, -5, 10)
	out, err := Normalize(in, f, f)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Error("identical formats must return the input byte for byte")
	}
}

func TestNormalize_FullConversion(t *testing.T) {
	// Stereo 8-bit 22050 Hz down to mono 16-bit 44100 Hz.
	src := Format{Channels: 2, Width: 1, Rate: 22050}
	dst := Format{Channels: 1, Width: 2, Rate: 44100}

	neg := int8(-20)
	in := []byte{byte(int8(10)), byte(int8(30)), byte(neg), byte(int8(20))}
	out, err := Normalize(in, src, dst)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	got := samples16(out)
	if len(got) != 4 {
		t.Fatalf("expected 4 samples after resampling, got %d", len(got))
	}
	// First frame averages to 20, widened to 16 bits.
	if got[0] != 20<<8 {
		t.Errorf("first sample: got %d, want %d", got[0], 20<<8)
	}
}

func TestNormalize_RejectsStereoTarget(t *testing.T) {
	src := Format{Channels: 1, Width: 2, Rate: 44100}
	dst := Format{Channels: 2, Width: 2, Rate: 44100}
	if _, err := Normalize(nil, src, dst); err == nil {
		t.Error("expected error for multi-channel target")
	}
}

func TestNormalize_RejectsInvalidSource(t *testing.T) {
	src := Format{Channels: 0, Width: 2, Rate: 44100}
	dst := Format{Channels: 1, Width: 2, Rate: 44100}
	if _, err := Normalize(nil, src, dst); err == nil {
		t.Error("expected error for invalid source format")
	}
}

func TestClamp16(t *testing.T) {
	tests := []struct {
		in   int
		want int16
	}{
		{40000, 32767},
		{-40000, -32768},
		{123, 123},
		{-123, -123},
	}
	for _, tt := range tests {
		if got := Clamp16(tt.in); got != tt.want {
			t.Errorf("Clamp16(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
