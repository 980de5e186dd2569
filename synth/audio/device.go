// Package audio plays rendered speech on the system output device.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"github.com/clipvox/clipvox/synth"
)

// Device plays one pipeline-format PCM buffer to completion or
// cancellation. Implementations must release the output stream on every
// exit path.
type Device interface {
	Play(ctx context.Context, pcm []byte) error
}

// The oto context is process-wide and cannot be torn down, so it is
// created once; each playback acquires and releases its own player.
var (
	otoCtx  *oto.Context
	otoOnce sync.Once
	otoErr  error
)

// OtoDevice is the real output device, fixed to the pipeline format.
type OtoDevice struct {
	logger *log.Logger
}

// OpenDevice initializes the audio output. A device that cannot be opened
// returns ErrDeviceUnavailable; later attempts in the same process report
// the same result.
func OpenDevice(logger *log.Logger) (*OtoDevice, error) {
	if logger == nil {
		logger = log.Default()
	}
	otoOnce.Do(func() {
		options := &oto.NewContextOptions{
			SampleRate:   synth.SampleRate,
			ChannelCount: synth.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		ctx, ready, err := oto.NewContext(options)
		if err != nil {
			otoErr = err
			return
		}
		select {
		case <-ready:
			otoCtx = ctx
		case <-time.After(5 * time.Second):
			otoErr = fmt.Errorf("device initialization timeout")
		}
	})
	if otoErr != nil {
		return nil, fmt.Errorf("%w: %v", synth.ErrDeviceUnavailable, otoErr)
	}
	logger.Debug("audio device ready", "sample_rate", synth.SampleRate, "channels", synth.Channels)
	return &OtoDevice{logger: logger}, nil
}

// Play streams pcm to the device and blocks until playback completes or
// ctx is canceled. The player is closed on every exit path.
func (d *OtoDevice) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return nil
	}
	player := otoCtx.NewPlayer(&cancelReader{ctx: ctx, r: bytes.NewReader(pcm)})
	defer player.Close() //nolint:errcheck

	player.Play()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return synth.ErrCanceled
		case <-ticker.C:
			if err := player.Err(); err != nil {
				return fmt.Errorf("playback: %w", err)
			}
			if !player.IsPlaying() {
				return nil
			}
		}
	}
}

// cancelReader stops feeding the device once ctx is canceled, bounding
// cancellation latency to one buffer chunk.
type cancelReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *cancelReader) Read(p []byte) (int, error) {
	if c.ctx.Err() != nil {
		return 0, io.EOF
	}
	return c.r.Read(p)
}
