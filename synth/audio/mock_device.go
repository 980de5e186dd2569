package audio

import (
	"context"
	"sync"

	"github.com/clipvox/clipvox/synth"
)

// MockDevice is a Device for tests: it records played buffers instead of
// touching real hardware, and can simulate failures and slow playback.
type MockDevice struct {
	mu      sync.Mutex
	played  [][]byte
	failErr error
	block   chan struct{} // when set, Play waits for ctx or release
}

// NewMockDevice creates a mock output device.
func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

// FailWith makes subsequent Play calls return err.
func (d *MockDevice) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failErr = err
}

// Block makes Play hang until Release is called or the context is
// canceled, for exercising Stop.
func (d *MockDevice) Block() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.block = make(chan struct{})
}

// Release unblocks a blocked Play.
func (d *MockDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.block != nil {
		close(d.block)
		d.block = nil
	}
}

// Play implements Device.
func (d *MockDevice) Play(ctx context.Context, pcm []byte) error {
	d.mu.Lock()
	failErr := d.failErr
	block := d.block
	d.mu.Unlock()

	if failErr != nil {
		return failErr
	}
	if block != nil {
		select {
		case <-ctx.Done():
			return synth.ErrCanceled
		case <-block:
		}
	}

	buf := make([]byte, len(pcm))
	copy(buf, pcm)
	d.mu.Lock()
	d.played = append(d.played, buf)
	d.mu.Unlock()
	return nil
}

// Played returns the buffers played so far.
func (d *MockDevice) Played() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.played))
	copy(out, d.played)
	return out
}
