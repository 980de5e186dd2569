package audio

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/clipvox/clipvox/synth"
)

// Speaker runs render plus device write on a dedicated worker so the
// caller never blocks. A new Speak cancels any playback still in flight;
// within one request, segment order is the renderer's assembly order.
type Speaker struct {
	renderer *synth.Renderer
	dev      Device
	logger   *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSpeaker creates a speaker over a renderer and an output device.
func NewSpeaker(renderer *synth.Renderer, dev Device, logger *log.Logger) *Speaker {
	if logger == nil {
		logger = log.Default()
	}
	return &Speaker{renderer: renderer, dev: dev, logger: logger}
}

// Speak renders text and plays it, returning immediately. The returned
// channel delivers exactly one value when the request finishes:
// ErrNothingToRender for silent input, ErrCanceled when stopped, a
// playback error, or nil.
func (s *Speaker) Speak(voice, text string) <-chan error {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer cancel()
		result, err := s.renderer.Render(voice, text)
		if err != nil {
			done <- err
			return
		}
		s.logger.Debug("playback starting", "voice", voice, "bytes", len(result.PCM))
		done <- s.dev.Play(ctx, result.PCM)
	}()
	return done
}

// Stop cancels the in-flight playback, if any. Cancellation is
// cooperative: the worker notices within one device buffer chunk.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
