package synth

import (
	"errors"
	"fmt"
)

// Sentinel errors for the synthesis pipeline.
var (
	// ErrNothingToRender signals that no token produced any playable
	// audio. It is a distinguished outcome, not a failure: callers must
	// not write an empty file for it.
	ErrNothingToRender = errors.New("nothing to render")

	// ErrOutputWrite wraps a failure to create or write the destination
	// file. Fatal to the current render call only.
	ErrOutputWrite = errors.New("cannot write output")

	// ErrDeviceUnavailable means the playback device could not be opened.
	// Fatal to the current playback attempt only.
	ErrDeviceUnavailable = errors.New("audio device unavailable")

	// ErrVoiceNotFound means the voice bank root does not exist.
	ErrVoiceNotFound = errors.New("voice bank not found")

	// ErrInvalidConfig means the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCanceled means playback was stopped before completion.
	ErrCanceled = errors.New("playback canceled")
)

// SynthError carries the component and action that produced an error.
type SynthError struct {
	Err       error
	Component string
	Action    string
}

// Error implements the error interface.
func (e *SynthError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SynthError) Unwrap() error {
	return e.Err
}

// NewSynthError wraps err with component and action context.
func NewSynthError(err error, component, action string) *SynthError {
	return &SynthError{Err: err, Component: component, Action: action}
}
