// Package stt defines the interface for Speech-to-Text adapters.
package stt

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyAudio is returned when no audio bytes were provided.
var ErrEmptyAudio = errors.New("empty audio input")

// TranscriptionError wraps any provider failure behind a single error type.
// Callers only need to know the transcription failed and why; no failure is
// retried.
type TranscriptionError struct {
	Provider string
	Err      error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed (%s): %v", e.Provider, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// Transcriber defines the interface for STT providers (OpenAI, Google, etc.).
// It takes a complete recording and returns its transcript in one shot.
type Transcriber interface {
	// Transcribe converts audio bytes into transcript text.
	// languageHint may be empty; providers that support it pass it through.
	Transcribe(ctx context.Context, audio []byte, languageHint string) (string, error)

	// Name returns the provider name, used in logs and metrics.
	Name() string
}
