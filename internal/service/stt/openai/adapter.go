// Package openai provides an OpenAI Whisper Speech-to-Text adapter.
package openai

import (
	"context"
	"os"

	goopenai "github.com/sashabaranov/go-openai"

	"voice2crm-service/internal/service/stt"
)

const providerName = "openai"

// Adapter implements stt.Transcriber using the OpenAI audio transcription API.
type Adapter struct {
	client *goopenai.Client
	model  string
}

// New creates a new OpenAI Whisper adapter.
func New(apiKey, model string) *Adapter {
	if model == "" {
		model = goopenai.Whisper1
	}
	return &Adapter{
		client: goopenai.NewClient(apiKey),
		model:  model,
	}
}

// Name returns the provider name.
func (a *Adapter) Name() string { return providerName }

// Transcribe sends the recording to the Whisper API and returns its text.
// The API wants a file handle, so the bytes go through a temp file that is
// removed on every exit path.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, languageHint string) (string, error) {
	if len(audio) == 0 {
		return "", &stt.TranscriptionError{Provider: providerName, Err: stt.ErrEmptyAudio}
	}

	path, cleanup, err := writeTempAudio(audio)
	if err != nil {
		return "", &stt.TranscriptionError{Provider: providerName, Err: err}
	}
	defer cleanup()

	resp, err := a.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    a.model,
		FilePath: path,
		Language: languageHint,
	})
	if err != nil {
		return "", &stt.TranscriptionError{Provider: providerName, Err: err}
	}

	return resp.Text, nil
}

// writeTempAudio writes audio to a temp .wav file and returns its path and
// a cleanup func.
func writeTempAudio(audio []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "voice2crm-*.wav")
	if err != nil {
		return "", nil, err
	}
	name := f.Name()
	cleanup := func() { os.Remove(name) }

	if _, err := f.Write(audio); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return name, cleanup, nil
}
