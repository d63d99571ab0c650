// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"voice2crm-service/internal/service/stt"
)

const providerName = "google"

// Adapter implements stt.Transcriber using Google Cloud Speech-to-Text.
// Recordings are short (one spoken contact), so the synchronous Recognize
// call is enough; no streaming session is needed.
type Adapter struct {
	client *speech.Client
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: c}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string { return providerName }

// Transcribe runs one synchronous recognition over the whole recording and
// joins the result alternatives into a single transcript.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, languageHint string) (string, error) {
	if len(audio) == 0 {
		return "", &stt.TranscriptionError{Provider: providerName, Err: stt.ErrEmptyAudio}
	}

	lang := languageHint
	if lang == "" {
		lang = "fr-FR"
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: 16000,
			LanguageCode:    lang,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", &stt.TranscriptionError{Provider: providerName, Err: err}
	}

	var parts []string
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		parts = append(parts, r.Alternatives[0].Transcript)
	}
	return strings.Join(parts, " "), nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}
