// Package mock provides a mock STT adapter for testing without provider
// credentials. It returns canned transcripts that look like trade-show
// voice notes, cycling through them per call.
package mock

import (
	"context"
	"sync"

	"voice2crm-service/internal/service/stt"
)

const providerName = "mock"

// DefaultTranscripts provides sample transcripts for simulation.
var DefaultTranscripts = []string{
	"Je viens de rencontrer Sophie Martin, directrice marketing chez Acme, son email c'est sophie.martin@acme.fr",
	"Contact intéressant, Paul Durand, il est CTO de Startup Labs, son numéro le 06 12 34 56 78",
	"Note vocale, madame Lefevre de la société Nexa, responsable achats, pas de coordonnées pour l'instant",
}

// Adapter implements stt.Transcriber with canned responses.
type Adapter struct {
	mu      sync.Mutex
	counter int
}

// New creates a new mock STT adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the provider name.
func (a *Adapter) Name() string { return providerName }

// Transcribe returns the next canned transcript. Empty audio still fails,
// matching real provider behavior.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, languageHint string) (string, error) {
	if len(audio) == 0 {
		return "", &stt.TranscriptionError{Provider: providerName, Err: stt.ErrEmptyAudio}
	}

	a.mu.Lock()
	text := DefaultTranscripts[a.counter%len(DefaultTranscripts)]
	a.counter++
	a.mu.Unlock()

	return text, nil
}
