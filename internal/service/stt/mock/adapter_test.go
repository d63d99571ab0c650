package mock

import (
	"context"
	"errors"
	"testing"

	"voice2crm-service/internal/service/stt"
)

func TestAdapter_CyclesTranscripts(t *testing.T) {
	a := New()
	ctx := context.Background()

	seen := make([]string, 0, len(DefaultTranscripts)+1)
	for i := 0; i <= len(DefaultTranscripts); i++ {
		text, err := a.Transcribe(ctx, []byte("audio"), "fr")
		if err != nil {
			t.Fatalf("Transcribe failed: %v", err)
		}
		if text == "" {
			t.Fatal("expected non-empty transcript")
		}
		seen = append(seen, text)
	}

	if seen[0] != DefaultTranscripts[0] {
		t.Errorf("expected first canned transcript, got %q", seen[0])
	}
	// Wraps around after exhausting the list
	if seen[len(DefaultTranscripts)] != DefaultTranscripts[0] {
		t.Errorf("expected cycle back to first transcript, got %q", seen[len(DefaultTranscripts)])
	}
}

func TestAdapter_EmptyAudio(t *testing.T) {
	a := New()

	_, err := a.Transcribe(context.Background(), nil, "")
	if err == nil {
		t.Fatal("expected error for empty audio")
	}

	var terr *stt.TranscriptionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *stt.TranscriptionError, got %T", err)
	}
	if !errors.Is(err, stt.ErrEmptyAudio) {
		t.Errorf("expected ErrEmptyAudio cause, got %v", terr.Err)
	}
}
