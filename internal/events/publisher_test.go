package events

import (
	"context"
	"testing"

	"voice2crm-service/internal/models"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"nil brokers", &Config{Enabled: true, Brokers: nil}},
		{"nil config", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerExtracted != nil {
				t.Error("expected nil extracted writer when disabled")
			}
			if p.writerSubmitted != nil {
				t.Error("expected nil submitted writer when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	cfg := &Config{
		Enabled:        false,
		Brokers:        []string{"localhost:9092"},
		TopicExtracted: "lead.extracted",
		TopicSubmitted: "lead.submitted",
		Principal:      "svc-voice2crm",
	}

	p := New(cfg)

	if p.principal != "svc-voice2crm" {
		t.Errorf("expected principal 'svc-voice2crm', got %s", p.principal)
	}
	if p.topicExtracted != "lead.extracted" {
		t.Errorf("expected topic 'lead.extracted', got %s", p.topicExtracted)
	}
	if p.topicSubmitted != "lead.submitted" {
		t.Errorf("expected topic 'lead.submitted', got %s", p.topicSubmitted)
	}
}

func TestPublisher_PublishExtracted_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := models.LeadExtracted{
		EventType: "lead.extracted",
		RequestID: "req-1",
		Lead:      models.Lead{LastName: "Martin"},
	}
	if err := p.PublishExtracted(context.Background(), "req-1", event); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishSubmitted_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := models.LeadSubmitted{
		EventType: "lead.submitted",
		ClientID:  "client-1",
		Succeeded: 2,
		Failed:    1,
	}
	if err := p.PublishSubmitted(context.Background(), "client-1", event); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_Publish_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// Channels cannot be marshaled
	event := make(chan int)
	if err := p.PublishExtracted(context.Background(), "key", event); err == nil {
		t.Error("expected error for unmarshalable event")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}
