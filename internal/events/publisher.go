// Package events publishes lead lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"voice2crm-service/internal/observability/metrics"
)

// Publisher publishes lead events to separate Kafka topics.
type Publisher struct {
	writerExtracted *kafka.Writer
	writerSubmitted *kafka.Writer
	principal       string
	topicExtracted  string
	topicSubmitted  string
	enabled         bool
	metrics         *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers        []string
	TopicExtracted string
	TopicSubmitted string
	Principal      string
	Enabled        bool
}

// New creates a new Kafka event publisher with separate topics for
// extracted and submitted leads. With Kafka disabled or no brokers
// configured it degrades to log-only mode.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:      cfg.Principal,
			topicExtracted: cfg.TopicExtracted,
			topicSubmitted: cfg.TopicSubmitted,
			enabled:        false,
			metrics:        m,
		}
	}

	// Longer dial timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerExtracted := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicExtracted,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerSubmitted := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicSubmitted,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicExtracted", cfg.TopicExtracted).
		Str("topicSubmitted", cfg.TopicSubmitted).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerExtracted: writerExtracted,
		writerSubmitted: writerSubmitted,
		principal:       cfg.Principal,
		topicExtracted:  cfg.TopicExtracted,
		topicSubmitted:  cfg.TopicSubmitted,
		enabled:         true,
		metrics:         m,
	}
}

// PublishExtracted publishes a lead-extracted event.
func (p *Publisher) PublishExtracted(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerExtracted, p.topicExtracted, "extracted", key, event)
}

// PublishSubmitted publishes a lead-submitted event.
func (p *Publisher) PublishSubmitted(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerSubmitted, p.topicSubmitted, "submitted", key, event)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(topic)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerExtracted != nil {
		if e := p.writerExtracted.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing extracted writer")
			err = e
		}
	}
	if p.writerSubmitted != nil {
		if e := p.writerSubmitted.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing submitted writer")
			err = e
		}
	}
	return err
}
