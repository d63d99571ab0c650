// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voice2crm"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Transcription metrics
	TranscriptionsTotal  *prometheus.CounterVec
	TranscriptionErrors  *prometheus.CounterVec
	TranscriptionLatency *prometheus.HistogramVec
	AudioBytesReceived   prometheus.Counter

	// Extraction metrics
	ExtractionsTotal        prometheus.Counter
	ExtractionParseFailures prometheus.Counter
	ExtractionFallbackUsed  prometheus.Counter
	ExtractionLatency       prometheus.Histogram

	// Normalization metrics
	LeadsNormalized   prometheus.Counter
	LeadsRejected     *prometheus.CounterVec
	PhonesDropped     prometheus.Counter
	EmailsSynthesized prometheus.Counter
	PhonesSynthesized prometheus.Counter

	// CRM metrics
	CrmSubmissionsTotal *prometheus.CounterVec
	CrmSubmitLatency    prometheus.Histogram
	TokenExchangesTotal *prometheus.CounterVec
	TokenRefreshesTotal *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		TranscriptionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Total number of transcription requests",
		}, []string{"provider", "outcome"}),
		TranscriptionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_errors_total",
			Help:      "Total number of transcription provider errors",
		}, []string{"provider"}),
		TranscriptionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_latency_seconds",
			Help:      "Speech-to-text latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider"}),
		AudioBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_received_total",
			Help:      "Total audio bytes received on the transcribe endpoint",
		}),

		ExtractionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total number of field extraction attempts",
		}),
		ExtractionParseFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_parse_failures_total",
			Help:      "Total number of model replies that yielded an empty lead",
		}),
		ExtractionFallbackUsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_fallback_used_total",
			Help:      "Total number of replies parsed via the brace-matching fallback",
		}),
		ExtractionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_latency_seconds",
			Help:      "Language model extraction latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),

		LeadsNormalized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_normalized_total",
			Help:      "Total number of leads successfully normalized",
		}),
		LeadsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_rejected_total",
			Help:      "Total number of leads rejected during normalization",
		}, []string{"reason"}),
		PhonesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phones_dropped_total",
			Help:      "Total number of invalid phone values dropped",
		}),
		EmailsSynthesized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_synthesized_total",
			Help:      "Total number of placeholder emails synthesized",
		}),
		PhonesSynthesized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phones_synthesized_total",
			Help:      "Total number of placeholder phones synthesized",
		}),

		CrmSubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crm_submissions_total",
			Help:      "Total number of per-contact CRM submissions",
		}, []string{"outcome"}),
		CrmSubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "crm_submit_latency_seconds",
			Help:      "Per-contact CRM create latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		TokenExchangesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_exchanges_total",
			Help:      "Total number of OAuth code exchanges",
		}, []string{"outcome"}),
		TokenRefreshesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Total number of OAuth token refreshes",
		}, []string{"outcome"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordTranscription records a transcription attempt.
func (m *Metrics) RecordTranscription(provider string, err error, latencySeconds float64) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		m.TranscriptionErrors.WithLabelValues(provider).Inc()
	}
	m.TranscriptionsTotal.WithLabelValues(provider, outcome).Inc()
	m.TranscriptionLatency.WithLabelValues(provider).Observe(latencySeconds)
}

// RecordAudioReceived records audio bytes received.
func (m *Metrics) RecordAudioReceived(bytes int) {
	m.AudioBytesReceived.Add(float64(bytes))
}

// RecordExtraction records a field extraction attempt.
func (m *Metrics) RecordExtraction(empty, fallback bool, latencySeconds float64) {
	m.ExtractionsTotal.Inc()
	m.ExtractionLatency.Observe(latencySeconds)
	if empty {
		m.ExtractionParseFailures.Inc()
	}
	if fallback {
		m.ExtractionFallbackUsed.Inc()
	}
}

// RecordLeadNormalized records a successful normalization.
func (m *Metrics) RecordLeadNormalized() {
	m.LeadsNormalized.Inc()
}

// RecordLeadRejected records a normalization rejection.
func (m *Metrics) RecordLeadRejected(reason string) {
	m.LeadsRejected.WithLabelValues(reason).Inc()
}

// RecordSubmission records one per-contact CRM create attempt.
func (m *Metrics) RecordSubmission(success bool, latencySeconds float64) {
	outcome := "error"
	if success {
		outcome = "success"
	}
	m.CrmSubmissionsTotal.WithLabelValues(outcome).Inc()
	m.CrmSubmitLatency.Observe(latencySeconds)
}

// RecordTokenExchange records an OAuth code exchange attempt.
func (m *Metrics) RecordTokenExchange(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.TokenExchangesTotal.WithLabelValues(outcome).Inc()
}

// RecordTokenRefresh records an OAuth token refresh attempt.
func (m *Metrics) RecordTokenRefresh(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.TokenRefreshesTotal.WithLabelValues(outcome).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
