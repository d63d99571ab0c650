// Package extract turns a raw transcript into a structured lead using a
// language model.
package extract

import (
	"context"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"voice2crm-service/internal/models"
	"voice2crm-service/internal/observability/logging"
	"voice2crm-service/internal/observability/metrics"
)

// Low temperature favors deterministic field extraction.
const extractionTemperature = 0.2

const promptTemplate = `The following is a voice note transcript describing a contact met at a trade show:
"""%s"""

Return a JSON object with exactly these fields (use null for anything not mentioned):
- first_name
- last_name
- job_title
- company
- email
- phone

Respond with a single valid JSON object only. No text before or after.`

// ChatCompleter is the subset of the OpenAI client used for extraction.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Extractor asks a language model for the six lead fields.
type Extractor struct {
	client  ChatCompleter
	model   string
	metrics *metrics.Metrics
}

// New creates an Extractor using the given chat client and model.
func New(client ChatCompleter, model string) *Extractor {
	return &Extractor{
		client:  client,
		model:   model,
		metrics: metrics.DefaultMetrics,
	}
}

// Extract builds the extraction prompt, invokes the model and parses its
// reply. A reply that cannot be parsed yields an empty lead, not an error;
// only the model call itself can fail the operation.
func (e *Extractor) Extract(ctx context.Context, transcript string) (models.Lead, error) {
	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: extractionTemperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, transcript),
			},
		},
	})
	if err != nil {
		return models.Lead{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		e.metrics.RecordExtraction(true, false, time.Since(start).Seconds())
		return models.Lead{}, nil
	}

	reply := resp.Choices[0].Message.Content
	lead, fallback := ParseLead(reply)

	if lead.IsEmpty() {
		lg := logging.WithComponent("extractor")
		lg.Warn().
			Str("reply", reply).
			Msg("Model reply yielded no lead fields")
	}
	e.metrics.RecordExtraction(lead.IsEmpty(), fallback, time.Since(start).Seconds())

	return lead, nil
}
