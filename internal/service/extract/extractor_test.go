package extract

import (
	"context"
	"errors"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
)

// stubChat implements ChatCompleter with a fixed reply.
type stubChat struct {
	reply   string
	err     error
	lastReq goopenai.ChatCompletionRequest
}

func (s *stubChat) CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return goopenai.ChatCompletionResponse{}, s.err
	}
	return goopenai.ChatCompletionResponse{
		Choices: []goopenai.ChatCompletionChoice{
			{Message: goopenai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func TestExtract_ParsesReply(t *testing.T) {
	stub := &stubChat{reply: `{"first_name":"Sophie","last_name":"Martin","job_title":null,"company":"Acme","email":null,"phone":null}`}
	e := New(stub, "gpt-4o-mini")

	lead, err := e.Extract(context.Background(), "je viens de rencontrer Sophie Martin de chez Acme")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if lead.FirstName != "Sophie" || lead.LastName != "Martin" || lead.Company != "Acme" {
		t.Errorf("unexpected lead: %+v", lead)
	}
}

func TestExtract_RequestShape(t *testing.T) {
	stub := &stubChat{reply: `{}`}
	e := New(stub, "gpt-4o-mini")

	if _, err := e.Extract(context.Background(), "some transcript"); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	req := stub.lastReq
	if req.Model != "gpt-4o-mini" {
		t.Errorf("expected model 'gpt-4o-mini', got %s", req.Model)
	}
	if req.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", req.Temperature)
	}
	if req.ResponseFormat == nil || req.ResponseFormat.Type != goopenai.ChatCompletionResponseFormatTypeJSONObject {
		t.Error("expected JSON object response format")
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Messages))
	}
}

func TestExtract_UnparseableReplyYieldsEmptyLead(t *testing.T) {
	stub := &stubChat{reply: "no contact found in this recording"}
	e := New(stub, "gpt-4o-mini")

	lead, err := e.Extract(context.Background(), "bruit de fond")
	if err != nil {
		t.Fatalf("expected no error for unparseable reply, got %v", err)
	}
	if !lead.IsEmpty() {
		t.Errorf("expected empty lead, got %+v", lead)
	}
}

func TestExtract_ModelErrorPropagates(t *testing.T) {
	wantErr := errors.New("rate limited")
	stub := &stubChat{err: wantErr}
	e := New(stub, "gpt-4o-mini")

	_, err := e.Extract(context.Background(), "transcript")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}
