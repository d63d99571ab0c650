package models

// LeadExtracted is published after a transcript has been turned into a lead.
type LeadExtracted struct {
	EventType     string `json:"eventType"`
	RequestID     string `json:"requestId"`
	Transcript    string `json:"transcript"`
	Lead          Lead   `json:"lead"`
	Timestamp     int64  `json:"timestamp"`
	ParseFallback bool   `json:"parseFallback"`
}

// LeadSubmitted is published after a submission batch has been processed.
type LeadSubmitted struct {
	EventType string             `json:"eventType"`
	ClientID  string             `json:"clientId"`
	Results   []SubmissionResult `json:"results"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Timestamp int64              `json:"timestamp"`
}
