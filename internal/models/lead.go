// Package models defines the data structures shared across the service.
package models

// Lead is the structured contact extracted from one transcript.
// Every field is optional; an empty Lead means extraction found nothing
// usable in the model's reply.
type Lead struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	JobTitle  string `json:"job_title,omitempty"`
	Company   string `json:"company,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// IsEmpty reports whether no field was extracted.
func (l Lead) IsEmpty() bool {
	return l == Lead{}
}

// Submission statuses reported per contact.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SubmissionResult is the per-contact outcome of a CRM submission.
// A batch yields one result per input contact; one item's failure never
// aborts its siblings.
type SubmissionResult struct {
	Contact map[string]string `json:"contact"`
	Status  string            `json:"status"`
	Detail  string            `json:"detail,omitempty"`
}
