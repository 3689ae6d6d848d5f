package parsefailures

import "time"

// ParseFailure is a persisted record of a reply that defeated every
// normalization strategy. Kept for auditing; never silently dropped.
type ParseFailure struct {
	ID          int64     `json:"id"`
	TenantID    string    `json:"tenant_id"`
	DiagnosisID string    `json:"diagnosis_id"`
	Model       string    `json:"model,omitempty"`
	Excerpt     string    `json:"excerpt"`
	CreatedAt   time.Time `json:"created_at"`
}
