package models

import "time"

// Generation outcomes recorded in the audit trail.
const (
	OutcomeSaved  = "SAVED"
	OutcomeFailed = "FAILED"
)

// GenerationEvent is a single audit entry for one generation request.
type GenerationEvent struct {
	EventID     string    `json:"event_id"`
	UserID      int       `json:"-"`
	OccurredAt  time.Time `json:"occurred_at"`
	Strategy    string    `json:"strategy"`    // LOCAL | REMOTE | DETERMINISTIC | NONE
	Outcome     string    `json:"outcome"`     // SAVED | FAILED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
