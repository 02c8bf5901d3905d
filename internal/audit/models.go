// Package audit captures structured portal events. Services emit through the
// Publisher; a background worker persists events and optionally forwards
// them to Kafka.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies what happened.
type Action string

const (
	ActionProgramsListed     Action = "programs_listed"
	ActionRequestsListed     Action = "requests_listed"
	ActionEmailVerified      Action = "email_verified"
	ActionSubmissionAccepted Action = "submission_accepted"
	ActionSubmissionRejected Action = "submission_rejected"
	ActionHoneypotTripped    Action = "honeypot_tripped"
)

// Event is one audit record. Email is kept verbatim; the audit store is the
// operator's tool for abuse investigations.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Program   string    `json:"program,omitempty"`
	Email     string    `json:"email,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
}
