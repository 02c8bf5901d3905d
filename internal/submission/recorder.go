// Package submission defines the accepted-submission record and the
// append-only Recorder port the portal hands validated submissions to.
package submission

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one accepted submission.
type Record struct {
	ID          uuid.UUID
	SubmittedAt time.Time
	Program     string
	Email       string
	Requests    []string
}

// Row renders the record in the output-log column order:
// timestamp, program, email, comma-joined requests.
func (r Record) Row() []string {
	return []string{
		r.SubmittedAt.Format(time.RFC3339),
		r.Program,
		r.Email,
		strings.Join(r.Requests, ", "),
	}
}

// Recorder appends accepted submissions to the output log. Implementations
// must make each append atomic; callers never retry automatically.
type Recorder interface {
	Append(ctx context.Context, record Record) error
}
