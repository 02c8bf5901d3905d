// Package registration resolves a program's registration-list pointer and
// checks whether an email appears on the referenced list.
package registration

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/rgckd/hc-self-service-portal/internal/sheets"
	dErrors "github.com/rgckd/hc-self-service-portal/pkg/domain-errors"
)

// sheetIDPattern extracts the document identifier from a sheet URL of the
// form .../spreadsheets/d/{ID}/...
var sheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// Resolver fetches registration lists fresh on every call; a stale cache
// here would let a just-registered user fail verification.
type Resolver struct {
	source sheets.Source
	logger *slog.Logger
}

func NewResolver(source sheets.Source, logger *slog.Logger) *Resolver {
	return &Resolver{source: source, logger: logger}
}

// IsRegistered reports whether email appears in column A of the first tab of
// the list referenced by sheetURL. The header row is skipped; comparison is
// case-insensitive and whitespace-trimmed.
//
// A URL that does not match the expected pattern fails with
// CodeInvalidReference. A fetch or parse failure against the external list
// degrades to "not registered" with the cause logged: an unreachable list
// must never hard-fail the request pipeline.
func (r *Resolver) IsRegistered(ctx context.Context, sheetURL, email string) (bool, error) {
	m := sheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return false, dErrors.New(dErrors.CodeInvalidReference,
			"registration sheet reference does not match expected URL pattern")
	}

	rows, err := r.source.ReadFirstSheet(ctx, m[1])
	if err != nil {
		r.logger.Warn("registration list fetch failed, treating as not registered",
			"sheet_id", m[1], "error", err)
		return false, nil
	}

	want := normalizeEmail(email)
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if normalizeEmail(row[0]) == want {
			return true, nil
		}
	}
	return false, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
