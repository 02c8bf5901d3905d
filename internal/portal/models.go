// Package portal holds the master-table domain model: heterogeneous records
// scoped by group and record type, each carrying an optional validity window.
package portal

import (
	"strings"
	"time"
)

// RecordType discriminates the rows of the master table.
type RecordType string

const (
	// RecordTypeProgram names a program; the record's own name is its scope.
	RecordTypeProgram RecordType = "PROGRAM"
	// RecordTypeRegister points at the registration list for a program.
	RecordTypeRegister RecordType = "REGISTER"
	// RecordTypeRegForm points at the sign-up form for a program.
	RecordTypeRegForm RecordType = "REGFORM"
	// RecordTypeRequest is a request type offered within a program.
	RecordTypeRequest RecordType = "REQUEST"
)

// ParseRecordType normalizes a raw cell value. Unknown values are reported
// rather than silently kept, so typos in the sheet surface early.
func ParseRecordType(raw string) (RecordType, bool) {
	switch RecordType(strings.ToUpper(strings.TrimSpace(raw))) {
	case RecordTypeProgram:
		return RecordTypeProgram, true
	case RecordTypeRegister:
		return RecordTypeRegister, true
	case RecordTypeRegForm:
		return RecordTypeRegForm, true
	case RecordTypeRequest:
		return RecordTypeRequest, true
	}
	return "", false
}

// MasterRecord is one typed row of the master table.
//
// Group scopes the record to a program; PROGRAM rows leave it empty and are
// scoped by their own Name. ValidFrom/ValidTill are inclusive day-granularity
// bounds; nil means unbounded on that side. Content carries the sheet/form
// URL for REGISTER and REGFORM rows and is unused otherwise.
type MasterRecord struct {
	Group     string
	Type      RecordType
	Name      string
	ValidFrom *time.Time
	ValidTill *time.Time
	Content   string
}

// ValidAt reports whether the record's window covers the given day.
func (r MasterRecord) ValidAt(today time.Time) bool {
	return IsValidAt(r.ValidFrom, r.ValidTill, today)
}
