// Package store reads the master table into typed records and answers the
// portal's derived queries. The catalog holds no snapshot across calls:
// every query re-reads the backing table, so edits to the sheet are visible
// immediately at the cost of one full read per query.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rgckd/hc-self-service-portal/internal/portal"
	"github.com/rgckd/hc-self-service-portal/internal/sheets"
	dErrors "github.com/rgckd/hc-self-service-portal/pkg/domain-errors"
)

// Column names of the master table header row. The sheet is the contract;
// renaming a column there is an operator error and fails loudly.
const (
	colGroup     = "Group"
	colType      = "Record_Type"
	colName      = "Record_Name"
	colValidFrom = "Valid_From"
	colValidTill = "Valid_Till"
	colContent   = "Content"
)

var requiredColumns = []string{colGroup, colType, colName, colValidFrom, colValidTill, colContent}

// Accepted date layouts for Valid_From/Valid_Till cells. Sheets localize
// dates depending on the document locale.
var dateLayouts = []string{"2006-01-02", "02.01.2006", time.RFC3339}

// Catalog is the read-only view of the master table.
type Catalog struct {
	source sheets.Source
	table  string
	logger *slog.Logger
}

func NewCatalog(source sheets.Source, table string, logger *slog.Logger) *Catalog {
	return &Catalog{source: source, table: table, logger: logger}
}

// Load reads the full backing table and converts header-keyed rows into
// typed records. Rows with an unknown record type are skipped with a warning;
// malformed dates fail the whole load so a broken sheet never half-works.
func (c *Catalog) Load(ctx context.Context) ([]portal.MasterRecord, error) {
	rows, err := c.source.ReadTable(ctx, c.table)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreUnavailable, "master table unreachable")
	}
	if len(rows) == 0 {
		return nil, dErrors.New(dErrors.CodeSchemaError, "master table has no header row")
	}

	cols, err := indexColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]portal.MasterRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, counting the header

		rawType := cell(row, cols[colType])
		if strings.TrimSpace(rawType) == "" {
			continue // blank separator row
		}
		recordType, ok := portal.ParseRecordType(rawType)
		if !ok {
			c.logger.Warn("skipping master table row with unknown record type",
				"row", rowNum, "record_type", rawType)
			continue
		}

		validFrom, err := parseDate(cell(row, cols[colValidFrom]))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeSchemaError,
				fmt.Sprintf("invalid date in master table row %d column %s", rowNum, colValidFrom))
		}
		validTill, err := parseDate(cell(row, cols[colValidTill]))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeSchemaError,
				fmt.Sprintf("invalid date in master table row %d column %s", rowNum, colValidTill))
		}

		records = append(records, portal.MasterRecord{
			Group:     strings.TrimSpace(cell(row, cols[colGroup])),
			Type:      recordType,
			Name:      strings.TrimSpace(cell(row, cols[colName])),
			ValidFrom: validFrom,
			ValidTill: validTill,
			Content:   strings.TrimSpace(cell(row, cols[colContent])),
		})
	}
	return records, nil
}

// ListPrograms returns the names of all PROGRAM records valid today, in
// table order. Duplicate names are not deduplicated; the sheet is presented
// as-is.
func (c *Catalog) ListPrograms(ctx context.Context, today time.Time) ([]string, error) {
	records, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	programs := []string{}
	for _, r := range records {
		if r.Type == portal.RecordTypeProgram && r.ValidAt(today) {
			programs = append(programs, r.Name)
		}
	}
	return programs, nil
}

// ListRequests returns the names of all REQUEST records for the group valid
// today, in table order.
func (c *Catalog) ListRequests(ctx context.Context, group string, today time.Time) ([]string, error) {
	records, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	requests := []string{}
	for _, r := range records {
		if r.Type == portal.RecordTypeRequest && r.Group == group && r.ValidAt(today) {
			requests = append(requests, r.Name)
		}
	}
	return requests, nil
}

// FindRegister returns the registration-list pointer for the group, or nil
// when none is valid today. When several rows are valid at once the last one
// in table order wins: operators supersede a pointer by appending a new row.
func (c *Catalog) FindRegister(ctx context.Context, group string, today time.Time) (*portal.MasterRecord, error) {
	return c.findLast(ctx, portal.RecordTypeRegister, group, today)
}

// FindRegForm returns the sign-up form pointer for the group, or nil when
// none is valid today. Ties resolve like FindRegister: last row wins.
func (c *Catalog) FindRegForm(ctx context.Context, group string, today time.Time) (*portal.MasterRecord, error) {
	return c.findLast(ctx, portal.RecordTypeRegForm, group, today)
}

func (c *Catalog) findLast(ctx context.Context, recordType portal.RecordType, group string, today time.Time) (*portal.MasterRecord, error) {
	records, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	var found *portal.MasterRecord
	for i := range records {
		r := records[i]
		if r.Type == recordType && r.Group == group && r.ValidAt(today) {
			found = &records[i]
		}
	}
	return found, nil
}

func indexColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := index[required]; !ok {
			return nil, dErrors.New(dErrors.CodeSchemaError,
				fmt.Sprintf("master table missing column %s", required))
		}
	}
	return index, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", raw)
}
