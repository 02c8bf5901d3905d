package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/hc-self-service-portal/internal/portal/registration"
	"github.com/rgckd/hc-self-service-portal/internal/portal/service"
	"github.com/rgckd/hc-self-service-portal/internal/portal/store"
	"github.com/rgckd/hc-self-service-portal/internal/sheets"
	submissionstore "github.com/rgckd/hc-self-service-portal/internal/submission/store"
	dErrors "github.com/rgckd/hc-self-service-portal/pkg/domain-errors"
	"github.com/rgckd/hc-self-service-portal/pkg/requestcontext"
)

const (
	masterTable = "Master"
	listSheetID = "reg-list-p1"
	listURL     = "https://docs.google.com/spreadsheets/d/reg-list-p1/edit#gid=0"
	formURL     = "https://docs.google.com/forms/d/e/signup-p1/viewform"
)

var header = []string{"Group", "Record_Type", "Record_Name", "Valid_From", "Valid_Till", "Content"}

// fixture builds the end-to-end scenario: one program valid through 2024,
// a registration list containing x@y.com, two request types, and a sign-up
// form pointer.
func fixture(t *testing.T) (*service.Service, *submissionstore.MemoryStore, *sheets.MemorySource) {
	t.Helper()

	source := sheets.NewMemorySource()
	source.SetTable(masterTable, [][]string{
		header,
		{"", "PROGRAM", "P1", "2024-01-01", "2024-12-31", ""},
		{"P1", "REGISTER", "P1 registrations", "", "", listURL},
		{"P1", "REGFORM", "P1 signup", "", "", formURL},
		{"P1", "REQUEST", "A", "", "", ""},
		{"P1", "REQUEST", "B", "", "", ""},
	})
	source.SetSheet(listSheetID, [][]string{
		{"Email"},
		{"x@y.com"},
	})

	logger := slog.Default()
	catalog := store.NewCatalog(source, masterTable, logger)
	resolver := registration.NewResolver(source, logger)
	recorder := submissionstore.NewMemoryStore()

	svc := service.New(catalog, resolver, logger, service.WithRecorder(recorder))
	return svc, recorder, source
}

func onDate(y int, m time.Month, d int) context.Context {
	return requestcontext.WithTime(context.Background(),
		time.Date(y, m, d, 9, 0, 0, 0, time.UTC))
}

func TestGetPrograms(t *testing.T) {
	svc, _, _ := fixture(t)

	programs, err := svc.GetPrograms(onDate(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, programs)
}

func TestGetProgramsOutsideWindow(t *testing.T) {
	svc, _, _ := fixture(t)

	programs, err := svc.GetPrograms(onDate(2025, 6, 1))
	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestVerifyEmailRegistered(t *testing.T) {
	svc, _, _ := fixture(t)

	result, err := svc.VerifyEmail(onDate(2024, 6, 1), "P1", "x@y.com")
	require.NoError(t, err)
	assert.True(t, result.Registered)
	assert.Nil(t, result.RegistrationURL)
}

func TestVerifyEmailCaseAndWhitespaceInsensitive(t *testing.T) {
	svc, _, _ := fixture(t)

	result, err := svc.VerifyEmail(onDate(2024, 6, 1), "P1", " X@Y.COM ")
	require.NoError(t, err)
	assert.True(t, result.Registered)
}

func TestVerifyEmailNotRegisteredWithOpenForm(t *testing.T) {
	svc, _, _ := fixture(t)

	result, err := svc.VerifyEmail(onDate(2024, 6, 1), "P1", "z@y.com")
	require.NoError(t, err)
	assert.False(t, result.Registered)
	require.NotNil(t, result.RegistrationURL)
	assert.Equal(t, formURL, *result.RegistrationURL)
}

func TestVerifyEmailNotRegisteredRegistrationClosed(t *testing.T) {
	svc, _, source := fixture(t)
	source.SetTable(masterTable, [][]string{
		header,
		{"", "PROGRAM", "P1", "", "", ""},
		{"P1", "REGISTER", "P1 registrations", "", "", listURL},
	})

	result, err := svc.VerifyEmail(onDate(2024, 6, 1), "P1", "z@y.com")
	require.NoError(t, err)
	assert.False(t, result.Registered)
	assert.Nil(t, result.RegistrationURL)
}

func TestVerifyEmailMissingFields(t *testing.T) {
	svc, _, _ := fixture(t)

	_, err := svc.VerifyEmail(onDate(2024, 6, 1), "", "x@y.com")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))

	_, err = svc.VerifyEmail(onDate(2024, 6, 1), "P1", "  ")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))
}

func TestVerifyEmailNoRegisterRecord(t *testing.T) {
	svc, _, _ := fixture(t)

	_, err := svc.VerifyEmail(onDate(2024, 6, 1), "Unknown", "x@y.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSheetNotFound))
}

func TestVerifyEmailRegisterWithoutContent(t *testing.T) {
	svc, _, source := fixture(t)
	source.SetTable(masterTable, [][]string{
		header,
		{"", "PROGRAM", "P1", "", "", ""},
		{"P1", "REGISTER", "pointer without url", "", "", ""},
	})

	_, err := svc.VerifyEmail(onDate(2024, 6, 1), "P1", "x@y.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSheetNotFound))
}

func TestVerifyEmailInvalidReference(t *testing.T) {
	svc, _, source := fixture(t)
	source.SetTable(masterTable, [][]string{
		header,
		{"", "PROGRAM", "P1", "", "", ""},
		{"P1", "REGISTER", "bad pointer", "", "", "https://example.com/nowhere"},
	})

	_, err := svc.VerifyEmail(onDate(2024, 6, 1), "P1", "x@y.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSheetInvalid))
}

func TestVerifyEmailUnreachableListDegradesToNotRegistered(t *testing.T) {
	svc, _, source := fixture(t)
	// Register pointer is fine, but the referenced list does not exist.
	source.SetTable(masterTable, [][]string{
		header,
		{"", "PROGRAM", "P1", "", "", ""},
		{"P1", "REGISTER", "pointer", "", "", "https://docs.google.com/spreadsheets/d/gone/edit"},
	})

	result, err := svc.VerifyEmail(onDate(2024, 6, 1), "P1", "x@y.com")
	require.NoError(t, err)
	assert.False(t, result.Registered)
}

func TestGetRequests(t *testing.T) {
	svc, _, _ := fixture(t)

	requests, err := svc.GetRequests(onDate(2024, 6, 1), "P1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, requests)
}

func TestGetRequestsMissingProgram(t *testing.T) {
	svc, _, _ := fixture(t)

	_, err := svc.GetRequests(onDate(2024, 6, 1), "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))
}

func TestPrepareSubmissionAppendsExactlyOneRow(t *testing.T) {
	svc, recorder, _ := fixture(t)

	record, err := svc.PrepareSubmission(onDate(2024, 6, 1), "P1", "x@y.com", []string{"A"})
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.NotZero(t, record.ID)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), record.SubmittedAt)

	rows := recorder.List()
	require.Len(t, rows, 1)
	assert.Equal(t, "P1", rows[0].Program)
	assert.Equal(t, []string{"A"}, rows[0].Requests)
}

func TestPrepareSubmissionValidation(t *testing.T) {
	svc, recorder, _ := fixture(t)
	ctx := onDate(2024, 6, 1)

	_, err := svc.PrepareSubmission(ctx, "", "x@y.com", []string{"A"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))

	_, err = svc.PrepareSubmission(ctx, "P1", "", []string{"A"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))

	_, err = svc.PrepareSubmission(ctx, "P1", "x@y.com", nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))

	_, err = svc.PrepareSubmission(ctx, "P1", "x@y.com", []string{" ", ""})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))

	assert.Empty(t, recorder.List())
}

func TestPrepareSubmissionNoRecorderConfigured(t *testing.T) {
	source := sheets.NewMemorySource()
	source.SetTable(masterTable, [][]string{header})
	logger := slog.Default()
	svc := service.New(
		store.NewCatalog(source, masterTable, logger),
		registration.NewResolver(source, logger),
		logger,
	)

	_, err := svc.PrepareSubmission(onDate(2024, 6, 1), "P1", "x@y.com", []string{"A"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeOutputStoreMissing))
}

func TestQueriesSeeFreshTableState(t *testing.T) {
	svc, _, source := fixture(t)
	ctx := onDate(2024, 6, 1)

	programs, err := svc.GetPrograms(ctx)
	require.NoError(t, err)
	require.Len(t, programs, 1)

	// The sheet changes between calls; the next query must observe it.
	source.SetTable(masterTable, [][]string{
		header,
		{"", "PROGRAM", "P1", "", "", ""},
		{"", "PROGRAM", "P2", "", "", ""},
	})

	programs, err = svc.GetPrograms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, programs)
}
