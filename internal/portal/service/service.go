// Package service orchestrates the catalog, the registration resolver, and
// the submission recorder to answer the portal's queries. It holds no state
// across calls.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rgckd/hc-self-service-portal/internal/audit"
	"github.com/rgckd/hc-self-service-portal/internal/portal"
	portalmetrics "github.com/rgckd/hc-self-service-portal/internal/portal/metrics"
	"github.com/rgckd/hc-self-service-portal/internal/submission"
	dErrors "github.com/rgckd/hc-self-service-portal/pkg/domain-errors"
	"github.com/rgckd/hc-self-service-portal/pkg/requestcontext"
)

// Catalog is the typed view of the master table the service queries.
type Catalog interface {
	ListPrograms(ctx context.Context, today time.Time) ([]string, error)
	ListRequests(ctx context.Context, group string, today time.Time) ([]string, error)
	FindRegister(ctx context.Context, group string, today time.Time) (*portal.MasterRecord, error)
	FindRegForm(ctx context.Context, group string, today time.Time) (*portal.MasterRecord, error)
}

// RegistrationChecker resolves an email against an external registration list.
type RegistrationChecker interface {
	IsRegistered(ctx context.Context, sheetURL, email string) (bool, error)
}

// VerifyEmailResult is the outcome of an email verification.
// RegistrationURL is set only when the email is not registered and a sign-up
// form is currently open; nil means "registration closed".
type VerifyEmailResult struct {
	Registered      bool
	RegistrationURL *string
}

// Service answers the portal queries. Today's date always comes from the
// request-scoped clock so one request observes one consistent instant.
type Service struct {
	catalog  Catalog
	checker  RegistrationChecker
	recorder submission.Recorder
	auditor  *audit.Publisher
	metrics  *portalmetrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

type Option func(*Service)

func WithRecorder(recorder submission.Recorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

func WithAuditor(auditor *audit.Publisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithMetrics(metrics *portalmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = metrics }
}

func New(catalog Catalog, checker RegistrationChecker, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		checker: checker,
		logger:  logger,
		tracer:  otel.Tracer("portal"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPrograms lists the programs open today. An empty list is a valid,
// non-error response.
func (s *Service) GetPrograms(ctx context.Context) (programs []string, err error) {
	ctx, span := s.tracer.Start(ctx, "portal.GetPrograms")
	defer span.End()
	defer s.observe("get_programs", time.Now(), &err)

	programs, err = s.catalog.ListPrograms(ctx, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	s.auditor.Emit(ctx, audit.Event{Action: audit.ActionProgramsListed, Outcome: "ok"})
	return programs, nil
}

// GetRequests lists the request types offered by a program today.
func (s *Service) GetRequests(ctx context.Context, program string) (requests []string, err error) {
	ctx, span := s.tracer.Start(ctx, "portal.GetRequests",
		trace.WithAttributes(attribute.String("portal.program", program)))
	defer span.End()
	defer s.observe("get_requests", time.Now(), &err)

	program = strings.TrimSpace(program)
	if program == "" {
		return nil, dErrors.New(dErrors.CodeMissingField, "program is required")
	}

	requests, err = s.catalog.ListRequests(ctx, program, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	s.auditor.Emit(ctx, audit.Event{Action: audit.ActionRequestsListed, Program: program, Outcome: "ok"})
	return requests, nil
}

// VerifyEmail checks the email against the program's registration list.
func (s *Service) VerifyEmail(ctx context.Context, program, email string) (result *VerifyEmailResult, err error) {
	ctx, span := s.tracer.Start(ctx, "portal.VerifyEmail",
		trace.WithAttributes(attribute.String("portal.program", program)))
	defer span.End()
	defer s.observe("verify_email", time.Now(), &err)

	program = strings.TrimSpace(program)
	email = strings.TrimSpace(email)
	if program == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeMissingField, "program and email are required")
	}

	today := requestcontext.Now(ctx)

	register, err := s.catalog.FindRegister(ctx, program, today)
	if err != nil {
		return nil, err
	}
	if register == nil || register.Content == "" {
		return nil, dErrors.New(dErrors.CodeSheetNotFound,
			"no registration sheet configured for program "+program)
	}

	registered, err := s.checker.IsRegistered(ctx, register.Content, email)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidReference) {
			return nil, dErrors.Wrap(err, dErrors.CodeSheetInvalid,
				"registration sheet reference for program "+program+" is not usable")
		}
		return nil, err
	}

	s.metrics.ObserveVerification(registered)
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionEmailVerified,
		Program: program,
		Email:   email,
		Outcome: verificationOutcome(registered),
	})

	if registered {
		return &VerifyEmailResult{Registered: true}, nil
	}

	// Not registered: point the user at the sign-up form when one is open.
	result = &VerifyEmailResult{Registered: false}
	form, err := s.catalog.FindRegForm(ctx, program, today)
	if err != nil {
		return nil, err
	}
	if form != nil && form.Content != "" {
		url := form.Content
		result.RegistrationURL = &url
	}
	return result, nil
}

// PrepareSubmission validates the submission preconditions and hands the
// stamped record to the recorder. Anti-spam scoring happens strictly before
// this call, at the transport boundary.
func (s *Service) PrepareSubmission(ctx context.Context, program, email string, requests []string) (record *submission.Record, err error) {
	ctx, span := s.tracer.Start(ctx, "portal.PrepareSubmission",
		trace.WithAttributes(attribute.String("portal.program", program)))
	defer span.End()
	defer s.observe("prepare_submission", time.Now(), &err)

	program = strings.TrimSpace(program)
	email = strings.TrimSpace(email)
	cleaned := make([]string, 0, len(requests))
	for _, r := range requests {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	if program == "" || email == "" || len(cleaned) == 0 {
		s.metrics.IncrementSubmissionRejected("missing_field")
		return nil, dErrors.New(dErrors.CodeMissingField,
			"program, email, and at least one request are required")
	}

	if s.recorder == nil {
		return nil, dErrors.New(dErrors.CodeOutputStoreMissing, "no output log configured")
	}

	rec := submission.Record{
		ID:          uuid.New(),
		SubmittedAt: requestcontext.Now(ctx),
		Program:     program,
		Email:       email,
		Requests:    cleaned,
	}
	if err := s.recorder.Append(ctx, rec); err != nil {
		s.auditor.Emit(ctx, audit.Event{
			Action:  audit.ActionSubmissionRejected,
			Program: program,
			Email:   email,
			Reason:  "append_failed",
		})
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record submission")
	}

	s.metrics.IncrementSubmissionRecorded()
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionSubmissionAccepted,
		Program: program,
		Email:   email,
		Outcome: "ok",
	})
	return &rec, nil
}

func (s *Service) observe(operation string, start time.Time, err *error) {
	s.metrics.ObserveQuery(operation, start, *err)
	if *err != nil {
		code := dErrors.CodeOf(*err)
		switch code {
		case dErrors.CodeSchemaError, dErrors.CodeStoreUnavailable:
			// Operator misconfiguration: full detail server-side.
			s.logger.Error("portal query failed", "operation", operation, "error", *err)
		default:
			s.logger.Warn("portal query rejected", "operation", operation, "code", code)
		}
	}
}

func verificationOutcome(registered bool) string {
	if registered {
		return "registered"
	}
	return "not_registered"
}
