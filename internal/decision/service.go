package decision

import (
	"context"
	"log/slog"
	"time"

	"decisio/internal/decision/metrics"
	"decisio/internal/decision/ports"
	"decisio/internal/platform/tracer"
	id "decisio/pkg/domain"
	"decisio/pkg/personalcode"
)

// Service evaluates loan applications end to end: it runs the local gates,
// fetches the applicant's risk segment through the segment port, and applies
// the approval search and credit score rules. The rules themselves live in
// engine.go and stay free of I/O; the service owns orchestration, identity
// of the decision record, and observability.
type Service struct {
	segments   ports.SegmentSource
	wellFormed WellFormedFunc
	clock      func() time.Time
	metrics    *metrics.Metrics
	tracer     tracer.Tracer
	logger     *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithTracer sets the tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the evaluation clock. Age derivation reads the clock,
// so tests pin it to a fixed instant.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithWellFormedFunc overrides the personal code validity oracle.
func WithWellFormedFunc(fn WellFormedFunc) Option {
	return func(s *Service) {
		s.wellFormed = fn
	}
}

// New creates a new decision service.
// Panics if the segment source is nil - fail fast at startup.
func New(segments ports.SegmentSource, opts ...Option) *Service {
	if segments == nil {
		panic("decision.New: segment source is required")
	}

	s := &Service{
		segments:   segments,
		wellFormed: personalcode.Valid,
		clock:      time.Now,
		tracer:     tracer.NewNoop(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate produces a loan decision for the given request.
//
// Rule failures are not errors: an ineligible applicant gets a rejected
// Decision and a nil error. A non-nil error means the evaluation itself
// could not complete, in practice a segment lookup failure, and no decision
// was reached.
func (s *Service) Evaluate(ctx context.Context, req DecisionRequest) (Decision, error) {
	// Single authoritative timestamp for the entire evaluation. The age
	// gate, the decision record, and the latency metric all read the same
	// instant.
	evalTime := s.clock()

	ctx, span := s.tracer.Start(ctx, tracer.SpanDecisionEvaluate,
		tracer.String(tracer.AttrPersonalCodeHash, tracer.HashPersonalCode(req.PersonalCode)),
		tracer.Int64(tracer.AttrAmount, int64(req.Amount)),
		tracer.Int64(tracer.AttrPeriodMonths, int64(req.PeriodMonths)),
	)
	var evalErr error
	defer func() { span.End(evalErr) }()

	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveEvaluateLatency(time.Since(evalTime))
		}
	}()

	// Local gates run before any registry traffic so malformed or
	// out-of-policy requests never leave the process.
	if reason, ok := validateRequest(req, s.wellFormed); !ok {
		return s.finish(ctx, span, rejected(reason, Evidence{}, evalTime)), nil
	}
	if reason, ok := verifyAge(req.PersonalCode, evalTime); !ok {
		return s.finish(ctx, span, rejected(reason, Evidence{}, evalTime)), nil
	}

	record, err := s.segments.Profile(ctx, req.PersonalCode)
	if err != nil {
		evalErr = err
		s.logger.ErrorContext(ctx, "segment lookup failed",
			slog.String("personal_code", personalcode.Redact(req.PersonalCode)),
			slog.Any("error", err),
		)
		return Decision{}, err
	}

	decision := resolveApproval(req, record, evalTime)
	span.AddEvent(tracer.EventRulesEvaluated,
		tracer.String(tracer.AttrSegment, string(record.Segment)),
		tracer.Int64(tracer.AttrCreditModifier, int64(record.Modifier)),
	)
	return s.finish(ctx, span, decision), nil
}

// finish stamps the decision with its identity, records observability, and
// hands it back. Every evaluated decision passes through here exactly once.
func (s *Service) finish(ctx context.Context, span tracer.Span, d Decision) Decision {
	d.ID = id.NewDecisionID()

	span.SetAttributes(tracer.String(tracer.AttrOutcome, string(d.Outcome)))

	if s.metrics != nil {
		s.metrics.IncrementOutcome(string(d.Outcome), string(d.Reason))
		if d.Approved() {
			s.metrics.RecordApproval(d.Amount, d.PeriodMonths)
		}
	}

	s.logger.InfoContext(ctx, "loan decision evaluated",
		slog.String("decision_id", d.ID.String()),
		slog.String("outcome", string(d.Outcome)),
		slog.String("reason", string(d.Reason)),
		slog.Int("amount", d.Amount),
		slog.Int("period_months", d.PeriodMonths),
	)
	return d
}
