// Package service coordinates credit registry lookups with caching.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"decisio/internal/platform/tracer"
	"decisio/internal/registry/clients/creditregistry"
	"decisio/internal/registry/metrics"
	"decisio/internal/registry/models"
	"decisio/internal/registry/store"
	dErrors "decisio/pkg/domain-errors"
	"decisio/pkg/personalcode"
)

// Service answers segment profile lookups, serving from cache when possible
// and falling back to the configured registry client.
type Service struct {
	client  creditregistry.Client
	cache   store.CacheStore
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithCache enables cache-aside lookups through the given store.
func WithCache(cache store.CacheStore) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a new registry service.
// Panics if the client is nil - fail fast at startup.
func New(client creditregistry.Client, opts ...Option) *Service {
	if client == nil {
		panic("registry.New: credit registry client is required")
	}

	s := &Service{
		client: client,
		tracer: tracer.NewNoop(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the segment profile for a personal code.
//
// Lookups are cache-aside: a cached profile is served directly, a miss goes to
// the registry client and the answer is cached for the next caller. Cache read
// failures degrade to a client call rather than failing the lookup.
func (s *Service) Profile(ctx context.Context, personalCode string) (profile models.SegmentProfile, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRegistryProfile,
		tracer.String(tracer.AttrPersonalCodeHash, tracer.HashPersonalCode(personalCode)),
	)
	defer func() { span.End(err) }()

	if s.cache != nil {
		cached, cacheErr := s.cache.Find(ctx, personalCode)
		switch {
		case cacheErr == nil:
			span.SetAttributes(
				tracer.Bool(tracer.AttrCacheHit, true),
				tracer.String(tracer.AttrSegment, string(cached.Segment)),
			)
			return cached, nil
		case !errors.Is(cacheErr, store.ErrNotFound):
			s.logger.Warn("segment cache read failed, falling back to registry",
				slog.String("personal_code", personalcode.Redact(personalCode)),
				slog.String("error", cacheErr.Error()),
			)
		}
	}
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, false))

	profile, err = s.lookup(ctx, personalCode)
	if err != nil {
		return models.SegmentProfile{}, err
	}

	if s.cache != nil {
		if saveErr := s.cache.Save(ctx, profile); saveErr != nil {
			s.logger.Warn("segment cache write failed",
				slog.String("personal_code", personalcode.Redact(personalCode)),
				slog.String("error", saveErr.Error()),
			)
		}
	}

	span.SetAttributes(
		tracer.String(tracer.AttrSegment, string(profile.Segment)),
		tracer.Int64(tracer.AttrCreditModifier, int64(profile.Modifier)),
		tracer.String(tracer.AttrSource, profile.Source),
	)
	return profile, nil
}

// lookup calls the registry client and translates its errors.
func (s *Service) lookup(ctx context.Context, personalCode string) (profile models.SegmentProfile, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRegistryClientCall,
		tracer.String(tracer.AttrSource, s.client.Source()),
	)
	start := time.Now()
	defer func() {
		span.End(err)
		if s.metrics == nil {
			return
		}
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.RecordLookup(s.client.Source(), status)
		s.metrics.ObserveLookupDuration(s.client.Source(), time.Since(start).Seconds())
	}()

	profile, err = s.client.SegmentProfile(ctx, personalCode)
	if err != nil {
		err = translateClientError(err)
		s.logger.Warn("credit registry lookup failed",
			slog.String("personal_code", personalcode.Redact(personalCode)),
			slog.String("source", s.client.Source()),
			slog.String("error", err.Error()),
		)
		return models.SegmentProfile{}, err
	}
	return profile, nil
}

// PurgeCache drops every cached segment profile and reports how many were
// removed. A service without a cache purges nothing.
func (s *Service) PurgeCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	dropped, err := s.cache.Purge(ctx)
	if err != nil {
		return dropped, dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge segment cache")
	}
	if s.metrics != nil {
		s.metrics.IncrementInvalidations()
	}
	s.logger.Info("segment cache purged", slog.Int("dropped", dropped))
	return dropped, nil
}

// translateClientError keeps known domain codes and folds everything else
// into a registry availability failure.
func translateClientError(err error) error {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "credit registry lookup timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "credit registry lookup failed")
}
