package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"decisio/internal/registry/clients/creditregistry"
	"decisio/internal/registry/models"
	"decisio/internal/registry/store"
	dErrors "decisio/pkg/domain-errors"
)

type RegistryServiceSuite struct {
	suite.Suite
	client  *stubClient
	cache   *store.InMemoryCache
	service *Service
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.client = &stubClient{}
	s.cache = store.NewInMemoryCache(5 * time.Minute)
	s.service = New(s.client, WithCache(s.cache))
}

func (s *RegistryServiceSuite) TestProfile() {
	ctx := context.Background()

	s.Run("serves a fresh lookup from the client", func() {
		s.client.profile = midProfile("39005106001")

		profile, err := s.service.Profile(ctx, "39005106001")
		s.Require().NoError(err)
		s.Equal(models.SegmentMid, profile.Segment)
		s.Equal(1, s.client.calls)
	})

	s.Run("serves repeated lookups from cache", func() {
		s.client.calls = 0
		s.client.profile = midProfile("48512033507")

		first, err := s.service.Profile(ctx, "48512033507")
		s.Require().NoError(err)

		second, err := s.service.Profile(ctx, "48512033507")
		s.Require().NoError(err)

		s.Equal(first.Segment, second.Segment)
		s.Equal(1, s.client.calls, "second lookup must not reach the client")
	})

	s.Run("passes debt profiles through unchanged", func() {
		s.client.profile = models.SegmentProfile{
			PersonalCode: "37603141200",
			Segment:      models.SegmentDebt,
			Modifier:     0,
			Source:       creditregistry.SourceMock,
			CheckedAt:    time.Now(),
		}

		profile, err := s.service.Profile(ctx, "37603141200")
		s.Require().NoError(err)
		s.True(profile.InDebt())
		s.Equal(0, profile.Modifier)
	})

	s.Run("propagates domain errors from the client", func() {
		s.client.err = dErrors.New(dErrors.CodeInvalidPersonalCode, "checksum mismatch")

		_, err := s.service.Profile(ctx, "39005106002")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidPersonalCode))
		s.client.err = nil
	})

	s.Run("folds unknown client errors into registry unavailable", func() {
		s.client.err = errors.New("connection reset by peer")

		_, err := s.service.Profile(ctx, "39005106001")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeRegistryUnavailable))
		s.client.err = nil
	})

	s.Run("works without a cache", func() {
		uncached := New(s.client)
		s.client.calls = 0
		s.client.profile = midProfile("39005106001")

		_, err := uncached.Profile(ctx, "39005106001")
		s.Require().NoError(err)
		_, err = uncached.Profile(ctx, "39005106001")
		s.Require().NoError(err)
		s.Equal(2, s.client.calls, "every lookup reaches the client without a cache")
	})

	s.Run("falls back to the client when cache reads fail", func() {
		failing := New(s.client, WithCache(&failingCache{}))
		s.client.calls = 0
		s.client.profile = midProfile("39005106001")

		profile, err := failing.Profile(ctx, "39005106001")
		s.Require().NoError(err)
		s.Equal(models.SegmentMid, profile.Segment)
		s.Equal(1, s.client.calls)
	})
}

func (s *RegistryServiceSuite) TestPurgeCache() {
	ctx := context.Background()

	s.Run("drops cached profiles", func() {
		s.client.profile = midProfile("39005106001")
		_, err := s.service.Profile(ctx, "39005106001")
		s.Require().NoError(err)

		dropped, err := s.service.PurgeCache(ctx)
		s.Require().NoError(err)
		s.Equal(1, dropped)

		s.client.calls = 0
		_, err = s.service.Profile(ctx, "39005106001")
		s.Require().NoError(err)
		s.Equal(1, s.client.calls, "purged profiles must be fetched again")
	})

	s.Run("purging without a cache is a no-op", func() {
		uncached := New(s.client)
		dropped, err := uncached.PurgeCache(ctx)
		s.Require().NoError(err)
		s.Equal(0, dropped)
	})
}

func (s *RegistryServiceSuite) TestNewPanicsWithoutClient() {
	s.Panics(func() {
		New(nil)
	})
}

func midProfile(code string) models.SegmentProfile {
	return models.SegmentProfile{
		PersonalCode: code,
		Segment:      models.SegmentMid,
		Modifier:     models.ModifierMid,
		Source:       creditregistry.SourceMock,
		CheckedAt:    time.Now(),
	}
}

// =============================================================================
// Mock implementations
// =============================================================================

type stubClient struct {
	profile models.SegmentProfile
	err     error
	calls   int
}

func (m *stubClient) SegmentProfile(_ context.Context, _ string) (models.SegmentProfile, error) {
	m.calls++
	if m.err != nil {
		return models.SegmentProfile{}, m.err
	}
	return m.profile, nil
}

func (m *stubClient) Source() string { return creditregistry.SourceMock }

type failingCache struct{}

func (c *failingCache) Save(_ context.Context, _ models.SegmentProfile) error {
	return errors.New("cache down")
}

func (c *failingCache) Find(_ context.Context, _ string) (models.SegmentProfile, error) {
	return models.SegmentProfile{}, errors.New("cache down")
}

func (c *failingCache) Purge(_ context.Context) (int, error) {
	return 0, errors.New("cache down")
}
