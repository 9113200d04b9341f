package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"decisio/internal/registry/models"
)

type InMemoryCacheSuite struct {
	suite.Suite
	cache *InMemoryCache
}

func (s *InMemoryCacheSuite) SetupTest() {
	s.cache = NewInMemoryCache(5 * time.Minute)
}

func TestInMemoryCacheSuite(t *testing.T) {
	suite.Run(t, new(InMemoryCacheSuite))
}

func midProfile(code string) models.SegmentProfile {
	return models.SegmentProfile{
		PersonalCode: code,
		Segment:      models.SegmentMid,
		Modifier:     models.ModifierMid,
		Source:       "mock",
		CheckedAt:    time.Now(),
	}
}

func (s *InMemoryCacheSuite) TestSaveAndFind() {
	ctx := context.Background()

	s.Run("saves and finds a profile", func() {
		profile := midProfile("39005106001")
		s.Require().NoError(s.cache.Save(ctx, profile))

		found, err := s.cache.Find(ctx, "39005106001")
		s.Require().NoError(err)
		s.Equal(profile.Segment, found.Segment)
		s.Equal(profile.Modifier, found.Modifier)
	})

	s.Run("overwrites an existing profile with the same key", func() {
		first := midProfile("48512033507")
		s.Require().NoError(s.cache.Save(ctx, first))

		second := first
		second.Segment = models.SegmentHigh
		second.Modifier = models.ModifierHigh
		s.Require().NoError(s.cache.Save(ctx, second))

		found, err := s.cache.Find(ctx, "48512033507")
		s.Require().NoError(err)
		s.Equal(models.SegmentHigh, found.Segment)
	})

	s.Run("returns ErrNotFound for unknown codes", func() {
		_, err := s.cache.Find(ctx, "50207218008")
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("expires profiles past the TTL", func() {
		shortLived := NewInMemoryCache(10 * time.Millisecond)
		s.Require().NoError(shortLived.Save(ctx, midProfile("39005106001")))

		time.Sleep(25 * time.Millisecond)

		_, err := shortLived.Find(ctx, "39005106001")
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

func (s *InMemoryCacheSuite) TestPurge() {
	ctx := context.Background()

	s.Run("drops all cached profiles and reports the count", func() {
		s.Require().NoError(s.cache.Save(ctx, midProfile("39005106001")))
		s.Require().NoError(s.cache.Save(ctx, midProfile("48512033507")))

		dropped, err := s.cache.Purge(ctx)
		s.Require().NoError(err)
		s.Equal(2, dropped)

		_, err = s.cache.Find(ctx, "39005106001")
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("purging an empty cache drops nothing", func() {
		dropped, err := s.cache.Purge(ctx)
		s.Require().NoError(err)
		s.Equal(0, dropped)
	})
}

func (s *InMemoryCacheSuite) TestConcurrentAccess() {
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.cache.Save(ctx, midProfile("39005106001"))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.cache.Find(ctx, "39005106001")
		}()
	}
	wg.Wait()

	found, err := s.cache.Find(ctx, "39005106001")
	s.Require().NoError(err)
	s.Equal(models.SegmentMid, found.Segment)
}
