package adapters

import (
	"context"

	"decisio/internal/decision/ports"
	registryService "decisio/internal/registry/service"
)

// SegmentAdapter is an in-process adapter that implements ports.SegmentSource
// by calling the registry service directly. It keeps the decision engine
// decoupled from the registry package layout: if segmentation ever moves to a
// remote credit bureau, this adapter is replaced without touching the engine.
//
// The adapter maps the registry's full profile down to the fields the engine
// is allowed to see, so cache bookkeeping never crosses the boundary.
type SegmentAdapter struct {
	registry *registryService.Service
}

// NewSegmentAdapter creates a new in-process segment adapter.
func NewSegmentAdapter(registry *registryService.Service) ports.SegmentSource {
	return &SegmentAdapter{
		registry: registry,
	}
}

// Profile resolves the applicant's risk segment and credit modifier.
func (a *SegmentAdapter) Profile(ctx context.Context, personalCode string) (ports.SegmentRecord, error) {
	profile, err := a.registry.Profile(ctx, personalCode)
	if err != nil {
		return ports.SegmentRecord{}, err
	}

	return ports.SegmentRecord{
		Segment:  ports.RiskSegment(profile.Segment),
		Modifier: profile.Modifier,
		Source:   profile.Source,
	}, nil
}
