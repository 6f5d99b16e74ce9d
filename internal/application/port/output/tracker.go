package output

import (
	"context"

	"autofill-agent/internal/domain/entity"
)

// TrackerPort talks to the job tracking service that owns profiles and jobs.
type TrackerPort interface {
	Profile(ctx context.Context, id string) (*entity.Profile, error)
	NotifyProfileSelection(ctx context.Context, applyURL, profileID string) error
}
