package matching

import (
	"context"

	"creator-match-workers/internal/models"
)

// BrandDirectory resolves brand profiles. A missing brand is reported as
// store.ErrNotFound.
type BrandDirectory interface {
	GetBrandProfile(ctx context.Context, brandID string) (*models.BrandProfile, error)
}

type PreferenceStore interface {
	GetBrandPreference(ctx context.Context, brandID string) (*models.BrandPreference, error)
}

type CampaignStore interface {
	GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error)
}

// CreatorDirectory lists published creators only; the engine does not filter.
type CreatorDirectory interface {
	ListPublishedCreators(ctx context.Context) ([]models.CreatorProfile, error)
	GetCreator(ctx context.Context, creatorID string) (*models.CreatorProfile, error)
}

// MetricsStore answers one batched query per call. Ids without a record are
// simply absent from the result.
type MetricsStore interface {
	GetMetricsByCreatorIDs(ctx context.Context, creatorIDs []string) ([]models.CreatorMetrics, error)
}

// Sources bundles the collaborators a Ranker reads from.
type Sources struct {
	Brands      BrandDirectory
	Preferences PreferenceStore
	Campaigns   CampaignStore
	Creators    CreatorDirectory
	Metrics     MetricsStore
}
