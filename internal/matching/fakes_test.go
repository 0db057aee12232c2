package matching

import (
	"context"
	"sync"

	"creator-match-workers/internal/models"
	"creator-match-workers/internal/store"
)

func ptr[T any](v T) *T { return &v }

type fakeBrands struct {
	profiles map[string]*models.BrandProfile
	err      error
}

func (f *fakeBrands) GetBrandProfile(_ context.Context, brandID string) (*models.BrandProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[brandID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

type fakePreferences struct {
	prefs map[string]*models.BrandPreference
	err   error
}

func (f *fakePreferences) GetBrandPreference(_ context.Context, brandID string) (*models.BrandPreference, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.prefs[brandID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeCampaigns struct {
	campaigns map[string]*models.Campaign
	err       error
}

func (f *fakeCampaigns) GetCampaign(_ context.Context, campaignID string) (*models.Campaign, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.campaigns[campaignID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

type fakeCreators struct {
	mu        sync.Mutex
	pool      []models.CreatorProfile
	err       error
	listCalls int
}

func (f *fakeCreators) ListPublishedCreators(_ context.Context) ([]models.CreatorProfile, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.CreatorProfile, len(f.pool))
	copy(out, f.pool)
	return out, nil
}

func (f *fakeCreators) GetCreator(_ context.Context, creatorID string) (*models.CreatorProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.pool {
		if f.pool[i].ID == creatorID {
			c := f.pool[i]
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCreators) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type fakeMetrics struct {
	mu      sync.Mutex
	records map[string]models.CreatorMetrics
	batches [][]string
	err     error
}

func (f *fakeMetrics) GetMetricsByCreatorIDs(_ context.Context, ids []string) ([]models.CreatorMetrics, error) {
	f.mu.Lock()
	f.batches = append(f.batches, append([]string(nil), ids...))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.CreatorMetrics
	for _, id := range ids {
		if m, ok := f.records[id]; ok {
			m.CreatorID = id
			out = append(out, m)
		}
	}
	return out, nil
}
