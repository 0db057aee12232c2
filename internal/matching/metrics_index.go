package matching

import (
	"context"
	"fmt"

	"creator-match-workers/internal/models"
)

const DefaultMetricsBatchSize = 5000

// MetricsIndex maps creator id to that creator's metrics record.
type MetricsIndex struct {
	byCreator map[string]models.CreatorMetrics
}

// BuildMetricsIndex fetches metrics for exactly the given creators, batchSize
// ids per store call. Duplicate and empty ids are dropped; when the store
// returns more than one record for a creator the first one is kept.
func BuildMetricsIndex(ctx context.Context, store MetricsStore, creatorIDs []string, batchSize int) (*MetricsIndex, error) {
	if batchSize <= 0 {
		batchSize = DefaultMetricsBatchSize
	}

	ids := uniqueIDs(creatorIDs)
	idx := &MetricsIndex{byCreator: make(map[string]models.CreatorMetrics, len(ids))}

	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		records, err := store.GetMetricsByCreatorIDs(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("fetch metrics batch %d-%d: %w", start, end, err)
		}
		for _, m := range records {
			if m.CreatorID == "" {
				continue
			}
			if _, dup := idx.byCreator[m.CreatorID]; dup {
				continue
			}
			idx.byCreator[m.CreatorID] = m
		}
	}

	return idx, nil
}

// Lookup returns the creator's metrics or the empty record when none exist.
func (idx *MetricsIndex) Lookup(creatorID string) models.CreatorMetrics {
	if idx == nil {
		return models.CreatorMetrics{}
	}
	return idx.byCreator[creatorID]
}

func (idx *MetricsIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byCreator)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
