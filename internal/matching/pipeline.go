package matching

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"time"

	apperrors "creator-match-workers/internal/common/errors"
	"creator-match-workers/internal/common/logger"
	"creator-match-workers/internal/common/metrics"
	"creator-match-workers/internal/common/observability"
	"creator-match-workers/internal/models"
	"creator-match-workers/internal/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Config tunes the ranking pipeline.
type Config struct {
	Parallelism      int
	MetricsBatchSize int
}

type RankRequest struct {
	BrandID    string
	CampaignID string
}

// Ranking is the full ranked list for one brand, highest score first.
type Ranking struct {
	RunID      string
	Matches    []models.MatchResult
	Candidates int
}

type ScoreRequest struct {
	BrandID    string
	CreatorID  string
	CampaignID string
}

// Ranker loads one snapshot of brand and creator data per call and scores the
// whole published pool against it.
type Ranker struct {
	sources   Sources
	evaluator *Evaluator
	config    Config
	logger    logger.Logger
}

func NewRanker(sources Sources, evaluator *Evaluator, config Config, log logger.Logger) *Ranker {
	if evaluator == nil {
		evaluator = NewEvaluator()
	}
	if config.Parallelism <= 0 {
		config.Parallelism = runtime.NumCPU()
	}
	if config.MetricsBatchSize <= 0 {
		config.MetricsBatchSize = DefaultMetricsBatchSize
	}
	return &Ranker{
		sources:   sources,
		evaluator: evaluator,
		config:    config,
		logger:    log,
	}
}

type brandSnapshot struct {
	profile    *models.BrandProfile
	preference *models.BrandPreference
	campaign   *models.Campaign
}

// Rank scores every published creator for the brand. No partial ranking is
// ever returned: any failed read aborts the run.
func (r *Ranker) Rank(ctx context.Context, req RankRequest) (*Ranking, error) {
	start := time.Now()
	runID := uuid.NewString()

	ctx, span := observability.StartSpan(ctx, "matching.rank",
		attribute.String("brand_id", req.BrandID),
		attribute.String("run_id", runID),
	)
	defer span.End()

	ranking, err := r.rank(ctx, runID, req)
	metrics.CreatorRankingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.CreatorRankings.WithLabelValues(rankingStatus(err)).Inc()
		r.logger.Warn("ranking aborted", map[string]interface{}{
			"runId":   runID,
			"brandId": req.BrandID,
			"error":   err,
		})
		return nil, err
	}

	metrics.CreatorRankings.WithLabelValues(metrics.StatusOK).Inc()
	r.logger.Info("ranking completed", map[string]interface{}{
		"runId":      runID,
		"brandId":    req.BrandID,
		"campaignId": req.CampaignID,
		"candidates": ranking.Candidates,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return ranking, nil
}

func (r *Ranker) rank(ctx context.Context, runID string, req RankRequest) (*Ranking, error) {
	snap, err := r.loadBrand(ctx, req.BrandID, req.CampaignID)
	if err != nil {
		return nil, err
	}

	pool, err := r.fetchPool(ctx)
	if err != nil {
		return nil, err
	}
	metrics.CreatorPoolSize.Observe(float64(len(pool)))

	ids := make([]string, len(pool))
	for i := range pool {
		ids[i] = pool[i].ID
	}
	index, err := r.indexMetrics(ctx, ids)
	if err != nil {
		return nil, err
	}

	matches := r.evaluatePool(ctx, snap, pool, index)
	sortByScore(matches)

	return &Ranking{
		RunID:      runID,
		Matches:    matches,
		Candidates: len(pool),
	}, nil
}

// ScoreCreator evaluates a single published creator and returns the per-rule
// breakdown next to the result.
func (r *Ranker) ScoreCreator(ctx context.Context, req ScoreRequest) (*models.MatchResult, []RuleResult, error) {
	ctx, span := observability.StartSpan(ctx, "matching.score_creator",
		attribute.String("brand_id", req.BrandID),
		attribute.String("creator_id", req.CreatorID),
	)
	defer span.End()

	snap, err := r.loadBrand(ctx, req.BrandID, req.CampaignID)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	creator, err := r.sources.Creators.GetCreator(ctx, req.CreatorID)
	if err != nil || creator == nil {
		err = classify("creator", err, apperrors.NewCreatorNotFoundError(req.CreatorID))
		span.RecordError(err)
		return nil, nil, err
	}
	creator.Normalize()

	index, err := r.indexMetrics(ctx, []string{creator.ID})
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	result, breakdown := r.evaluator.Explain(Subject{
		Preference: snap.preference,
		Campaign:   snap.campaign,
		Creator:    creator,
		Metrics:    index.Lookup(creator.ID),
	})
	metrics.CreatorMatchScore.Observe(float64(result.Score))
	return &result, breakdown, nil
}

func (r *Ranker) loadBrand(ctx context.Context, brandID, campaignID string) (*brandSnapshot, error) {
	ctx, span := observability.StartSpan(ctx, "matching.load_brand")
	defer span.End()

	snap := &brandSnapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := r.sources.Brands.GetBrandProfile(gctx, brandID)
		if err != nil || profile == nil {
			return classify("brand_profile", err, apperrors.NewBrandNotFoundError(brandID))
		}
		snap.profile = profile
		return nil
	})

	g.Go(func() error {
		pref, err := r.sources.Preferences.GetBrandPreference(gctx, brandID)
		if err != nil || pref == nil {
			return classify("brand_preference", err, apperrors.NewPreferenceNotFoundError(brandID))
		}
		pref.Normalize()
		snap.preference = pref
		return nil
	})

	if campaignID != "" && r.sources.Campaigns != nil {
		g.Go(func() error {
			campaign, err := r.sources.Campaigns.GetCampaign(gctx, campaignID)
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			if err != nil {
				return classify("campaign", err, nil)
			}
			snap.campaign = campaign
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *Ranker) fetchPool(ctx context.Context) ([]models.CreatorProfile, error) {
	ctx, span := observability.StartSpan(ctx, "matching.fetch_pool")
	defer span.End()

	pool, err := r.sources.Creators.ListPublishedCreators(ctx)
	if err != nil {
		return nil, classify("creator_pool", err, nil)
	}
	for i := range pool {
		pool[i].Normalize()
	}
	span.SetAttributes(attribute.Int("pool_size", len(pool)))
	return pool, nil
}

func (r *Ranker) indexMetrics(ctx context.Context, ids []string) (*MetricsIndex, error) {
	ctx, span := observability.StartSpan(ctx, "matching.index_metrics")
	defer span.End()

	index, err := BuildMetricsIndex(ctx, r.sources.Metrics, ids, r.config.MetricsBatchSize)
	if err != nil {
		return nil, classify("metrics", err, nil)
	}
	span.SetAttributes(attribute.Int("indexed", index.Len()))
	return index, nil
}

// evaluatePool scores creators in contiguous chunks; each goroutine writes
// only its own slice positions so pool order survives into the result.
func (r *Ranker) evaluatePool(ctx context.Context, snap *brandSnapshot, pool []models.CreatorProfile, index *MetricsIndex) []models.MatchResult {
	_, span := observability.StartSpan(ctx, "matching.evaluate")
	defer span.End()

	results := make([]models.MatchResult, len(pool))
	if len(pool) == 0 {
		return results
	}

	now := r.evaluator.Now()
	workers := r.config.Parallelism
	if workers > len(pool) {
		workers = len(pool)
	}
	chunk := (len(pool) + workers - 1) / workers

	var g errgroup.Group
	for lo := 0; lo < len(pool); lo += chunk {
		hi := lo + chunk
		if hi > len(pool) {
			hi = len(pool)
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				creator := &pool[i]
				results[i] = r.evaluator.Evaluate(Subject{
					Preference: snap.preference,
					Campaign:   snap.campaign,
					Creator:    creator,
					Metrics:    index.Lookup(creator.ID),
					Now:        now,
				})
				metrics.CreatorMatchScore.Observe(float64(results[i].Score))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// sortByScore orders by score descending; equal scores keep pool order.
func sortByScore(results []models.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// classify maps a collaborator error onto the worker error taxonomy.
// notFound is returned for store.ErrNotFound and for a nil document; a nil
// notFound means absence is itself an upstream failure.
func classify(source string, err error, notFound *apperrors.StandardError) error {
	if err == nil || errors.Is(err, store.ErrNotFound) {
		if notFound != nil {
			return notFound
		}
		if err == nil {
			err = store.ErrNotFound
		}
		return apperrors.NewUpstreamFetchFailedError(source, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewUpstreamTimeoutError(source, err)
	}
	return apperrors.NewUpstreamFetchFailedError(source, err)
}

func rankingStatus(err error) string {
	if apperrors.IsNotFound(err) {
		return metrics.StatusNotFound
	}
	return metrics.StatusUpstreamError
}
