// Package postgres reads brand documents and creator metrics from Postgres.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"creator-match-workers/internal/models"
	"creator-match-workers/internal/store"

	"github.com/lib/pq"
)

const (
	queryBrandProfile = `SELECT id, company_name, industry FROM brand_profiles WHERE id = $1`

	queryBrandPreference = `SELECT preferences FROM brand_preferences WHERE brand_id = $1`

	queryCampaign = `SELECT id, brand_id, title, tags FROM campaigns WHERE id = $1`

	queryMetricsByCreators = `SELECT creator_id, metrics FROM creator_metrics WHERE creator_id = ANY($1)`
)

// Store serves brand profiles, brand preferences, campaigns and creator
// metrics from one database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetBrandProfile(ctx context.Context, brandID string) (*models.BrandProfile, error) {
	var (
		p        models.BrandProfile
		company  sql.NullString
		industry sql.NullString
	)
	err := s.db.QueryRowContext(ctx, queryBrandProfile, brandID).Scan(&p.ID, &company, &industry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query brand profile %s: %w", brandID, err)
	}
	p.CompanyName = company.String
	p.Industry = industry.String
	return &p, nil
}

func (s *Store) GetBrandPreference(ctx context.Context, brandID string) (*models.BrandPreference, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, queryBrandPreference, brandID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query brand preference %s: %w", brandID, err)
	}

	var pref models.BrandPreference
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &pref); err != nil {
			return nil, fmt.Errorf("decode brand preference %s: %w", brandID, err)
		}
	}
	pref.BrandID = brandID
	pref.Normalize()
	return &pref, nil
}

func (s *Store) GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	var (
		c     models.Campaign
		title sql.NullString
	)
	err := s.db.QueryRowContext(ctx, queryCampaign, campaignID).Scan(&c.ID, &c.BrandID, &title, pq.Array(&c.Tags))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query campaign %s: %w", campaignID, err)
	}
	c.Title = title.String
	return &c, nil
}

// GetMetricsByCreatorIDs answers the whole batch with a single query.
func (s *Store) GetMetricsByCreatorIDs(ctx context.Context, creatorIDs []string) ([]models.CreatorMetrics, error) {
	if len(creatorIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, queryMetricsByCreators, pq.Array(creatorIDs))
	if err != nil {
		return nil, fmt.Errorf("query creator metrics: %w", err)
	}
	defer rows.Close()

	out := make([]models.CreatorMetrics, 0, len(creatorIDs))
	for rows.Next() {
		var (
			creatorID string
			raw       []byte
		)
		if err := rows.Scan(&creatorID, &raw); err != nil {
			return nil, fmt.Errorf("scan creator metrics: %w", err)
		}

		// Fields of the wrong type stay absent; unparseable records decode
		// to the empty metrics record.
		var m models.CreatorMetrics
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &m)
		}
		m.CreatorID = creatorID
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creator metrics: %w", err)
	}
	return out, nil
}
