// internal/workers/matching/rank-creator-matches/models.go
package rankcreatormatches

import "creator-match-workers/internal/models"

type Input struct {
	BrandID    string `json:"brandId"`
	CampaignID string `json:"campaignId,omitempty"`
	Limit      *int   `json:"limit,omitempty"`
}

type Output struct {
	RunID           string               `json:"runId"`
	Matches         []models.MatchResult `json:"matches"`
	TotalCandidates int                  `json:"totalCandidates"`
	Truncated       bool                 `json:"truncated"`
}
