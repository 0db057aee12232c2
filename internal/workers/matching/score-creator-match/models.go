// internal/workers/matching/score-creator-match/models.go
package scorecreatormatch

import (
	"creator-match-workers/internal/matching"
	"creator-match-workers/internal/models"
)

type Input struct {
	BrandID    string `json:"brandId"`
	CreatorID  string `json:"creatorId"`
	CampaignID string `json:"campaignId,omitempty"`
}

type Output struct {
	Match     models.MatchResult    `json:"match"`
	Breakdown []matching.RuleResult `json:"breakdown"`
}
