// internal/models/match.go
package models

// MatchResult is one scored, explainable ranking entry.
type MatchResult struct {
	CreatorID string         `json:"creatorId"`
	Profile   CreatorProfile `json:"profile"`
	Metrics   CreatorMetrics `json:"metrics"`
	Score     int            `json:"score"`
	Reasons   []string       `json:"reasons"`
}
