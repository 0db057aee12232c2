// internal/workers/matching/rank-creator-matches/config.go
package rankcreatormatches

import "time"

type Config struct {
	Timeout    time.Duration
	MaxResults int // 0 returns the full ranking
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    60 * time.Second,
		MaxResults: 1000,
	}
}
