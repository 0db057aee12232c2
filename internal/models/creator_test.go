package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatorProfile_Normalize_CollidingGenderKeys(t *testing.T) {
	tests := []struct {
		name      string
		breakdown map[string]float64
		want      float64
	}{
		{name: "lower-case key wins", breakdown: map[string]float64{"Female": 20, "female": 40}, want: 40},
		{name: "lower-case key wins when smaller", breakdown: map[string]float64{"FEMALE": 60, "female": 10}, want: 10},
		{name: "sorted order among mixed case", breakdown: map[string]float64{"Female": 20, "FEMALE": 70}, want: 70},
		{name: "trimmed key", breakdown: map[string]float64{" Female ": 35}, want: 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				breakdown := make(map[string]float64, len(tt.breakdown))
				for k, v := range tt.breakdown {
					breakdown[k] = v
				}
				c := CreatorProfile{SocialMedia: SocialMedia{
					AudienceDemographics: AudienceDemographics{GenderBreakdown: breakdown},
				}}
				c.Normalize()

				require.Len(t, c.SocialMedia.AudienceDemographics.GenderBreakdown, 1)
				assert.Equal(t, tt.want, c.SocialMedia.AudienceDemographics.GenderBreakdown["female"])
			}
		})
	}
}

func TestCreatorProfile_Normalize_CollidingPlatformKeys(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := CreatorProfile{SocialMedia: SocialMedia{SocialProfiles: map[string]SocialProfile{
			"instagram": {},
			"Instagram": {Handle: "@creator"},
			"TikTok":    {URL: "https://tiktok.com/@a"},
			"tiktok":    {URL: "https://tiktok.com/@b"},
		}}}
		c.Normalize()

		profiles := c.SocialMedia.SocialProfiles
		require.Len(t, profiles, 2)
		assert.Equal(t, "@creator", profiles["instagram"].Handle)
		assert.Equal(t, "https://tiktok.com/@b", profiles["tiktok"].URL)
		assert.Equal(t, []string{"instagram", "tiktok"}, c.ActivePlatforms())
	}
}

func TestCreatorProfile_Normalize_Nil(t *testing.T) {
	var c *CreatorProfile
	assert.NotPanics(t, c.Normalize)
}
