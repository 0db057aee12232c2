// Package matching scores published creators against a brand's preferences and
// ranks them with human-readable reasons.
package matching

import (
	"time"

	"creator-match-workers/internal/models"
)

// Subject is everything a rule may look at for one creator. Preference and
// Creator are never nil inside the engine; Campaign may be.
type Subject struct {
	Preference *models.BrandPreference
	Campaign   *models.Campaign
	Creator    *models.CreatorProfile
	Metrics    models.CreatorMetrics
	Now        time.Time
}

// Rule is one independent scoring axis. Eval reports false when the rule does
// not fire, including when data on either side is missing.
type Rule struct {
	Name string
	Eval func(s *Subject) (Outcome, bool)
}

var (
	ratingTiers = []Tier{
		{Min: 4.5, Points: 10, Reason: "Top rated creator"},
		{Min: 4.0, Points: 5, Reason: "Highly rated creator"},
		{Min: 3.5, Points: 2, Reason: "Well rated creator"},
	}
	projectTiers = []Tier{
		{Min: 50, Points: 8, Reason: "Extensive project history"},
		{Min: 20, Points: 5, Reason: "Experienced creator"},
		{Min: 10, Points: 3, Reason: "Proven track record"},
		{Min: 5, Points: 1, Reason: "Has completed projects"},
	}
	repeatClientTiers = []Tier{
		{Min: 50, Points: 8, Reason: "Excellent client retention"},
		{Min: 30, Points: 5, Reason: "Strong client retention"},
		{Min: 15, Points: 2, Reason: "Returning clients"},
	}
	responseTiers = []Tier{
		{Min: 95, Points: 5, Reason: "Highly responsive"},
		{Min: 85, Points: 3, Reason: "Responsive"},
		{Min: 70, Points: 1, Reason: "Usually responds"},
	}
	followerTiers = []Tier{
		{Min: 1_000_000, Points: 10, Reason: "Mega influencer reach"},
		{Min: 500_000, Points: 8, Reason: "Macro influencer reach"},
		{Min: 100_000, Points: 6, Reason: "Large audience"},
		{Min: 50_000, Points: 4, Reason: "Mid-tier audience"},
		{Min: 10_000, Points: 2, Reason: "Micro influencer reach"},
	}
	earningTiers = []Tier{
		{Min: 100_000, Points: 3, Reason: "Top earner"},
		{Min: 50_000, Points: 2, Reason: "Established earner"},
		{Min: 10_000, Points: 1, Reason: "Proven earner"},
	}
	completenessTiers = []Tier{
		{Min: 90, Points: 3, Reason: "Complete profile"},
		{Min: 70, Points: 1, Reason: "Detailed profile"},
	}
	recencyWindows = []Window{
		{Within: 7 * 24 * time.Hour, Points: 3, Reason: "Recently active"},
		{Within: 30 * 24 * time.Hour, Points: 1, Reason: "Active this month"},
	}

	influencerTierPoints = map[string]Outcome{
		string(models.InfluencerTierDiamond):  {Points: 8, Reason: "Diamond tier influencer"},
		string(models.InfluencerTierPlatinum): {Points: 6, Reason: "Platinum tier influencer"},
		string(models.InfluencerTierGold):     {Points: 4, Reason: "Gold tier influencer"},
		string(models.InfluencerTierSilver):   {Points: 2, Reason: "Silver tier influencer"},
		string(models.InfluencerTierBronze):   {Points: 0},
	}
	serviceTierPoints = map[string]Outcome{
		string(models.ServiceTierVIP):          {Points: 5, Reason: "VIP service tier"},
		string(models.ServiceTierElite):        {Points: 3, Reason: "Elite service tier"},
		string(models.ServiceTierProfessional): {Points: 2, Reason: "Professional service tier"},
		string(models.ServiceTierStandard):     {Points: 0},
	}
)

const defaultResponseRate = 100

// DefaultRules returns the rule catalogue in evaluation order. Reason order in
// every MatchResult follows this order.
func DefaultRules() []Rule {
	return []Rule{
		flat("category", 20, "Category match", func(s *Subject) bool {
			c, ok := str(s.Preference.Category)
			return ok && contains(s.Creator.ProfessionalInfo.Categories, c)
		}),
		overlap("brand_values", 10, "Shares brand values", func(s *Subject) ([]string, []string) {
			return s.Preference.BrandValues, s.Creator.ProfessionalInfo.Tags
		}),
		overlap("social_platform", 15, "Active on preferred social platform", func(s *Subject) ([]string, []string) {
			return s.Preference.SocialMediaPreferences, s.Creator.ActivePlatforms()
		}),
		flat("audience_age", 5, "Audience age match", func(s *Subject) bool {
			age, ok := str(s.Preference.AgeTargeting)
			return ok && contains(s.Creator.SocialMedia.AudienceDemographics.AgeRanges, age)
		}),
		flat("audience_gender", 5, "Audience gender match", func(s *Subject) bool {
			g, ok := str(s.Preference.GenderTargeting)
			if !ok {
				return false
			}
			pct, ok := s.Creator.SocialMedia.AudienceDemographics.GenderBreakdown[g]
			return ok && pct > 30
		}),
		flat("location", 5, "Location match", func(s *Subject) bool {
			want, ok := str(s.Preference.Location)
			have, ok2 := str(s.Creator.PersonalInfo.Location.Country)
			return ok && ok2 && want == have
		}),
		flat("budget", 10, "Within budget", func(s *Subject) bool {
			budget, ok := num(s.Preference.Budget)
			price, ok2 := num(s.Creator.Pricing.Basic.Price)
			return ok && ok2 && price <= budget
		}),
		tiered("rating", func(s *Subject) (float64, bool) {
			return num(s.Metrics.Ratings.Average)
		}, ratingTiers),
		tiered("projects", func(s *Subject) (float64, bool) {
			return num(s.Metrics.Projects())
		}, projectTiers),
		tiered("repeat_clients", func(s *Subject) (float64, bool) {
			return num(s.Metrics.RepeatClientRate)
		}, repeatClientTiers),
		tiered("response_rate", func(s *Subject) (float64, bool) {
			if v, ok := num(s.Metrics.ResponseRate); ok {
				return v, true
			}
			return defaultResponseRate, true
		}, responseTiers),
		tiered("followers", func(s *Subject) (float64, bool) {
			return num(s.Metrics.Followers)
		}, followerTiers),
		categorical("influencer_tier", func(s *Subject) string {
			if s.Metrics.InfluencerTier == nil || *s.Metrics.InfluencerTier == "" {
				return string(models.InfluencerTierBronze)
			}
			return string(*s.Metrics.InfluencerTier)
		}, influencerTierPoints),
		categorical("service_tier", func(s *Subject) string {
			if s.Metrics.ServiceTier == nil || *s.Metrics.ServiceTier == "" {
				return string(models.ServiceTierStandard)
			}
			return string(*s.Metrics.ServiceTier)
		}, serviceTierPoints),
		tiered("earnings", func(s *Subject) (float64, bool) {
			return num(s.Metrics.TotalEarnings)
		}, earningTiers),
		recency("recency", func(s *Subject) *time.Time {
			return s.Metrics.LastUpdated
		}, recencyWindows),
		tiered("profile_completeness", func(s *Subject) (float64, bool) {
			return num(s.Metrics.ProfileCompleteness)
		}, completenessTiers),
		overlap("campaign_tags", 5, "Matches campaign tags", func(s *Subject) ([]string, []string) {
			if s.Campaign == nil {
				return nil, nil
			}
			return s.Campaign.Tags, s.Creator.ProfessionalInfo.Tags
		}),
		overlap("subcategories", 8, "Subcategory match", func(s *Subject) ([]string, []string) {
			return s.Preference.Subcategories, s.Creator.ProfessionalInfo.Subcategories
		}),
		overlap("expertise", 8, "Has required expertise", func(s *Subject) ([]string, []string) {
			return s.Preference.RequiredExpertise, s.Creator.ProfessionalInfo.Expertise
		}),
		overlap("content_types", 8, "Creates preferred content types", func(s *Subject) ([]string, []string) {
			return s.Preference.ContentTypes, s.Creator.ProfessionalInfo.ContentTypes
		}),
		overlap("event_types", 5, "Available for preferred event types", func(s *Subject) ([]string, []string) {
			return s.Preference.EventTypes, s.Creator.ProfessionalInfo.EventAvailability.EventTypes
		}),
		flat("travel_willingness", 3, "Travel willingness match", func(s *Subject) bool {
			want := s.Preference.EventTravelWillingness
			have := s.Creator.ProfessionalInfo.EventAvailability.TravelWillingness
			return want != nil && have != nil && *want == *have
		}),
		overlap("preferred_locations", 3, "Available in preferred locations", func(s *Subject) ([]string, []string) {
			return s.Preference.PreferredLocations, s.Creator.ProfessionalInfo.EventAvailability.PreferredLocations
		}),
		flat("min_experience", 5, "Meets experience requirement", func(s *Subject) bool {
			minYears, ok := num(s.Preference.MinYearsExperience)
			years, ok2 := num(s.Creator.ProfessionalInfo.YearsExperience)
			return ok && ok2 && years >= minYears
		}),
		flat("target_audience_gender", 3, "Target audience gender match", func(s *Subject) bool {
			want, ok := str(s.Preference.RequiredAudienceGender)
			have, ok2 := str(s.Creator.ProfessionalInfo.TargetAudienceGender)
			return ok && ok2 && want == have
		}),
		flat("target_audience_age", 3, "Target audience age range match", func(s *Subject) bool {
			want, ok := str(s.Preference.RequiredAudienceAgeRange)
			have, ok2 := str(s.Creator.ProfessionalInfo.TargetAudienceAgeRange)
			return ok && ok2 && want == have
		}),
		flat("social_media_preference", 3, "Preferred social media platform", func(s *Subject) bool {
			have, ok := str(s.Creator.ProfessionalInfo.SocialMediaPreference)
			return ok && contains(s.Preference.SocialMediaPreferences, have)
		}),
	}
}
