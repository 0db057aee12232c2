package matching

import (
	"testing"
	"time"

	"creator-match-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ruleByName(t *testing.T, name string) Rule {
	t.Helper()
	for _, r := range DefaultRules() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("rule %q not in catalogue", name)
	return Rule{}
}

func subject(pref models.BrandPreference, creator models.CreatorProfile, m models.CreatorMetrics) *Subject {
	pref.Normalize()
	creator.Normalize()
	return &Subject{
		Preference: &pref,
		Creator:    &creator,
		Metrics:    m,
		Now:        fixedNow,
	}
}

func TestDefaultRules_CatalogueOrder(t *testing.T) {
	want := []string{
		"category", "brand_values", "social_platform", "audience_age", "audience_gender",
		"location", "budget", "rating", "projects", "repeat_clients", "response_rate",
		"followers", "influencer_tier", "service_tier", "earnings", "recency",
		"profile_completeness", "campaign_tags", "subcategories", "expertise",
		"content_types", "event_types", "travel_willingness", "preferred_locations",
		"min_experience", "target_audience_gender", "target_audience_age",
		"social_media_preference",
	}

	rules := DefaultRules()
	require.Len(t, rules, len(want))
	for i, r := range rules {
		assert.Equal(t, want[i], r.Name, "position %d", i)
	}
}

func TestProfileRules(t *testing.T) {
	tests := []struct {
		name    string
		rule    string
		pref    models.BrandPreference
		creator models.CreatorProfile
		points  int
		reason  string
	}{
		{
			name:    "category in creator categories",
			rule:    "category",
			pref:    models.BrandPreference{Category: ptr("fashion")},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{Categories: []string{"beauty", "fashion"}}},
			points:  20,
			reason:  "Category match",
		},
		{
			name:    "category missing on creator",
			rule:    "category",
			pref:    models.BrandPreference{Category: ptr("fashion")},
			creator: models.CreatorProfile{},
		},
		{
			name:    "empty category preference is no constraint",
			rule:    "category",
			pref:    models.BrandPreference{Category: ptr("")},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{Categories: []string{""}}},
		},
		{
			name:    "brand values overlap creator tags once",
			rule:    "brand_values",
			pref:    models.BrandPreference{BrandValues: []string{"sustainable", "vegan", "local"}},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{Tags: []string{"vegan", "local"}}},
			points:  10,
			reason:  "Shares brand values",
		},
		{
			name: "social platform is case-insensitive",
			rule: "social_platform",
			pref: models.BrandPreference{SocialMediaPreferences: []string{"Instagram"}},
			creator: models.CreatorProfile{SocialMedia: models.SocialMedia{SocialProfiles: map[string]models.SocialProfile{
				"INSTAGRAM": {Handle: "@jane"},
			}}},
			points: 15,
			reason: "Active on preferred social platform",
		},
		{
			name: "social platform without url or handle",
			rule: "social_platform",
			pref: models.BrandPreference{SocialMediaPreferences: []string{"instagram"}},
			creator: models.CreatorProfile{SocialMedia: models.SocialMedia{SocialProfiles: map[string]models.SocialProfile{
				"instagram": {URL: "  "},
			}}},
		},
		{
			name: "audience age in age ranges",
			rule: "audience_age",
			pref: models.BrandPreference{AgeTargeting: ptr("18-24")},
			creator: models.CreatorProfile{SocialMedia: models.SocialMedia{AudienceDemographics: models.AudienceDemographics{
				AgeRanges: []string{"18-24", "25-34"},
			}}},
			points: 5,
			reason: "Audience age match",
		},
		{
			name:    "audience age with demographics absent",
			rule:    "audience_age",
			pref:    models.BrandPreference{AgeTargeting: ptr("18-24")},
			creator: models.CreatorProfile{},
		},
		{
			name: "audience gender above 30 percent",
			rule: "audience_gender",
			pref: models.BrandPreference{GenderTargeting: ptr("Female")},
			creator: models.CreatorProfile{SocialMedia: models.SocialMedia{AudienceDemographics: models.AudienceDemographics{
				GenderBreakdown: map[string]float64{"female": 62, "male": 38},
			}}},
			points: 5,
			reason: "Audience gender match",
		},
		{
			name: "audience gender at exactly 30 percent",
			rule: "audience_gender",
			pref: models.BrandPreference{GenderTargeting: ptr("male")},
			creator: models.CreatorProfile{SocialMedia: models.SocialMedia{AudienceDemographics: models.AudienceDemographics{
				GenderBreakdown: map[string]float64{"Male": 30},
			}}},
		},
		{
			name:    "location equals country",
			rule:    "location",
			pref:    models.BrandPreference{Location: ptr("India")},
			creator: models.CreatorProfile{PersonalInfo: models.PersonalInfo{Location: models.Location{Country: ptr("India")}}},
			points:  5,
			reason:  "Location match",
		},
		{
			name:    "location without country",
			rule:    "location",
			pref:    models.BrandPreference{Location: ptr("India")},
			creator: models.CreatorProfile{},
		},
		{
			name:    "price within budget",
			rule:    "budget",
			pref:    models.BrandPreference{Budget: ptr(5000.0)},
			creator: models.CreatorProfile{Pricing: models.Pricing{Basic: models.PricePackage{Price: ptr(5000.0)}}},
			points:  10,
			reason:  "Within budget",
		},
		{
			name:    "price over budget",
			rule:    "budget",
			pref:    models.BrandPreference{Budget: ptr(5000.0)},
			creator: models.CreatorProfile{Pricing: models.Pricing{Basic: models.PricePackage{Price: ptr(5000.01)}}},
		},
		{
			name:    "zero budget is present",
			rule:    "budget",
			pref:    models.BrandPreference{Budget: ptr(0.0)},
			creator: models.CreatorProfile{Pricing: models.Pricing{Basic: models.PricePackage{Price: ptr(0.0)}}},
			points:  10,
			reason:  "Within budget",
		},
		{
			name:    "price missing",
			rule:    "budget",
			pref:    models.BrandPreference{Budget: ptr(5000.0)},
			creator: models.CreatorProfile{},
		},
		{
			name:    "subcategory overlap",
			rule:    "subcategories",
			pref:    models.BrandPreference{Subcategories: []string{"streetwear"}},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{Subcategories: []string{"streetwear", "luxury"}}},
			points:  8,
			reason:  "Subcategory match",
		},
		{
			name:    "required expertise overlap",
			rule:    "expertise",
			pref:    models.BrandPreference{RequiredExpertise: []string{"photography"}},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{Expertise: []string{"photography"}}},
			points:  8,
			reason:  "Has required expertise",
		},
		{
			name:    "content type overlap",
			rule:    "content_types",
			pref:    models.BrandPreference{ContentTypes: []string{"reels", "stories"}},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{ContentTypes: []string{"stories"}}},
			points:  8,
			reason:  "Creates preferred content types",
		},
		{
			name: "event type overlap",
			rule: "event_types",
			pref: models.BrandPreference{EventTypes: []string{"launch"}},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{
				EventAvailability: models.EventAvailability{EventTypes: []string{"launch"}},
			}},
			points: 5,
			reason: "Available for preferred event types",
		},
		{
			name: "travel willingness both false",
			rule: "travel_willingness",
			pref: models.BrandPreference{EventTravelWillingness: ptr(false)},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{
				EventAvailability: models.EventAvailability{TravelWillingness: ptr(false)},
			}},
			points: 3,
			reason: "Travel willingness match",
		},
		{
			name:    "travel willingness creator absent",
			rule:    "travel_willingness",
			pref:    models.BrandPreference{EventTravelWillingness: ptr(true)},
			creator: models.CreatorProfile{},
		},
		{
			name: "preferred location overlap",
			rule: "preferred_locations",
			pref: models.BrandPreference{PreferredLocations: []string{"Mumbai", "Delhi"}},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{
				EventAvailability: models.EventAvailability{PreferredLocations: []string{"Delhi"}},
			}},
			points: 3,
			reason: "Available in preferred locations",
		},
		{
			name:    "meets min years experience",
			rule:    "min_experience",
			pref:    models.BrandPreference{MinYearsExperience: ptr(3.0)},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{YearsExperience: ptr(3.0)}},
			points:  5,
			reason:  "Meets experience requirement",
		},
		{
			name:    "below min years experience",
			rule:    "min_experience",
			pref:    models.BrandPreference{MinYearsExperience: ptr(3.0)},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{YearsExperience: ptr(2.5)}},
		},
		{
			name:    "target audience gender case-insensitive",
			rule:    "target_audience_gender",
			pref:    models.BrandPreference{RequiredAudienceGender: ptr("FEMALE")},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{TargetAudienceGender: ptr("female")}},
			points:  3,
			reason:  "Target audience gender match",
		},
		{
			name:    "target audience age exact",
			rule:    "target_audience_age",
			pref:    models.BrandPreference{RequiredAudienceAgeRange: ptr("25-34")},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{TargetAudienceAgeRange: ptr("25-34")}},
			points:  3,
			reason:  "Target audience age range match",
		},
		{
			name:    "target audience age differs",
			rule:    "target_audience_age",
			pref:    models.BrandPreference{RequiredAudienceAgeRange: ptr("25-34")},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{TargetAudienceAgeRange: ptr("25-35")}},
		},
		{
			name:    "creator social media preference in brand list",
			rule:    "social_media_preference",
			pref:    models.BrandPreference{SocialMediaPreferences: []string{"YouTube", "tiktok"}},
			creator: models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{SocialMediaPreference: ptr("Youtube")}},
			points:  3,
			reason:  "Preferred social media platform",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, fired := ruleByName(t, tt.rule).Eval(subject(tt.pref, tt.creator, models.CreatorMetrics{}))
			if tt.points == 0 {
				assert.False(t, fired)
				return
			}
			require.True(t, fired)
			assert.Equal(t, tt.points, out.Points)
			assert.Equal(t, tt.reason, out.Reason)
		})
	}
}

func TestCampaignTagRule(t *testing.T) {
	rule := ruleByName(t, "campaign_tags")
	creator := models.CreatorProfile{ProfessionalInfo: models.ProfessionalInfo{Tags: []string{"summer", "beach"}}}

	s := subject(models.BrandPreference{}, creator, models.CreatorMetrics{})
	_, fired := rule.Eval(s)
	assert.False(t, fired, "no campaign")

	s.Campaign = &models.Campaign{ID: "c-1", Tags: []string{"beach", "summer"}}
	out, fired := rule.Eval(s)
	require.True(t, fired)
	assert.Equal(t, 5, out.Points)
	assert.Equal(t, "Matches campaign tags", out.Reason)

	s.Campaign = &models.Campaign{ID: "c-2", Tags: []string{"winter"}}
	_, fired = rule.Eval(s)
	assert.False(t, fired)
}

func TestTieredRules_HighestBracketOnly(t *testing.T) {
	tests := []struct {
		rule    string
		metrics models.CreatorMetrics
		points  int
		reason  string
	}{
		{"rating", models.CreatorMetrics{Ratings: models.Ratings{Average: ptr(4.9)}}, 10, "Top rated creator"},
		{"rating", models.CreatorMetrics{Ratings: models.Ratings{Average: ptr(4.5)}}, 10, "Top rated creator"},
		{"rating", models.CreatorMetrics{Ratings: models.Ratings{Average: ptr(4.2)}}, 5, "Highly rated creator"},
		{"rating", models.CreatorMetrics{Ratings: models.Ratings{Average: ptr(3.5)}}, 2, "Well rated creator"},
		{"rating", models.CreatorMetrics{Ratings: models.Ratings{Average: ptr(3.49)}}, 0, ""},
		{"projects", models.CreatorMetrics{CompletedProjects: ptr(60.0)}, 8, "Extensive project history"},
		{"projects", models.CreatorMetrics{CompletedProjects: ptr(20.0)}, 5, "Experienced creator"},
		{"projects", models.CreatorMetrics{ProjectsCompleted: ptr(12.0)}, 3, "Proven track record"},
		{"projects", models.CreatorMetrics{CompletedProjects: ptr(5.0), ProjectsCompleted: ptr(99.0)}, 1, "Has completed projects"},
		{"projects", models.CreatorMetrics{CompletedProjects: ptr(4.0)}, 0, ""},
		{"repeat_clients", models.CreatorMetrics{RepeatClientRate: ptr(55.0)}, 8, "Excellent client retention"},
		{"repeat_clients", models.CreatorMetrics{RepeatClientRate: ptr(30.0)}, 5, "Strong client retention"},
		{"repeat_clients", models.CreatorMetrics{RepeatClientRate: ptr(15.0)}, 2, "Returning clients"},
		{"repeat_clients", models.CreatorMetrics{RepeatClientRate: ptr(14.9)}, 0, ""},
		{"response_rate", models.CreatorMetrics{}, 5, "Highly responsive"},
		{"response_rate", models.CreatorMetrics{ResponseRate: ptr(90.0)}, 3, "Responsive"},
		{"response_rate", models.CreatorMetrics{ResponseRate: ptr(70.0)}, 1, "Usually responds"},
		{"response_rate", models.CreatorMetrics{ResponseRate: ptr(0.0)}, 0, ""},
		{"followers", models.CreatorMetrics{Followers: ptr(1_200_000.0)}, 10, "Mega influencer reach"},
		{"followers", models.CreatorMetrics{Followers: ptr(500_000.0)}, 8, "Macro influencer reach"},
		{"followers", models.CreatorMetrics{Followers: ptr(250_000.0)}, 6, "Large audience"},
		{"followers", models.CreatorMetrics{Followers: ptr(50_000.0)}, 4, "Mid-tier audience"},
		{"followers", models.CreatorMetrics{Followers: ptr(10_000.0)}, 2, "Micro influencer reach"},
		{"followers", models.CreatorMetrics{Followers: ptr(9_999.0)}, 0, ""},
		{"earnings", models.CreatorMetrics{TotalEarnings: ptr(150_000.0)}, 3, "Top earner"},
		{"earnings", models.CreatorMetrics{TotalEarnings: ptr(50_000.0)}, 2, "Established earner"},
		{"earnings", models.CreatorMetrics{TotalEarnings: ptr(10_000.0)}, 1, "Proven earner"},
		{"earnings", models.CreatorMetrics{TotalEarnings: ptr(500.0)}, 0, ""},
		{"profile_completeness", models.CreatorMetrics{ProfileCompleteness: ptr(95.0)}, 3, "Complete profile"},
		{"profile_completeness", models.CreatorMetrics{ProfileCompleteness: ptr(70.0)}, 1, "Detailed profile"},
		{"profile_completeness", models.CreatorMetrics{ProfileCompleteness: ptr(69.0)}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.reason, func(t *testing.T) {
			out, fired := ruleByName(t, tt.rule).Eval(subject(models.BrandPreference{}, models.CreatorProfile{}, tt.metrics))
			if tt.points == 0 {
				assert.False(t, fired)
				return
			}
			require.True(t, fired)
			assert.Equal(t, tt.points, out.Points)
			assert.Equal(t, tt.reason, out.Reason)
		})
	}
}

func TestTierRules_Defaults(t *testing.T) {
	empty := subject(models.BrandPreference{}, models.CreatorProfile{}, models.CreatorMetrics{})

	_, fired := ruleByName(t, "influencer_tier").Eval(empty)
	assert.False(t, fired, "absent tier defaults to Bronze")
	_, fired = ruleByName(t, "service_tier").Eval(empty)
	assert.False(t, fired, "absent tier defaults to Standard")

	tests := []struct {
		rule    string
		metrics models.CreatorMetrics
		points  int
	}{
		{"influencer_tier", models.CreatorMetrics{InfluencerTier: ptr(models.InfluencerTierDiamond)}, 8},
		{"influencer_tier", models.CreatorMetrics{InfluencerTier: ptr(models.InfluencerTierPlatinum)}, 6},
		{"influencer_tier", models.CreatorMetrics{InfluencerTier: ptr(models.InfluencerTierGold)}, 4},
		{"influencer_tier", models.CreatorMetrics{InfluencerTier: ptr(models.InfluencerTierSilver)}, 2},
		{"influencer_tier", models.CreatorMetrics{InfluencerTier: ptr(models.InfluencerTier("Unobtainium"))}, 0},
		{"service_tier", models.CreatorMetrics{ServiceTier: ptr(models.ServiceTierVIP)}, 5},
		{"service_tier", models.CreatorMetrics{ServiceTier: ptr(models.ServiceTierElite)}, 3},
		{"service_tier", models.CreatorMetrics{ServiceTier: ptr(models.ServiceTierProfessional)}, 2},
	}
	for _, tt := range tests {
		out, _ := ruleByName(t, tt.rule).Eval(subject(models.BrandPreference{}, models.CreatorProfile{}, tt.metrics))
		assert.Equal(t, tt.points, out.Points, "%s %+v", tt.rule, tt.metrics)
	}
}

func TestRecencyRule(t *testing.T) {
	rule := ruleByName(t, "recency")
	tests := []struct {
		name   string
		age    time.Duration
		points int
	}{
		{"just now", 0, 3},
		{"exactly seven days", 7 * 24 * time.Hour, 3},
		{"eight days", 8 * 24 * time.Hour, 1},
		{"thirty days", 30 * 24 * time.Hour, 1},
		{"thirty one days", 31 * 24 * time.Hour, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := fixedNow.Add(-tt.age)
			out, fired := rule.Eval(subject(models.BrandPreference{}, models.CreatorProfile{}, models.CreatorMetrics{LastUpdated: &ts}))
			assert.Equal(t, tt.points > 0, fired)
			assert.Equal(t, tt.points, out.Points)
		})
	}

	_, fired := rule.Eval(subject(models.BrandPreference{}, models.CreatorProfile{}, models.CreatorMetrics{}))
	assert.False(t, fired)
}

func TestTiered_PanicsOnAscendingBrackets(t *testing.T) {
	assert.Panics(t, func() {
		tiered("broken", func(*Subject) (float64, bool) { return 0, true }, []Tier{
			{Min: 10, Points: 1},
			{Min: 20, Points: 2},
		})
	})
	assert.Panics(t, func() {
		recency("broken", func(*Subject) *time.Time { return nil }, []Window{
			{Within: time.Hour},
			{Within: time.Minute},
		})
	})
}
