// internal/models/brand.go
package models

import "strings"

type BrandProfile struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

// BrandPreference holds a brand's matching criteria. Every field is optional;
// a nil pointer or empty slice means the brand places no constraint on that axis.
type BrandPreference struct {
	BrandID                  string   `json:"brandId"`
	Category                 *string  `json:"category,omitempty"`
	Subcategories            []string `json:"subcategories,omitempty"`
	BrandValues              []string `json:"brandValues,omitempty"`
	SocialMediaPreferences   []string `json:"socialMediaPreferences,omitempty"`
	AgeTargeting             *string  `json:"ageTargeting,omitempty"`
	GenderTargeting          *string  `json:"genderTargeting,omitempty"`
	Location                 *string  `json:"location,omitempty"`
	Budget                   *float64 `json:"budget,omitempty"`
	RequiredExpertise        []string `json:"requiredExpertise,omitempty"`
	ContentTypes             []string `json:"contentTypes,omitempty"`
	EventTypes               []string `json:"eventTypes,omitempty"`
	EventTravelWillingness   *bool    `json:"eventTravelWillingness,omitempty"`
	PreferredLocations       []string `json:"preferredLocations,omitempty"`
	MinYearsExperience       *float64 `json:"minYearsExperience,omitempty"`
	RequiredAudienceGender   *string  `json:"requiredAudienceGender,omitempty"`
	RequiredAudienceAgeRange *string  `json:"requiredAudienceAgeRange,omitempty"`
}

// Normalize lower-cases the fields that are compared case-insensitively.
func (p *BrandPreference) Normalize() {
	if p == nil {
		return
	}
	p.SocialMediaPreferences = lowerAll(p.SocialMediaPreferences)
	p.GenderTargeting = lowerPtr(p.GenderTargeting)
	p.RequiredAudienceGender = lowerPtr(p.RequiredAudienceGender)
}

type Campaign struct {
	ID      string   `json:"id"`
	BrandID string   `json:"brandId,omitempty"`
	Title   string   `json:"title,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return &v
}
