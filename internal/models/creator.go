// internal/models/creator.go
package models

import (
	"sort"
	"strings"
	"time"
)

type CreatorProfile struct {
	ID               string           `json:"id"`
	ProfessionalInfo ProfessionalInfo `json:"professionalInfo"`
	SocialMedia      SocialMedia      `json:"socialMedia"`
	PersonalInfo     PersonalInfo     `json:"personalInfo"`
	Pricing          Pricing          `json:"pricing"`
	PublishInfo      PublishInfo      `json:"publishInfo"`
}

type ProfessionalInfo struct {
	Categories             []string          `json:"categories,omitempty"`
	Subcategories          []string          `json:"subcategories,omitempty"`
	Tags                   []string          `json:"tags,omitempty"`
	Expertise              []string          `json:"expertise,omitempty"`
	ContentTypes           []string          `json:"contentTypes,omitempty"`
	YearsExperience        *float64          `json:"yearsExperience,omitempty"`
	EventAvailability      EventAvailability `json:"eventAvailability"`
	TargetAudienceGender   *string           `json:"targetAudienceGender,omitempty"`
	TargetAudienceAgeRange *string           `json:"targetAudienceAgeRange,omitempty"`
	SocialMediaPreference  *string           `json:"socialMediaPreference,omitempty"`
}

type EventAvailability struct {
	EventTypes         []string `json:"eventTypes,omitempty"`
	TravelWillingness  *bool    `json:"travelWillingness,omitempty"`
	PreferredLocations []string `json:"preferredLocations,omitempty"`
}

type SocialMedia struct {
	SocialProfiles       map[string]SocialProfile `json:"socialProfiles,omitempty"`
	AudienceDemographics AudienceDemographics     `json:"audienceDemographics"`
}

type SocialProfile struct {
	URL    string `json:"url,omitempty"`
	Handle string `json:"handle,omitempty"`
}

// Present reports whether the creator actually has an account on the platform.
func (s SocialProfile) Present() bool {
	return strings.TrimSpace(s.URL) != "" || strings.TrimSpace(s.Handle) != ""
}

type AudienceDemographics struct {
	AgeRanges       []string           `json:"ageRanges,omitempty"`
	GenderBreakdown map[string]float64 `json:"genderBreakdown,omitempty"`
}

type PersonalInfo struct {
	Location Location `json:"location"`
}

type Location struct {
	Country *string `json:"country,omitempty"`
	City    *string `json:"city,omitempty"`
}

type Pricing struct {
	Basic PricePackage `json:"basic"`
}

type PricePackage struct {
	Price *float64 `json:"price,omitempty"`
}

type PublishInfo struct {
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Normalize lower-cases platform and gender keys so rules can compare directly.
// When keys collide after lower-casing, an already lower-case key wins, then
// the first key in sorted order. A profile with a url or handle always beats
// an empty one.
func (c *CreatorProfile) Normalize() {
	if c == nil {
		return
	}
	if len(c.SocialMedia.SocialProfiles) > 0 {
		profiles := make(map[string]SocialProfile, len(c.SocialMedia.SocialProfiles))
		for _, platform := range foldOrder(c.SocialMedia.SocialProfiles) {
			p := c.SocialMedia.SocialProfiles[platform]
			key := foldKey(platform)
			if existing, ok := profiles[key]; ok && (existing.Present() || !p.Present()) {
				continue
			}
			profiles[key] = p
		}
		c.SocialMedia.SocialProfiles = profiles
	}
	if len(c.SocialMedia.AudienceDemographics.GenderBreakdown) > 0 {
		breakdown := make(map[string]float64, len(c.SocialMedia.AudienceDemographics.GenderBreakdown))
		for _, gender := range foldOrder(c.SocialMedia.AudienceDemographics.GenderBreakdown) {
			key := foldKey(gender)
			if _, ok := breakdown[key]; ok {
				continue
			}
			breakdown[key] = c.SocialMedia.AudienceDemographics.GenderBreakdown[gender]
		}
		c.SocialMedia.AudienceDemographics.GenderBreakdown = breakdown
	}
	c.ProfessionalInfo.TargetAudienceGender = lowerPtr(c.ProfessionalInfo.TargetAudienceGender)
	c.ProfessionalInfo.SocialMediaPreference = lowerPtr(c.ProfessionalInfo.SocialMediaPreference)
}

func foldKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// foldOrder lists the map keys with canonical (already folded) keys first,
// each group sorted.
func foldOrder[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := keys[i] == foldKey(keys[i]), keys[j] == foldKey(keys[j])
		if ci != cj {
			return ci
		}
		return keys[i] < keys[j]
	})
	return keys
}

// ActivePlatforms returns the platforms the creator has a url or handle for.
func (c *CreatorProfile) ActivePlatforms() []string {
	var out []string
	for platform, p := range c.SocialMedia.SocialProfiles {
		if p.Present() {
			out = append(out, platform)
		}
	}
	sort.Strings(out)
	return out
}

type InfluencerTier string

const (
	InfluencerTierBronze   InfluencerTier = "Bronze"
	InfluencerTierSilver   InfluencerTier = "Silver"
	InfluencerTierGold     InfluencerTier = "Gold"
	InfluencerTierPlatinum InfluencerTier = "Platinum"
	InfluencerTierDiamond  InfluencerTier = "Diamond"
)

type ServiceTier string

const (
	ServiceTierStandard     ServiceTier = "Standard"
	ServiceTierProfessional ServiceTier = "Professional"
	ServiceTierElite        ServiceTier = "Elite"
	ServiceTierVIP          ServiceTier = "VIP"
)

// CreatorMetrics is the aggregated performance record of a creator. The zero
// value is the "no metrics yet" record: every field absent.
type CreatorMetrics struct {
	CreatorID           string          `json:"creatorId,omitempty"`
	Ratings             Ratings         `json:"ratings"`
	CompletedProjects   *float64        `json:"completedProjects,omitempty"`
	ProjectsCompleted   *float64        `json:"projectsCompleted,omitempty"`
	RepeatClientRate    *float64        `json:"repeatClientRate,omitempty"`
	ResponseRate        *float64        `json:"responseRate,omitempty"`
	Followers           *float64        `json:"followers,omitempty"`
	InfluencerTier      *InfluencerTier `json:"influencerTier,omitempty"`
	ServiceTier         *ServiceTier    `json:"serviceTier,omitempty"`
	TotalEarnings       *float64        `json:"totalEarnings,omitempty"`
	LastUpdated         *time.Time      `json:"lastUpdated,omitempty"`
	ProfileCompleteness *float64        `json:"profileCompleteness,omitempty"`
}

type Ratings struct {
	Average *float64 `json:"average,omitempty"`
	Count   *float64 `json:"count,omitempty"`
}

// Projects returns completedProjects, falling back to projectsCompleted.
func (m CreatorMetrics) Projects() *float64 {
	if m.CompletedProjects != nil {
		return m.CompletedProjects
	}
	return m.ProjectsCompleted
}
