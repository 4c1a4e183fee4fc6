// Package models defines the domain types for seokit.
package models

import "time"

// GlobalSeoConfig is the singleton settings record holding site-wide SEO defaults.
type GlobalSeoConfig struct {
	SiteName                string    `json:"siteName"`
	BaseURL                 string    `json:"baseUrl"`
	GlobalMetaTitle         string    `json:"globalMetaTitle"`
	GlobalMetaDescription   string    `json:"globalMetaDescription"`
	GlobalKeywords          string    `json:"globalKeywords,omitempty"`
	DefaultSocialShareImage string    `json:"defaultSocialShareImage"`
	RobotsTxtContent        string    `json:"robotsTxtContent"`
	GoogleAnalyticsID       string    `json:"googleAnalyticsId,omitempty"`
	GoogleTagManagerID      string    `json:"googleTagManagerId,omitempty"`
	FaviconURL              string    `json:"faviconUrl,omitempty"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// ConfigPatch is a partial GlobalSeoConfig. Nil fields are left untouched;
// an empty string clears an optional field.
type ConfigPatch struct {
	SiteName                *string `json:"siteName,omitempty"`
	BaseURL                 *string `json:"baseUrl,omitempty"`
	GlobalMetaTitle         *string `json:"globalMetaTitle,omitempty"`
	GlobalMetaDescription   *string `json:"globalMetaDescription,omitempty"`
	GlobalKeywords          *string `json:"globalKeywords,omitempty"`
	DefaultSocialShareImage *string `json:"defaultSocialShareImage,omitempty"`
	RobotsTxtContent        *string `json:"robotsTxtContent,omitempty"`
	GoogleAnalyticsID       *string `json:"googleAnalyticsId,omitempty"`
	GoogleTagManagerID      *string `json:"googleTagManagerId,omitempty"`
	FaviconURL              *string `json:"faviconUrl,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (p ConfigPatch) Empty() bool {
	return p.SiteName == nil && p.BaseURL == nil && p.GlobalMetaTitle == nil &&
		p.GlobalMetaDescription == nil && p.GlobalKeywords == nil &&
		p.DefaultSocialShareImage == nil && p.RobotsTxtContent == nil &&
		p.GoogleAnalyticsID == nil && p.GoogleTagManagerID == nil && p.FaviconURL == nil
}

// ApplyTo copies the non-nil fields of p onto c.
func (p ConfigPatch) ApplyTo(c *GlobalSeoConfig) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.SiteName, p.SiteName)
	set(&c.BaseURL, p.BaseURL)
	set(&c.GlobalMetaTitle, p.GlobalMetaTitle)
	set(&c.GlobalMetaDescription, p.GlobalMetaDescription)
	set(&c.GlobalKeywords, p.GlobalKeywords)
	set(&c.DefaultSocialShareImage, p.DefaultSocialShareImage)
	set(&c.RobotsTxtContent, p.RobotsTxtContent)
	set(&c.GoogleAnalyticsID, p.GoogleAnalyticsID)
	set(&c.GoogleTagManagerID, p.GoogleTagManagerID)
	set(&c.FaviconURL, p.FaviconURL)
}

// ContentKind identifies a publishable content variant.
type ContentKind string

// Content variants.
const (
	KindPage    ContentKind = "page"
	KindPost    ContentKind = "post"
	KindProject ContentKind = "project"
)

// PathRef is one visible content item reduced to its public path.
type PathRef struct {
	Path         string
	LastModified time.Time
}

// ChangeFrequency is a sitemap hint for how often a URL changes.
type ChangeFrequency string

// Sitemap change frequencies.
const (
	ChangeAlways  ChangeFrequency = "always"
	ChangeHourly  ChangeFrequency = "hourly"
	ChangeDaily   ChangeFrequency = "daily"
	ChangeWeekly  ChangeFrequency = "weekly"
	ChangeMonthly ChangeFrequency = "monthly"
	ChangeYearly  ChangeFrequency = "yearly"
	ChangeNever   ChangeFrequency = "never"
)

// SitemapEntry is one URL in the generated sitemap.
type SitemapEntry struct {
	URL             string          `json:"url"`
	LastModified    *time.Time      `json:"lastModified,omitempty"`
	ChangeFrequency ChangeFrequency `json:"changeFrequency,omitempty"`
	Priority        *float64        `json:"priority,omitempty"`
}

// PageContext is what a rendered page knows about itself.
type PageContext struct {
	Path        string      `json:"path"`
	Kind        ContentKind `json:"kind,omitempty"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	Keywords    string      `json:"keywords,omitempty"`
	// Canonical is accepted for completeness but never used as the canonical URL.
	Canonical string `json:"canonical,omitempty"`
	NoIndex   bool   `json:"noIndex,omitempty"`
	NoFollow  bool   `json:"noFollow,omitempty"`
}

// OpenGraph holds og:* values.
type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	SiteName    string `json:"siteName"`
	Image       string `json:"image,omitempty"`
	Type        string `json:"type"`
}

// Twitter holds twitter:* values.
type Twitter struct {
	Card        string `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// RobotsDirective controls the robots meta tag.
type RobotsDirective struct {
	Index  bool `json:"index"`
	Follow bool `json:"follow"`
}

// String renders the directive as a robots meta content value.
func (r RobotsDirective) String() string {
	index, follow := "index", "follow"
	if !r.Index {
		index = "noindex"
	}
	if !r.Follow {
		follow = "nofollow"
	}
	return index + ", " + follow
}

// PageMetadata is the resolved <head> metadata for one page.
type PageMetadata struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	CanonicalURL       string          `json:"canonicalUrl"`
	Keywords           string          `json:"keywords,omitempty"`
	OpenGraph          OpenGraph       `json:"openGraph"`
	Twitter            Twitter         `json:"twitter"`
	Robots             RobotsDirective `json:"robots"`
	GoogleAnalyticsID  string          `json:"googleAnalyticsId,omitempty"`
	GoogleTagManagerID string          `json:"googleTagManagerId,omitempty"`
	FaviconURL         string          `json:"faviconUrl,omitempty"`
}
