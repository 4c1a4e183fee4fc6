package seo

import "github.com/starford/seokit/internal/models"

// ResolveMetadata merges page-specific values over the global defaults in cfg.
//
// A page title renders as "{title} | {siteName}"; without one the global
// meta title is used verbatim. The canonical URL is always baseUrl + path,
// whatever the page supplies in Canonical. Empty optional fields stay empty
// and are omitted by the encoders.
func ResolveMetadata(page models.PageContext, cfg models.GlobalSeoConfig) models.PageMetadata {
	title := cfg.GlobalMetaTitle
	if page.Title != "" {
		title = page.Title
		if cfg.SiteName != "" {
			title += " | " + cfg.SiteName
		}
	}
	description := cfg.GlobalMetaDescription
	if page.Description != "" {
		description = page.Description
	}
	image := cfg.DefaultSocialShareImage
	if page.Image != "" {
		image = page.Image
	}
	keywords := cfg.GlobalKeywords
	if page.Keywords != "" {
		keywords = page.Keywords
	}
	canonical := JoinURL(cfg.BaseURL, page.Path)

	ogType := "website"
	if page.Kind == models.KindPost {
		ogType = "article"
	}
	card := "summary"
	if image != "" {
		card = "summary_large_image"
	}

	return models.PageMetadata{
		Title:        title,
		Description:  description,
		CanonicalURL: canonical,
		Keywords:     keywords,
		OpenGraph: models.OpenGraph{
			Title:       title,
			Description: description,
			URL:         canonical,
			SiteName:    cfg.SiteName,
			Image:       image,
			Type:        ogType,
		},
		Twitter: models.Twitter{
			Card:        card,
			Title:       title,
			Description: description,
			Image:       image,
		},
		Robots:             models.RobotsDirective{Index: !page.NoIndex, Follow: !page.NoFollow},
		GoogleAnalyticsID:  cfg.GoogleAnalyticsID,
		GoogleTagManagerID: cfg.GoogleTagManagerID,
		FaviconURL:         cfg.FaviconURL,
	}
}
