package seo

import (
	"strings"

	"github.com/starford/seokit/internal/models"
)

const allowAll = "User-agent: *\nAllow: /"

// BuildRobots returns the robots.txt document for cfg: the custom rules
// verbatim (or allow-all when blank) with exactly one Sitemap directive
// pointing at the site's sitemap.
func BuildRobots(cfg models.GlobalSeoConfig) string {
	rules := strings.ReplaceAll(cfg.RobotsTxtContent, "\r\n", "\n")
	if strings.TrimSpace(rules) == "" {
		rules = allowAll
	}
	return withSitemap(rules, cfg.BaseURL)
}

// FallbackRobots is served when the settings record cannot be read.
func FallbackRobots(baseURL string) string {
	if baseURL == "" {
		return allowAll + "\n"
	}
	return withSitemap(allowAll, baseURL)
}

func withSitemap(rules, baseURL string) string {
	lines := strings.Split(rules, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isSitemapDirective(line) {
			continue
		}
		kept = append(kept, line)
	}
	body := strings.TrimRight(strings.Join(kept, "\n"), "\n \t")
	return body + "\n\nSitemap: " + SitemapURL(baseURL) + "\n"
}

func isSitemapDirective(line string) bool {
	name, _, ok := strings.Cut(strings.TrimSpace(line), ":")
	return ok && strings.EqualFold(strings.TrimSpace(name), "sitemap")
}
