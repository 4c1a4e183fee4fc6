// Package seoservice coordinates the settings store, content collection and
// the pure builders in package seo. HTTP, MCP and the export command all go
// through it.
package seoservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/starford/seokit/internal/audit"
	"github.com/starford/seokit/internal/content"
	"github.com/starford/seokit/internal/models"
	"github.com/starford/seokit/internal/seo"
	"github.com/starford/seokit/internal/settings"
	"github.com/starford/seokit/internal/storage"
)

// Published artifact names, relative to the export root.
const (
	RobotsFile  = "robots.txt"
	SitemapFile = "sitemap.xml"
)

// ErrDegraded marks a generation pass that fell back to default output.
var ErrDegraded = errors.New("generation degraded")

// SettingsStore reads and updates the singleton settings record.
type SettingsStore interface {
	Read(ctx context.Context) (models.GlobalSeoConfig, error)
	Update(ctx context.Context, patch models.ConfigPatch) (models.GlobalSeoConfig, error)
}

var _ SettingsStore = (*settings.Store)(nil)

// Service coordinates settings, content and generation.
type Service struct {
	settings  SettingsStore
	collector *content.Collector
	audit     audit.Logger
	out       storage.Provider
	logger    *slog.Logger

	fallbackBaseURL string
}

// Option configures a Service.
type Option func(*Service)

// WithExport makes Regenerate publish robots.txt and sitemap.xml to out.
func WithExport(out storage.Provider) Option {
	return func(s *Service) { s.out = out }
}

// WithFallbackBaseURL sets the base URL used when the settings record cannot
// be read during generation.
func WithFallbackBaseURL(u string) Option {
	return func(s *Service) { s.fallbackBaseURL = u }
}

// WithLogger overrides slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new SEO service.
func NewService(store SettingsStore, collector *content.Collector, auditLog audit.Logger, opts ...Option) *Service {
	s := &Service{
		settings:  store,
		collector: collector,
		audit:     auditLog,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Settings returns the current settings record.
func (s *Service) Settings(ctx context.Context) (models.GlobalSeoConfig, error) {
	return s.settings.Read(ctx)
}

// UpdateSettings validates and applies patch. The store records the audit entry.
func (s *Service) UpdateSettings(ctx context.Context, patch models.ConfigPatch) (models.GlobalSeoConfig, error) {
	return s.settings.Update(ctx, patch)
}

// Sitemap builds the sitemap entries for the current content. When the
// settings or the content cannot be read the returned entries are still
// usable (home only, fallback base URL) and err wraps ErrDegraded.
func (s *Service) Sitemap(ctx context.Context) ([]models.SitemapEntry, error) {
	cfg, cfgErr := s.readForPass(ctx)
	entries, err := s.sitemapFor(ctx, cfg.BaseURL)
	if err != nil {
		return entries, err
	}
	return entries, cfgErr
}

func (s *Service) sitemapFor(ctx context.Context, baseURL string) ([]models.SitemapEntry, error) {
	refs, err := s.collector.All(ctx)
	if err != nil {
		return seo.BuildSitemap(baseURL, nil), fmt.Errorf("%w: collect content: %w", ErrDegraded, err)
	}
	return seo.BuildSitemap(baseURL, refs), nil
}

// SitemapXML renders Sitemap as XML. Degradation is reported the same way.
func (s *Service) SitemapXML(ctx context.Context) ([]byte, error) {
	entries, genErr := s.Sitemap(ctx)
	var buf bytes.Buffer
	if err := seo.EncodeSitemap(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), genErr
}

// Robots builds robots.txt. When the settings cannot be read the allow-all
// fallback is returned together with an error wrapping ErrDegraded.
func (s *Service) Robots(ctx context.Context) (string, error) {
	cfg, err := s.readForPass(ctx)
	return s.robotsFor(cfg, err), err
}

func (s *Service) robotsFor(cfg models.GlobalSeoConfig, cfgErr error) string {
	if cfgErr != nil {
		return seo.FallbackRobots(s.fallbackBaseURL)
	}
	return seo.BuildRobots(cfg)
}

// Metadata resolves head metadata for a request path. Paths that match a
// visible content item use its title, description and image.
func (s *Service) Metadata(ctx context.Context, path string) (models.PageMetadata, error) {
	page, found, err := s.collector.Lookup(ctx, path)
	if err != nil {
		return models.PageMetadata{}, fmt.Errorf("lookup %s: %w", path, err)
	}
	if !found {
		page = models.PageContext{Path: path}
	}
	return s.Resolve(ctx, page)
}

// Resolve merges page with the current settings.
func (s *Service) Resolve(ctx context.Context, page models.PageContext) (models.PageMetadata, error) {
	cfg, err := s.settings.Read(ctx)
	if err != nil {
		return models.PageMetadata{}, err
	}
	return seo.ResolveMetadata(page, cfg), nil
}

// RegenerateResult summarizes one build pass.
type RegenerateResult struct {
	URLs    int      `json:"urls"`
	Written []string `json:"written"`
}

// Regenerate runs a full build pass. With an export destination configured it
// writes robots.txt and sitemap.xml; unchanged files are left alone. A
// degraded pass is never published. Passes requested by an actor are audited.
func (s *Service) Regenerate(ctx context.Context) (RegenerateResult, error) {
	// One settings read feeds both documents.
	cfg, err := s.readForPass(ctx)
	if err != nil {
		return RegenerateResult{}, err
	}
	entries, err := s.sitemapFor(ctx, cfg.BaseURL)
	if err != nil {
		return RegenerateResult{}, err
	}
	robots := seo.BuildRobots(cfg)
	res := RegenerateResult{URLs: len(entries), Written: []string{}}

	if s.out != nil {
		var buf bytes.Buffer
		if err := seo.EncodeSitemap(&buf, entries); err != nil {
			return RegenerateResult{}, err
		}
		files := []struct {
			name string
			data []byte
		}{
			{SitemapFile, buf.Bytes()},
			{RobotsFile, []byte(robots)},
		}
		for _, f := range files {
			changed, err := s.out.Write(f.name, f.data)
			if err != nil {
				return RegenerateResult{}, fmt.Errorf("publish %s: %w", f.name, err)
			}
			if changed {
				res.Written = append(res.Written, f.name)
			}
		}
	}

	s.logger.Info("sitemap regenerated",
		slog.Int("urls", res.URLs),
		slog.Int("written", len(res.Written)))
	// Unattended passes (export command, watcher) write nothing to the
	// database, otherwise the watcher would observe its own audit rows.
	if audit.ActorFrom(ctx) != "" && s.audit != nil {
		s.audit.Record(ctx, audit.Entry{
			Action: audit.ActionSitemapRegenerate,
			Target: SitemapFile,
			Diff: map[string]audit.Change{
				"urls": {After: strconv.Itoa(res.URLs)},
			},
		})
	}
	return res, nil
}

// readForPass reads the settings once for a generation pass. On failure the
// returned record carries only the fallback base URL and err wraps ErrDegraded.
func (s *Service) readForPass(ctx context.Context) (models.GlobalSeoConfig, error) {
	cfg, err := s.settings.Read(ctx)
	if err != nil {
		return models.GlobalSeoConfig{BaseURL: s.fallbackBaseURL}, fmt.Errorf("%w: read settings: %w", ErrDegraded, err)
	}
	return cfg, nil
}
