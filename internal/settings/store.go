// Package settings stores the singleton GlobalSeoConfig record.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/seokit/internal/apperr"
	"github.com/starford/seokit/internal/audit"
	"github.com/starford/seokit/internal/models"
)

const auditTarget = "seo_settings/1"

const selectSQL = `
	SELECT site_name, base_url, global_meta_title, global_meta_description, global_keywords,
	       default_social_share_image, robots_txt_content, google_analytics_id,
	       google_tag_manager_id, favicon_url, updated_at
	FROM seo_settings WHERE id = 1`

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store reads and updates the settings row. Authorization is enforced by callers.
type Store struct {
	conn  *sql.DB
	audit audit.Logger
	clock func() time.Time
}

// NewStore creates a Store. auditLog may be nil.
func NewStore(conn *sql.DB, auditLog audit.Logger) *Store {
	return &Store{
		conn:  conn,
		audit: auditLog,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// Read returns the singleton record, or apperr.ErrNotFound if it was never seeded.
func (s *Store) Read(ctx context.Context) (models.GlobalSeoConfig, error) {
	return read(ctx, s.conn)
}

func read(ctx context.Context, q queryer) (models.GlobalSeoConfig, error) {
	var c models.GlobalSeoConfig
	err := q.QueryRowContext(ctx, selectSQL).Scan(
		&c.SiteName, &c.BaseURL, &c.GlobalMetaTitle, &c.GlobalMetaDescription, &c.GlobalKeywords,
		&c.DefaultSocialShareImage, &c.RobotsTxtContent, &c.GoogleAnalyticsID,
		&c.GoogleTagManagerID, &c.FaviconURL, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GlobalSeoConfig{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.GlobalSeoConfig{}, fmt.Errorf("settings: read: %w", err)
	}
	return c, nil
}

// Seed inserts defaults as the singleton row when none exists. It reports
// whether a row was created and never overwrites an existing record.
func (s *Store) Seed(ctx context.Context, defaults models.GlobalSeoConfig) (bool, error) {
	patch := PatchFrom(defaults)
	if err := validatePatch(&patch); err != nil {
		return false, fmt.Errorf("settings: seed defaults: %w", err)
	}
	var seeded models.GlobalSeoConfig
	patch.ApplyTo(&seeded)
	res, err := s.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO seo_settings (
			id, site_name, base_url, global_meta_title, global_meta_description, global_keywords,
			default_social_share_image, robots_txt_content, google_analytics_id,
			google_tag_manager_id, favicon_url, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seeded.SiteName, seeded.BaseURL, seeded.GlobalMetaTitle, seeded.GlobalMetaDescription,
		seeded.GlobalKeywords, seeded.DefaultSocialShareImage, seeded.RobotsTxtContent,
		seeded.GoogleAnalyticsID, seeded.GoogleTagManagerID, seeded.FaviconURL, s.clock())
	if err != nil {
		return false, fmt.Errorf("settings: seed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("settings: seed rows affected: %w", err)
	}
	return n == 1, nil
}

// Update validates patch, merges it into the stored record in a single
// transaction and records an audit entry. Values are stored exactly as
// submitted; renderers escape them. Concurrent updates are last write wins.
func (s *Store) Update(ctx context.Context, patch models.ConfigPatch) (models.GlobalSeoConfig, error) {
	if err := validatePatch(&patch); err != nil {
		return models.GlobalSeoConfig{}, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.GlobalSeoConfig{}, fmt.Errorf("settings: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	current, err := read(ctx, tx)
	if err != nil {
		return models.GlobalSeoConfig{}, err
	}
	if patch.Empty() {
		return current, nil
	}

	next := current
	patch.ApplyTo(&next)
	next.UpdatedAt = s.clock()

	_, err = tx.ExecContext(ctx, `
		UPDATE seo_settings SET
			site_name = ?, base_url = ?, global_meta_title = ?, global_meta_description = ?,
			global_keywords = ?, default_social_share_image = ?, robots_txt_content = ?,
			google_analytics_id = ?, google_tag_manager_id = ?, favicon_url = ?, updated_at = ?
		WHERE id = 1`,
		next.SiteName, next.BaseURL, next.GlobalMetaTitle, next.GlobalMetaDescription,
		next.GlobalKeywords, next.DefaultSocialShareImage, next.RobotsTxtContent,
		next.GoogleAnalyticsID, next.GoogleTagManagerID, next.FaviconURL, next.UpdatedAt)
	if err != nil {
		return models.GlobalSeoConfig{}, fmt.Errorf("settings: update: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.GlobalSeoConfig{}, fmt.Errorf("settings: commit: %w", err)
	}

	if s.audit != nil {
		s.audit.Record(ctx, audit.Entry{
			Action: audit.ActionSettingsUpdate,
			Target: auditTarget,
			Diff:   diff(current, next),
		})
	}
	return next, nil
}

// PatchFrom builds a patch that sets every field of c.
func PatchFrom(c models.GlobalSeoConfig) models.ConfigPatch {
	return models.ConfigPatch{
		SiteName:                &c.SiteName,
		BaseURL:                 &c.BaseURL,
		GlobalMetaTitle:         &c.GlobalMetaTitle,
		GlobalMetaDescription:   &c.GlobalMetaDescription,
		GlobalKeywords:          &c.GlobalKeywords,
		DefaultSocialShareImage: &c.DefaultSocialShareImage,
		RobotsTxtContent:        &c.RobotsTxtContent,
		GoogleAnalyticsID:       &c.GoogleAnalyticsID,
		GoogleTagManagerID:      &c.GoogleTagManagerID,
		FaviconURL:              &c.FaviconURL,
	}
}

func diff(before, after models.GlobalSeoConfig) map[string]audit.Change {
	out := make(map[string]audit.Change)
	add := func(name, b, a string) {
		if b != a {
			out[name] = audit.Change{Before: b, After: a}
		}
	}
	add("siteName", before.SiteName, after.SiteName)
	add("baseUrl", before.BaseURL, after.BaseURL)
	add("globalMetaTitle", before.GlobalMetaTitle, after.GlobalMetaTitle)
	add("globalMetaDescription", before.GlobalMetaDescription, after.GlobalMetaDescription)
	add("globalKeywords", before.GlobalKeywords, after.GlobalKeywords)
	add("defaultSocialShareImage", before.DefaultSocialShareImage, after.DefaultSocialShareImage)
	add("robotsTxtContent", before.RobotsTxtContent, after.RobotsTxtContent)
	add("googleAnalyticsId", before.GoogleAnalyticsID, after.GoogleAnalyticsID)
	add("googleTagManagerId", before.GoogleTagManagerID, after.GoogleTagManagerID)
	add("faviconUrl", before.FaviconURL, after.FaviconURL)
	return out
}
