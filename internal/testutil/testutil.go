// Package testutil provides shared test helpers for setting up databases and content.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/seokit/internal/database"
	"github.com/starford/seokit/internal/models"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "seokit-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SeedSettings writes c as the singleton settings row.
func SeedSettings(t *testing.T, db *database.DB, c models.GlobalSeoConfig) {
	t.Helper()
	_, err := db.SQL().Exec(`
		INSERT OR REPLACE INTO seo_settings (
			id, site_name, base_url, global_meta_title, global_meta_description, global_keywords,
			default_social_share_image, robots_txt_content, google_analytics_id,
			google_tag_manager_id, favicon_url, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.SiteName, c.BaseURL, c.GlobalMetaTitle, c.GlobalMetaDescription, c.GlobalKeywords,
		c.DefaultSocialShareImage, c.RobotsTxtContent, c.GoogleAnalyticsID,
		c.GoogleTagManagerID, c.FaviconURL, time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
}

// Content describes one row in a content table.
type Content struct {
	Kind        models.ContentKind
	Slug        string
	Title       string
	Description string
	Image       string
	Visible     bool
	UpdatedAt   time.Time
}

// InsertContent writes rows into the pages, posts or projects tables.
func InsertContent(t *testing.T, db *database.DB, rows ...Content) {
	t.Helper()
	for _, r := range rows {
		table, gate := "pages", "is_visible"
		switch r.Kind {
		case models.KindPost:
			table, gate = "posts", "is_published"
		case models.KindProject:
			table = "projects"
		}
		visible := 0
		if r.Visible {
			visible = 1
		}
		updated := r.UpdatedAt
		if updated.IsZero() {
			updated = time.Now().UTC()
		}
		_, err := db.SQL().Exec(
			`INSERT OR REPLACE INTO `+table+` (slug, title, meta_description, social_image, `+gate+`, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.Slug, r.Title, r.Description, r.Image, visible, updated)
		if err != nil {
			t.Fatal(err)
		}
	}
}

// Neurowitch returns the example configuration used across tests.
func Neurowitch() models.GlobalSeoConfig {
	return models.GlobalSeoConfig{
		SiteName:                "Neurowitch",
		BaseURL:                 "https://nw.example",
		GlobalMetaTitle:         "Inicio",
		GlobalMetaDescription:   "Arte, código y brujería",
		DefaultSocialShareImage: "https://nw.example/og.png",
	}
}
