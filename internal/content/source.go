// Package content reads publicly visible content from the CMS tables and
// reduces it to public paths.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/starford/seokit/internal/models"
)

// Item is one visible content row.
type Item struct {
	Kind        models.ContentKind
	Slug        string
	Title       string
	Description string
	Image       string
	UpdatedAt   time.Time
}

// Source is implemented once per content variant.
type Source interface {
	Kind() models.ContentKind
	// Path maps a slug to the variant's canonical public path.
	Path(slug string) string
	// ListVisible returns every row whose visibility gate is set.
	ListVisible(ctx context.Context) ([]Item, error)
	// Match reports the slug addressed by path, if path belongs to this variant.
	Match(path string) (string, bool)
	// Get returns the visible item with slug, or false when absent or hidden.
	Get(ctx context.Context, slug string) (Item, bool, error)
}

// Verify *TableSource satisfies Source at compile time.
var _ Source = (*TableSource)(nil)

// TableSource reads one content table.
type TableSource struct {
	conn   *sql.DB
	kind   models.ContentKind
	table  string
	gate   string
	prefix string
}

// NewPages returns the static page source: /{slug}.
func NewPages(conn *sql.DB) *TableSource {
	return &TableSource{conn: conn, kind: models.KindPage, table: "pages", gate: "is_visible", prefix: "/"}
}

// NewPosts returns the blog post source: /blog/{slug}.
func NewPosts(conn *sql.DB) *TableSource {
	return &TableSource{conn: conn, kind: models.KindPost, table: "posts", gate: "is_published", prefix: "/blog/"}
}

// NewProjects returns the portfolio project source: /portfolio/{slug}.
func NewProjects(conn *sql.DB) *TableSource {
	return &TableSource{conn: conn, kind: models.KindProject, table: "projects", gate: "is_visible", prefix: "/portfolio/"}
}

// DefaultSources returns the three CMS content variants.
func DefaultSources(conn *sql.DB) []Source {
	return []Source{NewPages(conn), NewPosts(conn), NewProjects(conn)}
}

// Kind returns the content variant.
func (s *TableSource) Kind() models.ContentKind { return s.kind }

// Path maps slug to its public path. Nested slugs keep their separators and
// each segment is escaped.
func (s *TableSource) Path(slug string) string {
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return "/"
	}
	segs := strings.Split(slug, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return s.prefix + strings.Join(segs, "/")
}

// Match inverts Path.
func (s *TableSource) Match(path string) (string, bool) {
	if !strings.HasPrefix(path, s.prefix) {
		return "", false
	}
	rest := strings.Trim(strings.TrimPrefix(path, s.prefix), "/")
	if rest == "" {
		return "", false
	}
	slug, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	return slug, true
}

// ListVisible queries rows whose gate column is set.
func (s *TableSource) ListVisible(ctx context.Context) ([]Item, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT slug, title, meta_description, social_image, updated_at FROM `+s.table+` WHERE `+s.gate+` = 1`)
	if err != nil {
		return nil, fmt.Errorf("content: list %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it := Item{Kind: s.kind}
		if err := rows.Scan(&it.Slug, &it.Title, &it.Description, &it.Image, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("content: scan %s: %w", s.table, err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Get loads one visible row by slug.
func (s *TableSource) Get(ctx context.Context, slug string) (Item, bool, error) {
	it := Item{Kind: s.kind, Slug: slug}
	err := s.conn.QueryRowContext(ctx,
		`SELECT title, meta_description, social_image, updated_at FROM `+s.table+` WHERE slug = ? AND `+s.gate+` = 1`, slug).
		Scan(&it.Title, &it.Description, &it.Image, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, fmt.Errorf("content: get %s/%s: %w", s.table, slug, err)
	}
	return it, true, nil
}
