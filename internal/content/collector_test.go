package content

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/starford/seokit/internal/models"
	"github.com/starford/seokit/internal/testutil"
)

func TestCollectVisibleOnly(t *testing.T) {
	db := testutil.TestDB(t)
	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	testutil.InsertContent(t, db,
		testutil.Content{Kind: models.KindPage, Slug: "about", Visible: true, UpdatedAt: t1},
		testutil.Content{Kind: models.KindPage, Slug: "draft-page", Visible: false},
		testutil.Content{Kind: models.KindPost, Slug: "hola", Visible: true, UpdatedAt: t1},
		testutil.Content{Kind: models.KindPost, Slug: "unpublished", Visible: false},
		testutil.Content{Kind: models.KindProject, Slug: "loom", Visible: true, UpdatedAt: t1},
	)

	c := NewCollector(DefaultSources(db.SQL())...)
	refs, err := c.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	var paths []string
	for _, r := range refs {
		paths = append(paths, r.Path)
		if !r.LastModified.Equal(t1) {
			t.Errorf("%s lastModified = %v, want %v", r.Path, r.LastModified, t1)
		}
	}
	sort.Strings(paths)
	want := []string{"/about", "/blog/hola", "/portfolio/loom"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestCollectIsRestartable(t *testing.T) {
	db := testutil.TestDB(t)
	c := NewCollector(DefaultSources(db.SQL())...)
	seq := c.Collect(context.Background())

	count := func() int {
		n := 0
		for _, err := range seq {
			if err != nil {
				t.Fatal(err)
			}
			n++
		}
		return n
	}
	if n := count(); n != 0 {
		t.Fatalf("first pass = %d, want 0", n)
	}
	testutil.InsertContent(t, db, testutil.Content{Kind: models.KindPost, Slug: "nuevo", Visible: true})
	if n := count(); n != 1 {
		t.Fatalf("second pass = %d, want 1 (no caching between passes)", n)
	}
}

func TestCollectYieldsSourceError(t *testing.T) {
	db := testutil.TestDB(t)
	if _, err := db.SQL().Exec(`DROP TABLE projects`); err != nil {
		t.Fatal(err)
	}
	c := NewCollector(DefaultSources(db.SQL())...)
	if _, err := c.All(context.Background()); err == nil {
		t.Fatal("expected error from missing table")
	}
}

func TestPathMapping(t *testing.T) {
	db := testutil.TestDB(t)
	tests := []struct {
		src  *TableSource
		slug string
		want string
	}{
		{NewPages(db.SQL()), "about", "/about"},
		{NewPages(db.SQL()), "", "/"},
		{NewPages(db.SQL()), "docs/intro", "/docs/intro"},
		{NewPosts(db.SQL()), "hola", "/blog/hola"},
		{NewPosts(db.SQL()), "año nuevo", "/blog/a%C3%B1o%20nuevo"},
		{NewProjects(db.SQL()), "loom", "/portfolio/loom"},
	}
	for _, tt := range tests {
		if got := tt.src.Path(tt.slug); got != tt.want {
			t.Errorf("%s.Path(%q) = %q, want %q", tt.src.Kind(), tt.slug, got, tt.want)
		}
		if tt.slug == "" {
			continue
		}
		if slug, ok := tt.src.Match(tt.want); !ok || slug != tt.slug {
			t.Errorf("%s.Match(%q) = %q, %v", tt.src.Kind(), tt.want, slug, ok)
		}
	}
}

func TestLookup(t *testing.T) {
	db := testutil.TestDB(t)
	testutil.InsertContent(t, db,
		testutil.Content{Kind: models.KindPost, Slug: "hola", Title: "Hola", Description: "Primer post", Visible: true},
		testutil.Content{Kind: models.KindPage, Slug: "secret", Title: "Secret", Visible: false},
	)
	c := NewCollector(DefaultSources(db.SQL())...)
	ctx := context.Background()

	page, ok, err := c.Lookup(ctx, "/blog/hola")
	if err != nil || !ok {
		t.Fatalf("Lookup(/blog/hola) ok=%v err=%v", ok, err)
	}
	if page.Title != "Hola" || page.Kind != models.KindPost || page.Description != "Primer post" {
		t.Errorf("page = %+v", page)
	}

	if _, ok, _ := c.Lookup(ctx, "/secret"); ok {
		t.Error("hidden page must not resolve")
	}
	if _, ok, _ := c.Lookup(ctx, "/missing"); ok {
		t.Error("missing page must not resolve")
	}
}

func TestLookupPlainText(t *testing.T) {
	db := testutil.TestDB(t)
	testutil.InsertContent(t, db, testutil.Content{
		Kind:        models.KindPost,
		Slug:        "fish",
		Title:       "Fish &lt;3 <em>chips</em>",
		Description: "<p>Crispy &amp; <strong>hot</strong></p><script>alert(1)</script>",
		Visible:     true,
	})
	c := NewCollector(DefaultSources(db.SQL())...)

	page, ok, err := c.Lookup(context.Background(), "/blog/fish")
	if err != nil || !ok {
		t.Fatalf("Lookup ok=%v err=%v", ok, err)
	}
	if page.Title != "Fish <3 chips" {
		t.Errorf("Title = %q", page.Title)
	}
	if page.Description != "Crispy & hot" {
		t.Errorf("Description = %q", page.Description)
	}
}
