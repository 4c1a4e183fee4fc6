package audit

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/seokit/internal/database"
)

func testRecorder(t *testing.T) (*Recorder, *database.DB) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRecorder(db.SQL(), slog.New(slog.NewTextHandler(io.Discard, nil))), db
}

func TestRecordAndList(t *testing.T) {
	rec, _ := testRecorder(t)
	ctx := WithActor(context.Background(), "admin@example.com")

	rec.Record(ctx, Entry{
		Action: ActionSettingsUpdate,
		Target: "seo_settings/1",
		Diff:   map[string]Change{"siteName": {Before: "Old", After: "New"}},
	})
	rec.Record(context.Background(), Entry{Action: ActionSitemapRegenerate, Target: "sitemap.xml"})

	entries, err := rec.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Action != ActionSitemapRegenerate {
		t.Errorf("newest action = %q, want %q", entries[0].Action, ActionSitemapRegenerate)
	}
	if entries[0].Actor != unknownActor {
		t.Errorf("actor without context = %q, want %q", entries[0].Actor, unknownActor)
	}
	if entries[1].Actor != "admin@example.com" {
		t.Errorf("actor = %q", entries[1].Actor)
	}
	want := map[string]Change{"siteName": {Before: "Old", After: "New"}}
	if diff := cmp.Diff(want, entries[1].Diff); diff != "" {
		t.Errorf("diff mismatch (-want +got):\n%s", diff)
	}
	if entries[1].ID == "" || entries[1].ID >= entries[0].ID {
		t.Errorf("ids not monotonic: %q then %q", entries[1].ID, entries[0].ID)
	}
}

func TestRecordFailureDoesNotPanic(t *testing.T) {
	rec, db := testRecorder(t)
	db.Close()
	rec.Record(context.Background(), Entry{Action: ActionSettingsUpdate, Target: "seo_settings/1"})
}
