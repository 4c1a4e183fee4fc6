// Package audit persists an append-only log of administrative actions.
package audit

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Actions recorded by seokit.
const (
	ActionSettingsUpdate    = "settings.update"
	ActionSitemapRegenerate = "sitemap.regenerate"
)

const unknownActor = "unknown"

// Change captures the before/after value of one field.
type Change struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Entry is one audit log row.
type Entry struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	Actor     string            `json:"actor"`
	Target    string            `json:"target"`
	Diff      map[string]Change `json:"diff,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Logger is the write side used by mutating operations.
type Logger interface {
	Record(ctx context.Context, e Entry)
}

type actorKey struct{}

// WithActor stores the acting principal in ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the acting principal stored in ctx, if any.
func ActorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}

// Recorder writes entries to the audit_log table.
type Recorder struct {
	conn   *sql.DB
	logger *slog.Logger
	clock  func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewRecorder creates a Recorder. A nil logger falls back to slog.Default.
func NewRecorder(conn *sql.DB, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		conn:    conn,
		logger:  logger,
		clock:   func() time.Time { return time.Now().UTC() },
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Record persists e. Failures are logged and never returned so that the
// primary mutation is not interrupted.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.clock()
	}
	if e.ID == "" {
		e.ID = r.newID(e.CreatedAt)
	}
	e.Actor = strings.TrimSpace(e.Actor)
	if e.Actor == "" {
		e.Actor = ActorFrom(ctx)
	}
	if e.Actor == "" {
		e.Actor = unknownActor
	}
	diff := []byte("{}")
	if len(e.Diff) > 0 {
		b, err := json.Marshal(e.Diff)
		if err == nil {
			diff = b
		}
	}
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO audit_log (id, action, actor, target, diff, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Action, e.Actor, e.Target, string(diff), e.CreatedAt)
	if err != nil {
		r.logger.Warn("audit log append failed",
			slog.String("action", e.Action),
			slog.String("error", err.Error()))
		return
	}
	r.logger.Info("audit",
		slog.String("id", e.ID),
		slog.String("action", e.Action),
		slog.String("actor", e.Actor),
		slog.String("target", e.Target))
}

// List returns the newest entries first.
func (r *Recorder) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, action, actor, target, diff, created_at FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var diff string
		if err := rows.Scan(&e.ID, &e.Action, &e.Actor, &e.Target, &diff, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		if diff != "" && diff != "{}" {
			if err := json.Unmarshal([]byte(diff), &e.Diff); err != nil {
				return nil, fmt.Errorf("audit: decode diff %s: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Recorder) newID(at time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), r.entropy).String()
}
