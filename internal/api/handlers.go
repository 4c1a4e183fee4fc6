package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/starford/seokit/internal/apperr"
	"github.com/starford/seokit/internal/checksum"
	"github.com/starford/seokit/internal/models"
	"github.com/starford/seokit/internal/seoservice"
	"github.com/starford/seokit/internal/views"
)

const maxBodyBytes = 64 << 10

// Handler holds route handlers.
type Handler struct {
	svc *seoservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *seoservice.Service) *Handler {
	return &Handler{svc: svc}
}

// Robots handles GET /robots.txt. A failed settings read still yields the
// allow-all fallback.
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Robots(r.Context())
	if err != nil {
		slog.Warn("robots fallback served", slog.String("error", err.Error()))
	}
	writeDocument(w, r, "text/plain; charset=utf-8", []byte(body))
}

// Sitemap handles GET /sitemap.xml. Content failures degrade to a home-only
// sitemap.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.SitemapXML(r.Context())
	if err != nil {
		if !errors.Is(err, seoservice.ErrDegraded) {
			slog.Error("sitemap render failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		slog.Warn("sitemap fallback served", slog.String("error", err.Error()))
	}
	writeDocument(w, r, "application/xml; charset=utf-8", body)
}

// writeDocument serves a crawler document with an ETag so unchanged
// documents answer conditional requests with 304.
func writeDocument(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if checksum.Matches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Settings(r.Context())
	if err != nil {
		h.fail(w, "get settings failed", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// UpdateSettings handles PUT /api/settings with a partial settings body.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var patch models.ConfigPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	cfg, err := h.svc.UpdateSettings(r.Context(), patch)
	if err != nil {
		h.fail(w, "update settings failed", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// Regenerate handles POST /api/sitemap/regenerate.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Regenerate(r.Context())
	if err != nil {
		if errors.Is(err, seoservice.ErrDegraded) {
			slog.Warn("regenerate degraded", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, errorBody("generation degraded"))
			return
		}
		h.fail(w, "regenerate failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Metadata handles GET /api/metadata?path=.
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	meta, ok := h.resolve(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// Head handles GET /api/head?path= and returns the head tag fragment.
func (h *Handler) Head(w http.ResponseWriter, r *http.Request) {
	meta, ok := h.resolve(w, r)
	if !ok {
		return
	}
	templ.Handler(views.HeadTags(meta)).ServeHTTP(w, r)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (models.PageMetadata, bool) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	meta, err := h.svc.Metadata(r.Context(), path)
	if err != nil {
		h.fail(w, "resolve metadata failed", err)
		return models.PageMetadata{}, false
	}
	return meta, true
}

// SettingsForm handles GET /admin/seo.
func (h *Handler) SettingsForm(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Settings(r.Context())
	if err != nil {
		h.fail(w, "load settings form failed", err)
		return
	}
	templ.Handler(views.SettingsPage(views.SettingsFormData{Values: cfg})).ServeHTTP(w, r)
}

// SubmitSettingsForm handles POST /admin/seo. Validation failures re-render
// the form with the submitted values and inline errors.
func (h *Handler) SubmitSettingsForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}
	patch := views.PatchFromForm(func(name string) (string, bool) {
		v, ok := r.PostForm[name]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	})

	cfg, err := h.svc.UpdateSettings(r.Context(), patch)
	if err != nil {
		verr, ok := apperr.IsValidation(err)
		if !ok {
			h.fail(w, "submit settings form failed", err)
			return
		}
		current, readErr := h.svc.Settings(r.Context())
		if readErr != nil {
			h.fail(w, "reload settings failed", readErr)
			return
		}
		submitted := current
		patch.ApplyTo(&submitted)
		data := views.SettingsFormData{Values: submitted, Errors: verr.Fields}
		templ.Handler(views.SettingsPage(data), templ.WithStatus(http.StatusUnprocessableEntity)).ServeHTTP(w, r)
		return
	}
	templ.Handler(views.SettingsPage(views.SettingsFormData{Values: cfg, Saved: true})).ServeHTTP(w, r)
}

// fail maps service errors to status codes.
func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if verr, ok := apperr.IsValidation(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(verr.Fields))
		return
	}
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error(msg, slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}
