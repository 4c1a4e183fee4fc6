package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/starford/seokit/internal/audit"
	"github.com/starford/seokit/internal/content"
	"github.com/starford/seokit/internal/database"
	"github.com/starford/seokit/internal/models"
	"github.com/starford/seokit/internal/seoservice"
	"github.com/starford/seokit/internal/settings"
	"github.com/starford/seokit/internal/storage"
	"github.com/starford/seokit/internal/testutil"
)

const testToken = "s3cret"

type env struct {
	db     *database.DB
	audit  *audit.Recorder
	router http.Handler
}

// testEnv wires a temp database, the service and the router.
func testEnv(t *testing.T, auth AuthOptions, seed bool, opts ...seoservice.Option) env {
	t.Helper()
	db := testutil.TestDB(t)
	if seed {
		testutil.SeedSettings(t, db, testutil.Neurowitch())
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rec := audit.NewRecorder(db.SQL(), logger)
	svc := seoservice.NewService(
		settings.NewStore(db.SQL(), rec),
		content.NewCollector(content.DefaultSources(db.SQL())...),
		rec,
		append([]seoservice.Option{seoservice.WithLogger(logger)}, opts...)...,
	)
	return env{db: db, audit: rec, router: NewRouter(svc, auth)}
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

func TestRobotsTxt(t *testing.T) {
	e := testEnv(t, AuthOptions{}, true)
	robots := "User-agent: *\nDisallow: /admin"
	_, err := e.db.SQL().Exec(`UPDATE seo_settings SET robots_txt_content = ? WHERE id = 1`, robots)
	require.NoError(t, err)

	w := do(t, e.router, http.MethodGet, "/robots.txt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	require.Equal(t, "User-agent: *\nDisallow: /admin\n\nSitemap: https://nw.example/sitemap.xml\n", w.Body.String())
}

func TestRobotsTxtConditionalGet(t *testing.T) {
	e := testEnv(t, AuthOptions{}, true)

	w := do(t, e.router, http.MethodGet, "/robots.txt", nil, nil)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = do(t, e.router, http.MethodGet, "/robots.txt", nil, map[string]string{"If-None-Match": etag})
	require.Equal(t, http.StatusNotModified, w.Code)
	require.Empty(t, w.Body.String())

	_, err := e.db.SQL().Exec(`UPDATE seo_settings SET robots_txt_content = 'User-agent: *' WHERE id = 1`)
	require.NoError(t, err)
	w = do(t, e.router, http.MethodGet, "/robots.txt", nil, map[string]string{"If-None-Match": etag})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRobotsTxtFallback(t *testing.T) {
	e := testEnv(t, AuthOptions{}, false)

	w := do(t, e.router, http.MethodGet, "/robots.txt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "User-agent: *\nAllow: /\n", w.Body.String())
}

func TestSitemapXML(t *testing.T) {
	e := testEnv(t, AuthOptions{}, true)
	t1 := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	testutil.InsertContent(t, e.db,
		testutil.Content{Kind: models.KindPost, Slug: "hola", Visible: true, UpdatedAt: t1},
		testutil.Content{Kind: models.KindPost, Slug: "borrador", Visible: false},
	)

	w := do(t, e.router, http.MethodGet, "/sitemap.xml", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml"))
	body := w.Body.String()
	require.Contains(t, body, "<loc>https://nw.example/</loc>")
	require.Contains(t, body, "<loc>https://nw.example/blog/hola</loc>")
	require.Contains(t, body, "<lastmod>2024-03-14T09:30:00Z</lastmod>")
	require.NotContains(t, body, "borrador")
}

func TestSitemapXMLContentFailure(t *testing.T) {
	e := testEnv(t, AuthOptions{}, true)
	_, err := e.db.SQL().Exec(`DROP TABLE projects`)
	require.NoError(t, err)

	w := do(t, e.router, http.MethodGet, "/sitemap.xml", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, strings.Count(w.Body.String(), "<url>"))
	require.Contains(t, w.Body.String(), "<loc>https://nw.example/</loc>")
}

func TestSettingsRequiresToken(t *testing.T) {
	e := testEnv(t, AuthOptions{Mode: AuthModeToken, Token: testToken}, true)

	w := do(t, e.router, http.MethodGet, "/api/settings", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, e.router, http.MethodGet, "/api/settings", nil, bearer("wrong"))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, e.router, http.MethodGet, "/api/settings", nil, bearer(testToken))
	require.Equal(t, http.StatusOK, w.Code)
	var cfg models.GlobalSeoConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	require.Equal(t, "Neurowitch", cfg.SiteName)

	// Public routes stay open.
	w = do(t, e.router, http.MethodGet, "/robots.txt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateSettings(t *testing.T) {
	e := testEnv(t, AuthOptions{Mode: AuthModeToken, Token: testToken}, true)

	body := `{"globalMetaTitle":"Bienvenida","googleAnalyticsId":"G-ABC1234"}`
	w := do(t, e.router, http.MethodPut, "/api/settings", strings.NewReader(body), bearer(testToken))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cfg models.GlobalSeoConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	require.Equal(t, "Bienvenida", cfg.GlobalMetaTitle)
	require.Equal(t, "G-ABC1234", cfg.GoogleAnalyticsID)
	require.Equal(t, "Neurowitch", cfg.SiteName)

	entries, err := e.audit.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, audit.ActionSettingsUpdate, entries[0].Action)
	require.Equal(t, tokenActor, entries[0].Actor)
	require.Equal(t, "Bienvenida", entries[0].Diff["globalMetaTitle"].After)
}

func TestUpdateSettingsValidation(t *testing.T) {
	e := testEnv(t, AuthOptions{}, true)

	body := `{"baseUrl":"not a url","globalMetaTitle":"` + strings.Repeat("x", 200) + `"}`
	w := do(t, e.router, http.MethodPut, "/api/settings", strings.NewReader(body), nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp errResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Fields, "baseUrl")
	require.Contains(t, resp.Fields, "globalMetaTitle")

	entries, err := e.audit.List(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestUpdateSettingsBadJSON(t *testing.T) {
	e := testEnv(t, AuthOptions{}, true)

	w := do(t, e.router, http.MethodPut, "/api/settings", strings.NewReader(`{"nope":1}`), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, e.router, http.MethodPut, "/api/settings", strings.NewReader(`{`), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSettingsUnseeded(t *testing.T) {
	e := testEnv(t, AuthOptions{}, false)

	w := do(t, e.router, http.MethodGet, "/api/settings", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestJWTAuth(t *testing.T) {
	const secret = "jwt-secret"
	e := testEnv(t, AuthOptions{Mode: AuthModeJWT, JWTSecret: secret}, true)
	exp := time.Now().Add(time.Hour).Unix()

	admin := signed(t, secret, jwt.MapClaims{"sub": "ana@nw.example", "role": "admin", "exp": exp})
	editor := signed(t, secret, jwt.MapClaims{"sub": "bo@nw.example", "role": "editor", "exp": exp})
	forged := signed(t, "other", jwt.MapClaims{"sub": "eve", "role": "admin", "exp": exp})
	expired := signed(t, secret, jwt.MapClaims{"sub": "ana", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()})

	for name, tok := range map[string]string{"editor": editor, "forged": forged, "expired": expired} {
		w := do(t, e.router, http.MethodGet, "/api/settings", nil, bearer(tok))
		require.Equal(t, http.StatusUnauthorized, w.Code, name)
	}

	body := `{"siteName":"Neurowitch Studio"}`
	w := do(t, e.router, http.MethodPut, "/api/settings", strings.NewReader(body), bearer(admin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	entries, err := e.audit.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "ana@nw.example", entries[0].Actor)
}

func TestMetadataEndpoint(t *testing.T) {
	e := testEnv(t, AuthOptions{Mode: AuthModeToken, Token: testToken}, true)
	testutil.InsertContent(t, e.db, testutil.Content{Kind: models.KindPost, Slug: "hola", Title: "Hola", Visible: true})

	w := do(t, e.router, http.MethodGet, "/api/metadata?path="+url.QueryEscape("/blog/hola"), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var meta models.PageMetadata
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	require.Equal(t, "Hola | Neurowitch", meta.Title)
	require.Equal(t, "https://nw.example/blog/hola", meta.CanonicalURL)
}

func TestHeadEndpoint(t *testing.T) {
	e := testEnv(t, AuthOptions{}, true)

	w := do(t, e.router, http.MethodGet, "/api/head?path=/about", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))

	doc := testutil.ParseHTML(t, []byte("<html><head>"+w.Body.String()+"</head></html>"))
	require.Equal(t, "Inicio", doc.Find("title").Text())
	href, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Equal(t, "https://nw.example/about", href)
}

func TestAdminFormRoundTrip(t *testing.T) {
	e := testEnv(t, AuthOptions{Mode: AuthModeToken, Token: testToken}, true)

	w := do(t, e.router, http.MethodGet, "/admin/seo", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, e.router, http.MethodGet, "/admin/seo", nil, bearer(testToken))
	require.Equal(t, http.StatusOK, w.Code)
	doc := testutil.ParseHTML(t, w.Body.Bytes())
	value, _ := doc.Find(`input[name="baseUrl"]`).Attr("value")
	require.Equal(t, "https://nw.example", value)

	form := url.Values{
		"siteName":   {"Neurowitch"},
		"baseUrl":    {"ftp://nw.example"},
		"faviconUrl": {"/favicon.ico"},
	}
	header := bearer(testToken)
	header["Content-Type"] = "application/x-www-form-urlencoded"
	w = do(t, e.router, http.MethodPost, "/admin/seo", strings.NewReader(form.Encode()), header)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	doc = testutil.ParseHTML(t, w.Body.Bytes())
	require.NotEmpty(t, doc.Find(`div.field[data-field="baseUrl"] p.error`).Text())
	require.NotEmpty(t, doc.Find(`div.field[data-field="faviconUrl"] p.error`).Text())
	submitted, _ := doc.Find(`input[name="baseUrl"]`).Attr("value")
	require.Equal(t, "ftp://nw.example", submitted)

	form.Set("baseUrl", "https://neurowitch.example")
	form.Set("faviconUrl", "https://neurowitch.example/favicon.ico")
	w = do(t, e.router, http.MethodPost, "/admin/seo", strings.NewReader(form.Encode()), header)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	doc = testutil.ParseHTML(t, w.Body.Bytes())
	require.Equal(t, 1, doc.Find("p.notice").Length())

	w = do(t, e.router, http.MethodGet, "/robots.txt", nil, nil)
	require.Contains(t, w.Body.String(), "Sitemap: https://neurowitch.example/sitemap.xml")
}

func TestRegenerateEndpoint(t *testing.T) {
	out, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)
	e := testEnv(t, AuthOptions{}, true, seoservice.WithExport(out))

	w := do(t, e.router, http.MethodPost, "/api/sitemap/regenerate", bytes.NewReader(nil), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res seoservice.RegenerateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, 1, res.URLs)
	require.ElementsMatch(t, []string{seoservice.SitemapFile, seoservice.RobotsFile}, res.Written)

	entries, err := e.audit.List(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, audit.ActionSitemapRegenerate, entries[0].Action)
	require.Equal(t, localActor, entries[0].Actor)
}

func TestRegenerateDegraded(t *testing.T) {
	e := testEnv(t, AuthOptions{}, false)

	w := do(t, e.router, http.MethodPost, "/api/sitemap/regenerate", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
