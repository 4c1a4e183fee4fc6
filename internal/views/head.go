// Package views renders the HTML surfaces of seokit: the head tag fragment
// for public pages and the admin settings form.
package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/starford/seokit/internal/models"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) meta(attr, key, content string) {
	if content == "" {
		return
	}
	h.raw(`<meta ` + attr + `="` + templ.EscapeString(key) + `" content="` + templ.EscapeString(content) + `">` + "\n")
}

func (h *htmlWriter) link(rel, href string) {
	if href == "" {
		return
	}
	h.raw(`<link rel="` + templ.EscapeString(rel) + `" href="` + templ.EscapeString(href) + `">` + "\n")
}

// HeadTags renders the <head> fragment for meta.
func HeadTags(meta models.PageMetadata) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<title>")
		h.text(meta.Title)
		h.raw("</title>\n")
		h.meta("name", "description", meta.Description)
		h.meta("name", "keywords", meta.Keywords)
		h.meta("name", "robots", meta.Robots.String())
		h.link("canonical", meta.CanonicalURL)
		h.link("icon", meta.FaviconURL)

		og := meta.OpenGraph
		h.meta("property", "og:title", og.Title)
		h.meta("property", "og:description", og.Description)
		h.meta("property", "og:url", og.URL)
		h.meta("property", "og:site_name", og.SiteName)
		h.meta("property", "og:image", og.Image)
		h.meta("property", "og:type", og.Type)

		tw := meta.Twitter
		h.meta("name", "twitter:card", tw.Card)
		h.meta("name", "twitter:title", tw.Title)
		h.meta("name", "twitter:description", tw.Description)
		h.meta("name", "twitter:image", tw.Image)

		if id := meta.GoogleAnalyticsID; id != "" {
			h.raw(`<script async src="https://www.googletagmanager.com/gtag/js?id=` + templ.EscapeString(id) + `"></script>` + "\n")
			h.raw("<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config','" + jsString(id) + "');</script>\n")
		}
		if id := meta.GoogleTagManagerID; id != "" {
			h.raw("<script>(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':new Date().getTime(),event:'gtm.js'});var f=d.getElementsByTagName(s)[0],j=d.createElement(s),dl=l!='dataLayer'?'&l='+l:'';j.async=true;j.src='https://www.googletagmanager.com/gtm.js?id='+i+dl;f.parentNode.insertBefore(j,f);})(window,document,'script','dataLayer','" + jsString(id) + "');</script>\n")
		}
		return h.err
	})
}

// jsString keeps only characters that tracking IDs are made of.
func jsString(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return -1
	}, s)
}
