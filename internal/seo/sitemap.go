package seo

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/starford/seokit/internal/models"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// BuildSitemap turns content paths into sitemap entries under baseURL. The
// home URL is always first. Entries are deduplicated by URL: the last entry
// for a URL wins but keeps the position of the first.
func BuildSitemap(baseURL string, refs []models.PathRef) []models.SitemapEntry {
	entries := []models.SitemapEntry{{URL: HomeURL(baseURL)}}
	index := map[string]int{entries[0].URL: 0}

	for _, ref := range refs {
		e := models.SitemapEntry{URL: JoinURL(baseURL, ref.Path)}
		if !ref.LastModified.IsZero() {
			lm := ref.LastModified.UTC()
			e.LastModified = &lm
		}
		if i, ok := index[e.URL]; ok {
			entries[i] = e
			continue
		}
		index[e.URL] = len(entries)
		entries = append(entries, e)
	}
	return entries
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []urlXML `xml:"url"`
}

type urlXML struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// EncodeSitemap writes entries as sitemap-protocol XML.
func EncodeSitemap(w io.Writer, entries []models.SitemapEntry) error {
	set := urlSet{XMLNS: sitemapNS, URLs: make([]urlXML, 0, len(entries))}
	for _, e := range entries {
		u := urlXML{Loc: e.URL, ChangeFreq: string(e.ChangeFrequency)}
		if e.LastModified != nil {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		if e.Priority != nil {
			p := *e.Priority
			if p < 0 || p > 1 {
				return fmt.Errorf("seo: priority %v out of range for %s", p, e.URL)
			}
			u.Priority = strconv.FormatFloat(p, 'f', 1, 64)
		}
		set.URLs = append(set.URLs, u)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("seo: encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
