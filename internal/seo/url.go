// Package seo builds sitemaps, robots policies and page metadata from the
// settings record and collected content paths. Every function is a pure
// transformation; callers fetch the settings once per pass.
package seo

import "strings"

// JoinURL appends path to base. The result never contains a doubled slash
// between the two, and any query or fragment on path is dropped.
func JoinURL(base, path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return strings.TrimRight(base, "/") + path
}

// HomeURL returns the site root URL with its trailing slash.
func HomeURL(base string) string {
	return JoinURL(base, "/")
}

// SitemapURL returns the public sitemap location.
func SitemapURL(base string) string {
	return JoinURL(base, "/sitemap.xml")
}
