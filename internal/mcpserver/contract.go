package mcpserver

// SettingsContract describes the settings record for LLM consumers that
// read or propose SEO configuration.
const SettingsContract = `# seokit Settings Contract

The site has exactly one SEO settings record. Page metadata, robots.txt and
sitemap.xml are all derived from it.

## Fields

| Field | Required | Limit | Notes |
|---|---|---|---|
| siteName | yes | 100 | appended to page titles as "{title} | {siteName}" |
| baseUrl | yes | 255 | absolute http(s) URL, no query or fragment |
| globalMetaTitle | no | 120 | title for pages without their own |
| globalMetaDescription | no | 320 | description for pages without their own |
| globalKeywords | no | 500 | comma separated |
| defaultSocialShareImage | no | 2048 | absolute URL |
| robotsTxtContent | no | 10000 | custom rules; blank means allow all |
| googleAnalyticsId | no | 32 | G-XXXXXXX or UA-XXXX-N |
| googleTagManagerId | no | 32 | GTM-XXXXXXX |
| faviconUrl | no | 2048 | absolute URL |

## Rules

1. Sitemap directives in robotsTxtContent are ignored. Exactly one
   ` + "`Sitemap: {baseUrl}/sitemap.xml`" + ` line is always appended.
2. The canonical URL of a page is always baseUrl plus its path.
3. Values are stored exactly as submitted and escaped when rendered into
   HTML. Markup in a title is shown as text, never interpreted.
`
