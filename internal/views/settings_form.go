package views

import (
	"context"
	"io"
	"sort"

	"github.com/a-h/templ"

	"github.com/starford/seokit/internal/models"
)

// FormField describes one input of the settings form. Name is the JSON field
// name, which is also the form key and the key of validation errors.
type FormField struct {
	Name     string
	Label    string
	Type     string // text, url or textarea
	Required bool
	Value    func(models.GlobalSeoConfig) string
	Set      func(*models.ConfigPatch, string)
}

// SettingsFields lists the editable settings in display order.
var SettingsFields = []FormField{
	{Name: "siteName", Label: "Site name", Type: "text", Required: true,
		Value: func(c models.GlobalSeoConfig) string { return c.SiteName },
		Set:   func(p *models.ConfigPatch, v string) { p.SiteName = &v }},
	{Name: "baseUrl", Label: "Base URL", Type: "url", Required: true,
		Value: func(c models.GlobalSeoConfig) string { return c.BaseURL },
		Set:   func(p *models.ConfigPatch, v string) { p.BaseURL = &v }},
	{Name: "globalMetaTitle", Label: "Default meta title", Type: "text",
		Value: func(c models.GlobalSeoConfig) string { return c.GlobalMetaTitle },
		Set:   func(p *models.ConfigPatch, v string) { p.GlobalMetaTitle = &v }},
	{Name: "globalMetaDescription", Label: "Default meta description", Type: "textarea",
		Value: func(c models.GlobalSeoConfig) string { return c.GlobalMetaDescription },
		Set:   func(p *models.ConfigPatch, v string) { p.GlobalMetaDescription = &v }},
	{Name: "globalKeywords", Label: "Keywords", Type: "text",
		Value: func(c models.GlobalSeoConfig) string { return c.GlobalKeywords },
		Set:   func(p *models.ConfigPatch, v string) { p.GlobalKeywords = &v }},
	{Name: "defaultSocialShareImage", Label: "Default social share image", Type: "url",
		Value: func(c models.GlobalSeoConfig) string { return c.DefaultSocialShareImage },
		Set:   func(p *models.ConfigPatch, v string) { p.DefaultSocialShareImage = &v }},
	{Name: "robotsTxtContent", Label: "robots.txt rules", Type: "textarea",
		Value: func(c models.GlobalSeoConfig) string { return c.RobotsTxtContent },
		Set:   func(p *models.ConfigPatch, v string) { p.RobotsTxtContent = &v }},
	{Name: "googleAnalyticsId", Label: "Google Analytics ID", Type: "text",
		Value: func(c models.GlobalSeoConfig) string { return c.GoogleAnalyticsID },
		Set:   func(p *models.ConfigPatch, v string) { p.GoogleAnalyticsID = &v }},
	{Name: "googleTagManagerId", Label: "Google Tag Manager ID", Type: "text",
		Value: func(c models.GlobalSeoConfig) string { return c.GoogleTagManagerID },
		Set:   func(p *models.ConfigPatch, v string) { p.GoogleTagManagerID = &v }},
	{Name: "faviconUrl", Label: "Favicon URL", Type: "url",
		Value: func(c models.GlobalSeoConfig) string { return c.FaviconURL },
		Set:   func(p *models.ConfigPatch, v string) { p.FaviconURL = &v }},
}

// PatchFromForm builds a patch from submitted form values. Fields missing
// from the submission are left untouched.
func PatchFromForm(get func(string) (string, bool)) models.ConfigPatch {
	var p models.ConfigPatch
	for _, f := range SettingsFields {
		if v, ok := get(f.Name); ok {
			f.Set(&p, v)
		}
	}
	return p
}

// SettingsFormData is the state of the admin form.
type SettingsFormData struct {
	Values models.GlobalSeoConfig
	Errors map[string]string // field name → message
	Saved  bool
	Action string
}

// SettingsPage renders the full admin page around the settings form.
func SettingsPage(data SettingsFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>SEO settings</title>\n</head>\n<body>\n")
		if h.err != nil {
			return h.err
		}
		if err := SettingsForm(data).Render(ctx, w); err != nil {
			return err
		}
		h.raw("</body>\n</html>\n")
		return h.err
	})
}

// SettingsForm renders the settings form with inline field errors.
func SettingsForm(data SettingsFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		action := data.Action
		if action == "" {
			action = "/admin/seo"
		}
		h.raw(`<form id="seo-settings" method="post" action="` + templ.EscapeString(action) + `">` + "\n")
		if data.Saved {
			h.raw(`<p class="notice" role="status">Settings saved.</p>` + "\n")
		}
		if len(data.Errors) > 0 {
			h.raw(`<p class="error-summary" role="alert">Please fix the highlighted fields.</p>` + "\n")
			for _, name := range unknownErrorFields(data.Errors) {
				h.raw(`<p class="error" data-field="` + templ.EscapeString(name) + `">`)
				h.text(data.Errors[name])
				h.raw("</p>\n")
			}
		}
		for _, f := range SettingsFields {
			writeField(h, f, f.Value(data.Values), data.Errors[f.Name])
		}
		h.raw(`<button type="submit">Save</button>` + "\n</form>\n")
		return h.err
	})
}

func writeField(h *htmlWriter, f FormField, value, errMsg string) {
	name := templ.EscapeString(f.Name)
	id := "field-" + name
	h.raw(`<div class="field" data-field="` + name + `">` + "\n")
	h.raw(`<label for="` + id + `">`)
	h.text(f.Label)
	h.raw("</label>\n")

	attrs := ` id="` + id + `" name="` + name + `"`
	if f.Required {
		attrs += " required"
	}
	if errMsg != "" {
		attrs += ` aria-invalid="true" aria-describedby="` + id + `-error"`
	}
	if f.Type == "textarea" {
		h.raw("<textarea" + attrs + ">")
		h.text(value)
		h.raw("</textarea>\n")
	} else {
		h.raw(`<input type="` + templ.EscapeString(f.Type) + `"` + attrs + ` value="` + templ.EscapeString(value) + `">` + "\n")
	}
	if errMsg != "" {
		h.raw(`<p class="error" id="` + id + `-error">`)
		h.text(errMsg)
		h.raw("</p>\n")
	}
	h.raw("</div>\n")
}

// unknownErrorFields returns error keys that have no matching input, sorted.
func unknownErrorFields(errs map[string]string) []string {
	known := make(map[string]bool, len(SettingsFields))
	for _, f := range SettingsFields {
		known[f.Name] = true
	}
	var out []string
	for name := range errs {
		if !known[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
