package settings

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/seokit/internal/apperr"
	"github.com/starford/seokit/internal/models"
)

// Storage limits for the seo_settings columns, in characters.
const (
	MaxSiteNameLen        = 100
	MaxBaseURLLen         = 255
	MaxMetaTitleLen       = 120
	MaxMetaDescriptionLen = 320
	MaxKeywordsLen        = 500
	MaxURLLen             = 2048
	MaxRobotsLen          = 10000
	MaxTrackingIDLen      = 32
)

var (
	analyticsIDRe  = regexp.MustCompile(`^(G-[A-Z0-9]{4,}|UA-\d{4,}-\d+)$`)
	tagManagerIDRe = regexp.MustCompile(`^GTM-[A-Z0-9]{4,}$`)
)

var errAbsoluteURL = errors.New("must be an absolute http(s) URL")

// absoluteURL accepts an empty value (cleared optional field) or an
// absolute http/https URL without query or fragment.
func absoluteURL(value interface{}) error {
	s := stringValue(value)
	if s == "" {
		return nil
	}
	return checkAbsoluteURL(s, false)
}

// baseURLRule is stricter than absoluteURL: no query, fragment or userinfo.
func baseURLRule(value interface{}) error {
	s := stringValue(value)
	if s == "" {
		return nil
	}
	return checkAbsoluteURL(s, true)
}

func notBlank(value interface{}) error {
	if s := stringValue(value); s != "" && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func stringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	}
	return ""
}

func checkAbsoluteURL(s string, strict bool) error {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return errAbsoluteURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errAbsoluteURL
	}
	if strict && (u.RawQuery != "" || u.Fragment != "" || u.User != nil) {
		return errors.New("must not contain a query, fragment or credentials")
	}
	return nil
}

// validatePatch checks every field present in p. Required fields may be
// omitted from the patch but cannot be set to empty.
func validatePatch(p *models.ConfigPatch) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.SiteName, validation.NilOrNotEmpty, validation.By(notBlank), validation.RuneLength(0, MaxSiteNameLen)),
		validation.Field(&p.BaseURL, validation.NilOrNotEmpty, validation.RuneLength(0, MaxBaseURLLen), validation.By(baseURLRule)),
		validation.Field(&p.GlobalMetaTitle, validation.RuneLength(0, MaxMetaTitleLen)),
		validation.Field(&p.GlobalMetaDescription, validation.RuneLength(0, MaxMetaDescriptionLen)),
		validation.Field(&p.GlobalKeywords, validation.RuneLength(0, MaxKeywordsLen)),
		validation.Field(&p.DefaultSocialShareImage, validation.RuneLength(0, MaxURLLen), validation.By(absoluteURL)),
		validation.Field(&p.RobotsTxtContent, validation.RuneLength(0, MaxRobotsLen)),
		validation.Field(&p.GoogleAnalyticsID, validation.RuneLength(0, MaxTrackingIDLen),
			validation.Match(analyticsIDRe).Error("must look like G-XXXXXXX or UA-XXXXX-X")),
		validation.Field(&p.GoogleTagManagerID, validation.RuneLength(0, MaxTrackingIDLen),
			validation.Match(tagManagerIDRe).Error("must look like GTM-XXXXXX")),
		validation.Field(&p.FaviconURL, validation.RuneLength(0, MaxURLLen), validation.By(absoluteURL)),
	)
	return apperr.FromValidation(err)
}
