package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/seokit/internal/api"
	"github.com/starford/seokit/internal/database"
	"github.com/starford/seokit/internal/models"
)

// Auth modes.
const (
	AuthModeDisabled = api.AuthModeDisabled
	AuthModeToken    = api.AuthModeToken
	AuthModeJWT      = api.AuthModeJWT
)

var (
	libsqlURLRe = regexp.MustCompile(`^(libsql|https?|wss?)://`)
	siteURLRe   = regexp.MustCompile(`^https?://[^/?#]+`)
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Database DatabaseConfig    `yaml:"database"`
	Site     SiteConfig        `yaml:"site"`
	Auth     AuthConfig        `yaml:"auth"`
	Export   ExportConfig      `yaml:"export"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Export.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DatabaseConfig selects the settings and content database. A libsql URL
// (Turso) takes precedence over the local SQLite file.
type DatabaseConfig struct {
	Path            string `yaml:"path"`
	LibSQLURL       string `yaml:"libsql_url"`
	LibSQLAuthToken string `yaml:"libsql_auth_token"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.LibSQLURL == "", validation.Required)),
		validation.Field(&c.LibSQLURL, validation.Match(libsqlURLRe).Error("must be a libsql://, http(s):// or ws(s):// URL")),
	)
}

// Options converts the section into database open options.
func (c *DatabaseConfig) Options() database.Options {
	return database.Options{
		SQLitePath:      c.Path,
		LibSQLURL:       c.LibSQLURL,
		LibSQLAuthToken: c.LibSQLAuthToken,
	}
}

// SiteConfig holds the defaults written to the settings record on first boot.
// Once the record exists these values only serve as generation fallbacks.
type SiteConfig struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&c.URL, validation.Required, validation.Match(siteURLRe).Error("must be an absolute http(s) URL")),
	)
}

// Defaults returns the bootstrap settings record.
func (c *SiteConfig) Defaults() models.GlobalSeoConfig {
	title := c.Title
	if title == "" {
		title = c.Name
	}
	return models.GlobalSeoConfig{
		SiteName:              c.Name,
		BaseURL:               c.URL,
		GlobalMetaTitle:       title,
		GlobalMetaDescription: c.Description,
	}
}

// AuthConfig holds authentication configuration for admin routes.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
//   - "jwt": HS256 Bearer JWT with role=admin; JWTSecret must be non-empty.
type AuthConfig struct {
	Mode      string `yaml:"mode"`
	Token     string `yaml:"token"`
	JWTSecret string `yaml:"jwt_secret"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken, AuthModeJWT)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	if c.Mode == AuthModeJWT && c.JWTSecret == "" {
		return fmt.Errorf("auth: mode is %q but jwt_secret is empty", AuthModeJWT)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken || c.Mode == AuthModeJWT
}

// Options converts the section into router auth options.
func (c *AuthConfig) Options() api.AuthOptions {
	return api.AuthOptions{Mode: c.Mode, Token: c.Token, JWTSecret: c.JWTSecret}
}

// ExportConfig controls static publishing of robots.txt and sitemap.xml.
// An empty Dir disables publishing from the HTTP regenerate endpoint.
type ExportConfig struct {
	Dir      string        `yaml:"dir"`
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the export configuration.
func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Database: DatabaseConfig{
			Path: "./seokit.db",
		},
		Site: SiteConfig{
			Name: "My Site",
			URL:  "http://localhost:8080",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Export: ExportConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}
