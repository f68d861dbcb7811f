package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// faviconTypes lists the favicon extensions browsers accept, with their MIME types.
var faviconTypes = map[string]string{
	".ico":  "image/x-icon",
	".gif":  "image/gif",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
}

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Vault VaultConfig       `yaml:"vault"`
	Blog  BlogConfig        `yaml:"blog"`
	Site  SiteConfig        `yaml:"site"`
	Build BuildConfig       `yaml:"build"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	return c.Build.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// Env is "development" or "production". Production hides unpublished
	// notes and draft posts.
	Env  string     `yaml:"env"`
	HTTP HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Env, validation.In(EnvDevelopment, EnvProduction)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// IsProduction reports whether the production publish filters apply.
func (c *ApplicationConfig) IsProduction() bool {
	return c.Env == EnvProduction
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

// VaultConfig locates the Markdown vault.
type VaultConfig struct {
	Path string `yaml:"path"`
	// AttachmentsDir is relative to Path.
	AttachmentsDir string `yaml:"attachments_dir"`
	// Watch rebuilds the site on file changes. Ignored in production.
	Watch bool `yaml:"watch"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.AttachmentsDir, validation.Required, validation.By(relativeDir)),
	)
}

// BlogConfig locates the blog posts. An empty path disables the blog.
type BlogConfig struct {
	Path string `yaml:"path"`
}

// SiteConfig holds presentation settings shared by pages and exports.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Favicon     string `yaml:"favicon"`
	Prerender   bool   `yaml:"prerender"`
	// Pagefind defaults to Prerender when unset.
	Pagefind *bool `yaml:"pagefind"`
	PageSize int   `yaml:"page_size"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Favicon, validation.Required, validation.By(faviconExt)),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if c.PagefindEnabled() && !c.Prerender {
		return errors.New("site: pagefind search is not supported with prerendering disabled")
	}
	return nil
}

// PagefindEnabled reports whether search indexing markup is emitted.
func (c *SiteConfig) PagefindEnabled() bool {
	if c.Pagefind == nil {
		return c.Prerender
	}
	return *c.Pagefind
}

// FaviconType returns the MIME type of the configured favicon.
func (c *SiteConfig) FaviconType() string {
	return faviconTypes[faviconExtOf(c.Favicon)]
}

// BuildConfig configures static exports.
type BuildConfig struct {
	OutDir      string `yaml:"out_dir"`
	Concurrency int    `yaml:"concurrency"`
}

// Validate validates the build configuration.
func (c *BuildConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutDir, validation.Required),
		validation.Field(&c.Concurrency, validation.Min(0)),
	)
}

// faviconExtOf returns the lowercase extension of a favicon href, which may
// be an absolute URL or a site-relative path.
func faviconExtOf(href string) string {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}

func faviconExt(value any) error {
	href, _ := value.(string)
	if _, ok := faviconTypes[faviconExtOf(href)]; !ok {
		return errors.New("favicon must be a .ico, .gif, .jpg, .png, or .svg file")
	}
	return nil
}

func relativeDir(value any) error {
	dir, _ := value.(string)
	if path.IsAbs(dir) || strings.HasPrefix(path.Clean(dir), "..") {
		return errors.New("must be a directory inside the vault")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Env:      EnvDevelopment,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:           "./content/vault",
			AttachmentsDir: "attachments",
		},
		Blog: BlogConfig{
			Path: "./content/blog",
		},
		Site: SiteConfig{
			Title:     "vaultpress",
			Favicon:   "/favicon/favicon.svg",
			Prerender: true,
			PageSize:  20,
		},
		Build: BuildConfig{
			OutDir: "./dist",
		},
	}
}
