package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/inkpot-app/inkpot/internal/porter"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Session SessionConfig     `yaml:"session"`
	Import  ImportConfig      `yaml:"import"`
	Export  ExportConfig      `yaml:"export"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.Import.Validate(); err != nil {
		return err
	}
	return c.Export.Validate()
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

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// SessionConfig bounds the open-notes tracker.
type SessionConfig struct {
	MaxOpenNotes int `yaml:"max_open_notes"`
}

// Validate validates the session configuration.
func (c *SessionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxOpenNotes, validation.Required, validation.Min(1)),
	)
}

// ImportConfig holds the import merge policy and optional inbox directory.
// When InboxPath is set, files dropped there are imported automatically.
type ImportConfig struct {
	MergeStrategy      string `yaml:"merge_strategy"`
	PreserveTimestamps bool   `yaml:"preserve_timestamps"`
	InboxPath          string `yaml:"inbox_path"`
}

// Validate validates the import configuration.
func (c *ImportConfig) Validate() error {
	if c.MergeStrategy == "" {
		c.MergeStrategy = string(porter.MergeRename)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.MergeStrategy, validation.In(
			string(porter.MergeSkip),
			string(porter.MergeOverwrite),
			string(porter.MergeRename),
		)),
	)
}

// PorterConfig converts to the importer's config type.
func (c *ImportConfig) PorterConfig() porter.Config {
	return porter.Config{
		Strategy:           porter.MergeStrategy(c.MergeStrategy),
		PreserveTimestamps: c.PreserveTimestamps,
	}
}

// ExportConfig holds the export format settings.
type ExportConfig struct {
	Format      string `yaml:"format"`
	Frontmatter bool   `yaml:"frontmatter"`
}

// Validate validates the export configuration.
func (c *ExportConfig) Validate() error {
	if c.Format == "" {
		c.Format = string(porter.FormatMarkdown)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In(
			string(porter.FormatMarkdown),
			string(porter.FormatJSON),
		)),
	)
}

// PorterConfig converts to the exporter's config type.
func (c *ExportConfig) PorterConfig() porter.ExportConfig {
	return porter.ExportConfig{
		Format:      porter.Format(c.Format),
		Frontmatter: c.Frontmatter,
	}
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
		SQLite: SQLiteConfig{
			Path: "./inkpot.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Session: SessionConfig{
			MaxOpenNotes: 7,
		},
		Import: ImportConfig{
			MergeStrategy:      string(porter.MergeRename),
			PreserveTimestamps: true,
		},
		Export: ExportConfig{
			Format:      string(porter.FormatMarkdown),
			Frontmatter: true,
		},
	}
}
