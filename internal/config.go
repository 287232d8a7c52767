package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/notepad/internal/notepad"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
	User   UserConfig        `yaml:"user"`
	View   ViewConfig        `yaml:"view"`
	Remote RemoteConfig      `yaml:"remote"`
	Links  LinksConfig       `yaml:"links"`
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
	if err := c.View.Validate(); err != nil {
		return fmt.Errorf("view: %w", err)
	}
	if err := c.Remote.Validate(); err != nil {
		return fmt.Errorf("remote: %w", err)
	}
	return c.Links.Validate()
}

// ValidateHost checks the settings the tui and mcp hosts need on top of
// Validate: a current user and, for the thread view, a parent record.
func (c *Config) ValidateHost() error {
	if err := c.User.Validate(); err != nil {
		return fmt.Errorf("user: %w", err)
	}
	if c.View.Variant == string(notepad.VariantThread) && c.View.ParentID == "" {
		return fmt.Errorf("view: parent_id is required for the thread view")
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives logs of the terminal UI; empty discards them.
	LogFile string     `yaml:"log_file"`
	HTTP    HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
	// EventThrottle is the minimum interval between notes.changed events.
	EventThrottle time.Duration `yaml:"event_throttle"`
	// Keepalive is the comment interval on idle event streams. Zero disables it.
	Keepalive time.Duration `yaml:"keepalive"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.EventThrottle, validation.Min(time.Duration(0))),
		validation.Field(&c.Keepalive, validation.Min(time.Duration(0))),
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
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
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

// UserConfig identifies the current user of the notepad hosts.
type UserConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Validate validates the user configuration.
func (c *UserConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ID, validation.Required),
	)
}

// ViewConfig selects the note view shown by the tui and mcp hosts.
type ViewConfig struct {
	Variant          string `yaml:"variant"`
	ParentID         string `yaml:"parent_id"`
	ParentType       string `yaml:"parent_type"`
	IncludeCompleted bool   `yaml:"include_completed"`
	MaxRecords       int    `yaml:"max_records"`
	Timezone         string `yaml:"timezone"`
}

// Validate validates the view configuration.
func (c *ViewConfig) Validate() error {
	if c.Variant == "" {
		c.Variant = string(notepad.VariantThread)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Variant, validation.In(string(notepad.VariantThread), string(notepad.VariantDashboard))),
		validation.Field(&c.MaxRecords, validation.Min(0)),
		validation.Field(&c.Timezone, validation.By(validTimezone)),
	)
}

// Location returns the configured time zone, or time.Local.
func (c *ViewConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func validTimezone(value any) error {
	tz, _ := value.(string)
	if tz == "" {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("unknown time zone %q", tz)
	}
	return nil
}

// RemoteConfig points the hosts at a running `notepad serve` instead of the
// local database. An empty BaseURL means local mode.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Enabled reports whether remote mode is configured.
func (c *RemoteConfig) Enabled() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

// Validate validates the remote configuration.
func (c *RemoteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, is.URL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// LinksConfig holds the related record link template.
type LinksConfig struct {
	RecordURL string `yaml:"record_url"`
}

// Validate validates the links configuration.
func (c *LinksConfig) Validate() error {
	if c.RecordURL != "" && !strings.Contains(c.RecordURL, "{id}") {
		return fmt.Errorf("links: record_url %q must contain {id}", c.RecordURL)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port:          8080,
				EventThrottle: 2 * time.Second,
				Keepalive:     25 * time.Second,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./notepad.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		View: ViewConfig{
			Variant:    string(notepad.VariantDashboard),
			MaxRecords: 50,
		},
		Links: LinksConfig{
			RecordURL: notepad.DefaultRecordURL,
		},
	}
}
