package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreSQLite = "sqlite"
)

// DefaultQuota mirrors the per-origin budget a browser gives local storage.
const DefaultQuota = 5 << 20

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	KVS     KVSConfig         `yaml:"kvs"`
	Session SessionConfig     `yaml:"session"`
	Content ContentConfig     `yaml:"content"`
	Import  ImportConfig      `yaml:"import"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.KVS.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
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

// KVSConfig holds the persistent key-value store configuration.
// Quota is the total byte budget; 0 means unlimited.
type KVSConfig struct {
	Path  string `yaml:"path"`
	Quota int64  `yaml:"quota"`
}

// Validate validates the key-value store configuration.
func (c *KVSConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Quota, validation.Min(int64(0))),
	)
}

// SessionConfig holds edit session configuration.
//
// Store selects where the session snapshot lives:
//   - "memory" (default): lost on restart, like a browser tab's session storage.
//   - "sqlite": a table next to the key-value store, so an open session
//     survives a restart.
type SessionConfig struct {
	Store   string `yaml:"store"`
	Quota   int64  `yaml:"quota"`
	Trigger string `yaml:"trigger"`
}

// Validate validates the session configuration.
func (c *SessionConfig) Validate() error {
	if c.Store == "" {
		c.Store = SessionStoreMemory
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Store, validation.Required, validation.In(SessionStoreMemory, SessionStoreSQLite)),
		validation.Field(&c.Quota, validation.Min(int64(0))),
	)
}

// ContentConfig holds content store options.
type ContentConfig struct {
	SanitizeText bool `yaml:"sanitize_text"`
}

// ImportConfig holds the bundle drop directory. An empty Dir disables it.
type ImportConfig struct {
	Dir string `yaml:"dir"`
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

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		KVS: KVSConfig{
			Path:  "./folio.db",
			Quota: DefaultQuota,
		},
		Session: SessionConfig{
			Store: SessionStoreMemory,
			Quota: DefaultQuota,
		},
		Content: ContentConfig{
			SanitizeText: true,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
