// Package config loads roleconn settings from roleconn.yaml, ROLECONN_*
// environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-roleconnections/pkg/declaration"
	"github.com/goliatone/go-roleconnections/pkg/metadata"
	"github.com/goliatone/go-roleconnections/pkg/oauth"
)

// EnvPrefix prefixes every environment override, e.g. ROLECONN_OAUTH_CLIENT_ID.
const EnvPrefix = "ROLECONN"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config represents the roleconn configuration.
type Config struct {
	OAuth       OAuthConfig    `mapstructure:"oauth"`
	Platform    PlatformConfig `mapstructure:"platform"`
	Declaration string         `mapstructure:"declaration"`

	// TimestampEncoding overrides the declaration's encoding when set.
	TimestampEncoding string       `mapstructure:"timestamp_encoding"`
	Server            ServerConfig `mapstructure:"server"`
	Store             StoreConfig  `mapstructure:"store"`
	Log               LogConfig    `mapstructure:"log"`
}

// OAuthConfig identifies the application.
type OAuthConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURI  string   `mapstructure:"redirect_uri"`
	Scopes       []string `mapstructure:"scopes"`
}

// PlatformConfig points the client at the platform API.
type PlatformConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	BotToken      string        `mapstructure:"bot_token"`
	Timeout       time.Duration `mapstructure:"timeout"`
	LenientValues bool          `mapstructure:"lenient_values"`
}

// ServerConfig configures the linked-role HTTP server.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	CookieSecret string        `mapstructure:"cookie_secret"`
	StateTTL     time.Duration `mapstructure:"state_ttl"`
	SuccessURL   string        `mapstructure:"success_url"`
	ValuesFile   string        `mapstructure:"values_file"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

// StoreConfig selects the token store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`

	// DSN is the SQLite data source name.
	DSN string `mapstructure:"dsn"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// LogConfig configures zerolog output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

var defaults = map[string]any{
	"oauth.client_id":         "",
	"oauth.client_secret":     "",
	"oauth.redirect_uri":      "",
	"oauth.scopes":            []string{},
	"platform.base_url":       "https://discord.com/api/v10",
	"platform.bot_token":      "",
	"platform.timeout":        10 * time.Second,
	"platform.lenient_values": false,
	"declaration":             "",
	"timestamp_encoding":      "",
	"server.addr":             ":3000",
	"server.cookie_secret":    "",
	"server.state_ttl":        10 * time.Minute,
	"server.success_url":      "https://discord.com/app",
	"server.values_file":      "",
	"server.cookie_secure":    false,
	"store.driver":            DriverMemory,
	"store.dsn":               "roleconn.db",
	"store.redis_addr":        "localhost:6379",
	"store.redis_password":    "",
	"store.redis_db":          0,
	"store.key_prefix":        "",
	"store.ttl":               time.Duration(0),
	"log.level":               "info",
	"log.pretty":              false,
}

// New returns a viper instance with defaults, the environment binding and,
// when path is empty, the roleconn.yaml lookup in the working directory.
func New(path string) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("roleconn")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags maps flags onto configuration keys. Flags missing from fs are
// skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flagName, key := range keys {
		flag := fs.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", flagName, err)
		}
	}
	return nil
}

// Load reads the configuration file if present and decodes v.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("config: store.driver must be one of memory, sqlite, redis, got %q", c.Store.Driver)
	}
	if c.TimestampEncoding != "" {
		if _, err := metadata.ParseTimestampEncoding(c.TimestampEncoding); err != nil {
			return fmt.Errorf("config: timestamp_encoding: %w", err)
		}
	}
	return nil
}

// OAuthClient returns the oauth.Config the client and server use.
func (c *Config) OAuthClient() oauth.Config {
	scopes := make([]oauth.Scope, 0, len(c.OAuth.Scopes))
	for _, s := range c.OAuth.Scopes {
		scopes = append(scopes, oauth.ParseScopes(s)...)
	}
	return oauth.Config{
		ClientID:     c.OAuth.ClientID,
		ClientSecret: c.OAuth.ClientSecret,
		RedirectURI:  c.OAuth.RedirectURI,
		Scopes:       scopes,
	}
}

// RequireDeclaration reports a missing declaration path.
func (c *Config) RequireDeclaration() error {
	if c.Declaration == "" {
		return errors.New("config: declaration is required (--declaration or ROLECONN_DECLARATION)")
	}
	return nil
}

// RequireServer checks what the linked-role server needs beyond Load.
func (c *Config) RequireServer() error {
	errs := []error{c.RequireDeclaration()}
	if err := c.OAuthClient().Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Server.CookieSecret) < 16 {
		errs = append(errs, errors.New("config: server.cookie_secret must be at least 16 bytes"))
	}
	if c.Server.StateTTL <= 0 {
		errs = append(errs, errors.New("config: server.state_ttl must be positive"))
	}
	return errors.Join(errs...)
}

// ApplyOverrides applies configuration that takes precedence over a
// declaration file.
func (c *Config) ApplyOverrides(file *declaration.File) {
	if c.TimestampEncoding != "" {
		file.TimestampEncoding = c.TimestampEncoding
	}
}
