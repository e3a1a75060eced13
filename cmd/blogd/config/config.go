package config

import (
	"fmt"
	"time"
)

// BaseConfig is the root configuration loaded by the go-config container
type BaseConfig struct {
	Server      Server      `json:"server" yaml:"server"`
	Auth        Auth        `json:"auth" yaml:"auth"`
	Persistence Persistence `json:"persistence" yaml:"persistence"`
}

// Validate fills safe development defaults and rejects unusable values.
// Defaults for the signing secret and TTLs are flagged by the caller as
// unsafe for production.
func (c *BaseConfig) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = 8572
	}

	if c.Auth.SigningKey == "" {
		c.Auth.SigningKey = "insecure-dev-signing-key"
		c.Auth.UnsafeDefaults = append(c.Auth.UnsafeDefaults, "auth.signing_key")
	}
	if c.Auth.SigningMethod == "" {
		c.Auth.SigningMethod = "HS256"
	}
	if c.Auth.ContextKey == "" {
		c.Auth.ContextKey = "user"
	}
	if c.Auth.TokenExpiration == 0 {
		c.Auth.TokenExpiration = 1
		c.Auth.UnsafeDefaults = append(c.Auth.UnsafeDefaults, "auth.token_expiration")
	}
	if c.Auth.RefreshExpiration == 0 {
		c.Auth.RefreshExpiration = 24 * 7
		c.Auth.UnsafeDefaults = append(c.Auth.UnsafeDefaults, "auth.refresh_expiration")
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "go-blog"
	}
	if c.Auth.TokenExpiration < 0 || c.Auth.RefreshExpiration < 0 {
		return fmt.Errorf("auth token expirations must be positive, got access=%d refresh=%d",
			c.Auth.TokenExpiration, c.Auth.RefreshExpiration)
	}

	if c.Persistence.Driver == "" {
		c.Persistence.Driver = "sqlite"
	}
	if c.Persistence.DSN == "" {
		c.Persistence.DSN = "file:blog.db?cache=shared&_pragma=foreign_keys(1)"
	}
	if c.Persistence.PingTimeoutExpression == "" {
		c.Persistence.PingTimeoutExpression = "5s"
	}
	if _, err := time.ParseDuration(c.Persistence.PingTimeoutExpression); err != nil {
		return fmt.Errorf("unable to parse persistence ping timeout %q: %w",
			c.Persistence.PingTimeoutExpression, err)
	}

	return nil
}

func (c *BaseConfig) GetServer() *Server           { return &c.Server }
func (c *BaseConfig) GetAuth() *Auth               { return &c.Auth }
func (c *BaseConfig) GetPersistence() *Persistence { return &c.Persistence }

// Server holds the HTTP listener options
type Server struct {
	Port int `json:"port" yaml:"port"`
}

func (s Server) GetPort() int       { return s.Port }
func (s Server) Address() string    { return fmt.Sprintf(":%d", s.Port) }

// Auth satisfies the blog.Config interface
type Auth struct {
	SigningKey        string   `json:"signing_key" yaml:"signing_key"`
	SigningMethod     string   `json:"signing_method" yaml:"signing_method"`
	ContextKey        string   `json:"context_key" yaml:"context_key"`
	TokenExpiration   int      `json:"token_expiration" yaml:"token_expiration"`
	RefreshExpiration int      `json:"refresh_expiration" yaml:"refresh_expiration"`
	TokenLookup       string   `json:"token_lookup" yaml:"token_lookup"`
	AuthScheme        string   `json:"auth_scheme" yaml:"auth_scheme"`
	Issuer            string   `json:"issuer" yaml:"issuer"`
	Audience          []string `json:"audience" yaml:"audience"`

	// UnsafeDefaults lists fields Validate had to fill in; the server
	// logs a warning for each at startup.
	UnsafeDefaults []string `json:"-" yaml:"-"`
}

func (a *Auth) GetSigningKey() string    { return a.SigningKey }
func (a *Auth) GetSigningMethod() string { return a.SigningMethod }
func (a *Auth) GetContextKey() string    { return a.ContextKey }
func (a *Auth) GetTokenExpiration() int  { return a.TokenExpiration }
func (a *Auth) GetRefreshExpiration() int {
	return a.RefreshExpiration
}
func (a *Auth) GetTokenLookup() string { return a.TokenLookup }
func (a *Auth) GetAuthScheme() string  { return a.AuthScheme }
func (a *Auth) GetIssuer() string      { return a.Issuer }
func (a *Auth) GetAudience() []string  { return a.Audience }

// Persistence holds database options consumed by go-persistence-bun
type Persistence struct {
	Driver                string `json:"driver" yaml:"driver"`
	DSN                   string `json:"dsn" yaml:"dsn"`
	Debug                 bool   `json:"debug" yaml:"debug"`
	PingTimeoutExpression string `json:"ping_timeout" yaml:"ping_timeout"`
}

func (p Persistence) GetDriver() string { return p.Driver }
func (p Persistence) GetDSN() string    { return p.DSN }
func (p Persistence) GetDebug() bool    { return p.Debug }

// GetServer and GetOtelIdentifier satisfy go-persistence-bun's Config
// interface; the server address is carried in the DSN and otel
// instrumentation is disabled by the empty identifier.
func (p Persistence) GetServer() string         { return p.DSN }
func (p Persistence) GetOtelIdentifier() string { return "" }

func (p Persistence) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}
