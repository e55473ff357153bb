package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// BaseConfig is the application configuration tree. It is loaded from
// config/app.json with environment overrides.
type BaseConfig struct {
	App      App      `json:"app" yaml:"app"`
	Server   Server   `json:"server" yaml:"server"`
	Auth     Auth     `json:"auth" yaml:"auth"`
	Database Database `json:"database" yaml:"database"`
}

type App struct {
	Name  string `json:"name" yaml:"name"`
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
}

type Server struct {
	Addr string `json:"addr" yaml:"addr"`
}

type Auth struct {
	SigningKey      string   `json:"signing_key" yaml:"signing_key"`
	SigningMethod   string   `json:"signing_method" yaml:"signing_method"`
	ContextKey      string   `json:"context_key" yaml:"context_key"`
	TokenExpiration int      `json:"token_expiration" yaml:"token_expiration"`
	Issuer          string   `json:"issuer" yaml:"issuer"`
	Audience        []string `json:"audience" yaml:"audience"`
	OTPTTLMinutes   int      `json:"otp_ttl_minutes" yaml:"otp_ttl_minutes"`
}

type Database struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

func (c BaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Auth),
		validation.Field(&c.Database),
	)
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required, validation.Length(32, 0)),
		validation.Field(&a.TokenExpiration, validation.Required, validation.Min(1)),
	)
}

func (d Database) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.DSN, validation.Required),
	)
}

func (c *BaseConfig) GetApp() App           { return c.App }
func (c *BaseConfig) GetServer() Server     { return c.Server }
func (c *BaseConfig) GetAuth() *Auth        { return &c.Auth }
func (c *BaseConfig) GetDatabase() Database { return c.Database }

func (a App) GetName() string  { return a.Name }
func (a App) GetEnv() string   { return a.Env }
func (a App) GetDebug() bool   { return a.Debug }
func (s Server) GetAddr() string {
	if s.Addr == "" {
		return ":8080"
	}
	return s.Addr
}

func (a *Auth) GetSigningKey() string { return a.SigningKey }

func (a *Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a *Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "auth_claims"
	}
	return a.ContextKey
}

func (a *Auth) GetTokenExpiration() int {
	if a.TokenExpiration == 0 {
		return 24
	}
	return a.TokenExpiration
}

func (a *Auth) GetIssuer() string { return a.Issuer }

func (a *Auth) GetAudience() []string { return a.Audience }

func (a *Auth) GetOTPTTLMinutes() int {
	if a.OTPTTLMinutes == 0 {
		return 5
	}
	return a.OTPTTLMinutes
}

func (d Database) GetDSN() string {
	if d.DSN == "" {
		return "file::memory:?cache=shared"
	}
	return d.DSN
}
