package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	domainErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// MinSigningKeyLength is the shortest HS256 key accepted, in bytes.
	MinSigningKeyLength = 32
)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Environment string
	LogLevel    string
	HTTPAddress string
	DatabaseURL string

	JWTSecretKey    string
	Issuer          string
	Audience        string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	PasswordPepper  string

	GoogleClientID string

	AllowedOrigins   []string
	AllowCredentials bool

	RateLimitRPS   int
	RateLimitBurst int
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, EnvDevelopment)
}

// envBindings maps config keys (as used in config.json) to environment variables.
// An environment variable always wins over the file.
var envBindings = map[string]string{
	"environment":           "ENVIRONMENT",
	"log.level":             "LOG_LEVEL",
	"http.address":          "HTTP_ADDRESS",
	"database.url":          "DATABASE_URL",
	"jwt.key":               "JWT_SECRET_KEY",
	"jwt.issuer":            "JWT_ISSUER",
	"jwt.audience":          "JWT_AUDIENCE",
	"jwt.accessTokenTTL":    "ACCESS_TOKEN_TTL",
	"jwt.refreshTokenTTL":   "REFRESH_TOKEN_TTL",
	"password.pepper":       "PASSWORD_PEPPER",
	"google.clientId":       "GOOGLE_CLIENT_ID",
	"cors.allowedOrigins":   "ALLOWED_ORIGINS",
	"cors.allowCredentials": "ALLOW_CREDENTIALS",
	"rateLimit.rps":         "RATE_LIMIT_RPS",
	"rateLimit.burst":       "RATE_LIMIT_BURST",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	v.SetDefault("environment", EnvProduction)
	v.SetDefault("http.address", ":8080")
	v.SetDefault("jwt.accessTokenTTL", "15m")
	v.SetDefault("jwt.refreshTokenTTL", "168h")
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("rateLimit.rps", 5)
	v.SetDefault("rateLimit.burst", 10)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Environment:      v.GetString("environment"),
		LogLevel:         v.GetString("log.level"),
		HTTPAddress:      v.GetString("http.address"),
		DatabaseURL:      v.GetString("database.url"),
		JWTSecretKey:     v.GetString("jwt.key"),
		Issuer:           v.GetString("jwt.issuer"),
		Audience:         v.GetString("jwt.audience"),
		AccessTokenTTL:   v.GetDuration("jwt.accessTokenTTL"),
		RefreshTokenTTL:  v.GetDuration("jwt.refreshTokenTTL"),
		PasswordPepper:   v.GetString("password.pepper"),
		GoogleClientID:   v.GetString("google.clientId"),
		AllowedOrigins:   stringList(v.Get("cors.allowedOrigins")),
		AllowCredentials: v.GetBool("cors.allowCredentials"),
		RateLimitRPS:     v.GetInt("rateLimit.rps"),
		RateLimitBurst:   v.GetInt("rateLimit.burst"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.JWTSecretKey == "":
		return domainErrors.NewConfiguration("JWT_SECRET_KEY is not set")
	case len(c.JWTSecretKey) < MinSigningKeyLength:
		return domainErrors.NewConfiguration(
			fmt.Sprintf("JWT_SECRET_KEY must be at least %d bytes", MinSigningKeyLength))
	case c.Issuer == "":
		return domainErrors.NewConfiguration("JWT_ISSUER is not set")
	case c.Audience == "":
		return domainErrors.NewConfiguration("JWT_AUDIENCE is not set")
	case c.DatabaseURL == "":
		return domainErrors.NewConfiguration("DATABASE_URL is not set")
	case c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0:
		return domainErrors.NewConfiguration("token TTLs must be positive")
	case c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0:
		return domainErrors.NewConfiguration("rate limit must be positive")
	}
	return nil
}

// stringList accepts both a JSON array from the file and a comma separated
// environment value.
func stringList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []any:
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
	default:
		parts = []string{fmt.Sprint(val)}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
